package gateway

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/atinyakov/go-review-links/internal/metrics"

	// database/sql drivers
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverPgx    = "pgx"
	DriverSQLite = "sqlite"
)

// SQL executes statements on a database/sql handle. Queries are written
// with '?' placeholders and rebound for drivers that need '$n'.
type SQL struct {
	db     *sql.DB
	driver string
	logger *zap.Logger
}

// OpenSQL opens and pings a database.
func OpenSQL(ctx context.Context, driverName, dsn string, logger *zap.Logger) (*SQL, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: empty database DSN", ErrNotConfigured)
	}

	switch driverName {
	case DriverPgx, DriverSQLite:
	default:
		return nil, fmt.Errorf("%w: unsupported driver %q", ErrNotConfigured, driverName)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, transportError("ping", err)
	}

	if driverName == DriverSQLite {
		// one writer keeps sqlite from returning SQLITE_BUSY under load
		db.SetMaxOpenConns(1)
	}

	return NewSQL(db, driverName, logger), nil
}

// NewSQL wraps an already opened handle.
func NewSQL(db *sql.DB, driverName string, logger *zap.Logger) *SQL {
	return &SQL{
		db:     db,
		driver: driverName,
		logger: logger,
	}
}

func (s *SQL) Execute(ctx context.Context, query string, params ...any) (*Result, error) {
	q := query
	if s.driver == DriverPgx {
		q = Rebind(query)
	}

	if returnsRows(q) {
		return s.query(ctx, q, params)
	}

	res, err := s.db.ExecContext(ctx, q, params...)
	if err != nil {
		return s.fail(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return s.fail(err)
	}

	metrics.GatewayQueriesTotal.WithLabelValues(s.driver, "ok").Inc()
	return &Result{Rows: []Row{}, Success: true, RowsAffected: affected}, nil
}

func (s *SQL) query(ctx context.Context, q string, params []any) (*Result, error) {
	rows, err := s.db.QueryContext(ctx, q, params...)
	if err != nil {
		return s.fail(err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return s.fail(err)
	}

	out := make([]Row, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return s.fail(err)
		}

		row := make(Row, len(cols))
		for i, c := range cols {
			row[c] = values[i]
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return s.fail(err)
	}

	metrics.GatewayQueriesTotal.WithLabelValues(s.driver, "ok").Inc()
	return &Result{Rows: out, Success: true, RowsAffected: int64(len(out))}, nil
}

// fail sorts driver errors into transport failures and store rejections.
func (s *SQL) fail(err error) (*Result, error) {
	if isTransport(err) {
		metrics.GatewayQueriesTotal.WithLabelValues(s.driver, "transport_error").Inc()
		s.logger.Error("database connection error", zap.Error(err))
		return nil, transportError(s.driver, err)
	}

	metrics.GatewayQueriesTotal.WithLabelValues(s.driver, "rejected").Inc()
	s.logger.Error("database rejected statement", zap.Error(err))

	return rejected(isUniqueViolation(err), err.Error()), nil
}

func (s *SQL) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQL) Close() error {
	return s.db.Close()
}

func isTransport(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	return isUniqueMessage(err.Error())
}

func returnsRows(q string) bool {
	head := strings.ToUpper(strings.TrimSpace(q))
	return strings.HasPrefix(head, "SELECT") || strings.HasPrefix(head, "WITH") ||
		strings.Contains(head, " RETURNING ")
}

// Rebind rewrites '?' placeholders to '$1', '$2', ... skipping quoted text.
func Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
