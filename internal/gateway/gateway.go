// Package gateway turns SQL text plus positional parameters into a single
// remote call and normalizes the answer into a Result. Two transports are
// provided: the Cloudflare D1 HTTP query API and any database/sql driver.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNotConfigured means connection credentials are missing.
	ErrNotConfigured = errors.New("query gateway is not configured")
	// ErrTransport means the remote store could not be reached.
	ErrTransport = errors.New("query gateway transport failure")
)

// Executor runs one statement against the remote store.
//
// A statement the store rejects comes back as Result.Success == false with
// no rows; only transport failures are returned as errors.
type Executor interface {
	Execute(ctx context.Context, query string, params ...any) (*Result, error)
	PingContext(ctx context.Context) error
	Close() error
}

// Result is the normalized shape of a statement outcome.
type Result struct {
	Rows         []Row
	Success      bool
	RowsAffected int64
	// Conflict is set when the store reported a uniqueness violation.
	Conflict bool
	Errors   []string
}

func rejected(conflict bool, msgs ...string) *Result {
	return &Result{Rows: []Row{}, Success: false, Conflict: conflict, Errors: msgs}
}

func transportError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrTransport, op, err)
}

func isUniqueMessage(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "unique constraint") || strings.Contains(m, "duplicate key")
}

// Row is one returned record keyed by column name. Lookups through the
// accessors ignore case, since stores disagree on identifier casing.
type Row map[string]any

// Value returns the column value, matching the name exactly first and then
// case-insensitively.
func (r Row) Value(name string) (any, bool) {
	if v, ok := r[name]; ok {
		return v, true
	}
	for k, v := range r {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

// String returns the first non-empty alias as a string.
func (r Row) String(names ...string) string {
	for _, name := range names {
		v, ok := r.Value(name)
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if t != "" {
				return t
			}
		case []byte:
			if len(t) > 0 {
				return string(t)
			}
		case time.Time:
			return t.UTC().Format(time.RFC3339Nano)
		default:
			return fmt.Sprint(t)
		}
	}
	return ""
}

// Int64 returns the first alias that holds a number. JSON decoding gives
// float64, drivers give int64, and some stores hand back numeric strings.
func (r Row) Int64(names ...string) int64 {
	for _, name := range names {
		v, ok := r.Value(name)
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case int64:
			return t
		case int:
			return int64(t)
		case int32:
			return int64(t)
		case float64:
			return int64(t)
		case []byte:
			if n, err := strconv.ParseInt(string(t), 10, 64); err == nil {
				return n
			}
		case string:
			if n, err := strconv.ParseInt(t, 10, 64); err == nil {
				return n
			}
		}
	}
	return 0
}
