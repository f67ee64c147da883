package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/go-review-links/internal/metrics"
)

// DefaultD1BaseURL is the Cloudflare API root.
const DefaultD1BaseURL = "https://api.cloudflare.com/client/v4"

// D1Config carries the credentials of a D1 database.
type D1Config struct {
	AccountID  string
	DatabaseID string
	APIToken   string
	BaseURL    string
}

// D1 executes statements through the D1 HTTP query endpoint.
type D1 struct {
	url    string
	token  string
	client *http.Client
	logger *zap.Logger
}

type d1Request struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params"`
}

type d1Message struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type d1Response struct {
	Success bool        `json:"success"`
	Errors  []d1Message `json:"errors"`
	Result  []struct {
		Results []map[string]any `json:"results"`
		Success bool             `json:"success"`
		Meta    struct {
			Changes int64 `json:"changes"`
		} `json:"meta"`
	} `json:"result"`
}

// NewD1 builds a D1 executor. All three credentials are required.
func NewD1(cfg D1Config, client *http.Client, logger *zap.Logger) (*D1, error) {
	var missing []string
	if cfg.AccountID == "" {
		missing = append(missing, "CF_ACCOUNT_ID")
	}
	if cfg.DatabaseID == "" {
		missing = append(missing, "CF_DATABASE_ID")
	}
	if cfg.APIToken == "" {
		missing = append(missing, "CF_API_TOKEN")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrNotConfigured, strings.Join(missing, ", "))
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultD1BaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &D1{
		url:    fmt.Sprintf("%s/accounts/%s/d1/database/%s/query", base, cfg.AccountID, cfg.DatabaseID),
		token:  cfg.APIToken,
		client: client,
		logger: logger,
	}, nil
}

// Execute sends one statement. There is no retry.
func (d *D1) Execute(ctx context.Context, query string, params ...any) (*Result, error) {
	if params == nil {
		params = []any{}
	}

	body, err := json.Marshal(d1Request{SQL: query, Params: params})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+d.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		metrics.GatewayQueriesTotal.WithLabelValues("d1", "transport_error").Inc()
		d.logger.Error("D1 connection error", zap.Error(err))
		return nil, transportError("d1 request", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		metrics.GatewayQueriesTotal.WithLabelValues("d1", "transport_error").Inc()
		return nil, transportError("d1 read body", err)
	}

	var data d1Response
	if err := json.Unmarshal(raw, &data); err != nil {
		metrics.GatewayQueriesTotal.WithLabelValues("d1", "transport_error").Inc()
		d.logger.Error("D1 returned an undecodable body",
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		return nil, transportError("d1 decode", err)
	}

	if !data.Success {
		msgs := make([]string, 0, len(data.Errors))
		conflict := false
		for _, e := range data.Errors {
			msgs = append(msgs, e.Message)
			conflict = conflict || isUniqueMessage(e.Message)
		}
		metrics.GatewayQueriesTotal.WithLabelValues("d1", "rejected").Inc()
		d.logger.Error("D1 error",
			zap.Int("status", resp.StatusCode),
			zap.Strings("errors", msgs),
		)
		return rejected(conflict, msgs...), nil
	}

	metrics.GatewayQueriesTotal.WithLabelValues("d1", "ok").Inc()

	res := &Result{Rows: []Row{}, Success: true}
	if len(data.Result) == 0 {
		return res, nil
	}

	first := data.Result[0]
	for _, r := range first.Results {
		res.Rows = append(res.Rows, Row(r))
	}
	res.RowsAffected = first.Meta.Changes

	return res, nil
}

// PingContext runs a trivial statement.
func (d *D1) PingContext(ctx context.Context) error {
	res, err := d.Execute(ctx, "SELECT 1")
	if err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("d1 ping rejected: %s", strings.Join(res.Errors, "; "))
	}
	return nil
}

// Close releases idle connections.
func (d *D1) Close() error {
	d.client.CloseIdleConnections()
	return nil
}
