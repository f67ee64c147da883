package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testD1URL = "https://d1.test/client/v4/accounts/acc/d1/database/db/query"

func newTestD1(t *testing.T) (*D1, *httpmock.MockTransport) {
	t.Helper()

	transport := httpmock.NewMockTransport()
	d, err := NewD1(D1Config{
		AccountID:  "acc",
		DatabaseID: "db",
		APIToken:   "tok",
		BaseURL:    "https://d1.test/client/v4/",
	}, &http.Client{Transport: transport}, zap.NewNop())
	require.NoError(t, err)

	return d, transport
}

func TestNewD1_MissingCredentials(t *testing.T) {
	tests := []struct {
		name string
		cfg  D1Config
	}{
		{"no account", D1Config{DatabaseID: "db", APIToken: "tok"}},
		{"no database", D1Config{AccountID: "acc", APIToken: "tok"}},
		{"no token", D1Config{AccountID: "acc", DatabaseID: "db"}},
		{"nothing", D1Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewD1(tt.cfg, nil, zap.NewNop())
			assert.Nil(t, d)
			assert.ErrorIs(t, err, ErrNotConfigured)
		})
	}
}

func TestD1_ExecuteSuccess(t *testing.T) {
	d, transport := newTestD1(t)

	transport.RegisterResponder(http.MethodPost, testD1URL,
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

			var body d1Request
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			assert.Equal(t, "SELECT * FROM links WHERE slug = ? LIMIT 1", body.SQL)
			assert.Equal(t, []any{"abc"}, body.Params)

			return httpmock.NewStringResponse(http.StatusOK, `{
				"success": true,
				"errors": [],
				"result": [{
					"success": true,
					"results": [{"ID": "1", "businessname": "Acme", "rating": 4}],
					"meta": {"changes": 0}
				}]
			}`), nil
		})

	res, err := d.Execute(context.Background(), "SELECT * FROM links WHERE slug = ? LIMIT 1", "abc")
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Len(t, res.Rows, 1)

	row := res.Rows[0]
	assert.Equal(t, "1", row.String("id"))
	assert.Equal(t, "Acme", row.String("businessName"))
	assert.Equal(t, int64(4), row.Int64("rating"))
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestD1_ExecuteChanges(t *testing.T) {
	d, transport := newTestD1(t)

	transport.RegisterResponder(http.MethodPost, testD1URL,
		httpmock.NewStringResponder(http.StatusOK, `{"success":true,"result":[{"results":[],"meta":{"changes":1}}]}`))

	res, err := d.Execute(context.Background(), "DELETE FROM links WHERE id = ?", "x")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, int64(1), res.RowsAffected)
	assert.Empty(t, res.Rows)
}

func TestD1_ExecuteRejected(t *testing.T) {
	d, transport := newTestD1(t)

	transport.RegisterResponder(http.MethodPost, testD1URL,
		httpmock.NewStringResponder(http.StatusBadRequest, `{
			"success": false,
			"errors": [{"code": 7500, "message": "UNIQUE constraint failed: links.slug"}],
			"result": []
		}`))

	res, err := d.Execute(context.Background(), "INSERT INTO links (id) VALUES (?)", "x")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.True(t, res.Conflict)
	assert.Empty(t, res.Rows)
	assert.Equal(t, []string{"UNIQUE constraint failed: links.slug"}, res.Errors)
}

func TestD1_ExecuteTransportFailure(t *testing.T) {
	d, transport := newTestD1(t)

	transport.RegisterResponder(http.MethodPost, testD1URL,
		httpmock.NewErrorResponder(errors.New("dial tcp: lookup d1.test: no such host")))

	res, err := d.Execute(context.Background(), "SELECT 1")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestD1_ExecuteUndecodableBody(t *testing.T) {
	d, transport := newTestD1(t)

	transport.RegisterResponder(http.MethodPost, testD1URL,
		httpmock.NewStringResponder(http.StatusBadGateway, `<html>bad gateway</html>`))

	_, err := d.Execute(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestD1_PingContext(t *testing.T) {
	d, transport := newTestD1(t)

	transport.RegisterResponder(http.MethodPost, testD1URL,
		httpmock.NewStringResponder(http.StatusOK, `{"success":true,"result":[{"results":[{"1":1}],"meta":{}}]}`))

	assert.NoError(t, d.PingContext(context.Background()))
	assert.NoError(t, d.Close())
}
