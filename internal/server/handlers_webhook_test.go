package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postWebhook(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func TestHandleWebhook_AcksWithoutSubscribers(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := postWebhook(t, srv, `{"headline":"Storm warning"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"success":true,"message":"Content received and broadcasted","timestamp":"2025-03-14T09:26:53Z"}`,
		rec.Body.String())
}

func TestHandleWebhook_ArbitraryJSONShapes(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, body := range []string{
		`{}`,
		`{"nested":{"a":[1,2,3]}}`,
		`[1,2,3]`,
		`"bare string"`,
		`42`,
	} {
		rec := postWebhook(t, srv, body)
		assert.Equal(t, http.StatusOK, rec.Code, "body %q should be accepted", body)
	}
}

func TestHandleWebhook_RejectsMalformedBody(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, body := range []string{
		``,
		`{`,
		`not json`,
		`{"trailing":}`,
	} {
		rec := postWebhook(t, srv, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q should be rejected", body)
		assert.Contains(t, rec.Body.String(), `"type":"validation"`)
	}
}
