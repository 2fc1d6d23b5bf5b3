package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	err := WriteJSON(rec, http.StatusOK, map[string]string{"status": "success"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"success"}`, rec.Body.String())
}

func TestWriteJSON_NilBody(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, http.StatusOK, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestWriteError_CodeFollowsStatus(t *testing.T) {
	tests := []struct {
		status   int
		wantCode string
	}{
		{http.StatusBadRequest, "bad_request"},
		{http.StatusUnauthorized, "unauthorized"},
		{http.StatusNotFound, "not_found"},
		{http.StatusTooManyRequests, "rate_limit_exceeded"},
		{http.StatusBadGateway, "bad_gateway"},
		{http.StatusServiceUnavailable, "service_unavailable"},
		{http.StatusInternalServerError, "internal_error"},
		{http.StatusTeapot, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			rec := httptest.NewRecorder()
			require.NoError(t, WriteError(rec, tt.status, "something went wrong", nil))

			assert.Equal(t, tt.status, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, resp.Error)
			assert.Equal(t, "something went wrong", resp.Message)
		})
	}
}

func TestWriteBadRequest_Details(t *testing.T) {
	rec := httptest.NewRecorder()
	err := WriteBadRequest(rec, "days_old must be between 1 and 90", map[string]interface{}{
		"field": "days_old",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "bad_request", resp.Error)
	assert.Equal(t, "days_old", resp.Details["field"])
}

func TestWriteHelpers_DefaultMessages(t *testing.T) {
	tests := []struct {
		name        string
		write       func(w http.ResponseWriter) error
		wantStatus  int
		wantMessage string
	}{
		{"unauthorized", func(w http.ResponseWriter) error { return WriteUnauthorized(w, "") },
			http.StatusUnauthorized, "Authentication required"},
		{"not found", func(w http.ResponseWriter) error { return WriteNotFound(w, "") },
			http.StatusNotFound, "Resource not found"},
		{"too many requests", func(w http.ResponseWriter) error { return WriteTooManyRequests(w, "", nil) },
			http.StatusTooManyRequests, "Rate limit exceeded"},
		{"internal", func(w http.ResponseWriter) error { return WriteInternalServerError(w, "") },
			http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			require.NoError(t, tt.write(rec))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMessage, decodeError(t, rec).Message)
		})
	}
}

func TestWriteNotFound_CustomMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteNotFound(rec, "job not found in cache"))

	resp := decodeError(t, rec)
	assert.Equal(t, "not_found", resp.Error)
	assert.Equal(t, "job not found in cache", resp.Message)
}
