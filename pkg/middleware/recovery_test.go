package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VisheshJ2007/StoreSight/pkg/logger"
)

func TestRecovery_ConvertsPanicTo500(t *testing.T) {
	buf := &bytes.Buffer{}
	l := logger.NewWithWriter("storesight", "error", buf)

	handler := Recovery(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/stores/1/overview", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	assert.Contains(t, buf.String(), "boom")
}

func TestRecovery_PassesThroughNormally(t *testing.T) {
	l := logger.NewWithWriter("storesight", "error", &bytes.Buffer{})

	handler := Recovery(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	req := httptest.NewRequest(http.MethodGet, "/stores/1/overview", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
}
