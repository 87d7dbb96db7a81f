package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupRouter(h *HealthHandler) *gin.Engine {
	r := gin.New()
	r.Any("/healthz", h.Live)
	r.GET("/readyz", h.Ready)
	return r
}

func TestHealthHandler_Live(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method         string
		expectedStatus int
		expectedBody   string
	}{
		{http.MethodGet, http.StatusOK, `{"status":"ok"}`},
		{http.MethodHead, http.StatusOK, ""},
		{http.MethodOptions, http.StatusNoContent, ""},
		{http.MethodPost, http.StatusOK, `{"status":"ok"}`},
		{http.MethodDelete, http.StatusOK, `{"status":"ok"}`},
	}

	router := setupRouter(NewHealthHandler(nil))

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, "/healthz", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
			if tt.expectedBody == "" {
				assert.Zero(t, w.Body.Len())
			} else {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestHealthHandler_Ready(t *testing.T) {
	t.Parallel()

	ok := func(ctx context.Context) error {
		if _, has := ctx.Deadline(); !has {
			return errors.New("no deadline")
		}
		return nil
	}
	down := func(ctx context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name           string
		checks         map[string]Check
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "no checks",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"ok","checks":{}}`,
		},
		{
			name:           "all healthy",
			checks:         map[string]Check{"db": ok, "redis": ok},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"ok","checks":{"db":"ok","redis":"ok"}}`,
		},
		{
			name:           "redis down",
			checks:         map[string]Check{"db": ok, "redis": down},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"status":"unavailable","checks":{"db":"ok","redis":"connection refused"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := setupRouter(NewHealthHandler(tt.checks))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
