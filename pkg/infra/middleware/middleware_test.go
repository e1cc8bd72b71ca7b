package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	mwopts "github.com/Shreeshail-sp/docsearch/pkg/options/middleware"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/errors"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID_Generates(t *testing.T) {
	var seen string
	r := newEngine(RequestID(nil))
	r.GET("/ping", func(c *gin.Context) {
		seen = GetRequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Len(t, seen, 26, "ulid by default")
	assert.Equal(t, seen, w.Header().Get(HeaderXRequestID))
}

func TestRequestID_ReusesIncomingHeader(t *testing.T) {
	opts := mwopts.NewRequestIDOptions()
	opts.GeneratorType = mwopts.GeneratorHex

	var seen string
	r := newEngine(RequestID(opts))
	r.GET("/ping", func(c *gin.Context) {
		seen = c.GetString(ContextKeyRequestID)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderXRequestID, "client-id")
	w := serve(r, req)

	assert.Equal(t, "client-id", seen)
	assert.Equal(t, "client-id", w.Header().Get(HeaderXRequestID))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Len(t, w.Header().Get(HeaderXRequestID), 32)
}

func TestRecovery_ReturnsPanicEnvelope(t *testing.T) {
	r := newEngine(Recovery(nil), RequestID(nil))
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, errors.ErrPanic.HTTPStatus(), w.Code)
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, errors.ErrPanic.Code, resp.Code)
	assert.Contains(t, resp.Message, "kaboom")
	assert.NotEmpty(t, resp.RequestID)
}

func TestCORS(t *testing.T) {
	r := newEngine(CORS(nil))
	r.POST("/search", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name       string
		method     string
		origin     string
		wantCode   int
		wantOrigin string
	}{
		{"no origin", http.MethodPost, "", http.StatusOK, ""},
		{"simple request", http.MethodPost, "http://ui.local", http.StatusOK, "*"},
		{"preflight", http.MethodOptions, "http://ui.local", http.StatusNoContent, "*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/search", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := serve(r, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORS_RestrictedOrigins(t *testing.T) {
	opts := mwopts.NewCORSOptions()
	opts.AllowOrigins = []string{"http://allowed.local"}
	r := newEngine(CORS(opts))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://other.local")
	assert.Empty(t, serve(r, req).Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "http://allowed.local")
	w := serve(r, req)
	assert.Equal(t, "http://allowed.local", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))
}

func TestTimeout(t *testing.T) {
	opts := mwopts.NewTimeoutOptions()
	opts.Timeout = 50 * time.Millisecond

	r := newEngine(Timeout(opts))
	handler := func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		c.JSON(http.StatusOK, gin.H{"deadline": ok})
	}
	r.POST("/search", handler)
	r.POST("/upload", handler)

	w := serve(r, httptest.NewRequest(http.MethodPost, "/search", nil))
	assert.JSONEq(t, `{"deadline":true}`, w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodPost, "/upload", nil))
	assert.JSONEq(t, `{"deadline":false}`, w.Body.String())
}

func TestTimeout_DeadlineReachesHandler(t *testing.T) {
	opts := mwopts.NewTimeoutOptions()
	opts.Timeout = 10 * time.Millisecond

	var err error
	r := newEngine(Timeout(opts))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
		err = c.Request.Context().Err()
	})

	serve(r, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTracing_SetsSpanContext(t *testing.T) {
	var traceID string
	r := newEngine(Tracing(TracerName))
	r.GET("/search", func(c *gin.Context) {
		traceID = TraceID(c)
		c.Status(http.StatusOK)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/search", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, traceID, w.Header().Get(HeaderXTraceID))
}

func TestTracing_PropagatesIncomingTraceparent(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	var traceID string
	r := newEngine(Tracing(TracerName))
	r.GET("/search", func(c *gin.Context) { traceID = TraceID(c) })

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	w := serve(r, req)

	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", traceID)
	assert.Equal(t, traceID, w.Header().Get(HeaderXTraceID))
}

func TestLogger_PassesThrough(t *testing.T) {
	r := newEngine(RequestID(nil), Logger(nil))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
	assert.Equal(t, http.StatusNotFound, serve(r, httptest.NewRequest(http.MethodGet, "/missing", nil)).Code)
}

func TestChain_FollowsConfiguredOrder(t *testing.T) {
	opts := mwopts.NewOptions()
	assert.Len(t, Chain(opts), len(opts.Middleware))

	opts.ApplyOptions(mwopts.Without(mwopts.MiddlewareTracing), mwopts.Without(mwopts.MiddlewareCORS))
	assert.Len(t, Chain(opts), len(opts.Middleware))
	assert.Len(t, Chain(nil), len(mwopts.DefaultMiddlewareOrder()))
}

func TestRegisterVersionRoutes(t *testing.T) {
	r := newEngine(RequestID(nil))
	RegisterVersionRoutes(r, mwopts.NewVersionOptions())

	w := serve(r, httptest.NewRequest(http.MethodGet, "/version", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code      int             `json:"code"`
		Data      VersionResponse `json:"data"`
		RequestID string          `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Code)
	assert.NotEmpty(t, resp.Data.GoVersion)
	assert.NotEmpty(t, resp.RequestID)

	disabled := newEngine()
	RegisterVersionRoutes(disabled, &mwopts.VersionOptions{Enabled: false})
	assert.Equal(t, http.StatusNotFound, serve(disabled, httptest.NewRequest(http.MethodGet, "/version", nil)).Code)
}
