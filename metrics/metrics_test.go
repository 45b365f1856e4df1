package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareRecordsRoutePattern(t *testing.T) {
	assert := require.New(t)
	gin.SetMode(gin.TestMode)

	m := New()
	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/documents/:id", func(c *gin.Context) {
		c.String(http.StatusNotFound, "missing")
	})

	for _, path := range []string{"/documents/a", "/documents/b", "/nowhere"} {
		w := httptest.NewRecorder()
		req, err := http.NewRequest(http.MethodGet, path, nil)
		assert.NoError(err)
		router.ServeHTTP(w, req)
	}

	assert.Equal(float64(2), testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues(http.MethodGet, "/documents/:id", "404")))
	assert.Equal(float64(1), testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues(http.MethodGet, "unknown", "404")))
}

func TestObserveToolCall(t *testing.T) {
	assert := require.New(t)

	m := New()
	m.ObserveToolCall("search", "ok", time.Millisecond)
	m.ObserveToolCall("search", "ok", time.Millisecond)
	m.ObserveToolCall("fetch", "error", time.Millisecond)

	assert.Equal(float64(2), testutil.ToFloat64(m.toolCallsTotal.WithLabelValues("search", "ok")))
	assert.Equal(float64(1), testutil.ToFloat64(m.toolCallsTotal.WithLabelValues("fetch", "error")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	assert := require.New(t)

	m := New()
	m.ObserveToolCall("fetch", "ok", time.Millisecond)

	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, "/metrics", nil)
	assert.NoError(err)
	m.Handler().ServeHTTP(w, req)

	assert.Equal(http.StatusOK, w.Code)
	assert.True(strings.Contains(w.Body.String(), `localdocs_tool_calls_total{outcome="ok",tool="fetch"} 1`))
}
