// Common test helpers
package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/meghashyamc/localdocs/db/docstore"
	"github.com/meghashyamc/localdocs/db/kvdb"
	"github.com/meghashyamc/localdocs/logger"
	"github.com/meghashyamc/localdocs/services/fetch"
	"github.com/meghashyamc/localdocs/services/search"
	"github.com/meghashyamc/localdocs/services/session"
	"github.com/meghashyamc/localdocs/validation"
	"github.com/stretchr/testify/require"
)

const testMCPPath = "/mcp"

var defaultTestRequestHeaders = map[string]string{
	"Content-Type": "application/json",
	"Accept":       "application/json, text/event-stream",
}

type testCase struct {
	name             string
	requestHeaders   map[string]string
	requestBody      any
	queryParams      map[string]string
	expectedStatus   int
	expectedResponse string
}

func newTestLogger() logger.Logger {

	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

type testServerOptions struct {
	stateless bool
	observer  ToolObserver
}

func setupTestServer(t *testing.T, assert *require.Assertions, stateless bool) *gin.Engine {
	return setupTestServerWithOptions(t, assert, testServerOptions{stateless: stateless})
}

func setupTestServerWithOptions(t *testing.T, assert *require.Assertions, options testServerOptions) *gin.Engine {

	testLogger := newTestLogger()

	validator, err := validation.New(testLogger)
	assert.NoError(err, "could not create validator")

	store := docstore.New()
	searchService := search.New(testLogger, store)
	fetchService := fetch.New(testLogger, store)

	var sessions SessionManager
	var clients ClientRecorder
	if !options.stateless {
		kvDB, err := kvdb.New(testLogger, filepath.Join(t.TempDir(), "sessions.db"))
		assert.NoError(err, "could not create kv database")
		t.Cleanup(func() {
			assert.NoError(kvDB.Close(), "could not close kv database")
		})
		sessionService := session.New(testLogger, kvDB, validator)
		sessions = sessionService
		clients = sessionService
	}

	mcpServer := mcpserver.NewMCPServer("Local Docs MCP", "test",
		mcpserver.WithInstructions("Local development MCP server with search/fetch tools for ChatGPT connector testing."),
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithHooks(NewHooks(testLogger, clients, options.observer)),
	)
	RegisterTools(mcpServer, testLogger, searchService, fetchService, validator)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	SetupMCP(router, testLogger, MCPOptions{
		Path:      testMCPPath,
		Server:    mcpServer,
		Sessions:  sessions,
		Validator: validator,
		LogBodies: true,
	})
	SetupSearch(router, testLogger, searchService)
	SetupFetch(router, testLogger, fetchService)

	return router
}

func makeTestHTTPRequest(router *gin.Engine, assert *require.Assertions, method string, endpoint string, headers map[string]string, requestBody any, queryParams map[string]string) *httptest.ResponseRecorder {

	w := httptest.NewRecorder()

	if len(queryParams) > 0 {
		values := url.Values{}
		for key, value := range queryParams {
			values.Set(key, value)
		}
		endpoint = endpoint + "?" + values.Encode()
	}

	var body []byte
	switch typedBody := requestBody.(type) {
	case nil:
	case string:
		body = []byte(typedBody)
	default:
		var err error
		body, err = json.Marshal(typedBody)
		assert.NoError(err)
	}

	slog.Info("Making test request", "method", method, "endpoint", endpoint, "headers", headers, "body", string(body))

	req, err := http.NewRequest(method, endpoint, bytes.NewBuffer(body))
	assert.NoError(err)

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	router.ServeHTTP(w, req)

	return w
}

func withHeaders(headers map[string]string, extra map[string]string) map[string]string {
	merged := map[string]string{}
	for key, value := range headers {
		merged[key] = value
	}
	for key, value := range extra {
		merged[key] = value
	}
	return merged
}

func decodeJSON(assert *require.Assertions, data []byte) map[string]any {
	decoded := map[string]any{}
	assert.NoError(json.Unmarshal(data, &decoded), "could not decode response %s", string(data))
	return decoded
}

func encodeJSON(assert *require.Assertions, v any) string {
	encoded, err := json.Marshal(v)
	assert.NoError(err)
	return string(encoded)
}
