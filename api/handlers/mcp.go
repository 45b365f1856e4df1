package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/meghashyamc/localdocs/logger"
	"github.com/meghashyamc/localdocs/services/session"
	"github.com/meghashyamc/localdocs/validation"
)

const (
	HeaderSessionID       = mcpserver.HeaderKeySessionID
	HeaderProtocolVersion = mcpserver.HeaderKeyProtocolVersion

	maxMessageBytes  = 4 << 20
	bodyPreviewBytes = 16 * 1024
)

// SessionManager is nil when the server runs stateless.
type SessionManager interface {
	mcpserver.SessionIdManager
	Check(sessionID string) error
}

type MCPOptions struct {
	Path      string
	Server    *mcpserver.MCPServer
	Sessions  SessionManager
	Validator *validation.Validator
	LogBodies bool
}

type sessionHeader struct {
	SessionID string `header:"Mcp-Session-Id" json:"session_id" validate:"valid_session_id"`
}

type mcpHandler struct {
	sessions  SessionManager
	validator *validation.Validator
	logger    logger.Logger
	logBodies bool
}

// SetupMCP mounts the streamable HTTP transport on path. Responses are always
// plain JSON since the server never opens an event stream.
func SetupMCP(router gin.IRouter, log logger.Logger, opts MCPOptions) {
	transportOptions := []mcpserver.StreamableHTTPOption{
		mcpserver.WithEndpointPath(opts.Path),
		mcpserver.WithDisableStreaming(true),
		mcpserver.WithLogger(logger.NewFormatLogger(log, "mcp")),
	}
	if opts.Sessions == nil {
		transportOptions = append(transportOptions, mcpserver.WithStateLess(true))
	} else {
		transportOptions = append(transportOptions, mcpserver.WithSessionIdManager(opts.Sessions))
	}
	transport := gin.WrapH(mcpserver.NewStreamableHTTPServer(opts.Server, transportOptions...))

	handler := &mcpHandler{
		sessions:  opts.Sessions,
		validator: opts.Validator,
		logger:    log,
		logBodies: opts.LogBodies,
	}

	router.POST(opts.Path, handler.readBody, transport)
	router.GET(opts.Path, transport)
	if opts.Sessions != nil {
		router.DELETE(opts.Path, handler.requireLiveSession, transport)
	} else {
		router.DELETE(opts.Path, handler.rejectTermination)
	}
}

// readBody enforces the message size limit and, when enabled, logs capped
// previews of the request and response bodies.
func (h *mcpHandler) readBody(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxMessageBytes))
	if err != nil {
		h.logger.Warn("could not read mcp request body", "err", err.Error())
		c.String(http.StatusRequestEntityTooLarge, "request body too large")
		c.Abort()
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	if !h.logBodies {
		c.Next()
		return
	}

	preview, truncated := capBytes(body, bodyPreviewBytes)
	h.logger.Info("mcp_request", "path", c.Request.URL.Path, "body", preview, "truncated", truncated)

	writer := &previewWriter{ResponseWriter: c.Writer, limit: bodyPreviewBytes}
	c.Writer = writer
	c.Next()

	h.logger.Info("mcp_response", "path", c.Request.URL.Path, "status", writer.Status(),
		"content_type", writer.Header().Get("Content-Type"), "body", writer.preview.String(), "truncated", writer.truncated)
}

// requireLiveSession answers DELETE requests for missing, unknown or already
// terminated sessions before they reach the transport.
func (h *mcpHandler) requireLiveSession(c *gin.Context) {
	header := sessionHeader{}
	if err := c.ShouldBindHeader(&header); err != nil || header.SessionID == "" {
		c.String(http.StatusBadRequest, "Bad Request: Missing session ID")
		c.Abort()
		return
	}

	if err := h.validator.Validate(header); err != nil {
		c.String(http.StatusNotFound, "Session not found")
		c.Abort()
		return
	}

	if err := h.sessions.Check(header.SessionID); err != nil {
		if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrTerminated) {
			c.String(http.StatusNotFound, "Session not found")
			c.Abort()
			return
		}
		h.logger.Error("session lookup failed", "err", err.Error())
		c.String(http.StatusInternalServerError, "Internal error")
		c.Abort()
		return
	}

	c.Next()
}

func (h *mcpHandler) rejectTermination(c *gin.Context) {
	c.Header("Allow", http.MethodPost)
	c.String(http.StatusMethodNotAllowed, "Method Not Allowed: session termination is not supported")
}

func capBytes(b []byte, limit int) (string, bool) {
	if len(b) <= limit {
		return string(b), false
	}
	return string(b[:limit]), true
}

type previewWriter struct {
	gin.ResponseWriter
	limit     int
	preview   bytes.Buffer
	truncated bool
}

func (w *previewWriter) Write(b []byte) (int, error) {
	w.capture(b)
	return w.ResponseWriter.Write(b)
}

func (w *previewWriter) WriteString(s string) (int, error) {
	w.capture([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

func (w *previewWriter) capture(b []byte) {
	remaining := w.limit - w.preview.Len()
	if len(b) > remaining {
		w.truncated = true
		b = b[:max(remaining, 0)]
	}
	w.preview.Write(b)
}
