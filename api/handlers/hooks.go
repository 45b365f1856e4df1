package handlers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/meghashyamc/localdocs/logger"
)

const (
	ToolOutcomeOK    = "ok"
	ToolOutcomeError = "error"
)

// ToolObserver receives one call per finished tools/call request.
type ToolObserver func(tool string, outcome string, duration time.Duration)

// ClientRecorder keeps what clients announce during initialize.
type ClientRecorder interface {
	RecordClient(id string, clientName string, clientVersion string, protocolVersion string) error
}

// NewHooks wires session bookkeeping and tool call observation into the MCP
// server lifecycle. Either dependency may be nil.
func NewHooks(logger logger.Logger, clients ClientRecorder, observer ToolObserver) *mcpserver.Hooks {
	hooks := &mcpserver.Hooks{}

	if clients != nil {
		hooks.AddAfterInitialize(func(ctx context.Context, id any, message *mcp.InitializeRequest, result *mcp.InitializeResult) {
			clientSession := mcpserver.ClientSessionFromContext(ctx)
			if clientSession == nil || clientSession.SessionID() == "" {
				return
			}

			clientInfo := message.Params.ClientInfo
			if err := clients.RecordClient(clientSession.SessionID(), clientInfo.Name, clientInfo.Version, result.ProtocolVersion); err != nil {
				logger.Warn("could not record client info", "session_id", clientSession.SessionID(), "err", err.Error())
			}
		})
	}

	if observer != nil {
		timer := &toolCallTimer{}

		hooks.AddBeforeCallTool(func(ctx context.Context, id any, message *mcp.CallToolRequest) {
			timer.start(message)
		})

		hooks.AddAfterCallTool(func(ctx context.Context, id any, message *mcp.CallToolRequest, result any) {
			outcome := ToolOutcomeOK
			if callResult, ok := result.(*mcp.CallToolResult); ok && callResult.IsError {
				outcome = ToolOutcomeError
			}
			observer(message.Params.Name, outcome, timer.stop(message))
		})

		hooks.AddOnError(func(ctx context.Context, id any, method mcp.MCPMethod, message any, err error) {
			if method != mcp.MethodToolsCall {
				return
			}
			request, ok := message.(*mcp.CallToolRequest)
			if !ok {
				return
			}
			elapsed := timer.stop(request)
			// unknown tool names come from clients and would grow the label set
			if errors.Is(err, mcpserver.ErrToolNotFound) {
				logger.Warn("call to unknown tool", "tool", request.Params.Name)
				return
			}
			observer(request.Params.Name, ToolOutcomeError, elapsed)
		})
	}

	return hooks
}

// toolCallTimer pairs before and after hooks. The library hands both hooks the
// same request pointer.
type toolCallTimer struct {
	started sync.Map
}

func (t *toolCallTimer) start(request *mcp.CallToolRequest) {
	t.started.Store(request, time.Now())
}

func (t *toolCallTimer) stop(request *mcp.CallToolRequest) time.Duration {
	started, ok := t.started.LoadAndDelete(request)
	if !ok {
		return 0
	}

	return time.Since(started.(time.Time))
}
