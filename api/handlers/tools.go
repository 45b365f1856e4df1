package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/meghashyamc/localdocs/logger"
	"github.com/meghashyamc/localdocs/services/fetch"
	"github.com/meghashyamc/localdocs/services/search"
	"github.com/meghashyamc/localdocs/validation"
)

const (
	ToolSearch = "search"
	ToolFetch  = "fetch"
)

type SearchArguments struct {
	Query *string `json:"query" validate:"required"`
}

type FetchArguments struct {
	ID *string `json:"id" validate:"required"`
}

// Both tools only read the fixed document set.
var lookupAnnotations = []mcp.ToolOption{
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithIdempotentHintAnnotation(true),
	mcp.WithOpenWorldHintAnnotation(false),
}

func newSearchTool() mcp.Tool {
	options := append([]mcp.ToolOption{
		mcp.WithDescription("Search local documentation snippets by keyword."),
		mcp.WithString("query", mcp.Required(), mcp.Title("Query")),
	}, lookupAnnotations...)

	return mcp.NewTool(ToolSearch, options...)
}

func newFetchTool() mcp.Tool {
	options := append([]mcp.ToolOption{
		mcp.WithDescription("Fetch a full document by id."),
		mcp.WithString("id", mcp.Required(), mcp.Title("Id")),
	}, lookupAnnotations...)

	return mcp.NewTool(ToolFetch, options...)
}

type toolHandlers struct {
	searchService *search.Service
	fetchService  *fetch.Service
	validator     *validation.Validator
	logger        logger.Logger
}

// RegisterTools exposes the search and fetch services as MCP tools.
func RegisterTools(server *mcpserver.MCPServer, logger logger.Logger, searchService *search.Service, fetchService *fetch.Service, validator *validation.Validator) {
	h := &toolHandlers{
		searchService: searchService,
		fetchService:  fetchService,
		validator:     validator,
		logger:        logger,
	}

	server.AddTool(newSearchTool(), h.handleSearch)
	server.AddTool(newFetchTool(), h.handleFetch)
}

func (h *toolHandlers) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := SearchArguments{}
	if result := h.bindArguments(request, &args); result != nil {
		return result, nil
	}

	return listResult(h.searchService.Search(*args.Query))
}

func (h *toolHandlers) handleFetch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := FetchArguments{}
	if result := h.bindArguments(request, &args); result != nil {
		return result, nil
	}

	return mcp.NewToolResultJSON(h.fetchService.Fetch(*args.ID))
}

// bindArguments returns an error result the model can read when the arguments
// do not fit the tool's schema.
func (h *toolHandlers) bindArguments(request mcp.CallToolRequest, target any) *mcp.CallToolResult {
	if err := request.BindArguments(target); err != nil {
		h.logger.Warn("could not decode tool arguments", "tool", request.Params.Name, "err", err.Error())
		return mcp.NewToolResultErrorFromErr(fmt.Sprintf("Error executing tool %s: invalid arguments", request.Params.Name), err)
	}

	if err := h.validator.Validate(target); err != nil {
		return mcp.NewToolResultErrorFromErr(fmt.Sprintf("Error executing tool %s", request.Params.Name), err)
	}

	return nil
}

// listResult returns one text item per element and the whole list under
// structuredContent.result, the shape ChatGPT connectors expect for lists.
func listResult[T any](items []T) (*mcp.CallToolResult, error) {
	content := make([]mcp.Content, 0, len(items))
	for _, item := range items {
		encoded, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("failed to encode tool result: %w", err)
		}
		content = append(content, mcp.NewTextContent(string(encoded)))
	}

	return &mcp.CallToolResult{
		Content:           content,
		StructuredContent: map[string]any{"result": items},
	}, nil
}
