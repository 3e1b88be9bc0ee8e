package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPDeps holds dependencies for the MCP admin surface.
type MCPDeps struct {
	Store FeedbackReader
}

// NewMCPServer exposes stored feedback to MCP-capable admin tooling.
// Read-only on purpose: feedback records are append-only and nothing
// outside the conversation flow may create them.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"feedbot",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("feedbot — anonymized employee feedback collected over chat."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("list_feedback",
			mcp.WithDescription("List stored feedback records, most recent first."),
			mcp.WithNumber("limit", mcp.Description("Maximum number of records (default 10)")),
		),
		mcpListFeedback(deps),
	)

	s.AddTool(
		mcp.NewTool("feedback_stats",
			mcp.WithDescription("Return the total number of stored feedback records."),
		),
		mcpFeedbackStats(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"feedback://recent",
			"Recent Feedback",
			mcp.WithResourceDescription("Last 10 feedback records as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceRecent(deps),
	)

	return s
}

func mcpListFeedback(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 10)
		if limit <= 0 {
			limit = 10
		}
		if limit > 100 {
			limit = 100
		}

		records, err := deps.Store.ListFeedback(limit)
		if err != nil {
			return mcpError(fmt.Sprintf("listing feedback failed: %v", err)), nil
		}
		if len(records) == 0 {
			return mcpText("[]"), nil
		}

		out := make([]feedbackJSON, len(records))
		for i, rec := range records {
			out[i] = toJSON(rec)
		}
		b, err := json.Marshal(out)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal records: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpFeedbackStats(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		count, err := deps.Store.CountFeedback()
		if err != nil {
			return mcpError(fmt.Sprintf("counting feedback failed: %v", err)), nil
		}
		return mcpText(fmt.Sprintf(`{"count":%d}`, count)), nil
	}
}

func mcpResourceRecent(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		records, err := deps.Store.ListFeedback(10)
		if err != nil {
			return nil, fmt.Errorf("listing feedback: %w", err)
		}

		out := make([]feedbackJSON, len(records))
		for i, rec := range records {
			out[i] = toJSON(rec)
		}
		b, err := json.Marshal(out)
		if err != nil {
			return nil, fmt.Errorf("marshalling records: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
