package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/lettervec/internal/source"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Importer DocumentImporter
	Counter  RecordCounter
	Version  string
}

// NewMCPServer creates an MCP server exposing the import tools.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	s := server.NewMCPServer(
		"lettervec",
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions("lettervec chunks text, embeds each chunk and stores the vectors for later search."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("import_text",
			mcp.WithDescription("Chunk, embed and store a document. Returns the number of stored chunks."),
			mcp.WithString("title", mcp.Required(), mcp.Description("Document title")),
			mcp.WithString("content", mcp.Required(), mcp.Description("Plain text of the document")),
			mcp.WithNumber("year", mcp.Description("Publication year")),
			mcp.WithString("source_url", mcp.Description("Where the document came from")),
		),
		mcpImportText(deps),
	)

	s.AddTool(
		mcp.NewTool("count_documents",
			mcp.WithDescription("Return the number of stored chunk records."),
		),
		mcpCountDocuments(deps),
	)

	return s
}

func mcpImportText(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, err := req.RequireString("title")
		if err != nil || strings.TrimSpace(title) == "" {
			return mcpError("title is required"), nil
		}
		content, err := req.RequireString("content")
		if err != nil || strings.TrimSpace(content) == "" {
			return mcpError("content is required"), nil
		}

		doc := source.Document{
			Year:      req.GetInt("year", 0),
			Title:     title,
			SourceURL: req.GetString("source_url", ""),
			Text:      content,
		}
		n, err := deps.Importer.ImportDocument(ctx, doc)
		if err != nil {
			return mcpError(fmt.Sprintf("import failed after %d chunks: %v", n, err)), nil
		}
		return mcpText(fmt.Sprintf("Stored %d chunks", n)), nil
	}
}

func mcpCountDocuments(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		n, err := deps.Counter.Count(ctx)
		if err != nil {
			return mcpError(fmt.Sprintf("count failed: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("%d", n)), nil
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
