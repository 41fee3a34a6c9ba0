package api

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kalambet/lettervec/internal/source"
)

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestMCPTool_ImportText(t *testing.T) {
	imp := &mockImporter{}
	handler := mcpImportText(MCPDeps{Importer: imp, Counter: mockCounter{}})

	result, err := handler(context.Background(), makeCallToolRequest("import_text", map[string]any{
		"title":      "Memo",
		"content":    "Long-term thinking wins.",
		"year":       float64(1997),
		"source_url": "https://example.com/memo",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", toolText(t, result))
	}
	if got := toolText(t, result); got != "Stored 3 chunks" {
		t.Errorf("text = %q", got)
	}

	want := source.Document{Year: 1997, Title: "Memo", SourceURL: "https://example.com/memo", Text: "Long-term thinking wins."}
	if len(imp.docs) != 1 || imp.docs[0] != want {
		t.Errorf("docs = %+v, want %+v", imp.docs, want)
	}
}

func TestMCPTool_ImportText_Defaults(t *testing.T) {
	imp := &mockImporter{}
	handler := mcpImportText(MCPDeps{Importer: imp})

	result, _ := handler(context.Background(), makeCallToolRequest("import_text", map[string]any{
		"title":   "Memo",
		"content": "text",
	}))
	if result.IsError {
		t.Fatalf("tool error: %s", toolText(t, result))
	}
	if imp.docs[0].Year != 0 || imp.docs[0].SourceURL != "" {
		t.Errorf("optional fields = %+v", imp.docs[0])
	}
}

func TestMCPTool_ImportText_MissingArgs(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
	}{
		{"no title", map[string]any{"content": "text"}},
		{"no content", map[string]any{"title": "t"}},
		{"blank content", map[string]any{"title": "t", "content": "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imp := &mockImporter{}
			result, err := mcpImportText(MCPDeps{Importer: imp})(context.Background(), makeCallToolRequest("import_text", tt.args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.IsError {
				t.Error("expected tool error")
			}
			if len(imp.docs) != 0 {
				t.Error("importer should not be called")
			}
		})
	}
}

func TestMCPTool_ImportText_Failure(t *testing.T) {
	imp := &mockImporter{importFn: func(context.Context, source.Document) (int, error) {
		return 2, errors.New("store unavailable")
	}}
	result, _ := mcpImportText(MCPDeps{Importer: imp})(context.Background(), makeCallToolRequest("import_text", map[string]any{
		"title": "t", "content": "c",
	}))
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	if got := toolText(t, result); got != "import failed after 2 chunks: store unavailable" {
		t.Errorf("text = %q", got)
	}
}

func TestMCPTool_CountDocuments(t *testing.T) {
	result, err := mcpCountDocuments(MCPDeps{Counter: mockCounter{n: 7}})(context.Background(), makeCallToolRequest("count_documents", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError || toolText(t, result) != "7" {
		t.Errorf("result = %+v", result)
	}
}

func TestNewMCPServer_RegistersTools(t *testing.T) {
	s := NewMCPServer(MCPDeps{Importer: &mockImporter{}, Counter: mockCounter{}})
	tools := s.ListTools()
	for _, name := range []string{"import_text", "count_documents"} {
		if _, ok := tools[name]; !ok {
			t.Errorf("tool %q not registered", name)
		}
	}
}
