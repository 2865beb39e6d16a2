package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrison/jsontable/internal/service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, s *Server, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = ToolName
	req.Params.Arguments = args

	res, err := s.handleJSONToTable(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func texts(res *mcp.CallToolResult) []string {
	var out []string
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			out = append(out, tc.Text)
		}
	}
	return out
}

func newServer(t *testing.T, cfg service.Config) *Server {
	t.Helper()
	return New(service.New(cfg), "test")
}

func TestInlineJSONDefaultsToMarkdown(t *testing.T) {
	s := newServer(t, service.DefaultConfig())

	res := call(t, s, map[string]any{
		"json":   `[{"name":"Alice","age":30}]`,
		"header": true,
	})
	assert.False(t, res.IsError)
	out := texts(res)
	require.Len(t, out, 1)
	assert.Equal(t, "| name | age |\n| --- | --- |\n| Alice | 30 |\n", out[0])
}

func TestFileArgumentUsesBaseDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rows.json"), []byte(`[[1,2]]`), 0644))

	cfg := service.DefaultConfig()
	cfg.BaseDir = dir
	s := newServer(t, cfg)

	res := call(t, s, map[string]any{"file": "rows.json", "format": "csv"})
	assert.False(t, res.IsError)
	assert.Equal(t, []string{"1,2\n"}, texts(res))

	res = call(t, s, map[string]any{"file": "../outside.json"})
	assert.True(t, res.IsError)
	assert.True(t, strings.HasPrefix(texts(res)[0], "path_security: "))
}

func TestArgumentValidation(t *testing.T) {
	s := newServer(t, service.DefaultConfig())

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"no source", map[string]any{}, "one of json or file is required"},
		{"both sources", map[string]any{"json": "[]", "file": "a.json"}, "mutually exclusive"},
		{"bad format", map[string]any{"json": "[]", "format": "xml"}, "unknown format"},
		{"negative limit", map[string]any{"json": "[]", "limit": float64(-1)}, "invalid row limit"},
		{"fractional limit", map[string]any{"json": "[]", "limit": 1.5}, "invalid row limit"},
		{"string limit", map[string]any{"json": "[]", "limit": "ten"}, "invalid row limit"},
		{"scalar", map[string]any{"json": "42"}, "invalid_shape: "},
		{"bad json", map[string]any{"json": "{"}, "parse: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, s, tt.args)
			assert.True(t, res.IsError)
			require.NotEmpty(t, texts(res))
			assert.Contains(t, texts(res)[0], tt.want)
		})
	}
}

func TestAdvisoryReturnedAsSecondContent(t *testing.T) {
	cfg := service.DefaultConfig()
	cfg.Limits.DefaultCeiling = 1
	s := newServer(t, cfg)

	res := call(t, s, map[string]any{"json": `[[1],[2]]`, "format": "json"})
	assert.False(t, res.IsError)
	out := texts(res)
	require.Len(t, out, 2)
	assert.JSONEq(t, `{"rows":[["1"]]}`, out[0])
	assert.True(t, strings.HasPrefix(out[1], "Advisory: Large dataset detected (2 rows)"))

	res = call(t, s, map[string]any{"json": `[[1],[2]]`, "format": "json", "limit": float64(0)})
	assert.Len(t, texts(res), 1)
	assert.JSONEq(t, `{"rows":[["1"],["2"]]}`, texts(res)[0])
}

func TestLimitArg(t *testing.T) {
	n, err := limitArg(nil)
	require.NoError(t, err)
	assert.Nil(t, n)

	n, err = limitArg(float64(25))
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, 25, *n)
}
