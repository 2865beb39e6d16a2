// Package mcpserver exposes JSON-to-table conversion as an MCP tool over
// stdio.
package mcpserver

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"github.com/harrison/jsontable/internal/models"
	"github.com/harrison/jsontable/internal/render"
	"github.com/harrison/jsontable/internal/service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ToolName is the name of the conversion tool.
const ToolName = "json_to_table"

// Converter runs one conversion. *service.TableService satisfies it.
type Converter interface {
	Convert(ctx context.Context, req service.Request) (*service.Result, error)
}

// Server is the MCP server for jsontable.
type Server struct {
	mcp       *server.MCPServer
	converter Converter
}

// New creates and configures a new MCP server with the conversion tool.
// File arguments are resolved by the converter, so they stay confined to
// its configured base directory.
func New(converter Converter, version string) *Server {
	s := &Server{
		converter: converter,
		mcp: server.NewMCPServer(
			"jsontable",
			version,
			server.WithToolCapabilities(true),
		),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the MCP server on stdin/stdout. It blocks until the
// client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool(ToolName,
		mcp.WithDescription("Convert JSON (an object, a list of objects or a list of lists) into a table. "+
			"Provide either inline json or a file path relative to the server's base directory."),
		mcp.WithString("json", mcp.Description("Inline JSON text")),
		mcp.WithString("file", mcp.Description("JSON file path, relative to the base directory")),
		mcp.WithBoolean("header", mcp.Description("Emit a header row of object keys (default false)")),
		mcp.WithNumber("limit", mcp.Description("Maximum data rows; 0 disables limiting; omit for the default ceiling")),
		mcp.WithString("format",
			mcp.Description("Output format (default markdown)"),
			mcp.Enum("markdown", "csv", "html", "json", "text"),
		),
	), s.handleJSONToTable)
}

func (s *Server) handleJSONToTable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	inline, _ := args["json"].(string)
	file, _ := args["file"].(string)
	switch {
	case inline == "" && file == "":
		return mcp.NewToolResultError("one of json or file is required"), nil
	case inline != "" && file != "":
		return mcp.NewToolResultError("json and file are mutually exclusive"), nil
	}

	format := render.FormatMarkdown
	if name, ok := args["format"].(string); ok && name != "" {
		f, err := render.ParseFormat(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if f != render.FormatAuto {
			format = f
		}
	}

	limit, err := limitArg(args["limit"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	header, _ := args["header"].(bool)
	request := service.Request{File: file, IncludeHeader: header, Limit: limit}
	if file == "" {
		request.Lines = []string{inline}
	}

	res, err := s.converter.Convert(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v", models.Classify(err), err)), nil
	}

	var buf bytes.Buffer
	if err := render.Write(&buf, res.Data, format); err != nil {
		return nil, fmt.Errorf("render table: %w", err)
	}

	content := []mcp.Content{mcp.TextContent{Type: "text", Text: buf.String()}}
	for _, advisory := range res.Advisories {
		content = append(content, mcp.TextContent{Type: "text", Text: "Advisory: " + advisory})
	}
	return &mcp.CallToolResult{Content: content}, nil
}

// limitArg converts the JSON number argument to an explicit limit. Absent
// means nil; fractional or negative values are rejected.
func limitArg(raw any) (*int, error) {
	if raw == nil {
		return nil, nil
	}
	f, ok := raw.(float64)
	if !ok {
		return nil, &models.InvalidLimitError{Value: fmt.Sprint(raw)}
	}
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return nil, &models.InvalidLimitError{Value: fmt.Sprint(raw)}
	}
	n := int(f)
	return &n, nil
}
