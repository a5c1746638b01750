package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/redhat/swagdoc-mcp-golang/internal/annotation"
	"github.com/redhat/swagdoc-mcp-golang/internal/config"
	"github.com/redhat/swagdoc-mcp-golang/internal/openapi"
)

// SwagdocMCPServer exposes the generator as MCP tools
type SwagdocMCPServer struct {
	fs        afero.Fs
	cfg       *config.Config
	mcpServer *server.MCPServer
}

// NewSwagdocMCPServer creates a new MCP server using cfg as the base configuration
func NewSwagdocMCPServer(fs afero.Fs, cfg *config.Config) *SwagdocMCPServer {
	return &SwagdocMCPServer{
		fs:  fs,
		cfg: cfg,
		mcpServer: server.NewMCPServer(
			"swagdoc-mcp",
			"1.0.0",
			server.WithToolCapabilities(false),
		),
	}
}

// toolHandler pairs a tool definition with its handler
type toolHandler struct {
	tool    mcp.Tool
	handler server.ToolHandlerFunc
}

// tools returns every tool served by the MCP server
func (s *SwagdocMCPServer) tools() []toolHandler {
	return []toolHandler{
		{
			tool: mcp.NewTool("swagdoc_generate_source",
				mcp.WithDescription("Generate an OpenAPI 3 document from swag-style annotations in the given source text"),
				mcp.WithString("source",
					mcp.Required(),
					mcp.Description("Full text of one source file"),
				),
				mcp.WithString("file",
					mcp.Description("Label of the source file, used in diagnostics"),
				),
				mcp.WithString("format",
					mcp.Description("Output format"),
					mcp.Enum(openapi.FormatYAML, openapi.FormatJSON),
				),
			),
			handler: s.handleGenerateSource,
		},
		{
			tool: mcp.NewTool("swagdoc_generate_dir",
				mcp.WithDescription("Generate an OpenAPI 3 document from the annotated source files of a directory"),
				mcp.WithString("dir",
					mcp.Description(fmt.Sprintf("Directory to scan (default %q)", s.cfg.Source.Dir)),
				),
				mcp.WithString("format",
					mcp.Description("Output format"),
					mcp.Enum(openapi.FormatYAML, openapi.FormatJSON),
				),
			),
			handler: s.handleGenerateDir,
		},
		{
			tool: mcp.NewTool("swagdoc_parse_block",
				mcp.WithDescription("Parse one annotation comment block and return the endpoint description as JSON"),
				mcp.WithString("comment",
					mcp.Required(),
					mcp.Description("Comment lines, one annotation per line"),
				),
			),
			handler: s.handleParseBlock,
		},
	}
}

// configFor copies the base configuration and applies per-call arguments
func (s *SwagdocMCPServer) configFor(arguments map[string]any) (*config.Config, error) {
	// Work on a copy, the base config is shared by every call
	cfg := *s.cfg
	if format, ok := stringArgument(arguments, "format"); ok {
		cfg.Output.Format = format
	}
	if dir, ok := stringArgument(arguments, "dir"); ok {
		cfg.Source.Dir = dir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *SwagdocMCPServer) handleGenerateSource(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.GetArguments()

	// Extract the source text and an optional file label
	text, ok := stringArgument(arguments, "source")
	if !ok {
		return mcp.NewToolResultError("Missing required argument: source"), nil
	}
	file, ok := stringArgument(arguments, "file")
	if !ok {
		file = "source.go"
	}

	cfg, err := s.configFor(arguments)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %s", err.Error())), nil
	}

	// Build the document from this one file only, nothing is read from disk
	gen := NewGenerator(s.fs, cfg)
	n := gen.CollectSource(file, text)
	gen.Build()
	data, err := gen.Render()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Generation failed: %s", err.Error())), nil
	}

	log.Debug().Str("file", file).Int("endpoints", n).Msg("generated document from source text")

	// Return the rendered document as text
	return mcp.NewToolResultText(string(data)), nil
}

func (s *SwagdocMCPServer) handleGenerateDir(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// The dir argument replaces the configured source directory
	cfg, err := s.configFor(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %s", err.Error())), nil
	}

	// Run the full pipeline but leave the output file untouched
	data, err := NewGenerator(s.fs, cfg).Generate(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Generation failed: %s", err.Error())), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *SwagdocMCPServer) handleParseBlock(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	comment, ok := stringArgument(request.GetArguments(), "comment")
	if !ok {
		return mcp.NewToolResultError("Missing required argument: comment"), nil
	}

	// Parse the lines as a single block, no function declaration required
	endpoint, ok := annotation.Parse(splitLines(comment))
	if !ok {
		return mcp.NewToolResultError("No recognized annotation in comment block"), nil
	}

	// Return the endpoint description as JSON
	data, err := json.MarshalIndent(endpoint, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode endpoint: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// Start registers the tools and serves MCP over stdio
func (s *SwagdocMCPServer) Start() error {
	tools := s.tools()
	for _, t := range tools {
		s.mcpServer.AddTool(t.tool, t.handler)
	}
	log.Info().Int("tools", len(tools)).Msg("serving MCP over stdio")

	return server.ServeStdio(s.mcpServer)
}

func stringArgument(arguments map[string]any, name string) (string, bool) {
	value, exists := arguments[name]
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	if !ok || str == "" {
		return "", false
	}
	return str, true
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
