// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/H0llyW00dzZ/tls-context-builder/src/config"
	"github.com/H0llyW00dzZ/tls-context-builder/src/logger"
	"github.com/H0llyW00dzZ/tls-context-builder/src/mcp-server/templates"
)

// toolInfo describes a tool in the server instructions.
type toolInfo struct {
	Name        string
	Description string
}

// instructionData is rendered into the instructions template.
type instructionData struct {
	ConfigEnv string
	Tools     []toolInfo
	ToolRoles map[string]string
}

// Run starts the MCP server on stdin and stdout and blocks until ctx is
// cancelled or the client disconnects.
//
// Parameters:
//   - ctx: Context whose cancellation stops the server
//   - version: Version string reported to clients (e.g., "0.1.0")
//   - log: Logger for diagnostics; it must not write to stdout
//
// Returns:
//   - error: Configuration, build or transport error
//
// Configuration:
//   - Loads the TLS context configuration from the TLSCTX_CONFIG_FILE environment variable
//   - Falls back to an empty configuration, which rejects every chain
func Run(ctx context.Context, version string, log logger.Logger) error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	tools, toolsWithConfig := createTools()
	instructions, err := loadInstructions(tools, toolsWithConfig)
	if err != nil {
		return fmt.Errorf("failed to load instructions: %w", err)
	}

	s, err := NewServerBuilder().
		WithConfig(cfg).
		WithLogger(log).
		WithVersion(version).
		WithTools(tools...).
		WithToolsWithConfig(toolsWithConfig...).
		WithResources(createResources()...).
		WithInstructions(instructions).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	return serve(ctx, s, os.Stdin, os.Stdout)
}

// serve runs s over in and out until ctx is done or the input ends.
func serve(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	stdioServer := server.NewStdioServer(s)

	errChan := make(chan error, 1)
	go func() {
		errChan <- stdioServer.Listen(ctx, in, out)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return fmt.Errorf("server shutdown: %w", ctx.Err())
	}
}

// loadInstructions renders the instructions template with the provided tools.
//
// Roles map to tool names so the template can refer to a tool by what it
// does rather than by its registered name.
func loadInstructions(tools []ToolDefinition, toolsWithConfig []ToolDefinitionWithConfig) (string, error) {
	data := instructionData{
		ConfigEnv: config.EnvConfigFile,
		ToolRoles: make(map[string]string),
	}
	add := func(tool mcp.Tool, role string) {
		data.Tools = append(data.Tools, toolInfo{Name: tool.Name, Description: tool.Description})
		if role != "" {
			data.ToolRoles[role] = tool.Name
		}
	}
	for _, tool := range tools {
		add(tool.Tool, tool.Role)
	}
	for _, tool := range toolsWithConfig {
		add(tool.Tool, tool.Role)
	}

	return templates.Render("instructions.md", data)
}
