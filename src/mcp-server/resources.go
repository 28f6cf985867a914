// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/H0llyW00dzZ/tls-context-builder/src/config"
	"github.com/H0llyW00dzZ/tls-context-builder/src/mcp-server/templates"
)

const (
	schemaURI       = "config://schema"
	storeFormatsURI = "docs://store-formats"
)

// createResources returns the static resources served alongside the tools:
// the configuration schema and the store format reference.
func createResources() []server.ServerResource {
	return []server.ServerResource{
		{
			Resource: mcp.NewResource(schemaURI, "Configuration Schema",
				mcp.WithResourceDescription("JSON Schema that TLS context configuration files are validated against"),
				mcp.WithMIMEType("application/schema+json"),
			),
			Handler: func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				return []mcp.ResourceContents{
					mcp.TextResourceContents{
						URI:      schemaURI,
						MIMEType: "application/schema+json",
						Text:     config.Schema(),
					},
				}, nil
			},
		},
		{
			Resource: mcp.NewResource(storeFormatsURI, "Store Formats",
				mcp.WithResourceDescription("Key and trust store formats accepted by the tools and the configuration"),
				mcp.WithMIMEType("text/markdown"),
			),
			Handler: func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				content, err := templates.MagicEmbed.ReadFile("store-formats.md")
				if err != nil {
					return nil, err
				}
				return []mcp.ResourceContents{
					mcp.TextResourceContents{
						URI:      storeFormatsURI,
						MIMEType: "text/markdown",
						Text:     string(content),
					},
				}, nil
			},
		},
	}
}
