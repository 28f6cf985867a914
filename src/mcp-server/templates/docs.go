// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package templates provides embedded filesystem access for MCP server template files.
// It holds the server instructions template and the store format reference
// served as a resource.
//
// Example usage:
//
//	import "github.com/H0llyW00dzZ/tls-context-builder/src/mcp-server/templates"
//
//	// Read the store format reference
//	content, err := templates.MagicEmbed.ReadFile("store-formats.md")
//	if err != nil {
//		return fmt.Errorf("failed to read store formats: %w", err)
//	}
package templates
