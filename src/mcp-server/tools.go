// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createTools creates and returns all MCP tool definitions with their handlers.
//
// Returns:
//   - A slice of ToolDefinition for tools without config dependencies
//   - A slice of ToolDefinitionWithConfig for tools that build a TLS context
//
// The function defines the following tools:
//   - inspect_certificate: Prints the details of certificates from a file or base64 data
//   - list_aliases: Lists the aliases of a key or trust store
//   - check_trust: Runs the configured trust decision on a certificate chain
//   - describe_context: Summarizes the managers of the configured TLS context
func createTools() ([]ToolDefinition, []ToolDefinitionWithConfig) {
	tools := []ToolDefinition{
		{
			Tool: mcp.NewTool("inspect_certificate",
				mcp.WithDescription("Print the details of every X509 certificate in a PEM, DER or PKCS#7 file or base64-encoded data"),
				mcp.WithString("certificate",
					mcp.Required(),
					mcp.Description("Certificate file path or base64-encoded certificate data"),
				),
				mcp.WithBoolean("table",
					mcp.Description("Also render the chain as a table (default: false)"),
					mcp.DefaultBool(false),
				),
				mcp.WithBoolean("sort",
					mcp.Description("Order certificates by latest expiration first (default: false)"),
					mcp.DefaultBool(false),
				),
			),
			Handler: handleInspectCertificate,
			Role:    "inspector",
		},
		{
			Tool: mcp.NewTool("list_aliases",
				mcp.WithDescription("List the aliases of a PKCS12 or PEM key or trust store"),
				mcp.WithString("store",
					mcp.Required(),
					mcp.Description("Store file path"),
				),
				mcp.WithString("type",
					mcp.Description("Store type: 'PKCS12' or 'PEM' (default: from the file extension)"),
				),
				mcp.WithString("password_env",
					mcp.Description("Environment variable holding the store password"),
				),
				mcp.WithBoolean("trust",
					mcp.Description("Load the file as a trust store (default: false)"),
					mcp.DefaultBool(false),
				),
				mcp.WithArray("key_usages",
					mcp.Description("Only list aliases whose chain carries every key usage, e.g. 'digitalSignature'"),
					mcp.WithStringItems(),
				),
			),
			Handler: handleListAliases,
			Role:    "aliasLister",
		},
	}

	toolsWithConfig := []ToolDefinitionWithConfig{
		{
			Tool: mcp.NewTool("check_trust",
				mcp.WithDescription("Run the configured trust decision on a certificate chain, as a TLS peer would"),
				mcp.WithString("certificate",
					mcp.Required(),
					mcp.Description("Chain file path or base64-encoded chain data, leaf first"),
				),
				mcp.WithBoolean("client",
					mcp.Description("Judge the chain as a client chain instead of a server chain (default: false)"),
					mcp.DefaultBool(false),
				),
				mcp.WithString("trust_store",
					mcp.Description("Trust store file overriding the configured one"),
				),
			),
			Handler: handleCheckTrust,
			Role:    "trustChecker",
		},
		{
			Tool: mcp.NewTool("describe_context",
				mcp.WithDescription("Summarize the protocol, key managers and trust managers of the configured TLS context"),
			),
			Handler: handleDescribeContext,
			Role:    "contextDescriber",
		},
	}

	return tools, toolsWithConfig
}
