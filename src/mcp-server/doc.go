// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package mcpserver exposes the TLS context over the Model Context Protocol
// ([MCP]) on stdio.
//
// The tools let a client inspect certificates, list store aliases and ask
// whether the configured trust decision accepts a chain, without performing
// a handshake. The server is assembled with [ServerBuilder]; [Run] wires the
// default tools to the configuration named by TLSCTX_CONFIG_FILE.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
package mcpserver
