// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// mcp-server serves the TLS context tools over the Model Context Protocol on
// stdio. The context is configured by the file named in TLSCTX_CONFIG_FILE.
//
//	{
//	  "mcpServers": {
//	    "tls-context": {
//	      "command": "mcp-server",
//	      "env": {"TLSCTX_CONFIG_FILE": "/etc/tls-context/config.yaml"}
//	    }
//	  }
//	}
package main
