// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/H0llyW00dzZ/tls-context-builder/src/logger"
	mcpserver "github.com/H0llyW00dzZ/tls-context-builder/src/mcp-server"
	verpkg "github.com/H0llyW00dzZ/tls-context-builder/src/version"
)

var version string // set by ldflags or defaults to the version package

func init() {
	if version == "" {
		version = verpkg.Version
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// stdout carries the protocol, diagnostics go to stderr.
	log := logger.NewJSONLogger(os.Stderr, false).WithComponent("mcp-server")

	if err := mcpserver.Run(ctx, version, log); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
