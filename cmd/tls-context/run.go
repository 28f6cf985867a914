// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/H0llyW00dzZ/tls-context-builder/src/cli"
	"github.com/H0llyW00dzZ/tls-context-builder/src/logger"
	verpkg "github.com/H0llyW00dzZ/tls-context-builder/src/version"
)

var version string // set by ldflags or defaults to the version package

func init() {
	if version == "" {
		version = verpkg.Version
	}
}

func main() { os.Exit(run()) }

// run executes the command line and returns the process exit code.
func run() int {
	log := logger.NewCLILogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	// Buffered so the command goroutine never blocks after a signal.
	done := make(chan error, 1)
	go func() { done <- cli.Execute(ctx, version, log) }()

	select {
	case <-sigs:
		log.Println("\nReceived termination signal. Exiting...")
		cancel()
		return 130
	case err := <-done:
		if err != nil {
			log.Printf("Error: %v", err)
			return 1
		}
		return 0
	}
}
