// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the command-line interface for the TLS context builder.
// It implements a Cobra-based CLI that inspects certificate files, lists the
// aliases of key and trust stores, runs the configured trust decision on a
// chain and performs handshakes with a configured context.
package cli
