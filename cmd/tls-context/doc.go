// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// tls-context inspects key material and runs the trust decisions of a TLS
// context built from a configuration file.
//
// # Installation
//
// Install with Go 1.25.5 or later:
//
//	go install github.com/H0llyW00dzZ/tls-context-builder/cmd/tls-context@latest
//
// # Usage
//
//	tls-context inspect FILE [--table] [--sort]
//	tls-context aliases STORE [--type TYPE] [--password-env NAME] [--trust] [-u USAGE]...
//	tls-context verify CHAIN [-c CONFIG] [-t TRUST_STORE] [-p PROTOCOL] [--client]
//	tls-context connect HOST:PORT [-c CONFIG] [--server-name NAME] [--timeout DURATION]
//
// The configuration file defaults to the path in TLSCTX_CONFIG_FILE. Without
// one no trust store is configured and every peer chain is rejected.
//
// # Examples
//
// List the aliases of a PKCS#12 file whose chain allows digital signatures:
//
//	SERVER_P12=changeit tls-context aliases server.p12 --password-env SERVER_P12 -u digitalSignature
//
// Check a chain against a trust store:
//
//	tls-context verify chain.pem -t ca-bundle.pem
package main
