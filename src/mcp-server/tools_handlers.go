// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/H0llyW00dzZ/tls-context-builder/src/config"
	"github.com/H0llyW00dzZ/tls-context-builder/src/internal/helper/gc"
	"github.com/H0llyW00dzZ/tls-context-builder/src/keystore"
	"github.com/H0llyW00dzZ/tls-context-builder/src/manager"
	"github.com/H0llyW00dzZ/tls-context-builder/src/platform"
	x509certs "github.com/H0llyW00dzZ/tls-context-builder/src/x509/certs"
	x509chain "github.com/H0llyW00dzZ/tls-context-builder/src/x509/chain"
)

// trustVerdict is the structured result of check_trust.
type trustVerdict struct {
	Trusted      bool   `json:"trusted"`
	Side         string `json:"side"`
	Certificates int    `json:"certificates"`
	Reason       string `json:"reason,omitempty"`
}

// handleInspectCertificate prints the details of every certificate found in
// a file or base64-encoded data.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing certificate input and output options
//
// Returns:
//   - The tool execution result containing certificate details
//   - An error is never returned; failures are reported as tool errors
func handleInspectCertificate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	certInput, err := request.RequireString("certificate")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("certificate parameter required: %v", err)), nil
	}

	chain, err := readChainInput(certInput)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if request.GetBool("sort", false) {
		chain = x509chain.SortByLatestExpirationFirst(chain)
	}

	var result strings.Builder
	for i, cert := range chain {
		details, err := x509certs.Details(cert)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("certificate %d: %v", i, err)), nil
		}
		fmt.Fprintf(&result, "Certificate %d:\n%s", i, details)
	}

	if request.GetBool("table", false) {
		result.WriteString("\n")
		result.WriteString(x509chain.RenderTable(chain))
	}
	return mcp.NewToolResultText(result.String()), nil
}

// handleListAliases lists the aliases of a key or trust store, optionally
// only those whose chain carries every requested key usage.
func handleListAliases(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("store")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("store parameter required: %v", err)), nil
	}

	usages, err := x509certs.ParseKeyUsages(request.GetStringSlice("key_usages", nil)...)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var password []byte
	if name := request.GetString("password_env", ""); name != "" {
		value, ok := os.LookupEnv(name)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("environment variable %s is not set", name)), nil
		}
		password = []byte(value)
	}

	typ := request.GetString("type", "")
	var store *keystore.Store
	if request.GetBool("trust", false) {
		store, err = keystore.LoadTrustFile(path, typ, password)
	} else {
		store, err = keystore.LoadFile(path, typ, password)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load store: %v", err)), nil
	}

	if len(usages) == 0 {
		description, err := keystore.Describe(store)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(description), nil
	}

	aliases, err := keystore.AliasesWithKeyUsage(store, usages...)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(aliases) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("no alias carries %s", x509certs.JoinKeyUsages(usages))), nil
	}
	return mcp.NewToolResultText(strings.Join(aliases, "\n")), nil
}

// handleCheckTrust builds the configured TLS context and runs its trust
// decision on a chain.
//
// A chain that is not trusted is a regular result with trusted=false; tool
// errors are reserved for unreadable input and unusable configuration.
func handleCheckTrust(ctx context.Context, request mcp.CallToolRequest, deps *ServerDependencies) (*mcp.CallToolResult, error) {
	certInput, err := request.RequireString("certificate")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("certificate parameter required: %v", err)), nil
	}

	wrapped, err := readChainInput(certInput)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	chain, err := x509certs.UnwrapChain(wrapped)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cfg := *deps.Config
	if path := request.GetString("trust_store", ""); path != "" {
		cfg.TrustStore = &config.Store{Path: path}
	}

	tlsCtx, release, err := buildContext(&cfg, deps)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer release()

	verdict := trustVerdict{Side: "server", Certificates: len(chain)}
	check := tlsCtx.CheckServerTrusted
	if request.GetBool("client", false) {
		verdict.Side = "client"
		check = tlsCtx.CheckClientTrusted
	}

	if err := check(chain); err != nil {
		if !errors.Is(err, manager.ErrUntrustedChain) {
			deps.Log.Printf("check_trust: %v", err)
		}
		verdict.Reason = err.Error()
		return mcp.NewToolResultStructured(verdict,
			fmt.Sprintf("%s chain of %d certificate(s) is not trusted: %v", verdict.Side, verdict.Certificates, err)), nil
	}

	verdict.Trusted = true
	return mcp.NewToolResultStructured(verdict,
		fmt.Sprintf("%s chain of %d certificate(s) is trusted", verdict.Side, verdict.Certificates)), nil
}

// handleDescribeContext summarizes the protocol and managers of the
// configured TLS context.
func handleDescribeContext(ctx context.Context, request mcp.CallToolRequest, deps *ServerDependencies) (*mcp.CallToolResult, error) {
	tlsCtx, release, err := buildContext(deps.Config, deps)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer release()

	protocol := tlsCtx.Protocol()
	var result strings.Builder
	fmt.Fprintf(&result, "Protocol: %s (%s to %s)\n", protocol.Name,
		tls.VersionName(protocol.MinVersion), tls.VersionName(protocol.MaxVersion))

	result.WriteString("Key Managers:\n")
	keyManagers := tlsCtx.KeyManagers()
	if len(keyManagers) == 0 {
		result.WriteString("  (none)\n")
	}
	for _, m := range keyManagers {
		km, ok := m.(manager.KeyManager)
		if !ok {
			fmt.Fprintf(&result, "  - %s\n", m.Algorithm())
			continue
		}
		fmt.Fprintf(&result, "  - %s: %s\n", km.Algorithm(), strings.Join(km.ServerAliases("", nil), ", "))
	}

	result.WriteString("Trust Managers:\n")
	trustManagers := tlsCtx.TrustManagers()
	if len(trustManagers) == 0 {
		result.WriteString("  (none, every peer chain is rejected)\n")
	}
	for _, m := range trustManagers {
		tm, ok := m.(manager.TrustManager)
		if !ok {
			fmt.Fprintf(&result, "  - %s\n", m.Algorithm())
			continue
		}
		issuers := tm.AcceptedIssuers()
		fmt.Fprintf(&result, "  - %s: %d accepted issuer(s)\n", tm.Algorithm(), len(issuers))
		for _, issuer := range issuers {
			fmt.Fprintf(&result, "      %s\n", issuer.Subject)
		}
	}
	return mcp.NewToolResultText(result.String()), nil
}

// buildContext builds the TLS context described by cfg and returns a
// function releasing the stores it was loaded from.
func buildContext(cfg *config.Config, deps *ServerDependencies) (*platform.Context, func() error, error) {
	builder, release, err := cfg.Builder(deps.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	tlsCtx, err := builder.Build()
	if err != nil {
		_ = release()
		return nil, nil, fmt.Errorf("failed to build TLS context: %w", err)
	}
	return tlsCtx, release, nil
}

// readChainInput decodes every certificate of a file path or base64-encoded
// PEM, DER or PKCS#7 data. A readable file takes precedence over base64.
func readChainInput(input string) ([]x509certs.Certificate, error) {
	data, err := readFileInput(input)
	if err != nil {
		decoded, decodeErr := base64.StdEncoding.DecodeString(strings.TrimSpace(input))
		if decodeErr != nil {
			return nil, errors.New("failed to read certificate: not a valid file path or base64 data")
		}
		data = decoded
	}

	chain, err := x509certs.NewCodec().DecodeChain(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode certificate: %w", err)
	}
	return chain, nil
}

// readFileInput reads at most [keystore.MaxFileSize] bytes of path.
func readFileInput(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := gc.ReadAll(f, keystore.MaxFileSize)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}
	return data, nil
}
