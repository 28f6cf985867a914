// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/tls-context-builder/src/config"
	"github.com/H0llyW00dzZ/tls-context-builder/src/internal/helper/gc"
	"github.com/H0llyW00dzZ/tls-context-builder/src/internal/helper/posix"
	"github.com/H0llyW00dzZ/tls-context-builder/src/keystore"
	"github.com/H0llyW00dzZ/tls-context-builder/src/logger"
	"github.com/H0llyW00dzZ/tls-context-builder/src/platform"
	"github.com/H0llyW00dzZ/tls-context-builder/src/tlscontext"
	x509certs "github.com/H0llyW00dzZ/tls-context-builder/src/x509/certs"
)

// Execute runs the command line with the process arguments.
func Execute(ctx context.Context, version string, log logger.Logger) error {
	return NewRootCommand(version, log).ExecuteContext(ctx)
}

// NewRootCommand builds the tls-context command tree. Diagnostics go to
// log, command output to the command's output writer.
func NewRootCommand(version string, log logger.Logger) *cobra.Command {
	log = logger.OrNop(log)

	rootCmd := &cobra.Command{
		Use:           posix.ExecutableName("tls-context"),
		Short:         "Inspect key material and TLS trust decisions",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newInspectCommand(),
		newAliasesCommand(),
		newVerifyCommand(log),
		newConnectCommand(log),
	)
	return rootCmd
}

// contextFlags locates the configuration a command builds its context from.
type contextFlags struct {
	configPath string
	trustPath  string
	protocol   string
}

func (f *contextFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "configuration file (default: $"+config.EnvConfigFile+")")
	cmd.Flags().StringVarP(&f.trustPath, "trust", "t", "", "trust store file overriding the configured one")
	cmd.Flags().StringVarP(&f.protocol, "protocol", "p", "", "protocol overriding the configured one")
}

// build returns the configured context and a function releasing the stores
// it was loaded from. Each adjust function may change the builder before
// the context is built.
func (f *contextFlags) build(log logger.Logger, adjust ...func(*tlscontext.Builder)) (*platform.Context, func() error, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, nil, err
	}
	if f.trustPath != "" {
		cfg.TrustStore = &config.Store{Path: f.trustPath}
	}
	if f.protocol != "" {
		cfg.Protocol = f.protocol
	}

	builder, release, err := cfg.Builder(log)
	if err != nil {
		return nil, nil, err
	}
	for _, fn := range adjust {
		fn(builder)
	}

	ctx, err := builder.Build()
	if err != nil {
		_ = release()
		return nil, nil, err
	}
	return ctx, release, nil
}

// readFile reads at most [keystore.MaxFileSize] bytes of path.
func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := gc.ReadAll(f, keystore.MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// readChain decodes every certificate of a PEM, DER or PKCS#7 file.
func readChain(path string) ([]x509certs.Certificate, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	chain, err := x509certs.NewCodec().DecodeChain(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return chain, nil
}
