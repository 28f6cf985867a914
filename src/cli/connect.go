// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/tls-context-builder/src/logger"
	"github.com/H0llyW00dzZ/tls-context-builder/src/strategy"
	"github.com/H0llyW00dzZ/tls-context-builder/src/tlscontext"
	x509certs "github.com/H0llyW00dzZ/tls-context-builder/src/x509/certs"
	x509chain "github.com/H0llyW00dzZ/tls-context-builder/src/x509/chain"
)

func newConnectCommand(log logger.Logger) *cobra.Command {
	var (
		flags      contextFlags
		serverName string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "connect HOST:PORT",
		Short: "Handshake with a server using the configured context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := args[0]
			if serverName == "" {
				host, _, err := net.SplitHostPort(addr)
				if err != nil {
					return err
				}
				serverName = host
			}

			// Client configs skip hostname checks; the server name is
			// checked ahead of the configured trust decision instead.
			ctx, release, err := flags.build(log, func(b *tlscontext.Builder) {
				b.WithTrustDecision(strategy.Sequence(strategy.Hostname(serverName), b.TrustDecision()))
			})
			if err != nil {
				return err
			}
			defer release()

			dialer := &tls.Dialer{
				NetDialer: &net.Dialer{Timeout: timeout},
				Config:    ctx.ClientConfig(serverName),
			}
			conn, err := dialer.DialContext(cmd.Context(), "tcp", addr)
			if err != nil {
				return fmt.Errorf("handshake with %s: %w", addr, err)
			}
			defer conn.Close()

			state := conn.(*tls.Conn).ConnectionState()
			log.Printf("connected to %s as %s", addr, serverName)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Protocol: %s\n", tls.VersionName(state.Version))
			fmt.Fprintf(out, "Cipher Suite: %s\n", tls.CipherSuiteName(state.CipherSuite))
			fmt.Fprintf(out, "Peer Certificates: %d\n\n", len(state.PeerCertificates))
			fmt.Fprint(out, x509chain.RenderTable(x509certs.WrapChain(state.PeerCertificates...)))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&serverName, "server-name", "", "server name sent in the handshake and required of the certificate (default: HOST)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "dial timeout")
	return cmd
}
