// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/tls-context-builder/src/logger"
	x509certs "github.com/H0llyW00dzZ/tls-context-builder/src/x509/certs"
)

func newVerifyCommand(log logger.Logger) *cobra.Command {
	var (
		flags  contextFlags
		client bool
	)

	cmd := &cobra.Command{
		Use:   "verify CHAIN",
		Short: "Run the configured trust decision on a certificate chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wrapped, err := readChain(args[0])
			if err != nil {
				return err
			}
			chain, err := x509certs.UnwrapChain(wrapped)
			if err != nil {
				return err
			}

			ctx, release, err := flags.build(log)
			if err != nil {
				return err
			}
			defer release()

			side := "server"
			check := ctx.CheckServerTrusted
			if client {
				side = "client"
				check = ctx.CheckClientTrusted
			}
			if err := check(chain); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s chain of %d certificate(s) is trusted\n", side, len(chain))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&client, "client", false, "judge the chain as a client chain")
	return cmd
}
