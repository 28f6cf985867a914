// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	x509certs "github.com/H0llyW00dzZ/tls-context-builder/src/x509/certs"
	x509chain "github.com/H0llyW00dzZ/tls-context-builder/src/x509/chain"
)

func newInspectCommand() *cobra.Command {
	var table, sorted bool

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the details of every certificate in a PEM, DER or PKCS#7 file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := readChain(args[0])
			if err != nil {
				return err
			}
			if sorted {
				chain = x509chain.SortByLatestExpirationFirst(chain)
			}

			out := cmd.OutOrStdout()
			for i, cert := range chain {
				details, err := x509certs.Details(cert)
				if err != nil {
					return fmt.Errorf("certificate %d: %w", i, err)
				}
				fmt.Fprintf(out, "Certificate %d:\n%s", i, details)
			}

			if table {
				fmt.Fprintln(out)
				fmt.Fprint(out, x509chain.RenderTable(chain))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&table, "table", false, "also render the chain as a table")
	cmd.Flags().BoolVar(&sorted, "sort", false, "order certificates by latest expiration first")
	return cmd
}
