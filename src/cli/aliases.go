// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/tls-context-builder/src/keystore"
	x509certs "github.com/H0llyW00dzZ/tls-context-builder/src/x509/certs"
)

func newAliasesCommand() *cobra.Command {
	var (
		storeType   string
		passwordEnv string
		trust       bool
		keyUsages   []string
	)

	cmd := &cobra.Command{
		Use:   "aliases STORE",
		Short: "List the aliases of a key or trust store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			usages, err := x509certs.ParseKeyUsages(keyUsages...)
			if err != nil {
				return err
			}

			var password []byte
			if passwordEnv != "" {
				value, ok := os.LookupEnv(passwordEnv)
				if !ok {
					return fmt.Errorf("environment variable %s is not set", passwordEnv)
				}
				password = []byte(value)
			}

			var store *keystore.Store
			if trust {
				store, err = keystore.LoadTrustFile(args[0], storeType, password)
			} else {
				store, err = keystore.LoadFile(args[0], storeType, password)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(usages) == 0 {
				description, err := keystore.Describe(store)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, description)
				return nil
			}

			aliases, err := keystore.AliasesWithKeyUsage(store, usages...)
			if err != nil {
				return err
			}
			for _, alias := range aliases {
				fmt.Fprintln(out, alias)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&storeType, "type", "", "store type: PKCS12 or PEM (default: from the file extension)")
	cmd.Flags().StringVar(&passwordEnv, "password-env", "", "environment variable holding the store password")
	cmd.Flags().BoolVar(&trust, "trust", false, "load the file as a trust store")
	cmd.Flags().StringSliceVarP(&keyUsages, "key-usage", "u", nil, "only list aliases whose chain has every key usage")
	return cmd
}
