// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package keystore

import (
	"fmt"

	"github.com/H0llyW00dzZ/tls-context-builder/src/internal/helper/gc"
	x509certs "github.com/H0llyW00dzZ/tls-context-builder/src/x509/certs"
	x509chain "github.com/H0llyW00dzZ/tls-context-builder/src/x509/chain"
)

// AliasesWithKeyUsage returns the sorted aliases whose chain exposes every
// usage in usages. Entries that cannot be inspected are skipped.
func AliasesWithKeyUsage(store KeyStore, usages ...x509certs.KeyUsage) ([]string, error) {
	aliases, err := store.Aliases()
	if err != nil {
		return nil, err
	}

	var matched []string
	for _, alias := range aliases {
		chain, err := chainOf(store, alias)
		if err != nil {
			continue
		}
		if ok, err := x509chain.HasAllKeyUsages(chain, usages...); err == nil && ok {
			matched = append(matched, alias)
		}
	}
	return matched, nil
}

// Describe renders a human readable listing of the store with the details
// of each entry's certificate.
func Describe(store KeyStore) (string, error) {
	aliases, err := store.Aliases()
	if err != nil {
		return "", err
	}
	if len(aliases) == 0 {
		return "keystore is empty", nil
	}

	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	fmt.Fprintf(buf, "keystore contains %d alias(es)\n", len(aliases))
	for i, alias := range aliases {
		fmt.Fprintf(buf, "\t%d. %s - ", i+1, alias)

		cert, err := store.Certificate(alias)
		if err == nil {
			var details string
			if details, err = x509certs.Details(cert); err == nil {
				buf.WriteString(details)
			}
		}
		if err != nil {
			fmt.Fprintf(buf, "<%v>\n", err)
		}
	}
	return buf.String(), nil
}

// chainOf returns the chain of a key entry, or the single certificate of a
// trusted certificate entry.
func chainOf(store KeyStore, alias string) ([]x509certs.Certificate, error) {
	chain, err := store.CertificateChain(alias)
	if err != nil {
		return nil, err
	}
	if len(chain) > 0 {
		return chain, nil
	}

	cert, err := store.Certificate(alias)
	if err != nil {
		return nil, err
	}
	return []x509certs.Certificate{cert}, nil
}
