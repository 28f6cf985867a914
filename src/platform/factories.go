// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package platform

import (
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/H0llyW00dzZ/tls-context-builder/src/keystore"
	"github.com/H0llyW00dzZ/tls-context-builder/src/manager"
	x509certs "github.com/H0llyW00dzZ/tls-context-builder/src/x509/certs"
)

// X509KeyManagerFactory returns a factory building one
// [manager.X509KeyManager] from every X.509 key entry of the store.
//
// Every key must be recoverable with the password; entries whose chain is
// not X.509 are skipped.
func X509KeyManagerFactory(algorithm string) KeyManagerFactory {
	return func(store keystore.KeyStore, password []byte) ([]manager.Manager, error) {
		if store == nil {
			return nil, fmt.Errorf("%w: no key store", ErrKeyMaterial)
		}

		aliases, err := store.Aliases()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrKeyMaterial, err)
		}

		var entries []manager.KeyEntry
		for _, alias := range aliases {
			isKey, err := store.IsKeyEntry(alias)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrKeyMaterial, err)
			}
			if !isKey {
				continue
			}

			key, err := store.PrivateKey(alias, password)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrKeyMaterial, err)
			}

			chain, err := store.CertificateChain(alias)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrKeyMaterial, err)
			}
			certs, err := x509certs.UnwrapChain(chain)
			if err != nil {
				if errors.Is(err, x509certs.ErrNotX509) {
					continue
				}
				return nil, fmt.Errorf("%w: %q: %w", ErrKeyMaterial, alias, err)
			}

			entries = append(entries, manager.KeyEntry{Alias: alias, Chain: certs, Key: key})
		}

		return []manager.Manager{manager.NewX509KeyManager(algorithm, entries...)}, nil
	}
}

// X509TrustManagerFactory returns a factory building one
// [manager.X509TrustManager] trusting every X.509 certificate of the store,
// including the leaves of key entries.
func X509TrustManagerFactory(algorithm string) TrustManagerFactory {
	return func(store keystore.KeyStore) ([]manager.Manager, error) {
		if store == nil {
			return nil, fmt.Errorf("%w: no trust store", ErrStore)
		}

		aliases, err := store.Aliases()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStore, err)
		}

		var anchors []*x509.Certificate
		for _, alias := range aliases {
			cert, err := store.Certificate(alias)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrStore, err)
			}
			if c, err := x509certs.Unwrap(cert); err == nil {
				anchors = append(anchors, c)
			}
		}

		return []manager.Manager{manager.NewX509TrustManager(algorithm, anchors)}, nil
	}
}
