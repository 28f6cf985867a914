// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package keystore

import (
	"crypto/x509"
	"errors"
	"fmt"

	"software.sslmate.com/src/go-pkcs12"

	x509certs "github.com/H0llyW00dzZ/tls-context-builder/src/x509/certs"
)

// LoadPKCS12 decodes a PKCS#12 file holding one private key and its chain.
//
// The key entry is stored under the leaf's common name and protected by
// password, so the same password later recovers the key.
func LoadPKCS12(data, password []byte) (*Store, error) {
	key, leaf, caCerts, err := pkcs12.DecodeChain(data, string(password))
	if err != nil {
		return nil, pkcs12Error(err)
	}

	store := NewStore(TypePKCS12)
	chain := x509certs.WrapChain(append([]*x509.Certificate{leaf}, caCerts...)...)
	if err := store.SetKeyEntry(AliasFor(leaf), key, password, chain...); err != nil {
		return nil, err
	}
	return store, nil
}

// LoadPKCS12TrustStore decodes a PKCS#12 trust store made of certificates
// marked as trusted. Entries sharing a common name are disambiguated with
// their fingerprint.
func LoadPKCS12TrustStore(data, password []byte) (*Store, error) {
	certs, err := pkcs12.DecodeTrustStore(data, string(password))
	if err != nil {
		return nil, pkcs12Error(err)
	}
	return trustStoreOf(TypePKCS12, certs)
}

func pkcs12Error(err error) error {
	if errors.Is(err, pkcs12.ErrIncorrectPassword) {
		return fmt.Errorf("%w: %w", ErrIncorrectPassword, err)
	}
	return fmt.Errorf("keystore: decoding PKCS#12: %w", err)
}

func trustStoreOf(typ string, certs []*x509.Certificate) (*Store, error) {
	if len(certs) == 0 {
		return nil, ErrNoKeyMaterial
	}

	store := NewStore(typ)
	for _, cert := range certs {
		alias := uniqueAlias(AliasFor(cert), cert.Raw, store.Contains)
		if err := store.SetCertificateEntry(alias, x509certs.Wrap(cert)); err != nil {
			return nil, err
		}
	}
	return store, nil
}
