// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package keystore

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	x509certs "github.com/H0llyW00dzZ/tls-context-builder/src/x509/certs"
)

var (
	// ErrNoPrivateKey reports PEM data without a private key block.
	ErrNoPrivateKey = errors.New("keystore: no private key found")

	// ErrKeyMismatch reports a private key that does not belong to the leaf.
	ErrKeyMismatch = errors.New("keystore: private key does not match certificate")
)

// LoadPEM builds a key store from a PEM certificate chain, leaf first, and
// a PEM private key. certPEM and keyPEM may be the same combined file.
//
// An empty alias is derived from the leaf. The entry is protected by
// password.
func LoadPEM(alias string, certPEM, keyPEM, password []byte) (*Store, error) {
	certs, err := x509certs.NewCodec().DecodeMultiple(certPEM)
	if err != nil {
		return nil, fmt.Errorf("keystore: decoding certificates: %w", err)
	}

	key, err := ParsePrivateKeyPEM(keyPEM)
	if err != nil {
		return nil, err
	}
	if !publicKeyMatches(certs[0].PublicKey, key) {
		return nil, ErrKeyMismatch
	}

	if alias == "" {
		alias = AliasFor(certs[0])
	}

	store := NewStore(TypePEM)
	if err := store.SetKeyEntry(alias, key, password, x509certs.WrapChain(certs...)...); err != nil {
		return nil, err
	}
	return store, nil
}

// LoadPEMTrustStore builds a trust store from PEM, DER or PKCS#7 encoded
// certificates.
func LoadPEMTrustStore(data []byte) (*Store, error) {
	certs, err := x509certs.NewCodec().DecodeMultiple(data)
	if err != nil {
		return nil, fmt.Errorf("keystore: decoding certificates: %w", err)
	}
	return trustStoreOf(TypePEM, certs)
}

// ParsePrivateKeyPEM returns the first private key found in data. PKCS#8,
// PKCS#1 and SEC 1 encodings are accepted.
func ParsePrivateKeyPEM(data []byte) (crypto.PrivateKey, error) {
	for rest := data; ; {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			return nil, ErrNoPrivateKey
		}
		if !strings.HasSuffix(block.Type, "PRIVATE KEY") {
			continue
		}

		key, err := parsePrivateKey(block)
		if err != nil {
			return nil, fmt.Errorf("keystore: parsing %s: %w", block.Type, err)
		}
		return key, nil
	}
}

func parsePrivateKey(block *pem.Block) (crypto.PrivateKey, error) {
	switch block.Type {
	case "RSA PRIVATE KEY":
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	case "EC PRIVATE KEY":
		return x509.ParseECPrivateKey(block.Bytes)
	case "PRIVATE KEY":
		return x509.ParsePKCS8PrivateKey(block.Bytes)
	default:
		return nil, fmt.Errorf("unsupported key block %q", block.Type)
	}
}

func publicKeyMatches(pub crypto.PublicKey, key crypto.PrivateKey) bool {
	signer, ok := key.(crypto.Signer)
	if !ok {
		return false
	}
	pk, ok := pub.(interface{ Equal(crypto.PublicKey) bool })
	return ok && pk.Equal(signer.Public())
}
