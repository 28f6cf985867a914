// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package keystore

import (
	"bytes"
	"crypto/x509"
	"errors"
	"sync"
)

var (
	// ErrPKCS11 reports a failure talking to a PKCS#11 module.
	ErrPKCS11 = errors.New("keystore: pkcs11")

	// ErrPKCS11Unavailable is returned by [LoadPKCS11] in builds without cgo.
	ErrPKCS11Unavailable = errors.New("keystore: PKCS#11 support requires cgo")
)

// PKCS11Config selects a token of a PKCS#11 module.
type PKCS11Config struct {
	// ModulePath is the path to the PKCS#11 library (.so/.dylib/.dll).
	ModulePath string
	// TokenLabel selects the token by label. Empty selects the first token.
	TokenLabel string
	// Slot selects the token by slot ID and takes precedence over TokenLabel.
	Slot *uint
	// PIN logs in as the user. Key entries are protected by the same PIN.
	PIN string
}

// TokenStore is a [Store] backed by an open PKCS#11 session. Private keys
// are [crypto.Signer] values that sign on the token, so the store must stay
// open for as long as they are used.
type TokenStore struct {
	*Store

	closeOnce sync.Once
	closeErr  error
	close     func() error
}

// Close logs out and releases the module.
func (t *TokenStore) Close() error {
	t.closeOnce.Do(func() {
		if t.close != nil {
			t.closeErr = t.close()
		}
	})
	return t.closeErr
}

// buildChain orders the certificates of pool that issue leaf, transitively,
// after leaf. Self-signed roots are included when present.
func buildChain(leaf *x509.Certificate, pool []*x509.Certificate) []*x509.Certificate {
	chain := []*x509.Certificate{leaf}
	for cur := leaf; !bytes.Equal(cur.RawIssuer, cur.RawSubject); {
		next := issuerIn(cur, pool)
		if next == nil || containsCert(chain, next) {
			break
		}
		chain = append(chain, next)
		cur = next
	}
	return chain
}

func issuerIn(cert *x509.Certificate, pool []*x509.Certificate) *x509.Certificate {
	for _, c := range pool {
		if bytes.Equal(c.RawSubject, cert.RawIssuer) && cert.CheckSignatureFrom(c) == nil {
			return c
		}
	}
	return nil
}

func containsCert(chain []*x509.Certificate, cert *x509.Certificate) bool {
	for _, c := range chain {
		if c.Equal(cert) {
			return true
		}
	}
	return false
}
