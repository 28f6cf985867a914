// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package keystore

import (
	"crypto/x509"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/H0llyW00dzZ/tls-context-builder/src/internal/helper/pkitest"
)

func TestBuildChain(t *testing.T) {
	root := pkitest.NewAuthority(t, "Token Root")
	intermediate := root.Issue(t, pkitest.Options{CommonName: "Token Intermediate", IsCA: true, KeyUsage: x509.KeyUsageCertSign})
	leaf := intermediate.Issue(t, pkitest.Options{CommonName: "token leaf"})
	unrelated := pkitest.NewAuthority(t, "Unrelated")

	chain := buildChain(leaf.Cert, []*x509.Certificate{unrelated.Cert, root.Cert, leaf.Cert, intermediate.Cert})
	if assert.Len(t, chain, 3) {
		assert.True(t, chain[0].Equal(leaf.Cert))
		assert.True(t, chain[1].Equal(intermediate.Cert))
		assert.True(t, chain[2].Equal(root.Cert))
	}

	assert.Len(t, buildChain(leaf.Cert, nil), 1)
	assert.Len(t, buildChain(root.Cert, []*x509.Certificate{root.Cert}), 1)
}

func TestAliasFor(t *testing.T) {
	named := pkitest.SelfSigned(t, pkitest.Options{CommonName: "named"})
	assert.Equal(t, "named", AliasFor(named.Cert))
	assert.Empty(t, AliasFor(nil))

	fp := Fingerprint([]byte("x"))
	assert.Len(t, fp, 16)

	taken := func(a string) bool { return a == "dup" }
	assert.Equal(t, "free", uniqueAlias("free", []byte("x"), taken))
	assert.Equal(t, "dup - "+fp, uniqueAlias("dup", []byte("x"), taken))
}

func TestTokenStoreClose(t *testing.T) {
	calls := 0
	ts := &TokenStore{Store: NewStore(TypePKCS11), close: func() error {
		calls++
		return errors.New("closed")
	}}
	assert.EqualError(t, ts.Close(), "closed")
	assert.EqualError(t, ts.Close(), "closed")
	assert.Equal(t, 1, calls)
}
