// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package manager

import (
	"bytes"
	"crypto"
	"crypto/x509"
	"slices"
	"strings"
	"time"
)

// KeyEntry is the key material behind one alias of a key store.
type KeyEntry struct {
	Alias string
	Chain []*x509.Certificate
	Key   crypto.PrivateKey
}

// X509KeyManager selects key entries by key type and acceptable issuers.
//
// Among the matching aliases, sorted ascending, the first one whose leaf is
// currently valid wins; when none is valid the first match is returned.
type X509KeyManager struct {
	algorithm string
	entries   []KeyEntry
	byAlias   map[string]int

	// Now returns the time leaf validity is judged at. Defaults to time.Now.
	Now func() time.Time
}

// NewX509KeyManager creates a key manager over entries. Entries without a
// chain or key are ignored; a repeated alias keeps the first entry.
func NewX509KeyManager(algorithm string, entries ...KeyEntry) *X509KeyManager {
	m := &X509KeyManager{
		algorithm: algorithm,
		byAlias:   make(map[string]int, len(entries)),
		Now:       time.Now,
	}

	for _, e := range entries {
		if e.Alias == "" || len(e.Chain) == 0 || e.Chain[0] == nil || e.Key == nil {
			continue
		}
		if _, dup := m.byAlias[e.Alias]; dup {
			continue
		}
		m.byAlias[e.Alias] = len(m.entries)
		m.entries = append(m.entries, e)
	}

	slices.SortFunc(m.entries, func(a, b KeyEntry) int { return strings.Compare(a.Alias, b.Alias) })
	for i, e := range m.entries {
		m.byAlias[e.Alias] = i
	}
	return m
}

// Algorithm returns the algorithm name the manager was created for.
func (m *X509KeyManager) Algorithm() string { return m.algorithm }

// ChooseClientAlias returns an alias for the first key type in keyTypes
// that has a matching entry, or "".
func (m *X509KeyManager) ChooseClientAlias(keyTypes []string, issuers [][]byte, _ ConnectionHint) string {
	for _, keyType := range keyTypes {
		if alias := m.choose(keyType, issuers); alias != "" {
			return alias
		}
	}
	return ""
}

// ChooseServerAlias returns an alias matching keyType and issuers, or "".
func (m *X509KeyManager) ChooseServerAlias(keyType string, issuers [][]byte, _ ConnectionHint) string {
	return m.choose(keyType, issuers)
}

// ClientAliases returns every alias usable for client authentication.
func (m *X509KeyManager) ClientAliases(keyType string, issuers [][]byte) []string {
	return m.matching(keyType, issuers)
}

// ServerAliases returns every alias usable for server authentication.
func (m *X509KeyManager) ServerAliases(keyType string, issuers [][]byte) []string {
	return m.matching(keyType, issuers)
}

// CertificateChain returns the chain of alias, or nil for an unknown alias.
func (m *X509KeyManager) CertificateChain(alias string) []*x509.Certificate {
	i, ok := m.byAlias[alias]
	if !ok {
		return nil
	}
	return slices.Clone(m.entries[i].Chain)
}

// PrivateKey returns the key of alias, or nil for an unknown alias.
func (m *X509KeyManager) PrivateKey(alias string) crypto.PrivateKey {
	i, ok := m.byAlias[alias]
	if !ok {
		return nil
	}
	return m.entries[i].Key
}

func (m *X509KeyManager) choose(keyType string, issuers [][]byte) string {
	candidates := m.matching(keyType, issuers)
	if len(candidates) == 0 {
		return ""
	}

	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	t := now()
	for _, alias := range candidates {
		leaf := m.entries[m.byAlias[alias]].Chain[0]
		if !t.Before(leaf.NotBefore) && !t.After(leaf.NotAfter) {
			return alias
		}
	}
	return candidates[0]
}

func (m *X509KeyManager) matching(keyType string, issuers [][]byte) []string {
	var aliases []string
	for _, e := range m.entries {
		if keyType != "" && KeyType(e.Chain[0].PublicKey) != keyType {
			continue
		}
		if !issuedByAny(e.Chain, issuers) {
			continue
		}
		aliases = append(aliases, e.Alias)
	}
	return aliases
}

// issuedByAny reports whether any certificate in chain was issued by one of
// issuers. An empty issuers list accepts every chain.
func issuedByAny(chain []*x509.Certificate, issuers [][]byte) bool {
	if len(issuers) == 0 {
		return true
	}
	for _, c := range chain {
		for _, issuer := range issuers {
			if bytes.Equal(c.RawIssuer, issuer) {
				return true
			}
		}
	}
	return false
}
