// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package strategy

import (
	"crypto"
	"crypto/x509"

	"github.com/H0llyW00dzZ/tls-context-builder/src/logger"
	"github.com/H0llyW00dzZ/tls-context-builder/src/manager"
)

// FilteringKeyManager lets an [AliasSelectionStrategy] override the alias
// chosen by the wrapped key manager.
//
// A non-empty strategy alias is returned as is, even when the wrapped
// manager does not know it. Key material lookups always pass through.
type FilteringKeyManager struct {
	delegate manager.KeyManager
	strategy AliasSelectionStrategy
	log      logger.Logger
}

// NewFilteringKeyManager wraps delegate. A nil strategy never overrides and
// a nil log discards output.
func NewFilteringKeyManager(delegate manager.KeyManager, strategy AliasSelectionStrategy, log logger.Logger) *FilteringKeyManager {
	if strategy == nil {
		strategy = StaticAlias("")
	}
	return &FilteringKeyManager{delegate: delegate, strategy: strategy, log: logger.OrNop(log)}
}

// Algorithm returns the wrapped manager's algorithm.
func (m *FilteringKeyManager) Algorithm() string { return m.delegate.Algorithm() }

// ChooseClientAlias returns the strategy's alias, or the wrapped manager's
// choice when the strategy has none.
func (m *FilteringKeyManager) ChooseClientAlias(keyTypes []string, issuers [][]byte, hint manager.ConnectionHint) string {
	if alias := m.strategy.ChooseAlias(); alias != "" {
		m.log.Printf("client alias %q chosen by strategy", alias)
		return alias
	}
	alias := m.delegate.ChooseClientAlias(keyTypes, issuers, hint)
	m.log.Printf("client alias %q chosen by %s", alias, m.delegate.Algorithm())
	return alias
}

// ChooseServerAlias returns the strategy's alias, or the wrapped manager's
// choice when the strategy has none.
func (m *FilteringKeyManager) ChooseServerAlias(keyType string, issuers [][]byte, hint manager.ConnectionHint) string {
	if alias := m.strategy.ChooseAlias(); alias != "" {
		m.log.Printf("server alias %q chosen by strategy", alias)
		return alias
	}
	alias := m.delegate.ChooseServerAlias(keyType, issuers, hint)
	m.log.Printf("server alias %q chosen by %s", alias, m.delegate.Algorithm())
	return alias
}

// CertificateChain passes through.
func (m *FilteringKeyManager) CertificateChain(alias string) []*x509.Certificate {
	return m.delegate.CertificateChain(alias)
}

// PrivateKey passes through.
func (m *FilteringKeyManager) PrivateKey(alias string) crypto.PrivateKey {
	return m.delegate.PrivateKey(alias)
}

// ClientAliases passes through.
func (m *FilteringKeyManager) ClientAliases(keyType string, issuers [][]byte) []string {
	return m.delegate.ClientAliases(keyType, issuers)
}

// ServerAliases passes through.
func (m *FilteringKeyManager) ServerAliases(keyType string, issuers [][]byte) []string {
	return m.delegate.ServerAliases(keyType, issuers)
}

// Unwrap returns the wrapped manager.
func (m *FilteringKeyManager) Unwrap() manager.KeyManager { return m.delegate }
