// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package strategy

import (
	"crypto/x509"

	"github.com/H0llyW00dzZ/tls-context-builder/src/manager"
)

// FilteringTrustManager consults a [TrustDecisionStrategy] before the
// wrapped trust manager.
type FilteringTrustManager struct {
	delegate manager.TrustManager
	strategy TrustDecisionStrategy
}

// NewFilteringTrustManager wraps delegate. A nil strategy always defers.
func NewFilteringTrustManager(delegate manager.TrustManager, strategy TrustDecisionStrategy) *FilteringTrustManager {
	if strategy == nil {
		strategy = DeferToDefault()
	}
	return &FilteringTrustManager{delegate: delegate, strategy: strategy}
}

// Algorithm returns the wrapped manager's algorithm.
func (m *FilteringTrustManager) Algorithm() string { return m.delegate.Algorithm() }

// CheckClientTrusted applies the strategy, then the wrapped manager when
// the strategy defers.
func (m *FilteringTrustManager) CheckClientTrusted(chain []*x509.Certificate, authType string) error {
	return m.check(chain, authType, m.delegate.CheckClientTrusted)
}

// CheckServerTrusted applies the strategy, then the wrapped manager when
// the strategy defers.
func (m *FilteringTrustManager) CheckServerTrusted(chain []*x509.Certificate, authType string) error {
	return m.check(chain, authType, m.delegate.CheckServerTrusted)
}

// AcceptedIssuers returns the wrapped manager's issuers unchanged.
func (m *FilteringTrustManager) AcceptedIssuers() []*x509.Certificate {
	return m.delegate.AcceptedIssuers()
}

// Unwrap returns the wrapped manager.
func (m *FilteringTrustManager) Unwrap() manager.TrustManager { return m.delegate }

func (m *FilteringTrustManager) check(chain []*x509.Certificate, authType string, next func([]*x509.Certificate, string) error) error {
	delegate, err := m.strategy.ShouldDelegateToDefaultTrust(chain, authType)
	if err != nil {
		return err
	}
	if !delegate {
		return nil
	}
	return next(chain, authType)
}
