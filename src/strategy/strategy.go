// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package strategy

import "crypto/x509"

// TrustDecisionStrategy decides, once per trust check, whether the default
// trust manager is consulted.
//
// Returning true defers to the wrapped manager, false accepts the chain
// without further checks. An error, typically wrapping
// [manager.ErrUntrustedChain], rejects the chain. Implementations must be
// safe for concurrent use.
type TrustDecisionStrategy interface {
	ShouldDelegateToDefaultTrust(chain []*x509.Certificate, authType string) (bool, error)
}

// TrustDecisionFunc adapts a function to [TrustDecisionStrategy].
type TrustDecisionFunc func(chain []*x509.Certificate, authType string) (bool, error)

// ShouldDelegateToDefaultTrust calls f.
func (f TrustDecisionFunc) ShouldDelegateToDefaultTrust(chain []*x509.Certificate, authType string) (bool, error) {
	return f(chain, authType)
}

// AliasSelectionStrategy picks the alias presented during a handshake.
//
// An empty alias means no override and leaves the choice to the wrapped
// key manager. Implementations must be safe for concurrent use.
type AliasSelectionStrategy interface {
	ChooseAlias() string
}

// AliasSelectionFunc adapts a function to [AliasSelectionStrategy].
type AliasSelectionFunc func() string

// ChooseAlias calls f.
func (f AliasSelectionFunc) ChooseAlias() string { return f() }
