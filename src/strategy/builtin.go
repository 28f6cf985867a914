// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package strategy

import (
	"crypto/x509"
	"fmt"
	"slices"
	"time"

	"github.com/H0llyW00dzZ/tls-context-builder/src/manager"
	x509certs "github.com/H0llyW00dzZ/tls-context-builder/src/x509/certs"
)

// TrustAll accepts every chain without consulting the default trust
// manager. Only suitable for tests and diagnostics.
func TrustAll() TrustDecisionStrategy {
	return TrustDecisionFunc(func([]*x509.Certificate, string) (bool, error) { return false, nil })
}

// DeferToDefault always consults the default trust manager.
func DeferToDefault() TrustDecisionStrategy {
	return TrustDecisionFunc(func([]*x509.Certificate, string) (bool, error) { return true, nil })
}

// Sequence evaluates strategies in order. The first one that accepts or
// rejects decides; when all of them defer, so does the sequence.
func Sequence(strategies ...TrustDecisionStrategy) TrustDecisionStrategy {
	strategies = slices.DeleteFunc(slices.Clone(strategies), func(s TrustDecisionStrategy) bool { return s == nil })
	return TrustDecisionFunc(func(chain []*x509.Certificate, authType string) (bool, error) {
		for _, s := range strategies {
			delegate, err := s.ShouldDelegateToDefaultTrust(chain, authType)
			if err != nil || !delegate {
				return delegate, err
			}
		}
		return true, nil
	})
}

// ValidityWindow rejects chains with a member outside its validity window
// and defers otherwise.
type ValidityWindow struct {
	// Now returns the time chains are checked at. Nil means time.Now.
	Now func() time.Time
}

// ShouldDelegateToDefaultTrust implements [TrustDecisionStrategy].
func (v ValidityWindow) ShouldDelegateToDefaultTrust(chain []*x509.Certificate, _ string) (bool, error) {
	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	t := now()

	for i, c := range chain {
		if err := x509certs.CheckValidityAt(x509certs.Wrap(c), t); err != nil {
			return false, fmt.Errorf("%w: chain[%d]: %w", manager.ErrUntrustedChain, i, err)
		}
	}
	return true, nil
}

// RequireKeyUsage rejects chains whose leaf lacks any of usages and defers
// otherwise.
func RequireKeyUsage(usages ...x509certs.KeyUsage) TrustDecisionStrategy {
	usages = slices.Clone(usages)
	return TrustDecisionFunc(func(chain []*x509.Certificate, _ string) (bool, error) {
		if len(chain) == 0 {
			return true, nil
		}
		leaf := x509certs.Wrap(chain[0])
		for _, u := range usages {
			if !x509certs.IsKeyUsagePresent(leaf, u) {
				return false, fmt.Errorf("%w: leaf lacks key usage %s", manager.ErrUntrustedChain, u)
			}
		}
		return true, nil
	})
}

// PinnedIssuers accepts chains that verify up to one of its pinned CA
// certificates and defers otherwise. Names are never compared: a chain is
// only accepted when every signature up to a pin checks out. Extended key
// usages are not checked.
type PinnedIssuers struct {
	// Now returns the time chains are verified at. Nil means time.Now.
	Now func() time.Time

	pins *x509.CertPool
}

// NewPinnedIssuers pins certs. Nil entries are skipped; without any pin the
// strategy always defers.
func NewPinnedIssuers(certs ...*x509.Certificate) *PinnedIssuers {
	p := &PinnedIssuers{}
	for _, c := range certs {
		if c == nil {
			continue
		}
		if p.pins == nil {
			p.pins = x509.NewCertPool()
		}
		p.pins.AddCert(c)
	}
	return p
}

// ShouldDelegateToDefaultTrust implements [TrustDecisionStrategy].
func (p *PinnedIssuers) ShouldDelegateToDefaultTrust(chain []*x509.Certificate, _ string) (bool, error) {
	if p.pins == nil || len(chain) == 0 || chain[0] == nil {
		return true, nil
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	intermediates := x509.NewCertPool()
	for _, c := range chain[1:] {
		if c != nil {
			intermediates.AddCert(c)
		}
	}

	if _, err := chain[0].Verify(x509.VerifyOptions{
		Roots:         p.pins,
		Intermediates: intermediates,
		CurrentTime:   now(),
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	}); err != nil {
		return true, nil
	}
	return false, nil
}

// Hostname rejects chains whose leaf is not valid for name and defers
// otherwise. An empty chain defers.
func Hostname(name string) TrustDecisionStrategy {
	return TrustDecisionFunc(func(chain []*x509.Certificate, _ string) (bool, error) {
		if len(chain) == 0 || chain[0] == nil {
			return true, nil
		}
		if err := chain[0].VerifyHostname(name); err != nil {
			return false, fmt.Errorf("%w: %w", manager.ErrUntrustedChain, err)
		}
		return true, nil
	})
}
