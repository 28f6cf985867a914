// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"fmt"
	"slices"
	"sort"
	"time"

	x509certs "github.com/H0llyW00dzZ/tls-context-builder/src/x509/certs"
)

// ErrNilChain reports an absent certificate chain.
var ErrNilChain = fmt.Errorf("%w: certificate chain must not be nil", x509certs.ErrInvalidInput)

// Issuers returns the distinct issuer names of chain in ascending order.
//
// It fails with [ErrNilChain] when chain is nil and propagates the
// [x509certs.ErrInvalidInput] error of the first member that is absent or
// not an X.509 certificate.
//
// Parameters:
//   - chain: Certificates, leaf first
//
// Returns:
//   - []string: Sorted issuer distinguished names without duplicates
//   - error: Error if the chain or one of its members is invalid
func Issuers(chain []x509certs.Certificate) ([]string, error) {
	if chain == nil {
		return nil, ErrNilChain
	}

	seen := make(map[string]struct{}, len(chain))
	issuers := make([]string, 0, len(chain))
	for i, cert := range chain {
		issuer, err := x509certs.Issuer(cert)
		if err != nil {
			return nil, fmt.Errorf("chain[%d]: %w", i, err)
		}
		if _, dup := seen[issuer]; dup {
			continue
		}
		seen[issuer] = struct{}{}
		issuers = append(issuers, issuer)
	}

	sort.Strings(issuers)
	return issuers, nil
}

// IsKeyUsagePresent reports whether any certificate of chain has usage set.
//
// Members that are absent or not X.509 count as lacking the usage; only a
// nil chain is an error. See [HasKeyUsage] for the variant that propagates
// member failures.
func IsKeyUsagePresent(chain []x509certs.Certificate, usage x509certs.KeyUsage) (bool, error) {
	if chain == nil {
		return false, ErrNilChain
	}

	for _, cert := range chain {
		if x509certs.IsKeyUsagePresent(cert, usage) {
			return true, nil
		}
	}
	return false, nil
}

// HasKeyUsage reports whether any certificate of chain has usage set,
// checking members left to right and failing on the first invalid one
// reached before a match.
func HasKeyUsage(chain []x509certs.Certificate, usage x509certs.KeyUsage) (bool, error) {
	if chain == nil {
		return false, ErrNilChain
	}

	for i, cert := range chain {
		ok, err := x509certs.HasKeyUsage(cert, usage)
		if err != nil {
			return false, fmt.Errorf("chain[%d]: %w", i, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// HasAllKeyUsages reports whether chain covers every usage in usages, each
// one checked with [IsKeyUsagePresent]. An empty usages list is never covered.
func HasAllKeyUsages(chain []x509certs.Certificate, usages ...x509certs.KeyUsage) (bool, error) {
	if chain == nil {
		return false, ErrNilChain
	}
	if len(usages) == 0 {
		return false, nil
	}

	for _, usage := range usages {
		ok, err := IsKeyUsagePresent(chain, usage)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// SortByLatestExpirationFirst returns a copy of chain ordered by descending
// not-after bound. Certificates without a validity window come last and
// ties keep their input order. Absent members count as having no window.
func SortByLatestExpirationFirst(chain []x509certs.Certificate) []x509certs.Certificate {
	type entry struct {
		cert x509certs.Certificate
		end  time.Time
		ok   bool
	}

	entries := make([]entry, len(chain))
	for i, cert := range chain {
		e := entry{cert: cert}
		if end, ok, err := x509certs.ValidityEnd(cert); err == nil && ok {
			e.end, e.ok = end, true
		}
		entries[i] = e
	}

	slices.SortStableFunc(entries, func(a, b entry) int {
		switch {
		case a.ok && !b.ok:
			return -1
		case !a.ok && b.ok:
			return 1
		case !a.ok && !b.ok:
			return 0
		default:
			return b.end.Compare(a.end)
		}
	})

	sorted := make([]x509certs.Certificate, len(entries))
	for i, e := range entries {
		sorted[i] = e.cert
	}
	return sorted
}
