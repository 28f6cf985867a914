// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package strategy

import (
	"github.com/H0llyW00dzZ/tls-context-builder/src/keystore"
	x509certs "github.com/H0llyW00dzZ/tls-context-builder/src/x509/certs"
)

// StaticAlias always chooses alias. An empty alias never overrides.
type StaticAlias string

// ChooseAlias returns the alias.
func (a StaticAlias) ChooseAlias() string { return string(a) }

// NewKeyUsageAlias chooses the first alias of store, in sorted order, whose
// chain exposes every usage. The alias is resolved once; when no entry
// matches the strategy never overrides.
func NewKeyUsageAlias(store keystore.KeyStore, usages ...x509certs.KeyUsage) (StaticAlias, error) {
	aliases, err := keystore.AliasesWithKeyUsage(store, usages...)
	if err != nil {
		return "", err
	}
	if len(aliases) == 0 {
		return "", nil
	}
	return StaticAlias(aliases[0]), nil
}
