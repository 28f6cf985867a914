// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package strategy lets callers override TLS trust and identity decisions
// without replacing the default managers.
//
// A [TrustDecisionStrategy] runs before the default trust manager and
// either defers to it, accepts the chain, or rejects it. An
// [AliasSelectionStrategy] may force the alias presented to the peer.
// [FilteringTrustManager] and [FilteringKeyManager] apply them to any
// [manager.TrustManager] or [manager.KeyManager], including other
// decorators.
//
// Built-in strategies cover the common policies: [TrustAll],
// [DeferToDefault], [ValidityWindow], [RequireKeyUsage], [PinnedIssuers],
// [Revocation] and their [Sequence]; [StaticAlias] and [NewKeyUsageAlias]
// choose aliases.
package strategy
