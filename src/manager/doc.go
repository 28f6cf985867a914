// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package manager defines the trust and key manager capabilities consulted
// during a TLS handshake, and the default implementations built from key
// and trust stores.
//
// A [TrustManager] decides whether a peer chain is trusted, a [KeyManager]
// picks the key entry used to authenticate. Decorators implement the same
// interfaces as the managers they wrap, so they can be stacked freely.
package manager
