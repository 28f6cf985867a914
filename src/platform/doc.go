// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package platform is the provider side of TLS context assembly: it derives
// default key and trust managers from stores and initializes a [Context]
// that answers crypto/tls handshakes with them.
//
// What the provider supports is fixed up front in [Capabilities]; nothing is
// probed from the environment at handshake time. Further manager algorithms
// can be added with [Platform.RegisterKeyManagerFactory] and
// [Platform.RegisterTrustManagerFactory].
package platform
