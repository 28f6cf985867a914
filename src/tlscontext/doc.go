// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package tlscontext composes TLS contexts whose trust and identity
// decisions can be overridden by custom strategies while falling back to
// the default key and trust managers of the platform.
//
// Example:
//
//	ctx, err := tlscontext.NewBuilder().
//		WithKeyStore(keys, password).
//		WithAliasSelection(strategy.StaticAlias("client")).
//		WithTrustStore(roots).
//		WithTrustDecision(strategy.ValidityWindow{}).
//		WithProtocol("TLSv1.3").
//		Build()
//	if err != nil {
//		return err
//	}
//	conn, err := tls.Dial("tcp", "example.com:443", ctx.ClientConfig("example.com"))
package tlscontext
