// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package config loads TLS context settings from JSON or YAML files and
// turns them into a [tlscontext.Builder].
//
// Files are validated against an embedded JSON schema before decoding.
// A minimal YAML file:
//
//	protocol: TLSv1.3
//	keyStore:
//	  path: client.p12
//	  password: env:CLIENT_P12_PASSWORD
//	trustStore:
//	  path: roots.pem
//	alias:
//	  strategy: keyUsage
//	  keyUsages: [digitalSignature]
//	trust:
//	  strategies: [validity, ocsp]
package config
