// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package keystore provides the key and trust stores a TLS context is built
// from.
//
// A [KeyStore] maps aliases to either a private key with its certificate
// chain, or a single trusted certificate. [Store] is the in-memory
// implementation every loader returns:
//
//   - [LoadPKCS12] and [LoadPKCS12TrustStore] decode PKCS#12 files.
//   - [LoadPEM] and [LoadPEMTrustStore] decode PEM, DER or PKCS#7 input.
//   - [LoadFile] and [LoadTrustFile] read either format from disk.
//   - [LoadPKCS11] opens a hardware token (cgo builds only).
//
// Stores are never modified by the packages that consume them.
package keystore
