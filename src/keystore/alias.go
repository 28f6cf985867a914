// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package keystore

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
)

// AliasFor derives an alias from the subject common name of cert, falling
// back to a short fingerprint when the name is empty.
func AliasFor(cert *x509.Certificate) string {
	if cert == nil {
		return ""
	}
	if cn := cert.Subject.CommonName; cn != "" {
		return cn
	}
	return Fingerprint(cert.Raw)
}

// Fingerprint returns the first eight bytes of the SHA-256 digest of der
// as lowercase hex.
func Fingerprint(der []byte) string {
	sum := sha256.Sum256(der)
	return hex.EncodeToString(sum[:8])
}

// uniqueAlias returns alias, or alias suffixed with the fingerprint of der
// when taken is already true for it.
func uniqueAlias(alias string, der []byte, taken func(string) bool) string {
	if !taken(alias) {
		return alias
	}
	return alias + " - " + Fingerprint(der)
}
