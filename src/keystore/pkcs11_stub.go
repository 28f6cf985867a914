// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

//go:build !cgo

package keystore

// LoadPKCS11 always fails with [ErrPKCS11Unavailable] in builds without cgo.
func LoadPKCS11(PKCS11Config) (*TokenStore, error) {
	return nil, ErrPKCS11Unavailable
}
