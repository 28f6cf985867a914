// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

//go:build !cgo

package keystore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/H0llyW00dzZ/tls-context-builder/src/keystore"
)

func TestLoadPKCS11Unavailable(t *testing.T) {
	_, err := keystore.LoadPKCS11(keystore.PKCS11Config{ModulePath: "/usr/lib/softhsm/libsofthsm2.so"})
	assert.ErrorIs(t, err, keystore.ErrPKCS11Unavailable)
}
