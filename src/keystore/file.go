// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package keystore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/H0llyW00dzZ/tls-context-builder/src/internal/helper/gc"
)

// MaxFileSize bounds the size of store files read from disk.
const MaxFileSize = 4 << 20

// TypeFromPath guesses the store type from the file extension.
func TypeFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".p12", ".pfx":
		return TypePKCS12
	default:
		return TypePEM
	}
}

// LoadFile reads a key store. An empty typ is guessed with [TypeFromPath].
// PEM files must hold the certificate chain and the private key.
func LoadFile(path, typ string, password []byte) (*Store, error) {
	data, typ, err := readStoreFile(path, typ)
	if err != nil {
		return nil, err
	}

	switch typ {
	case TypePKCS12:
		return LoadPKCS12(data, password)
	case TypePEM:
		return LoadPEM("", data, data, password)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, typ)
	}
}

// LoadTrustFile reads a trust store. An empty typ is guessed with
// [TypeFromPath]. PEM files may hold any number of certificates.
func LoadTrustFile(path, typ string, password []byte) (*Store, error) {
	data, typ, err := readStoreFile(path, typ)
	if err != nil {
		return nil, err
	}

	switch typ {
	case TypePKCS12:
		return LoadPKCS12TrustStore(data, password)
	case TypePEM:
		return LoadPEMTrustStore(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, typ)
	}
}

func readStoreFile(path, typ string) ([]byte, string, error) {
	if typ == "" {
		typ = TypeFromPath(path)
	}
	typ = strings.ToUpper(typ)
	if typ != TypePKCS12 && typ != TypePEM {
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedType, typ)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("keystore: %w", err)
	}
	defer f.Close()

	data, err := gc.ReadAll(f, MaxFileSize)
	if err != nil {
		return nil, "", fmt.Errorf("keystore: reading %s: %w", path, err)
	}
	return data, typ, nil
}
