// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package platform

import "errors"

var (
	// ErrUnsupportedProtocol reports a protocol name missing from the
	// capability table.
	ErrUnsupportedProtocol = errors.New("platform: unsupported protocol")

	// ErrUnsupportedAlgorithm reports a key or trust manager algorithm with
	// no registered factory.
	ErrUnsupportedAlgorithm = errors.New("platform: unsupported algorithm")

	// ErrKeyMaterial reports a key store and password pair that cannot
	// produce key managers, or key material missing during a handshake.
	ErrKeyMaterial = errors.New("platform: unusable key material")

	// ErrStore reports a trust store that cannot produce trust managers.
	ErrStore = errors.New("platform: trust store initialization failed")
)
