// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package posix provides helpers for presenting the running program the way
// [POSIX] shells name it, regardless of the platform it was built for.
//
//	rootCmd := &cobra.Command{
//	    Use: posix.ExecutableName("tls-context"),
//	}
//
// [POSIX]: https://grokipedia.com/page/POSIX
package posix
