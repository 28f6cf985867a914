// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"os"
	"strings"
)

// ExecutableName returns the base name of the running program without a
// ".exe" suffix, or fallback when the program name is unknown.
func ExecutableName(fallback string) string {
	if len(os.Args) == 0 {
		return fallback
	}
	return ProgramName(os.Args[0], fallback)
}

// ProgramName returns the last path component of arg0 without a ".exe"
// suffix. Both '/' and '\' separate components, so Windows paths resolve the
// same on every platform. An empty name yields fallback.
func ProgramName(arg0, fallback string) string {
	parts := strings.FieldsFunc(arg0, func(r rune) bool { return r == '/' || r == '\\' })
	if len(parts) == 0 {
		return fallback
	}

	name := strings.TrimSuffix(parts[len(parts)-1], ".exe")
	if name == "" || name == "." || name == ".." {
		return fallback
	}
	return name
}
