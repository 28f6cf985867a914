// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgramName(t *testing.T) {
	const fallback = "tls-context"

	tests := []struct {
		name     string
		arg0     string
		expected string
	}{
		{name: "Just Filename", arg0: "myapp", expected: "myapp"},
		{name: "Relative Path", arg0: "./myapp", expected: "myapp"},
		{name: "Unix Absolute Path", arg0: "/usr/local/bin/tls-context", expected: "tls-context"},
		{name: "Windows Path With Exe", arg0: `C:\Program Files\myapp.exe`, expected: "myapp"},
		{name: "Windows Path Without Exe", arg0: `C:\Users\user\bin\myapp`, expected: "myapp"},
		{name: "Trailing Separator", arg0: "/opt/bin/", expected: "bin"},
		{name: "Only Extension", arg0: ".exe", expected: fallback},
		{name: "Dot", arg0: ".", expected: fallback},
		{name: "Empty", arg0: "", expected: fallback},
		{name: "Only Separators", arg0: `/\/`, expected: fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ProgramName(tt.arg0, fallback))
		})
	}
}

func TestExecutableName(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"/usr/bin/mcp-server"}
	assert.Equal(t, "mcp-server", ExecutableName("fallback"))

	os.Args = nil
	assert.Equal(t, "fallback", ExecutableName("fallback"))
}
