// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/H0llyW00dzZ/tls-context-builder/src/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLILogger(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "Printf",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewCLILogger()
				log.SetOutput(&buf)

				log.Printf("alias chosen: %s", "signing")

				assert.Contains(t, buf.String(), "alias chosen: signing")
			},
		},
		{
			name: "Println",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewCLILogger()
				log.SetOutput(&buf)

				log.Println("trust", "delegated")

				assert.Contains(t, buf.String(), "trust delegated")
			},
		},
		{
			name: "SetOutput",
			testFunc: func(t *testing.T) {
				var buf1, buf2 bytes.Buffer
				log := logger.NewCLILogger()

				log.SetOutput(&buf1)
				log.Println("first")

				log.SetOutput(&buf2)
				log.Println("second")

				assert.Contains(t, buf1.String(), "first")
				assert.Contains(t, buf2.String(), "second")
				assert.NotContains(t, buf1.String(), "second")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.testFunc)
	}
}

func decodeLines(t *testing.T, data string) []map[string]any {
	t.Helper()

	var entries []map[string]any
	sc := bufio.NewScanner(strings.NewReader(data))
	for sc.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &entry), "failed to parse JSON line %q", sc.Text())
		entries = append(entries, entry)
	}
	return entries
}

func TestJSONLogger(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "Silent",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewJSONLogger(&buf, true)

				log.Printf("test message: %s", "hello")
				log.Println("another message")

				assert.Zero(t, buf.Len(), "expected no output in silent mode")
			},
		},
		{
			name: "Printf",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewJSONLogger(&buf, false)

				log.Printf("untrusted chain: %s", "CN=leaf")

				entries := decodeLines(t, buf.String())
				require.Len(t, entries, 1)
				assert.Equal(t, "info", entries[0]["level"])
				assert.Equal(t, "untrusted chain: CN=leaf", entries[0]["message"])
				assert.NotEmpty(t, entries[0]["time"])
				assert.NotContains(t, entries[0], "component")
			},
		},
		{
			name: "WithComponent",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewJSONLogger(&buf, false)
				child := log.WithComponent("trust-manager")

				log.Println("root")
				child.Println("child")

				entries := decodeLines(t, buf.String())
				require.Len(t, entries, 2)
				assert.Equal(t, "trust-manager", entries[1]["component"])
				assert.Equal(t, "child", entries[1]["message"])
			},
		},
		{
			name: "Escaping",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewJSONLogger(&buf, false)

				log.Printf("subject=%q\nnext", `CN="quoted"`)

				entries := decodeLines(t, buf.String())
				require.Len(t, entries, 1)
				assert.Contains(t, entries[0]["message"], `CN=\"quoted\"`)
			},
		},
		{
			name: "SetOutput Nil",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewJSONLogger(&buf, false)

				log.Println("before")
				log.SetOutput(nil)
				log.Println("after")

				assert.Contains(t, buf.String(), "before")
				assert.NotContains(t, buf.String(), "after")
			},
		},
		{
			name: "Nil Writer",
			testFunc: func(t *testing.T) {
				log := logger.NewJSONLogger(nil, false)
				assert.NotPanics(t, func() { log.Println("dropped") })
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.testFunc)
	}
}

func TestJSONLogger_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewJSONLogger(&buf, false)
	child := log.WithComponent("key-manager")

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			log.Printf("message %d", i)
		}()
		go func() {
			defer wg.Done()
			child.Println("child", i)
		}()
	}
	wg.Wait()

	assert.Len(t, decodeLines(t, buf.String()), 100, "every line must be intact JSON")
}

func TestNop(t *testing.T) {
	log := logger.Nop()
	assert.NotPanics(t, func() {
		log.Printf("%s", "x")
		log.Println("x")
		log.SetOutput(nil)
	})

	assert.Equal(t, logger.Nop(), logger.OrNop(nil))

	cli := logger.NewCLILogger()
	assert.Same(t, cli, logger.OrNop(cli))
}
