// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package gc_test

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/tls-context-builder/src/internal/helper/gc"
)

type errorReader struct{ err error }

func (e *errorReader) Read([]byte) (int, error) { return 0, e.err }

func TestBufferOperations(t *testing.T) {
	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	_, err := buf.WriteString("hello")
	require.NoError(t, err)
	require.NoError(t, buf.WriteByte(' '))
	_, err = buf.Write([]byte("world"))
	require.NoError(t, err)

	assert.Equal(t, "hello world", buf.String())
	assert.Equal(t, 11, buf.Len())

	var out bytes.Buffer
	_, err = buf.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", out.String())

	buf.Reset()
	assert.Zero(t, buf.Len())
}

func TestReadAll(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "Unlimited",
			testFunc: func(t *testing.T) {
				data, err := gc.ReadAll(strings.NewReader("certificate"), 0)
				require.NoError(t, err)
				assert.Equal(t, []byte("certificate"), data)
			},
		},
		{
			name: "Within Limit",
			testFunc: func(t *testing.T) {
				data, err := gc.ReadAll(strings.NewReader("1234"), 4)
				require.NoError(t, err)
				assert.Equal(t, []byte("1234"), data)
			},
		},
		{
			name: "Over Limit",
			testFunc: func(t *testing.T) {
				_, err := gc.ReadAll(strings.NewReader("12345"), 4)
				assert.ErrorIs(t, err, gc.ErrTooLarge)
			},
		},
		{
			name: "Reader Error",
			testFunc: func(t *testing.T) {
				boom := errors.New("boom")
				_, err := gc.ReadAll(&errorReader{err: boom}, 0)
				assert.ErrorIs(t, err, boom)
			},
		},
		{
			name: "Result Survives Buffer Reuse",
			testFunc: func(t *testing.T) {
				first, err := gc.ReadAll(strings.NewReader("first"), 0)
				require.NoError(t, err)
				_, err = gc.ReadAll(strings.NewReader("XXXXX"), 0)
				require.NoError(t, err)
				assert.Equal(t, []byte("first"), first)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.testFunc)
	}
}

func TestPoolConcurrentUse(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := gc.ReadAll(strings.NewReader("concurrent"), 0)
			assert.NoError(t, err)
			assert.Equal(t, "concurrent", string(data))
		}()
	}
	wg.Wait()
}

type foreignBuffer struct{ bytes.Buffer }

func TestPoolPutForeignBuffer(t *testing.T) {
	assert.NotPanics(t, func() { gc.Default.Put(&foreignBuffer{}) })
}
