// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/H0llyW00dzZ/tls-context-builder/src/internal/helper/gc"
)

// Logger defines the interface for logging operations.
//
// Trust and key managers, the context builder and the command line tools
// all log through it, so that a library user can route decisions into
// their own logging without this module picking a backend.
type Logger interface {
	// Printf formats and prints a log message.
	Printf(format string, v ...any)
	// Println prints a log message with a newline.
	Println(v ...any)
	// SetOutput sets the output destination for the logger.
	SetOutput(w io.Writer)
}

// CLILogger implements Logger using the standard log package.
// It's designed for command-line interface output with human-readable formatting.
type CLILogger struct{ logger *log.Logger }

// NewCLILogger creates a new CLI logger with timestamps disabled.
// This is suitable for user-facing CLI output.
func NewCLILogger() *CLILogger {
	l := log.New(os.Stdout, "", 0)
	return &CLILogger{logger: l}
}

// Printf formats and prints a log message using fmt.Printf semantics.
func (c *CLILogger) Printf(format string, v ...any) { c.logger.Printf(format, v...) }

// Println prints a log message with a newline.
func (c *CLILogger) Println(v ...any) { c.logger.Println(v...) }

// SetOutput sets the output destination for the CLI logger.
func (c *CLILogger) SetOutput(w io.Writer) { c.logger.SetOutput(w) }

// JSONLogger implements Logger with one JSON object per line.
//
// It is used by the [MCP] server, whose stdio belongs to the protocol, and
// by services embedding the TLS context builder that ship logs to a
// collector. A silent JSONLogger drops every message.
//
// JSONLogger is safe for concurrent use by multiple goroutines.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type JSONLogger struct {
	mu        *sync.Mutex
	writer    io.Writer
	silent    bool
	component string
	now       func() time.Time
}

// NewJSONLogger creates a JSON logger writing to writer.
// A nil writer discards output.
func NewJSONLogger(writer io.Writer, silent bool) *JSONLogger {
	if writer == nil {
		writer = io.Discard
	}
	return &JSONLogger{
		mu:     &sync.Mutex{},
		writer: writer,
		silent: silent,
		now:    time.Now,
	}
}

// WithComponent returns a logger sharing the receiver's output that tags
// each entry with a "component" field.
func (m *JSONLogger) WithComponent(name string) *JSONLogger {
	m.mu.Lock()
	defer m.mu.Unlock()

	return &JSONLogger{
		mu:        m.mu,
		writer:    m.writer,
		silent:    m.silent,
		component: name,
		now:       m.now,
	}
}

type jsonEntry struct {
	Time      string `json:"time"`
	Level     string `json:"level"`
	Component string `json:"component,omitempty"`
	Message   string `json:"message"`
}

func (m *JSONLogger) write(msg string) {
	if m.silent {
		return
	}

	entry := jsonEntry{
		Time:      m.now().UTC().Format(time.RFC3339Nano),
		Level:     "info",
		Component: m.component,
		Message:   msg,
	}

	buf := gc.Default.Get()
	defer func() {
		buf.Reset()         // Reset the buffer to prevent data leaks
		gc.Default.Put(buf) // Return the buffer to the pool for reuse
	}()

	// Encode terminates the entry with a newline.
	if err := json.NewEncoder(buf).Encode(entry); err != nil {
		return
	}

	m.mu.Lock()
	_, _ = m.writer.Write(buf.Bytes())
	m.mu.Unlock()
}

// Printf formats and logs a message as a JSON line.
func (m *JSONLogger) Printf(format string, v ...any) { m.write(fmt.Sprintf(format, v...)) }

// Println logs a message as a JSON line.
func (m *JSONLogger) Println(v ...any) { m.write(fmt.Sprint(v...)) }

// SetOutput sets the output destination, discarding output for a nil w.
func (m *JSONLogger) SetOutput(w io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w == nil {
		m.writer = io.Discard
	} else {
		m.writer = w
	}
}

// nopLogger drops every message.
type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}
func (nopLogger) Println(...any)        {}
func (nopLogger) SetOutput(io.Writer)   {}

// Nop returns a Logger that drops every message.
// It is the default logger of the TLS context builder.
func Nop() Logger { return nopLogger{} }

// OrNop returns l, or [Nop] when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop()
	}
	return l
}
