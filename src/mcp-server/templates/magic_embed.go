// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed *.md
var embeddedFS embed.FS

// EmbedFS is the read-only view of the embedded markdown files.
type EmbedFS interface {
	fs.ReadFileFS
	fs.ReadDirFS
}

// MagicEmbed holds the server instructions template and the store format
// reference served as a resource.
//
// Example usage:
//
//	content, err := templates.MagicEmbed.ReadFile("store-formats.md")
//	if err != nil {
//		return fmt.Errorf("failed to read store formats: %w", err)
//	}
var MagicEmbed EmbedFS = embeddedFS

// Render executes the embedded template name with data.
//
// Templates run with missingkey=error, so a map lookup of an absent key
// fails instead of rendering "<no value>".
//
// Parameters:
//   - name: File name relative to the embed root (e.g., "instructions.md")
//   - data: Value the template is executed against
//
// Returns:
//   - string: The rendered text
//   - error: If the file is missing, does not parse, or fails to execute
func Render(name string, data any) (string, error) {
	content, err := MagicEmbed.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to load template %s: %w", name, err)
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}
