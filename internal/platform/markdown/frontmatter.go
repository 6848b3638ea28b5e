// Package markdown reads and writes notes with a YAML frontmatter block.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const separator = "---\n"

// SplitFrontmatter decodes the leading frontmatter of content into meta
// and returns the remaining body. Content without frontmatter is all body.
func SplitFrontmatter(content string, meta any) (string, error) {
	if !strings.HasPrefix(content, separator) {
		return content, nil
	}
	rest := strings.TrimPrefix(content, separator)
	idx := strings.Index(rest, "\n"+separator)
	if idx < 0 {
		return "", fmt.Errorf("invalid frontmatter: missing closing separator")
	}
	if err := yaml.Unmarshal([]byte(rest[:idx]), meta); err != nil {
		return "", fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	return strings.TrimPrefix(rest[idx+1+len(separator):], "\n"), nil
}

// RenderFrontmatter encodes meta, usually a struct with yaml tags so key
// order is stable, ahead of body.
func RenderFrontmatter(meta any, body string) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	var out strings.Builder
	out.WriteString(separator)
	out.Write(buf.Bytes())
	out.WriteString(separator)
	out.WriteString("\n")
	out.WriteString(strings.TrimLeft(body, "\n"))
	return out.String(), nil
}
