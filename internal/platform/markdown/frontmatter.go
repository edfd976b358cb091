package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// RenderNote prefixes body with meta encoded as a YAML frontmatter block.
// Struct field order is preserved, so callers pass tagged structs.
func RenderNote(meta any, body string) (string, error) {
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(fence + "\n")
	buf.Write(raw)
	buf.WriteString(fence + "\n\n")
	buf.WriteString(strings.TrimLeft(body, "\n"))
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

// ParseNote decodes the frontmatter of content into meta and returns the body.
// Content without frontmatter leaves meta untouched.
func ParseNote(content string, meta any) (string, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, fence+"\n") {
		return content, nil
	}
	rest := content[len(fence)+1:]
	end := strings.Index(rest, "\n"+fence+"\n")
	if end < 0 {
		return "", fmt.Errorf("frontmatter is not closed")
	}
	if err := yaml.Unmarshal([]byte(rest[:end]), meta); err != nil {
		return "", fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	body := rest[end+len(fence)+2:]
	return strings.TrimPrefix(body, "\n"), nil
}
