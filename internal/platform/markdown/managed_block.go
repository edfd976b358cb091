package markdown

import "strings"

func blockMarkers(name string) (string, string) {
	return "<!-- studyledger:" + name + ":start -->", "<!-- studyledger:" + name + ":end -->"
}

// UpsertBlock replaces the named generated block in doc, or appends it.
// Text outside the markers is kept as the user wrote it.
func UpsertBlock(doc, name, generated string) string {
	start, end := blockMarkers(name)
	block := start + "\n" + strings.TrimRight(generated, "\n") + "\n" + end

	i := strings.Index(doc, start)
	j := strings.Index(doc, end)
	if i >= 0 && j > i {
		return doc[:i] + block + doc[j+len(end):]
	}
	if strings.TrimSpace(doc) == "" {
		return block + "\n"
	}
	return strings.TrimRight(doc, "\n") + "\n\n" + block + "\n"
}
