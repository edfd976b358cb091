package slug

import (
	"strings"
	"unicode"
)

const maxRunes = 60

// Make lowercases input and joins runs of letters and digits with dashes.
// Non-Latin letters are kept so Korean titles stay readable.
func Make(input string) string {
	var b strings.Builder
	dash := false
	n := 0
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sep := dash && b.Len() > 0
			if sep && n+2 > maxRunes || n+1 > maxRunes {
				break
			}
			if sep {
				b.WriteByte('-')
				n++
			}
			b.WriteRune(r)
			n++
			dash = false
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return "untitled"
	}
	return b.String()
}
