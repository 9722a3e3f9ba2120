package pipeline

import (
	"crypto/sha1"
	"encoding/hex"
	"path/filepath"
	"strings"
	"unicode"
)

// DocID derives a stable document identifier from the source path: a
// slug of the filename stem plus a short hash of the full path, so two
// files with the same name in different folders stay distinct.
func DocID(sourcePath string) string {
	base := filepath.Base(sourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return slugify(stem, 80) + "-" + stableHash(sourcePath, 16)
}

// slugify keeps letters, digits, and a few safe punctuation characters,
// collapsing whitespace runs to underscores.
func slugify(s string, maxLen int) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.':
			if space && b.Len() > 0 {
				b.WriteByte('_')
			}
			space = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			space = true
		}
	}
	out := b.String()
	if len(out) > maxLen {
		out = out[:maxLen]
	}
	return out
}

// stableHash returns the first n hex characters of the SHA-1 of s.
func stableHash(s string, n int) string {
	sum := sha1.Sum([]byte(s))
	h := hex.EncodeToString(sum[:])
	if n < len(h) {
		h = h[:n]
	}
	return h
}
