// Package security keeps data-derived values safe to embed in filesystem
// paths. Feature identifiers come straight from GeoJSON properties, so
// anything that reaches a file name is sanitized here first.
package security

import (
	"path/filepath"
	"strings"
)

// SanitizeFilename makes a safe file name from a feature identifier. Only
// the last path component survives, runes outside ASCII letters, digits,
// dot, underscore or dash become underscores, and the result is capped at
// 128 bytes. Degenerate identifiers collapse to "feature".
func SanitizeFilename(s string) string {
	const maxLen = 128

	base := filepath.Base(s)
	if base == "." || base == ".." || base == "" || base == string(filepath.Separator) {
		return "feature"
	}

	var b strings.Builder
	for _, r := range base {
		if b.Len() >= maxLen {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
