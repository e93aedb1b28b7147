package utils

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"
)

const (
	slugSuffixBytes = 3 // 6 hex chars
	slugMaxBaseLen  = 60
)

var slugDashRegex = regexp.MustCompile(`-+`)

// MakeSlug builds a URL slug from a post title plus a random hex suffix so
// two posts with the same title never collide. Thai characters are kept as-is
// (they are valid in URL paths once percent-encoded); anything that is neither
// a letter nor a digit becomes a dash.
func MakeSlug(title string) (string, error) {
	base := strings.TrimSpace(strings.ToLower(title))

	var b strings.Builder
	for _, r := range base {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}

	slug := slugDashRegex.ReplaceAllString(b.String(), "-")
	slug = strings.Trim(slug, "-")
	if runes := []rune(slug); len(runes) > slugMaxBaseLen {
		slug = strings.Trim(string(runes[:slugMaxBaseLen]), "-")
	}

	suffix := make([]byte, slugSuffixBytes)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}

	if slug == "" {
		return hex.EncodeToString(suffix), nil
	}
	return slug + "-" + hex.EncodeToString(suffix), nil
}
