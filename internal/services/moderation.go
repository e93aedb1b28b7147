package services

import (
	"regexp"
	"strings"
	"unicode"
)

// Base canonical blacklist - the only source of truth.
// Listings and webboard/blog content are rejected when a cleaned form of the
// text contains one of these. Thai entries are matched as substrings (Thai has
// no word boundaries); Latin entries are matched as whole words.
var baseBlacklistWords = []string{
	// scam / illegal solicitation
	"หลอกลวง",
	"แชร์ลูกโซ่",
	"ฟอกเงิน",
	"เงินกู้นอกระบบ",
	"พนัน",
	"บาคาร่า",
	"หวยออนไลน์",
	"ยาเสพติด",
	"ปลอมแปลงเอกสาร",
	// adult-service solicitation
	"ขายบริการ",
	"ไซด์ไลน์",
	// latin equivalents commonly used to dodge filters
	"casino",
	"baccarat",
	"gambling",
	"ponzi",
	"escort",
	"onlyfans",
}

var spaceRegex = regexp.MustCompile(`\s+`)

// obfuscation characters mapped back to their letter equivalents, so
// "c4sino" or "p0nzi" still match the canonical word.
var obfuscationReplacements = map[string]string{
	"@": "a",
	"4": "a",
	"3": "e",
	"!": "i",
	"1": "i",
	"0": "o",
	"$": "s",
	"5": "s",
	"7": "t",
	"+": "t",
}

// CleanText normalizes input to canonical form before blacklist comparison.
func CleanText(text string) string {
	cleaned := strings.ToLower(text)

	for old, replacement := range obfuscationReplacements {
		cleaned = strings.ReplaceAll(cleaned, old, replacement)
	}

	// Keep letters only; everything else becomes a word separator
	var builder strings.Builder
	for _, r := range cleaned {
		if unicode.IsLetter(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}
	cleaned = builder.String()

	cleaned = collapseLatinRepeats(cleaned)

	cleaned = spaceRegex.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// collapseLatinRepeats reduces repeated Latin letters to one ("caaasino" ->
// "casino"). Thai letters are left alone: doubled Thai characters are
// legitimate spelling, not obfuscation.
func collapseLatinRepeats(text string) string {
	var result strings.Builder
	lastChar := rune(0)

	for _, char := range text {
		if char == lastChar && char >= 'a' && char <= 'z' {
			continue
		}
		result.WriteRune(char)
		lastChar = char
	}

	return result.String()
}

func isThai(word string) bool {
	for _, r := range word {
		if unicode.In(r, unicode.Thai) {
			return true
		}
	}
	return false
}

// ContainsBlacklistedWord checks the cleaned text against the canonical
// blacklist and returns the matched words.
func ContainsBlacklistedWord(text string) (bool, []string) {
	cleaned := CleanText(text)
	words := strings.Fields(cleaned)

	var matched []string
	for _, base := range baseBlacklistWords {
		if isThai(base) {
			// Thai: substring match, no word boundaries to rely on
			if strings.Contains(cleaned, base) {
				matched = append(matched, base)
			}
			continue
		}

		// Latin: prefix match on whole words so plural forms still fire
		// ("casinos") without matching unrelated substrings mid-word.
		for _, w := range words {
			if strings.HasPrefix(w, base) {
				matched = append(matched, base)
				break
			}
		}
	}

	return len(matched) > 0, matched
}
