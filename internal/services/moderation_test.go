package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "CASINO", "casino"},
		{"maps obfuscation digits", "c4s1n0", "casino"},
		{"collapses repeated latin letters", "caaasinooo", "casino"},
		{"punctuation becomes separators", "ca-si.no", "ca si no"},
		{"thai text passes through", "รับสมัครงาน", "รับสมัครงาน"},
		{"doubled thai characters are kept", "งง", "งง"},
		{"whitespace is collapsed", "  a   b  ", "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestContainsBlacklistedWord(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		blocked bool
	}{
		{"clean thai listing", "รับสมัครพนักงานเสิร์ฟ ร้านอาหารย่านสีลม", false},
		{"thai blacklisted substring", "รับสมัครงานพนันออนไลน์ รายได้ดี", true},
		{"latin blacklisted word", "work at our casino tonight", true},
		{"latin obfuscated", "work at our c4sino tonight", true},
		{"latin plural still fires", "casinos hiring now", true},
		{"latin word embedded mid-word does not fire", "scarponzio is a surname", false},
		{"empty text", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocked, matched := ContainsBlacklistedWord(tt.input)
			assert.Equal(t, tt.blocked, blocked)
			if tt.blocked {
				assert.NotEmpty(t, matched)
			} else {
				assert.Empty(t, matched)
			}
		})
	}
}
