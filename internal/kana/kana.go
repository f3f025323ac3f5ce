// Package kana classifies and converts Japanese phonetic script.
// Hiragana and katakana are treated as equivalent for lookup purposes:
// conversion is a fixed codepoint offset over the two syllabaries.
package kana

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// offset between a hiragana codepoint and its katakana counterpart.
const offset = 'ァ' - 'ぁ'

const (
	hiraganaFirst = 'ぁ' // U+3041
	hiraganaLast  = 'ゖ' // U+3096
	markFirst     = '\u3099'
	markLast      = '\u309C'
	hiraIterFirst = 'ゝ' // U+309D
	hiraIterLast  = 'ゞ' // U+309E
	katakanaFirst = 'ァ' // U+30A1
	katakanaLast  = 'ヶ' // U+30F6
	prolonged     = 'ー' // U+30FC
	kataIterFirst = 'ヽ' // U+30FD
	kataIterLast  = 'ヾ' // U+30FE
)

// IsKana reports whether r is hiragana, katakana, a voicing mark,
// an iteration mark or the prolonged sound mark.
func IsKana(r rune) bool {
	switch {
	case r >= hiraganaFirst && r <= hiraganaLast:
		return true
	case r >= markFirst && r <= markLast:
		return true
	case r >= hiraIterFirst && r <= hiraIterLast:
		return true
	case r >= katakanaFirst && r <= katakanaLast:
		return true
	case r == prolonged:
		return true
	case r >= kataIterFirst && r <= kataIterLast:
		return true
	}
	return false
}

func isConvertibleHiragana(r rune) bool {
	return (r >= hiraganaFirst && r <= hiraganaLast) || (r >= hiraIterFirst && r <= hiraIterLast)
}

func isConvertibleKatakana(r rune) bool {
	return (r >= katakanaFirst && r <= katakanaLast) || (r >= kataIterFirst && r <= kataIterLast)
}

// ToKatakana maps every hiragana character in s to katakana.
// Everything else passes through unchanged.
func ToKatakana(s string) string {
	return strings.Map(func(r rune) rune {
		if isConvertibleHiragana(r) {
			return r + offset
		}
		return r
	}, s)
}

// ToHiragana maps every katakana character in s to hiragana.
// Katakana without a hiragana counterpart (ヷ-ヺ, ー) is kept as is.
func ToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if isConvertibleKatakana(r) {
			return r - offset
		}
		return r
	}, s)
}

// StripNonKana drops every rune for which IsKana is false.
func StripNonKana(s string) string {
	return strings.Map(func(r rune) rune {
		if IsKana(r) {
			return r
		}
		return -1
	}, s)
}

// IsAllKana reports whether every rune of s is kana. Empty input is all kana.
func IsAllKana(s string) bool {
	for _, r := range s {
		if !IsKana(r) {
			return false
		}
	}
	return true
}

// NormalizeReading produces the reading component of an index key:
// NFKC-composed (which also widens half-width katakana), katakana only,
// non-kana removed. All sources must derive reading keys through this function.
func NormalizeReading(s string) string {
	s = norm.NFKC.String(strings.TrimSpace(s))
	return StripNonKana(ToKatakana(s))
}

// NormalizeText trims and NFC-composes s without changing its script.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
