package kobo

import (
	"strings"
	"unicode"
)

// fallbackPrefix names the file of words that do not start with two letters.
const fallbackPrefix = "11"

// Prefix returns the name of the dicthtml file a Kobo reader opens when
// looking up word: the first two runes, lower-cased, with a single rune
// padded by 'a'. Kana and kanji count as letters.
func Prefix(word string) string {
	word = strings.ToLower(strings.TrimSpace(word))

	prefix := make([]rune, 0, 2)
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return fallbackPrefix
		}
		prefix = append(prefix, r)
		if len(prefix) == 2 {
			break
		}
	}

	switch len(prefix) {
	case 0:
		return fallbackPrefix
	case 1:
		prefix = append(prefix, 'a')
	}
	return string(prefix)
}
