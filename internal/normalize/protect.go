package normalize

import (
	"strings"
	"unicode"
)

// Protect wraps each run of capitalized words in braces so downstream
// case-folding tools keep proper nouns intact: "A Study of Machine
// Learning" becomes "{A Study} of {Machine Learning}". Hyphenated and
// digit-suffixed words stay inside their run; backslash-escaped tokens
// are left unwrapped.
func Protect(text string) string {
	r := []rune(text)
	var b strings.Builder
	i := 0
	for i < len(r) {
		start, end := nextRun(r, i)
		if start < 0 {
			b.WriteString(string(r[i:]))
			break
		}
		b.WriteString(string(r[i:start]))
		b.WriteByte('{')
		b.WriteString(string(r[start:end]))
		b.WriteByte('}')
		i = end
	}
	return b.String()
}

// nextRun finds the next run of protectable words at or after i: one
// or more capitalized words joined by single spaces. Returns start < 0
// when no run remains.
func nextRun(r []rune, i int) (int, int) {
	for ; i < len(r); i++ {
		end := wordEnd(r, i)
		if end < 0 {
			continue
		}
		for end < len(r) && r[end] == ' ' {
			next := wordEnd(r, end+1)
			if next < 0 {
				break
			}
			end = next
		}
		return i, end
	}
	return -1, -1
}

// wordEnd returns the end of a protectable word starting exactly at i,
// or -1. A protectable word begins with an uppercase letter (or is the
// standalone word "i"), starts on a word boundary, and is not escaped.
func wordEnd(r []rune, i int) int {
	c := r[i]
	if i > 0 && (isWordRune(r[i-1]) || r[i-1] == '\\') {
		return -1
	}
	standalone := c == 'i' && (i+1 >= len(r) || !isWordRune(r[i+1]))
	if !unicode.IsUpper(c) && !standalone {
		return -1
	}
	end := i + 1
	for end < len(r) && isProtectRune(r[end]) {
		end++
	}
	for end > i+1 && !isAlnumRune(r[end-1]) {
		end--
	}
	return end
}

func isProtectRune(c rune) bool {
	return isAlnumRune(c) || c == '-' || c == '\'' || c == '’'
}

func isAlnumRune(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c)
}

func isWordRune(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'
}
