// Package titlecase capitalizes free text using newspaper-style rules:
// small function words stay lowercase except at structural boundaries,
// URLs and dotted abbreviations pass through verbatim, and existing
// internal capitalization (mRNA, iPhone) is preserved.
package titlecase

import (
	"strings"
	"unicode"
)

// smallWords are function words kept lowercase mid-title.
var smallWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true,
	"but": true, "by": true, "en": true, "for": true, "if": true,
	"in": true, "of": true, "on": true, "or": true, "the": true,
	"to": true, "v": true, "via": true, "vs": true,
}

// Title returns text title-cased. The function is pure, and idempotent
// for any input whose output keeps a lowercase letter or a brace; a
// caps-only output re-enters the caseless reset below.
func Title(text string) string {
	text = strings.TrimSpace(text)
	if !hasLower(text) && !strings.ContainsRune(text, '{') {
		// Shouted or caseless text carries no casing intent; start over
		// from all-lowercase. Braces exempt text from the reset: they
		// mark casing as deliberate.
		text = strings.ToLower(text)
	}
	return recase(text)
}

// Retitle is Title without the caseless reset, for text whose
// capitalization is already deliberate (brace-protected BibTeX, or the
// output of an earlier Title pass).
func Retitle(text string) string {
	return recase(strings.TrimSpace(text))
}

func recase(text string) string {
	toks := tokenize(text)
	capAtStarts(toks)
	capAtEnds(toks)
	capBeforeHyphen(toks)
	capAfterHyphen(toks)

	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.text)
	}
	return b.String()
}

// token is either a word (classified and cased during tokenizing) or a
// separator run kept verbatim.
type token struct {
	text  string
	word  bool
	small bool // lowercased small word, candidate for the boundary passes
}

// tokenize splits text into words and separators, applying the
// per-word casing rules as it goes. Words start at a letter (or
// underscores directly before one) on a word boundary; anything that
// matches no word shape passes through unchanged.
func tokenize(text string) []token {
	r := []rune(text)
	var toks []token
	var sep []rune

	flushSep := func() {
		if len(sep) > 0 {
			toks = append(toks, token{text: string(sep)})
			sep = nil
		}
	}

	i := 0
	for i < len(r) {
		c := r[i]
		if (unicode.IsLetter(c) || c == '_') && boundaryBefore(r, i) {
			if tok, n := scanWord(r, i); n > 0 {
				flushSep()
				toks = append(toks, tok)
				i += n
				continue
			}
		}
		sep = append(sep, c)
		i++
	}
	flushSep()
	return toks
}

// scanWord classifies and cases the word starting at i, returning the
// finished token and its length in runes. n == 0 means no word shape
// matched and the caller should pass the rune through.
func scanWord(r []rune, i int) (token, int) {
	j := i
	for j < len(r) && r[j] == '_' {
		j++
	}
	if j >= len(r) || !unicode.IsLetter(r[j]) {
		return token{}, 0
	}
	lead := string(r[i:j])
	escaped := i > 0 && r[i-1] == '\\'

	// Path and URL-like tokens keep their casing.
	if end := pathEnd(r, i, j); end > 0 {
		return token{text: string(r[i:end]), word: true}, end - i
	}
	if end := urlEnd(r, j); end > 0 {
		return token{text: string(r[i:end]), word: true}, end - i
	}

	// Backslash-escaped tokens (LaTeX commands) are never recased.
	if !escaped {
		if end := smallEnd(r, j); end > 0 {
			cat := catEnd(r, j, end)
			word := strings.ToLower(string(r[j:cat]))
			trail := string(r[cat:end])
			return token{
				text:  lead + word + trail,
				word:  true,
				small: lead == "" && trail == "",
			}, end - i
		}
		if end := lowerEnd(r, j); end > 0 {
			cat := catEnd(r, j, end)
			word := upperFirst(strings.ToLower(string(r[j:cat])))
			return token{text: lead + word + string(r[cat:end]), word: true}, end - i
		}
	}
	if end := otherEnd(r, j); end > 0 {
		return token{text: string(r[i:end]), word: true}, end - i
	}
	return token{}, 0
}

// catEnd strips the trailing underscores a boundary check may have
// absorbed, leaving just the cased part of the word.
func catEnd(r []rune, j, end int) int {
	for end > j && r[end-1] == '_' {
		end--
	}
	return end
}

// pathEnd matches a file-path token: letters directly after a slash
// that follows a space, continuing over path characters.
func pathEnd(r []rune, i, j int) int {
	if i != j || i < 2 || r[i-1] != '/' || r[i-2] != ' ' {
		return 0
	}
	k := j
	for k < len(r) && unicode.IsLetter(r[k]) {
		k++
	}
	m := k
	for m < len(r) && isPathRune(r[m]) {
		m++
	}
	for m > k && !isWordRune(r[m-1]) {
		m--
	}
	if m-j < 2 {
		return 0
	}
	if end, ok := withBoundary(r, m); ok {
		return end
	}
	return 0
}

// urlEnd matches a URL, domain, or email token: word characters, one
// of @ . :, then at least one more URL character, ending on a word
// character.
func urlEnd(r []rune, j int) int {
	k := j
	for k < len(r) && isURLHeadRune(r[k]) {
		k++
	}
	if k >= len(r) || !isURLSepRune(r[k]) {
		return 0
	}
	m := k + 1
	for m < len(r) && isURLTailRune(r[m]) {
		m++
	}
	for m > k+1 && !isWordRune(r[m-1]) {
		m--
	}
	if m == k+1 {
		return 0
	}
	for _, e := range aposEnds(r, m) {
		if end, ok := withBoundary(r, e); ok {
			return end
		}
	}
	return 0
}

// smallEnd matches a small word at j, honoring the q&/at&t guards.
func smallEnd(r []rune, j int) int {
	k := j
	for k < len(r) && unicode.IsLetter(r[k]) {
		k++
	}
	w := strings.ToLower(string(r[j:k]))
	if !smallWords[w] {
		return 0
	}
	if w == "a" && j >= 2 && strings.EqualFold(string(r[j-2:j]), "q&") {
		return 0
	}
	if w == "at" && k+2 <= len(r) && strings.EqualFold(string(r[k:k+2]), "&t") {
		return 0
	}
	for _, e := range aposEnds(r, k) {
		if end, ok := withBoundary(r, e); ok {
			return end
		}
	}
	return 0
}

// lowerEnd matches a word with no internal capitals: a letter followed
// by lowercase letters and embedded quote/bracket characters.
func lowerEnd(r []rune, j int) int {
	k := j + 1
	for k < len(r) && isLowerClassRune(r[k]) {
		k++
	}
	for e := k; e > j; e-- {
		if end, ok := withBoundary(r, e); ok {
			return end
		}
	}
	return 0
}

// otherEnd matches any remaining word shape, kept verbatim.
func otherEnd(r []rune, j int) int {
	k := j + 1
	for k < len(r) && isAlphaClassRune(r[k]) {
		k++
	}
	for e := k; e > j; e-- {
		if end, ok := withBoundary(r, e); ok {
			return end
		}
	}
	return 0
}

// aposEnds lists candidate token ends for an optional possessive
// suffix (apostrophe plus lowercase letters), longest first, ending
// with no suffix at all.
func aposEnds(r []rune, k int) []int {
	var ends []int
	if k < len(r) && (r[k] == '\'' || r[k] == '’') {
		e := k + 1
		for e < len(r) && unicode.IsLower(r[e]) {
			e++
		}
		for x := e; x > k; x-- {
			ends = append(ends, x)
		}
	}
	return append(ends, k)
}

// withBoundary extends end over trailing underscores when a word
// boundary still follows, or validates the boundary at end itself.
func withBoundary(r []rune, end int) (int, bool) {
	e := end
	for e < len(r) && r[e] == '_' {
		e++
	}
	if boundaryAfter(r, e) {
		return e, true
	}
	if e != end && boundaryAfter(r, end) {
		return end, true
	}
	return 0, false
}

func boundaryBefore(r []rune, i int) bool {
	return i == 0 || !isWordRune(r[i-1])
}

func boundaryAfter(r []rune, e int) bool {
	if e >= len(r) {
		return e > 0 && isWordRune(r[e-1])
	}
	return isWordRune(r[e-1]) != isWordRune(r[e])
}

// capAtStarts capitalizes small words opening the title (past leading
// punctuation), a subsentence after : . ; ? !, or a quoted subphrase.
func capAtStarts(toks []token) {
	first := -1
	for idx := range toks {
		if toks[idx].word {
			first = idx
			break
		}
	}
	for idx := range toks {
		t := &toks[idx]
		if !t.small {
			continue
		}
		if idx == first && punctOnly(toks[:idx]) {
			capitalize(t)
			continue
		}
		if idx > 0 && !toks[idx-1].word {
			sep := toks[idx-1].text
			if afterSentencePunct(sep) || opensSubphrase(sep) {
				capitalize(t)
			}
		}
	}
}

// capAtEnds capitalizes small words closing the title (before trailing
// punctuation) or a quoted subphrase.
func capAtEnds(toks []token) {
	last := -1
	for idx := len(toks) - 1; idx >= 0; idx-- {
		if toks[idx].word {
			last = idx
			break
		}
	}
	for idx := range toks {
		t := &toks[idx]
		if !t.small {
			continue
		}
		if idx == last && punctOnly(toks[idx+1:]) {
			capitalize(t)
			continue
		}
		if idx+1 < len(toks) && !toks[idx+1].word && closesSubphrase(toks[idx+1].text) {
			capitalize(t)
		}
	}
}

// capBeforeHyphen capitalizes a small word opening a hyphenated
// compound (in-flight), but not one continuing a chain (man-in-the-middle).
func capBeforeHyphen(toks []token) {
	for idx := range toks {
		t := &toks[idx]
		if !t.small {
			continue
		}
		if idx > 0 && strings.HasSuffix(toks[idx-1].text, "-") {
			continue
		}
		if idx+2 >= len(toks) || toks[idx+1].word || toks[idx+1].text != "-" {
			continue
		}
		next := toks[idx+2]
		if next.word && startsWithLetter(next.text) {
			capitalize(t)
		}
	}
}

// capAfterHyphen capitalizes a small word closing a hyphenated
// compound (stand-in), unless another hyphen follows or an ellipsis
// precedes the compound.
func capAfterHyphen(toks []token) {
	for idx := range toks {
		t := &toks[idx]
		if !t.small || idx < 2 {
			continue
		}
		if toks[idx-1].word || toks[idx-1].text != "-" {
			continue
		}
		prev := toks[idx-2]
		if !prev.word || !endsWithLetter(prev.text) || strings.HasPrefix(prev.text, "_") {
			continue
		}
		if idx >= 3 && strings.HasSuffix(toks[idx-3].text, "…") {
			continue
		}
		if idx+1 < len(toks) && strings.HasPrefix(toks[idx+1].text, "-") {
			continue
		}
		capitalize(t)
	}
}

func capitalize(t *token) {
	t.text = upperFirst(t.text)
	t.small = false
}

// punctOnly reports whether all text in toks is punctuation or symbols
// (no spaces, no words).
func punctOnly(toks []token) bool {
	for _, t := range toks {
		for _, c := range t.text {
			if !unicode.IsPunct(c) && !unicode.IsSymbol(c) {
				return false
			}
		}
	}
	return true
}

// afterSentencePunct reports whether sep ends with sentence
// punctuation followed by at least one space.
func afterSentencePunct(sep string) bool {
	r := []rune(sep)
	i := len(r) - 1
	spaces := 0
	for i >= 0 && r[i] == ' ' {
		i--
		spaces++
	}
	if spaces == 0 || i < 0 {
		return false
	}
	switch r[i] {
	case ':', '.', ';', '?', '!':
		return true
	}
	return false
}

// opensSubphrase reports whether sep ends with a space, an opening
// quote or bracket, and optional spaces.
func opensSubphrase(sep string) bool {
	r := []rune(sep)
	i := len(r) - 1
	for i >= 0 && r[i] == ' ' {
		i--
	}
	if i < 1 || !isOpenQuote(r[i]) {
		return false
	}
	return r[i-1] == ' '
}

// closesSubphrase reports whether sep starts with a closing quote or
// bracket followed by a space.
func closesSubphrase(sep string) bool {
	r := []rune(sep)
	return len(r) >= 2 && isCloseQuote(r[0]) && r[1] == ' '
}

func isOpenQuote(c rune) bool {
	switch c {
	case '\'', '"', '“', '‘', '(', '[':
		return true
	}
	return false
}

func isCloseQuote(c rune) bool {
	switch c {
	case '\'', '"', '’', '”', ')', ']':
		return true
	}
	return false
}

func hasLower(s string) bool {
	for _, c := range s {
		if unicode.IsLower(c) {
			return true
		}
	}
	return false
}

func upperFirst(s string) string {
	for i, c := range s {
		if unicode.IsLetter(c) {
			return s[:i] + string(unicode.ToTitle(c)) + s[i+len(string(c)):]
		}
	}
	return s
}

func startsWithLetter(s string) bool {
	for _, c := range s {
		return unicode.IsLetter(c)
	}
	return false
}

func endsWithLetter(s string) bool {
	r := []rune(s)
	return len(r) > 0 && unicode.IsLetter(r[len(r)-1])
}

func isWordRune(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'
}

func isLowerClassRune(c rune) bool {
	if unicode.IsLower(c) {
		return true
	}
	switch c {
	case '\'', '’', '(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}

func isAlphaClassRune(c rune) bool {
	if unicode.IsLetter(c) {
		return true
	}
	switch c {
	case '\'', '’', '(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}

func isURLHeadRune(c rune) bool {
	return unicode.IsLetter(c) || c == '-' || c == '_'
}

func isURLSepRune(c rune) bool {
	return c == '@' || c == '.' || c == ':'
}

func isURLTailRune(c rune) bool {
	return isURLHeadRune(c) || isURLSepRune(c) || c == '/'
}

func isPathRune(c rune) bool {
	return unicode.IsLetter(c) || c == '-' || c == '_' || c == '/'
}
