package normalize

import (
	"regexp"
	"strings"
)

// ordinalPattern matches ordinal numbers as digits (21st) or words
// (third, thirty-seventh), the forms venue names lead with.
const ordinalPattern = `(?:\d+(?:st|nd|rd|th)` +
	`|(?:(?:twenty|thirty|forty|fifty|sixty|seventy|eighty|ninety)-)?` +
	`(?:first|second|third|fourth|fifth|sixth|seventh|eighth|ninth)` +
	`|tenth|eleventh|twelfth|thirteenth|fourteenth|fifteenth|sixteenth|seventeenth|eighteenth|nineteenth` +
	`|twentieth|thirtieth|fortieth|fiftieth|sixtieth|seventieth|eightieth|ninetieth)`

var (
	// conferencePhraseRE matches an ordinal-led conference qualifier
	// anywhere in the text ("the third annual conference on "). Removed
	// from titles as well as venues; the mandatory "conference on" tail
	// keeps ordinary ordinals ("the second law of...") intact.
	conferencePhraseRE = regexp.MustCompile(`(?i)\b(?:the\s+)?` + ordinalPattern + `\s+(?:annual\s+)?conference\s+on\s+`)

	leadingTheRE         = regexp.MustCompile(`(?i)^the\s+`)
	leadingOrdinalRE     = regexp.MustCompile(`(?i)^` + ordinalPattern + `\s+(?:annual\s+)?`)
	leadingProceedingsRE = regexp.MustCompile(`(?i)^proceedings\s+of\s+`)
	leadingAdvancesRE    = regexp.MustCompile(`(?i)^advances\s+in\s+`)
	leadingIntegerRE     = regexp.MustCompile(`^\d+\s+`)
	leadingConferenceRE  = regexp.MustCompile(`(?i)^conference\s+on\s+`)
	trailingParenRE      = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	arxivCaseRE          = regexp.MustCompile(`(?i)arxiv`)

	spaceRunRE       = regexp.MustCompile(`\s+`)
	trailingPeriodRE = regexp.MustCompile(`\.+$`)
)

// cleanField applies the shared field cleanup: braces out, whitespace
// collapsed, trailing periods dropped, conference qualifiers removed.
// Venue fields additionally lose their leading boilerplate and
// trailing qualifiers.
func cleanField(value string, venue bool) string {
	value = strings.NewReplacer("{", "", "}", "").Replace(value)
	value = spaceRunRE.ReplaceAllString(strings.TrimSpace(value), " ")
	value = trailingPeriodRE.ReplaceAllString(value, "")
	value = strings.TrimSpace(conferencePhraseRE.ReplaceAllString(value, ""))
	if venue {
		value = stripVenue(value)
	}
	return value
}

// stripVenue peels venue boilerplate off the front until nothing more
// matches, then drops a trailing parenthetical, fixes arXiv casing,
// and truncates at the first comma.
func stripVenue(value string) string {
	for {
		prev := value
		value = leadingTheRE.ReplaceAllString(value, "")
		value = leadingOrdinalRE.ReplaceAllString(value, "")
		value = leadingProceedingsRE.ReplaceAllString(value, "")
		value = leadingAdvancesRE.ReplaceAllString(value, "")
		value = leadingIntegerRE.ReplaceAllString(value, "")
		if m := leadingConferenceRE.FindString(value); m != "" {
			// Keep short names like "Conference on Robot Learning"
			// whole; only long forms lose the prefix.
			if len(strings.Fields(value[len(m):])) >= 4 {
				value = value[len(m):]
			}
		}
		if value == prev {
			break
		}
	}
	value = trailingParenRE.ReplaceAllString(value, "")
	value = arxivCaseRE.ReplaceAllLiteralString(value, "arXiv")
	if i := strings.IndexByte(value, ','); i >= 0 {
		value = value[:i]
	}
	return strings.TrimSpace(value)
}
