// Package dupes finds records that share a normalized title and
// author, the usual shape of an accidental double import.
package dupes

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/matsen/bibtidy/internal/bib"
)

// A Group is one set of citation keys whose records share a
// comparison key, in the order the records were encountered.
type Group struct {
	Keys []string `json:"keys"`
}

var (
	accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	nonWordRE    = regexp.MustCompile(`[^a-z0-9_\s]+`)
	spaceRunRE   = regexp.MustCompile(`\s+`)
)

// Key builds the comparison key for a title/author pair: lowercased,
// accents folded away, punctuation stripped, whitespace collapsed.
// Records with the same Key are considered duplicates of each other.
func Key(title, author string) string {
	s := strings.ToLower(title + " " + author)
	if folded, _, err := transform.String(accentFolder, s); err == nil {
		s = folded
	}
	s = nonWordRE.ReplaceAllString(s, "")
	s = spaceRunRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Find groups records by comparison key and returns every group with
// more than one member, ordered by the first member's citation key.
// Records without a citation key or title are skipped. The result is
// never nil, so it marshals to a JSON array even when empty.
func Find(records []bib.Record) []Group {
	members := make(map[string][]string)
	var seen []string
	for _, rec := range records {
		if rec.Key == "" || !rec.Has("title") {
			continue
		}
		k := Key(rec.Value("title"), rec.Value("author"))
		if k == "" {
			continue
		}
		if _, ok := members[k]; !ok {
			seen = append(seen, k)
		}
		members[k] = append(members[k], rec.Key)
	}
	groups := []Group{}
	for _, k := range seen {
		if keys := members[k]; len(keys) > 1 {
			groups = append(groups, Group{Keys: keys})
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Keys[0] < groups[j].Keys[0]
	})
	return groups
}
