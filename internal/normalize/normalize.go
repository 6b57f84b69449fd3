// Package normalize rewrites parsed bibliography records into house
// style: arXiv preprints become @misc entries with eprint metadata,
// venue and title fields lose their boilerplate and get title-cased,
// and bookkeeping noise fields are deleted.
package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/matsen/bibtidy/internal/acronym"
	"github.com/matsen/bibtidy/internal/bib"
	"github.com/matsen/bibtidy/internal/titlecase"
)

// A Normalizer cleans records in place. Construct with New.
type Normalizer struct {
	fixer *acronym.Fixer
}

// New returns a Normalizer whose acronym pass layers extra entries on
// top of the built-in table.
func New(extra map[string]string) *Normalizer {
	return &Normalizer{fixer: acronym.NewFixer(extra)}
}

// Entry normalizes one record. The record is mutated even though an
// error aborts the whole run; callers discard all output on error.
func (n *Normalizer) Entry(rec *bib.Record) error {
	if rec.Key == "" {
		return fmt.Errorf("@%s record: missing citation key", rec.Type)
	}
	if !rec.Has("author") {
		return fmt.Errorf("record %s: missing required field 'author'", rec.Key)
	}
	convertPreprint(rec)
	ensureHowpublished(rec)
	n.cleanTitles(rec)
	stripAuthorMarkers(rec)
	fixEprinttype(rec)
	dropFields(rec)
	return nil
}

var (
	arxivJournalRE = regexp.MustCompile(`(?i)arxiv[:\s]*(\d+)\.(\d+)`)
	arxivVolumeRE  = regexp.MustCompile(`abs/(\d{4})\.(\d{4,5})`)
)

// convertPreprint turns records whose journal or volume carries an
// arXiv identifier into @misc entries, moving the identifier into
// eprint fields and dropping the fake journal.
func convertPreprint(rec *bib.Record) {
	var id string
	for _, name := range []string{"journal", "journaltitle"} {
		if m := arxivJournalRE.FindStringSubmatch(rec.Value(name)); m != nil {
			id = m[1] + "." + m[2]
			break
		}
	}
	if id == "" {
		if m := arxivVolumeRE.FindStringSubmatch(rec.Value("volume")); m != nil {
			id = m[1] + "." + m[2]
		}
	}
	if id == "" {
		return
	}
	rec.Type = "misc"
	rec.SetIfAbsent("eprint", id)
	rec.SetIfAbsent("eprinttype", "arXiv")
	rec.SetIfAbsent("howpublished", "arXiv:"+id)
	rec.Delete("volume")
	rec.Delete("journal")
	rec.Delete("journaltitle")
}

// ensureHowpublished synthesizes a howpublished line for @misc arXiv
// records that arrived with eprint metadata but no display form.
func ensureHowpublished(rec *bib.Record) {
	if rec.Type != "misc" || rec.Has("howpublished") {
		return
	}
	eprint, ok := rec.Get("eprint")
	if !ok {
		return
	}
	etype, ok := rec.Get("eprinttype")
	if !ok || !strings.Contains(strings.ToLower(etype), "arxiv") {
		return
	}
	rec.Set("howpublished", "arXiv:"+eprint)
}

var venueFields = map[string]bool{
	"booktitle":    true,
	"journal":      true,
	"journaltitle": true,
}

// cleanTitles rewrites the title-like fields. journaltitle comes after
// journal so that on rename its cleaned value wins.
func (n *Normalizer) cleanTitles(rec *bib.Record) {
	for _, name := range []string{"booktitle", "journal", "journaltitle", "title", "shorttitle"} {
		value, ok := rec.Get(name)
		if !ok {
			continue
		}
		protected := strings.ContainsRune(value, '{')
		value = cleanField(value, venueFields[name])
		if protected {
			// Braces mark casing as deliberate; a caps-only value from
			// an earlier pass must not re-enter the caseless reset.
			value = titlecase.Retitle(value)
		} else {
			value = titlecase.Title(value)
		}
		value = n.fixer.Fix(value)
		value = Protect(value)
		target := name
		if name == "journaltitle" {
			rec.Delete("journaltitle")
			target = "journal"
		}
		rec.Set(target, value)
	}
}

// stripAuthorMarkers deletes footnote asterisks from author lists.
func stripAuthorMarkers(rec *bib.Record) {
	if value, ok := rec.Get("author"); ok && strings.Contains(value, "*") {
		rec.Set("author", strings.ReplaceAll(value, "*", ""))
	}
}

func fixEprinttype(rec *bib.Record) {
	if value, ok := rec.Get("eprinttype"); ok {
		rec.Set("eprinttype", arxivCaseRE.ReplaceAllLiteralString(value, "arXiv"))
	}
}

// noiseFieldPrefixes name the fields deleted from every record. Prefix
// match, not exact: a field named notebook goes away with note.
var noiseFieldPrefixes = []string{
	"urldate", "abstract", "keywords", "note", "lang",
	"issn", "location", "file", "annotation",
}

func dropFields(rec *bib.Record) {
	for _, name := range rec.FieldNames() {
		for _, prefix := range noiseFieldPrefixes {
			if strings.HasPrefix(name, prefix) {
				rec.Delete(name)
				break
			}
		}
	}
	if rec.Type == "misc" {
		rec.Delete("eprintclass")
	} else {
		rec.Delete("eprint")
		rec.Delete("urldate")
	}
	if strings.Contains(rec.Value("url"), "doi.org") {
		rec.Delete("url")
	}
	if rec.Has("doi") && rec.Has("url") &&
		strings.Contains(strings.ToLower(rec.Value("doi")), "arxiv") &&
		strings.Contains(strings.ToLower(rec.Value("url")), "arxiv") {
		rec.Delete("doi")
	}
	if num := rec.Value("number"); num != "" && strings.Contains(rec.Value("howpublished"), num) {
		rec.Delete("number")
	}
}
