package bib

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Store accumulates normalized records keyed by citation key. The last
// record inserted for a key wins; the key's first-seen position is
// kept for input-order output.
type Store struct {
	byKey map[string]Record
	order []string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{byKey: make(map[string]Record)}
}

// Insert adds a record, replacing any earlier record with the same key.
func (s *Store) Insert(rec Record) {
	if _, ok := s.byKey[rec.Key]; !ok {
		s.order = append(s.order, rec.Key)
	}
	s.byKey[rec.Key] = rec
}

// Len returns the number of distinct keys stored.
func (s *Store) Len() int {
	return len(s.byKey)
}

// Records returns the stored records sorted case-insensitively by key,
// or in first-seen order when inputOrder is true.
func (s *Store) Records(inputOrder bool) []Record {
	keys := make([]string, len(s.order))
	copy(keys, s.order)
	if !inputOrder {
		sort.Slice(keys, func(i, j int) bool {
			a, b := strings.ToLower(keys[i]), strings.ToLower(keys[j])
			if a != b {
				return a < b
			}
			return keys[i] < keys[j]
		})
	}
	records := make([]Record, 0, len(keys))
	for _, k := range keys {
		records = append(records, s.byKey[k])
	}
	return records
}

// WriteOptions control record serialization.
type WriteOptions struct {
	Wrap   int // soft wrap column for field lines; <= 0 disables wrapping
	Indent int // leading spaces per field line
}

// Write serializes records with fields sorted by name, = signs aligned
// per record, long values soft-wrapped at whitespace, and exactly one
// blank line between records.
func Write(w io.Writer, records []Record, opts WriteOptions) error {
	bw := bufio.NewWriter(w)
	for i, rec := range records {
		if i > 0 {
			bw.WriteByte('\n')
		}
		writeRecord(bw, rec, opts)
	}
	return bw.Flush()
}

func writeRecord(bw *bufio.Writer, rec Record, opts WriteOptions) {
	fmt.Fprintf(bw, "@%s{%s,\n", rec.Type, rec.Key)

	names := rec.FieldNames()
	maxLen := 0
	for _, name := range names {
		if len(name) > maxLen {
			maxLen = len(name)
		}
	}

	indent := strings.Repeat(" ", opts.Indent)
	valueCol := opts.Indent + maxLen + 3 // indent + padded name + "= "
	for _, name := range names {
		f := rec.Fields[name]
		value := f.Value
		if !f.Bare {
			value = "{" + value + "}"
		}
		line := fmt.Sprintf("%s%-*s= %s,", indent, maxLen+1, name, value)
		for _, part := range wrapLine(line, opts.Wrap, valueCol) {
			bw.WriteString(part)
			bw.WriteByte('\n')
		}
	}
	bw.WriteString("}\n")
}

// wrapLine soft-wraps a field line at spaces inside the value, with
// continuation lines aligned under the value's start column. A segment
// with no usable break point is left overlong rather than split
// mid-word.
func wrapLine(line string, width, valueCol int) []string {
	if width <= 0 || len(line) <= width {
		return []string{line}
	}
	cont := strings.Repeat(" ", valueCol)
	minCut := valueCol
	var parts []string
	for len(line) > width {
		limit := width + 1
		if limit > len(line) {
			limit = len(line)
		}
		cut := strings.LastIndexByte(line[:limit], ' ')
		if cut <= minCut {
			break
		}
		parts = append(parts, line[:cut])
		line = cont + line[cut+1:]
	}
	return append(parts, line)
}
