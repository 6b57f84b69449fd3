// Package bib models BibTeX records and reads and writes them in the
// nested-brace @type{key, field = {value}, ...} format.
package bib

import (
	"sort"
	"strings"
)

// Field is one field value of a record.
type Field struct {
	Value string
	Bare  bool // unbraced literal (year = 2020, month = jan); emitted without braces
}

// Record is a single @type{key, ...} entry.
type Record struct {
	Type   string           // entry type, lowercased (article, misc, ...)
	Key    string           // citation key, kept verbatim
	Fields map[string]Field // keyed by lowercase field name
}

// NewRecord creates an empty record of the given type and key.
func NewRecord(entryType, key string) Record {
	return Record{
		Type:   strings.ToLower(entryType),
		Key:    key,
		Fields: make(map[string]Field),
	}
}

// Get returns the value of the named field.
func (r Record) Get(name string) (string, bool) {
	f, ok := r.Fields[name]
	return f.Value, ok
}

// Value returns the value of the named field, or "" if absent.
func (r Record) Value(name string) string {
	return r.Fields[name].Value
}

// Has reports whether the named field is present.
func (r Record) Has(name string) bool {
	_, ok := r.Fields[name]
	return ok
}

// Set stores a braced field value under the lowercased name.
func (r *Record) Set(name, value string) {
	if r.Fields == nil {
		r.Fields = make(map[string]Field)
	}
	r.Fields[strings.ToLower(name)] = Field{Value: value}
}

// SetIfAbsent stores value only when the field is not already present.
func (r *Record) SetIfAbsent(name, value string) {
	if !r.Has(strings.ToLower(name)) {
		r.Set(name, value)
	}
}

// Delete removes the named field if present.
func (r *Record) Delete(name string) {
	delete(r.Fields, name)
}

// FieldNames returns the record's field names sorted lexicographically.
func (r Record) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
