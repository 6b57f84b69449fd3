package bib

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrUnbalanced indicates braces in a field value never close.
var ErrUnbalanced = errors.New("unbalanced braces")

// ErrUnterminated indicates a record body runs past end of input.
var ErrUnterminated = errors.New("unterminated record")

// ParseFile reads a bibliography file and returns its records.
func ParseFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	records, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Parse scans records from r. Text outside @type{...} blocks is
// ignored; @string, @preamble, and @comment blocks are skipped.
func Parse(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s := &scanner{src: string(data), line: 1}

	var records []Record
	for s.seekEntry() {
		rec, skip, err := s.scanEntry()
		if err != nil {
			return nil, err
		}
		if !skip {
			records = append(records, rec)
		}
	}
	return records, nil
}

// scanner walks the input byte by byte. Braces, quotes, and record
// punctuation are all ASCII, so multi-byte runes pass through values
// untouched.
type scanner struct {
	src  string
	pos  int
	line int
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) advance() {
	if s.src[s.pos] == '\n' {
		s.line++
	}
	s.pos++
}

func (s *scanner) skipSpace() {
	for !s.eof() && isSpace(s.src[s.pos]) {
		s.advance()
	}
}

func (s *scanner) consume(c byte) bool {
	if s.eof() || s.src[s.pos] != c {
		return false
	}
	s.advance()
	return true
}

// seekEntry advances to just past the next @, returning false at EOF.
func (s *scanner) seekEntry() bool {
	for !s.eof() {
		c := s.src[s.pos]
		s.advance()
		if c == '@' {
			return true
		}
	}
	return false
}

// scanEntry parses one @type{...} block. skip is true for non-record
// blocks (@string, @preamble, @comment).
func (s *scanner) scanEntry() (rec Record, skip bool, err error) {
	startLine := s.line
	entryType := strings.ToLower(s.scanName())
	if entryType == "" {
		return Record{}, false, fmt.Errorf("line %d: missing entry type after @", startLine)
	}
	s.skipSpace()
	if !s.consume('{') {
		return Record{}, false, fmt.Errorf("line %d: expected { after @%s", s.line, entryType)
	}

	switch entryType {
	case "comment", "preamble", "string":
		if _, err := s.scanBraced(startLine); err != nil {
			return Record{}, false, err
		}
		return Record{}, true, nil
	}

	key := s.scanKey()
	rec = NewRecord(entryType, key)
	s.skipSpace()
	if s.consume('}') {
		return rec, false, nil
	}
	if !s.consume(',') {
		return Record{}, false, fmt.Errorf("line %d: expected , after key %q in @%s", s.line, key, entryType)
	}

	for {
		s.skipSpace()
		if s.consume('}') {
			return rec, false, nil
		}
		if s.eof() {
			return Record{}, false, fmt.Errorf("line %d: @%s{%s}: %w", startLine, entryType, key, ErrUnterminated)
		}
		name := s.scanName()
		if name == "" {
			return Record{}, false, fmt.Errorf("line %d: expected field name in @%s{%s}", s.line, entryType, key)
		}
		s.skipSpace()
		if !s.consume('=') {
			return Record{}, false, fmt.Errorf("line %d: expected = after field %q in @%s{%s}", s.line, name, entryType, key)
		}
		field, err := s.scanValue()
		if err != nil {
			return Record{}, false, err
		}
		rec.Fields[strings.ToLower(name)] = field

		s.skipSpace()
		if s.consume(',') {
			continue
		}
		if s.consume('}') {
			return rec, false, nil
		}
		return Record{}, false, fmt.Errorf("line %d: expected , or } after field %q in @%s{%s}", s.line, name, entryType, key)
	}
}

// scanName reads an entry-type or field name.
func (s *scanner) scanName() string {
	start := s.pos
	for !s.eof() && isNameChar(s.src[s.pos]) {
		s.advance()
	}
	return s.src[start:s.pos]
}

// scanKey reads a citation key, which runs to the next comma, brace,
// or whitespace. An empty key is returned as "" and rejected later.
func (s *scanner) scanKey() string {
	s.skipSpace()
	start := s.pos
	for !s.eof() {
		c := s.src[s.pos]
		if c == ',' || c == '{' || c == '}' || isSpace(c) {
			break
		}
		s.advance()
	}
	return s.src[start:s.pos]
}

// scanValue reads one field value: a braced group, a quoted string, or
// a bare token, possibly joined by # concatenation. Only a lone bare
// token keeps its unwrapped form.
func (s *scanner) scanValue() (Field, error) {
	var parts []string
	bare := true
	for {
		s.skipSpace()
		startLine := s.line
		switch {
		case s.consume('{'):
			v, err := s.scanBraced(startLine)
			if err != nil {
				return Field{}, err
			}
			parts = append(parts, v)
			bare = false
		case s.consume('"'):
			v, err := s.scanQuoted(startLine)
			if err != nil {
				return Field{}, err
			}
			parts = append(parts, v)
			bare = false
		default:
			v := s.scanBareToken()
			if v == "" {
				return Field{}, fmt.Errorf("line %d: empty field value", s.line)
			}
			parts = append(parts, v)
		}
		s.skipSpace()
		if !s.consume('#') {
			break
		}
	}
	return Field{
		Value: strings.Join(parts, ""),
		Bare:  bare && len(parts) == 1,
	}, nil
}

// scanBraced consumes a brace-balanced group whose opening brace has
// already been read, returning the text inside. Backslash-escaped
// braces are literal.
func (s *scanner) scanBraced(startLine int) (string, error) {
	depth := 1
	start := s.pos
	for !s.eof() {
		switch s.src[s.pos] {
		case '\\':
			s.advance()
			if !s.eof() {
				s.advance()
			}
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				v := s.src[start:s.pos]
				s.advance()
				return v, nil
			}
		}
		s.advance()
	}
	return "", fmt.Errorf("line %d: %w", startLine, ErrUnbalanced)
}

// scanQuoted consumes a double-quoted value whose opening quote has
// already been read. Braces inside protect embedded quotes; a closing
// brace without an opener is an error.
func (s *scanner) scanQuoted(startLine int) (string, error) {
	depth := 0
	start := s.pos
	for !s.eof() {
		switch s.src[s.pos] {
		case '\\':
			s.advance()
			if !s.eof() {
				s.advance()
			}
			continue
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return "", fmt.Errorf("line %d: %w", startLine, ErrUnbalanced)
			}
			depth--
		case '"':
			if depth == 0 {
				v := s.src[start:s.pos]
				s.advance()
				return v, nil
			}
		}
		s.advance()
	}
	return "", fmt.Errorf("line %d: unterminated quoted value", startLine)
}

// scanBareToken reads an unquoted literal (a number or month macro).
func (s *scanner) scanBareToken() string {
	start := s.pos
	for !s.eof() {
		c := s.src[s.pos]
		if c == ',' || c == '}' || c == '#' || isSpace(c) {
			break
		}
		s.advance()
	}
	return s.src[start:s.pos]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isNameChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.' || c == '+' || c == ':':
		return true
	}
	return false
}
