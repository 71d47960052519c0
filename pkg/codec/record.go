package codec

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/timednotes/pkg/core"
)

const (
	// Header is the first line of every file written by Encode.
	Header = "text,timestamp,completed"

	// LegacyHeader is the header written by earlier versions of the tracker.
	// It is recognized and skipped on decode, never written.
	LegacyHeader = "NoteText,NoteDate,Completed"

	// TimestampLayout is fixed-width, sortable and locale independent.
	TimestampLayout = "2006-01-02 15:04:05"

	delimiter = ','
	quote     = '"'

	trueLiteral  = "True"
	falseLiteral = "False"

	minFields = 3
)

// ErrDecode is the root of every record decoding failure.
var ErrDecode = errors.New("decode failure")

// DecodeError reports which line and field could not be decoded.
type DecodeError struct {
	Line  int    // 1-based physical line where the record starts; 0 if unknown
	Field string // "record", "timestamp" or "completed"
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: invalid %s: %v", e.Line, e.Field, e.Err)
	}
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

// EscapeField quotes a text field if it contains the delimiter, a quote,
// or a line break. Internal quotes are doubled. Empty text encodes as "".
func EscapeField(field string) string {
	if field == "" {
		return `""`
	}
	if !strings.ContainsAny(field, ",\"\n\r") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// FormatTimestamp renders t in local time with TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.In(time.Local).Format(TimestampLayout)
}

// ParseTimestamp parses a value written by FormatTimestamp in local time.
func ParseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, strings.TrimSpace(s), time.Local)
}

// FormatBool renders the canonical word form understood by ParseBool.
func FormatBool(b bool) string {
	if b {
		return trueLiteral
	}
	return falseLiteral
}

// ParseBool accepts True/False in any letter case.
func ParseBool(s string) (bool, error) {
	switch v := strings.TrimSpace(s); {
	case strings.EqualFold(v, trueLiteral):
		return true, nil
	case strings.EqualFold(v, falseLiteral):
		return false, nil
	default:
		return false, fmt.Errorf("%q is not True or False", v)
	}
}

// EncodeRecord renders one note as a single record: text, timestamp, completed.
// The record contains a line break only when the text does, inside quotes.
func EncodeRecord(n core.Note) string {
	var b strings.Builder
	b.WriteString(EscapeField(n.Text))
	b.WriteByte(delimiter)
	b.WriteString(FormatTimestamp(n.Timestamp))
	b.WriteByte(delimiter)
	b.WriteString(FormatBool(n.Completed))
	return b.String()
}

var (
	errUnterminated = errors.New("unterminated quoted field")
	errStrayQuote   = errors.New("quote inside an unquoted field")
	errAfterQuote   = errors.New("text after closing quote")
)

// fieldScanner splits records into fields. A quote is special only as the
// first character of a field; inside a quoted field a doubled quote is a
// literal quote. Text is fed in chunks so a record can be scanned one
// physical line at a time.
type fieldScanner struct {
	fields   []string
	current  strings.Builder
	atStart  bool // no byte of the current field consumed yet
	inQuotes bool
	closed   bool // the current field's closing quote has been seen
	err      error
}

func newFieldScanner() *fieldScanner {
	return &fieldScanner{atStart: true}
}

func (s *fieldScanner) feed(text string) {
	for i := 0; i < len(text) && s.err == nil; i++ {
		c := text[i]
		switch {
		case s.inQuotes:
			if c != quote {
				s.current.WriteByte(c)
				continue
			}
			if i+1 < len(text) && text[i+1] == quote {
				s.current.WriteByte(quote)
				i++
				continue
			}
			s.inQuotes = false
			s.closed = true
		case c == delimiter:
			s.fields = append(s.fields, s.current.String())
			s.current.Reset()
			s.atStart = true
			s.closed = false
		case s.closed:
			s.err = errAfterQuote
		case c == quote:
			if !s.atStart {
				s.err = errStrayQuote
				continue
			}
			s.atStart = false
			s.inQuotes = true
		default:
			s.atStart = false
			s.current.WriteByte(c)
		}
	}
}

// open reports whether the scanner stopped inside a quoted field.
func (s *fieldScanner) open() bool {
	return s.err == nil && s.inQuotes
}

func (s *fieldScanner) finish() ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.inQuotes {
		return nil, errUnterminated
	}
	return append(s.fields, s.current.String()), nil
}

// SplitFields splits a record into fields, honoring quotes.
// A doubled quote inside a quoted field is a literal quote. A quote that
// does not start a field, text after a closing quote, and a quote left open
// at the end of the record are errors.
func SplitFields(record string) ([]string, error) {
	s := newFieldScanner()
	s.feed(record)
	return s.finish()
}

// DecodeRecord parses one record. The returned note has no ID.
func DecodeRecord(record string) (core.Note, error) {
	fields, err := SplitFields(strings.TrimRight(record, "\r"))
	if err != nil {
		return core.Note{}, &DecodeError{Field: "record", Err: err}
	}
	if len(fields) < minFields {
		return core.Note{}, &DecodeError{
			Field: "record",
			Err:   fmt.Errorf("expected %d fields, got %d", minFields, len(fields)),
		}
	}

	ts, err := ParseTimestamp(fields[1])
	if err != nil {
		return core.Note{}, &DecodeError{Field: "timestamp", Err: err}
	}

	completed, err := ParseBool(fields[2])
	if err != nil {
		return core.Note{}, &DecodeError{Field: "completed", Err: err}
	}

	return core.Note{
		Text:      fields[0],
		Timestamp: ts,
		Completed: completed,
	}, nil
}

// SkipLine reports whether a line carries no record: blank, or a header.
func SkipLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || trimmed == Header || strings.HasPrefix(trimmed, LegacyHeader)
}
