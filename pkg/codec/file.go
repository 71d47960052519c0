package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/timednotes/pkg/core"
)

// Policy selects how Decode treats records that fail to parse.
type Policy int

const (
	// Lenient skips bad records and counts them.
	Lenient Policy = iota
	// Strict fails the whole decode on the first bad record.
	Strict
)

func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "lenient"
}

// Result is the outcome of decoding a whole file.
type Result struct {
	Notes   []core.Note
	Skipped int
	Errors  []*DecodeError
}

// Encode writes the header followed by one record per note, in order.
func Encode(w io.Writer, notes []core.Note) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Header + "\n"); err != nil {
		return err
	}
	for _, n := range notes {
		if _, err := bw.WriteString(EncodeRecord(n) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads every record from r.
//
// A record continues onto the next physical line only when its text field
// opens with a quote that is still open at the end of the line. If that
// quote is never closed, or the joined lines do not form a valid record,
// only the opening line is treated as bad and decoding resumes on the line
// after it.
func Decode(r io.Reader, policy Policy) (Result, error) {
	lines, err := readLines(r)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for i := 0; i < len(lines); {
		start := i
		if SkipLine(lines[i]) {
			i++
			continue
		}

		n, next, err := decodeAt(lines, i)
		i = next
		if err != nil {
			var de *DecodeError
			if !errors.As(err, &de) {
				de = &DecodeError{Field: "record", Err: err}
			}
			de.Line = start + 1

			if policy == Strict {
				return Result{}, de
			}
			res.Skipped++
			res.Errors = append(res.Errors, de)
			continue
		}
		res.Notes = append(res.Notes, n)
	}

	return res, nil
}

// decodeAt decodes the record starting at lines[start] and returns the index
// of the first line after it.
func decodeAt(lines []string, start int) (core.Note, int, error) {
	if record, next, ok := joinRecord(lines, start); ok {
		if n, err := DecodeRecord(record); err == nil {
			return n, next, nil
		}
	}
	n, err := DecodeRecord(lines[start])
	return n, start + 1, err
}

// joinRecord joins lines[start] with the lines that follow it while the
// quoted text field opened on lines[start] stays open. ok is false when
// lines[start] does not open a multi-line text field or input ends first.
func joinRecord(lines []string, start int) (record string, next int, ok bool) {
	s := newFieldScanner()
	s.feed(lines[start])
	if !s.open() || len(s.fields) > 0 {
		return "", start + 1, false
	}

	var b strings.Builder
	b.WriteString(lines[start])
	for i := start + 1; i < len(lines); i++ {
		chunk := "\n" + lines[i]
		b.WriteString(chunk)
		s.feed(chunk)
		if !s.open() {
			return b.String(), i + 1, true
		}
	}
	return "", len(lines), false
}

func readLines(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	var lines []string
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			// A trailing \r is left in place: inside a quoted field it is content.
			lines = append(lines, strings.TrimSuffix(line, "\n"))
		}
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read notes: %w", err)
		}
	}
}
