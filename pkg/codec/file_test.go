package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aretw0/timednotes/pkg/core"
)

func TestEncode(t *testing.T) {
	notes := []core.Note{
		{Text: "first", Timestamp: mustTime(t, "2024-01-01 10:00:00")},
		{Text: "a, b", Timestamp: mustTime(t, "2024-01-02 10:00:00"), Completed: true},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, notes); err != nil {
		t.Fatal(err)
	}

	want := "text,timestamp,completed\n" +
		"first,2024-01-01 10:00:00,False\n" +
		"\"a, b\",2024-01-02 10:00:00,True\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeEmptyCollection(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if buf.String() != Header+"\n" {
		t.Errorf("expected header only, got %q", buf.String())
	}
}

func TestDecodeFileRoundTrip(t *testing.T) {
	notes := []core.Note{
		{Text: "line one\nline two", Timestamp: mustTime(t, "2024-01-01 10:00:00")},
		{Text: "", Timestamp: mustTime(t, "2024-01-02 10:00:00"), Completed: true},
		{Text: `"quoted", and
split across "lines"`, Timestamp: mustTime(t, "2024-01-03 10:00:00")},
		{Text: "crlf\r\ninside", Timestamp: mustTime(t, "2024-01-04 10:00:00")},
		{Text: "plain", Timestamp: mustTime(t, "2024-01-05 10:00:00"), Completed: true},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, notes); err != nil {
		t.Fatal(err)
	}

	for _, policy := range []Policy{Lenient, Strict} {
		t.Run(policy.String(), func(t *testing.T) {
			res, err := Decode(bytes.NewReader(buf.Bytes()), policy)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if diff := cmp.Diff(notes, res.Notes); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
			if res.Skipped != 0 {
				t.Errorf("expected nothing skipped, got %d", res.Skipped)
			}
		})
	}
}

func TestDecodeSkipsHeadersAndBlankLines(t *testing.T) {
	input := "NoteText,NoteDate,Completed\r\n" +
		"\r\n" +
		"legacy,2023-05-06 07:08:09,True\r\n" +
		"   \n" +
		"text,timestamp,completed\n" +
		"current,2023-05-07 07:08:09,False"

	res, err := Decode(strings.NewReader(input), Strict)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	want := []core.Note{
		{Text: "legacy", Timestamp: mustTime(t, "2023-05-06 07:08:09"), Completed: true},
		{Text: "current", Timestamp: mustTime(t, "2023-05-07 07:08:09")},
	}
	if diff := cmp.Diff(want, res.Notes); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

const malformedFile = "text,timestamp,completed\n" +
	"good,2024-01-01 10:00:00,False\n" +
	"bad,2024-13-45 99:99:99,False\n" +
	"also good,2024-01-02 10:00:00,True\n"

func TestDecodeLenientSkipsBadLines(t *testing.T) {
	res, err := Decode(strings.NewReader(malformedFile), Lenient)
	if err != nil {
		t.Fatalf("lenient decode must not fail: %v", err)
	}

	if len(res.Notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(res.Notes))
	}
	if res.Notes[0].Text != "good" || res.Notes[1].Text != "also good" {
		t.Errorf("unexpected notes %+v", res.Notes)
	}
	if res.Skipped != 1 || len(res.Errors) != 1 {
		t.Fatalf("expected 1 skipped, got %d (%v)", res.Skipped, res.Errors)
	}
	if res.Errors[0].Line != 3 || res.Errors[0].Field != "timestamp" {
		t.Errorf("unexpected error detail: %+v", res.Errors[0])
	}
}

func TestDecodeStrictFailsWholeFile(t *testing.T) {
	res, err := Decode(strings.NewReader(malformedFile), Strict)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if len(res.Notes) != 0 {
		t.Errorf("strict failure must not return partial notes, got %d", len(res.Notes))
	}

	var de *DecodeError
	if !errors.As(err, &de) || de.Line != 3 {
		t.Errorf("expected error on line 3, got %v", err)
	}
}

func TestDecodeDeterministic(t *testing.T) {
	for _, policy := range []Policy{Lenient, Strict} {
		first, err1 := Decode(strings.NewReader(malformedFile), policy)
		second, err2 := Decode(strings.NewReader(malformedFile), policy)
		if (err1 == nil) != (err2 == nil) {
			t.Fatalf("%s: error outcome differs between runs", policy)
		}
		if diff := cmp.Diff(first.Notes, second.Notes); diff != "" {
			t.Errorf("%s: notes differ between runs:\n%s", policy, diff)
		}
	}
}

func TestDecodeUnterminatedQuoteOnlyLosesOneLine(t *testing.T) {
	input := "text,timestamp,completed\n" +
		"\"never closed,2024-01-01 10:00:00,False\n" +
		"fine,2024-01-02 10:00:00,False\n" +
		"also fine,2024-01-03 10:00:00,True\n"

	res, err := Decode(strings.NewReader(input), Lenient)
	if err != nil {
		t.Fatal(err)
	}

	got := make([]string, 0, len(res.Notes))
	for _, n := range res.Notes {
		got = append(got, n.Text)
	}
	if diff := cmp.Diff([]string{"fine", "also fine"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if res.Skipped != 1 || res.Errors[0].Line != 2 {
		t.Errorf("expected line 2 skipped, got %+v", res.Errors)
	}
}

func TestDecodeStrayQuotesDoNotSwallowGoodLines(t *testing.T) {
	input := "text,timestamp,completed\n" +
		"a\"b,2024-01-01 00:00:00,False\n" +
		"good1,2024-01-02 00:00:00,False\n" +
		"good2,2024-01-03 00:00:00,False\n" +
		"c\"d,2024-01-04 00:00:00,False\n"

	res, err := Decode(strings.NewReader(input), Lenient)
	if err != nil {
		t.Fatal(err)
	}

	want := []core.Note{
		{Text: "good1", Timestamp: mustTime(t, "2024-01-02 00:00:00")},
		{Text: "good2", Timestamp: mustTime(t, "2024-01-03 00:00:00")},
	}
	if diff := cmp.Diff(want, res.Notes); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if res.Skipped != 2 {
		t.Fatalf("expected 2 skipped, got %d (%v)", res.Skipped, res.Errors)
	}
	if res.Errors[0].Line != 2 || res.Errors[1].Line != 5 {
		t.Errorf("expected lines 2 and 5 skipped, got %+v", res.Errors)
	}
}

func TestDecodeBadMultilineRecordLosesOnlyItsLines(t *testing.T) {
	input := "text,timestamp,completed\n" +
		"\"first part\n" +
		"second part\",not a time,False\n" +
		"fine,2024-01-02 10:00:00,False\n"

	res, err := Decode(strings.NewReader(input), Lenient)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Notes) != 1 || res.Notes[0].Text != "fine" {
		t.Errorf("expected only the fine note, got %+v", res.Notes)
	}
	if res.Skipped != 2 || res.Errors[0].Line != 2 || res.Errors[1].Line != 3 {
		t.Errorf("expected lines 2 and 3 skipped, got %+v", res.Errors)
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	res, err := Decode(strings.NewReader(""), Strict)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Notes) != 0 || res.Skipped != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}
