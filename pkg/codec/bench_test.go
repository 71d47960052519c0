package codec

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/timednotes/pkg/core"
)

func benchNotes(count int) []core.Note {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	notes := make([]core.Note, count)
	for i := range notes {
		notes[i] = core.Note{
			Text:      fmt.Sprintf("Benchmark note %d, with \"quotes\"\nand a second line", i),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Completed: i%2 == 0,
		}
	}
	return notes
}

func BenchmarkEncode(b *testing.B) {
	notes := benchNotes(1000)
	var buf bytes.Buffer

	b.ReportAllocs()
	for b.Loop() {
		buf.Reset()
		if err := Encode(&buf, notes); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	var buf bytes.Buffer
	if err := Encode(&buf, benchNotes(1000)); err != nil {
		b.Fatal(err)
	}
	data := buf.Bytes()

	b.ReportAllocs()
	for b.Loop() {
		if _, err := Decode(bytes.NewReader(data), Strict); err != nil {
			b.Fatal(err)
		}
	}
}
