package bed

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func TestParserBasic(t *testing.T) {
	in := `track name=test
# a comment
chr1	100	200	exon1	960	+
chr1	300	400
chr2	0	50	.	.	-
`
	p := NewParserFromReader(strings.NewReader(in))

	rec, err := p.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec.Chrom != "chr1" || rec.Start != 100 || rec.End != 200 {
		t.Errorf("record = %+v, want chr1:100-200", rec)
	}
	if rec.Name != "exon1" || !rec.HasScore || rec.Score != 960 || rec.Strand != "+" {
		t.Errorf("optional fields = %+v", rec)
	}

	rec, err = p.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec.Chrom != "chr1" || rec.Start != 300 || rec.End != 400 || rec.Name != "" {
		t.Errorf("three-column record = %+v", rec)
	}

	rec, err = p.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec.Strand != "-" || rec.HasScore {
		t.Errorf("dot placeholders = %+v", rec)
	}

	rec, err = p.Next()
	if err != nil || rec != nil {
		t.Errorf("Next at EOF = (%v, %v), want (nil, nil)", rec, err)
	}
}

func TestParserNoTrailingNewline(t *testing.T) {
	p := NewParserFromReader(strings.NewReader("chr1\t5\t10"))
	rec, err := p.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec == nil || rec.End != 10 {
		t.Errorf("record = %+v, want chr1:5-10", rec)
	}
	rec, err = p.Next()
	if err != nil || rec != nil {
		t.Errorf("Next at EOF = (%v, %v), want (nil, nil)", rec, err)
	}
}

func TestParserMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"too few columns", "chr1\t100\n"},
		{"bad start", "chr1\tabc\t200\n"},
		{"bad end", "chr1\t100\txyz\n"},
		{"bad score", "chr1\t100\t200\tname\tnotanumber\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParserFromReader(strings.NewReader(tt.line))
			_, err := p.Next()
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("Next = %v, want ParseError", err)
			}
			if parseErr.Line != 1 {
				t.Errorf("Line = %d, want 1", parseErr.Line)
			}
		})
	}
}

func TestParserGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.bed.gz")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte("chr1\t10\t20\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Close gzip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close file: %v", err)
	}

	p, err := NewParser(path)
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	defer p.Close()

	rec, err := p.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec.Chrom != "chr1" || rec.Start != 10 || rec.End != 20 {
		t.Errorf("record = %+v, want chr1:10-20", rec)
	}
}

func TestParserSpaceSeparated(t *testing.T) {
	p := NewParserFromReader(strings.NewReader("chr1 10 20\n"))
	rec, err := p.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec.Chrom != "chr1" || rec.Start != 10 || rec.End != 20 {
		t.Errorf("record = %+v, want chr1:10-20", rec)
	}
}
