// Package bed provides streaming BED file parsing. It is the format-parser
// collaborator in front of the interval normalizer: it decodes raw records
// and leaves coordinate validation to the normalizer.
package bed

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/inodb/vibe-bedtools/internal/interval"
)

// ParseError reports a malformed BED line with its position.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

// InvalidRecord marks the error as describing a single bad input line
// rather than an I/O failure, so loaders can drop the record and continue.
func (e *ParseError) InvalidRecord() {}

// Parser reads raw interval records from a BED file. Supports plain and
// gzipped input (detected by magic bytes, not extension) and "-" for stdin.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	path       string
	lineNumber int
}

// NewParser opens a BED file for reading.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bed file: %w", err)
	}

	p := &Parser{file: file, path: path}

	// Check for gzip magic bytes (0x1f, 0x8b).
	buf := make([]byte, 2)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read bed file: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek bed file: %w", err)
	}

	if n == 2 && buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	return p, nil
}

// NewParserFromReader creates a parser reading plain BED text from r.
func NewParserFromReader(r io.Reader) *Parser {
	return &Parser{reader: bufio.NewReader(r), path: "<stream>"}
}

// Next returns the next record, or nil at end of input. Header, comment,
// track and browser lines are skipped.
func (p *Parser) Next() (*interval.Record, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err == io.EOF {
			if line == "" {
				return nil, nil
			}
			// Last line without trailing newline.
		} else if err != nil {
			return nil, fmt.Errorf("read bed file: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			if err == io.EOF {
				return nil, nil
			}
			continue
		}

		return p.parseLine(line)
	}
}

// parseLine parses a single data line with 3 to 6+ columns.
func (p *Parser) parseLine(line string) (*interval.Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) == 1 {
		// Some BED producers use spaces.
		fields = strings.Fields(line)
	}
	if len(fields) < 3 {
		return nil, &ParseError{Path: p.path, Line: p.lineNumber,
			Msg: fmt.Sprintf("expected at least 3 columns, got %d", len(fields))}
	}

	start, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, &ParseError{Path: p.path, Line: p.lineNumber,
			Msg: fmt.Sprintf("bad start coordinate %q", fields[1])}
	}
	end, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return nil, &ParseError{Path: p.path, Line: p.lineNumber,
			Msg: fmt.Sprintf("bad end coordinate %q", fields[2])}
	}

	rec := &interval.Record{Chrom: fields[0], Start: start, End: end}

	if len(fields) > 3 && fields[3] != "." {
		rec.Name = fields[3]
	}
	if len(fields) > 4 && fields[4] != "." {
		score, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, &ParseError{Path: p.path, Line: p.lineNumber,
				Msg: fmt.Sprintf("bad score %q", fields[4])}
		}
		rec.Score = score
		rec.HasScore = true
	}
	if len(fields) > 5 {
		rec.Strand = fields[5]
	}

	return rec, nil
}

// Line returns the current line number, for error context.
func (p *Parser) Line() int {
	return p.lineNumber
}

// Close releases the underlying file handles.
func (p *Parser) Close() error {
	var firstErr error
	if p.gzipReader != nil {
		firstErr = p.gzipReader.Close()
	}
	if p.file != nil {
		if err := p.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
