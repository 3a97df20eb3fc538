package interval

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Genome holds chromosome extents from a genome file ("chrom<TAB>length"
// per line, UCSC .genome / .chrom.sizes style). Line order defines the
// chromosome order override.
type Genome struct {
	Chroms  []string
	Lengths map[string]int64
}

// Order returns the chromosome order defined by the genome file.
func (g *Genome) Order() *ChromosomeOrder {
	return OrderFromList(g.Chroms)
}

// Length returns the extent of chrom, or 0 if unknown.
func (g *Genome) Length(chrom string) int64 {
	return g.Lengths[chrom]
}

// ReadGenome parses a genome file from r. Blank lines and lines starting
// with '#' are skipped.
func ReadGenome(r io.Reader) (*Genome, error) {
	g := &Genome{Lengths: make(map[string]int64)}
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("genome file line %d: expected \"chrom length\", got %q", lineNum, line)
		}
		length, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil || length < 0 || length > MaxCoord {
			return nil, fmt.Errorf("genome file line %d: bad length %q", lineNum, fields[1])
		}
		if _, ok := g.Lengths[fields[0]]; !ok {
			g.Chroms = append(g.Chroms, fields[0])
		}
		g.Lengths[fields[0]] = length
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read genome file: %w", err)
	}
	return g, nil
}

// LoadGenome reads a genome file from disk.
func LoadGenome(path string) (*Genome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open genome file: %w", err)
	}
	defer f.Close()
	return ReadGenome(f)
}
