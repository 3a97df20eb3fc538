package interval

import (
	"reflect"
	"strings"
	"testing"
)

func TestLexicographicOrder(t *testing.T) {
	o := LexicographicOrder()
	chroms := []string{"chr2", "chr10", "chr1"}
	o.Sort(chroms)
	// Lexicographic: chr10 sorts before chr2. Documented default.
	want := []string{"chr1", "chr10", "chr2"}
	if !reflect.DeepEqual(chroms, want) {
		t.Errorf("Sort = %v, want %v", chroms, want)
	}
}

func TestOrderFromList(t *testing.T) {
	o := OrderFromList([]string{"chr1", "chr2", "chr10"})
	chroms := []string{"chr10", "chrUn_scaffold", "chr2", "chr1"}
	o.Sort(chroms)
	// Listed chromosomes keep list order; unlisted sort last.
	want := []string{"chr1", "chr2", "chr10", "chrUn_scaffold"}
	if !reflect.DeepEqual(chroms, want) {
		t.Errorf("Sort = %v, want %v", chroms, want)
	}
}

func TestReadGenome(t *testing.T) {
	in := "# assembly test\nchr1\t1000\nchr2\t500\n\nchr1\t1200\n"
	g, err := ReadGenome(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadGenome: %v", err)
	}
	if !reflect.DeepEqual(g.Chroms, []string{"chr1", "chr2"}) {
		t.Errorf("Chroms = %v", g.Chroms)
	}
	// Later lines override earlier lengths.
	if g.Length("chr1") != 1200 {
		t.Errorf("Length(chr1) = %d, want 1200", g.Length("chr1"))
	}
	if g.Length("chrX") != 0 {
		t.Errorf("Length(chrX) = %d, want 0 for unknown", g.Length("chrX"))
	}
}

func TestReadGenomeMalformed(t *testing.T) {
	if _, err := ReadGenome(strings.NewReader("chr1\n")); err == nil {
		t.Error("ReadGenome should reject lines without a length")
	}
	if _, err := ReadGenome(strings.NewReader("chr1\t-5\n")); err == nil {
		t.Error("ReadGenome should reject negative lengths")
	}
}
