package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sort"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-bedtools/internal/interval"
)

// SchemaVersion is the persisted store layout version. Bump on any change
// to the intervals table or its index.
const SchemaVersion = "1"

const duckdbSchema = `
	CREATE TABLE IF NOT EXISTS intervals (
		set_id VARCHAR NOT NULL,
		chrom VARCHAR NOT NULL,
		start BIGINT NOT NULL,
		end_ BIGINT NOT NULL,
		strand TINYINT NOT NULL,
		name VARCHAR,
		score DOUBLE,
		input_order BIGINT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS metadata (
		key VARCHAR PRIMARY KEY,
		value VARCHAR
	);
`

const intervalColumns = "set_id, chrom, start, end_, strand, name, score, input_order"

// DuckDBStore is a Store persisted in a DuckDB database. It follows the
// same two-phase discipline as MemoryStore; Finalize builds the
// (set_id, chrom, start) index, records the schema version, and makes the
// store queryable. An existing database opens directly in StateQueryable.
//
// The load phase batch-inserts through the DuckDB Appender API on a pinned
// connection; rows become visible when Finalize flushes the appender.
type DuckDBStore struct {
	db       *sql.DB
	loadConn *sql.Conn
	appender *goduckdb.Appender
	path     string
	state    State
}

// CreateDuckDBStore creates a new persistent store at path, in StateLoading.
func CreateDuckDBStore(path string) (*DuckDBStore, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, &StoreError{Op: "open", Path: path, Err: err}
	}
	if _, err := db.Exec(duckdbSchema); err != nil {
		db.Close()
		return nil, &StoreError{Op: "create schema", Path: path, Err: err}
	}

	conn, err := db.Conn(context.Background())
	if err != nil {
		db.Close()
		return nil, &StoreError{Op: "pin connection", Path: path, Err: err}
	}
	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "intervals")
		return err
	}); err != nil {
		conn.Close()
		db.Close()
		return nil, &StoreError{Op: "create appender", Path: path, Err: err}
	}

	return &DuckDBStore{db: db, loadConn: conn, appender: appender, path: path}, nil
}

// OpenDuckDBStore opens an existing persistent store read-only for
// querying. The recorded schema version is checked before any query.
func OpenDuckDBStore(path string) (*DuckDBStore, error) {
	db, err := sql.Open("duckdb", fmt.Sprintf("%s?access_mode=read_only", path))
	if err != nil {
		return nil, &StoreError{Op: "open", Path: path, Err: err}
	}
	s := &DuckDBStore{db: db, path: path, state: StateQueryable}

	var found string
	err = db.QueryRow(`SELECT value FROM metadata WHERE key = 'schema_version'`).Scan(&found)
	if err == sql.ErrNoRows {
		db.Close()
		return nil, &SchemaVersionError{Path: path, Expected: SchemaVersion, Found: "none"}
	}
	if err != nil {
		db.Close()
		return nil, &StoreError{Op: "read schema version", Path: path, Err: err}
	}
	if found != SchemaVersion {
		db.Close()
		return nil, &SchemaVersionError{Path: path, Expected: SchemaVersion, Found: found}
	}
	return s, nil
}

// State returns the current lifecycle phase.
func (s *DuckDBStore) State() State {
	return s.state
}

// Append writes an interval row through the appender. Valid only in
// StateLoading; the row is not queryable until Finalize flushes the batch.
func (s *DuckDBStore) Append(iv *interval.GenomicInterval) error {
	if s.state != StateLoading {
		return phaseError("append", s.path, s.state)
	}
	var score interface{}
	if iv.HasScore {
		score = iv.Score
	}
	err := s.appender.AppendRow(
		iv.SetID, iv.Chrom, iv.Start, iv.End, int8(iv.Strand),
		nullString(iv.Name), score, iv.Order)
	if err != nil {
		return &StoreError{Op: "append interval", Path: s.path, Err: err}
	}
	return nil
}

// Finalize flushes the appender, creates the range index, stamps the schema
// version, and transitions to StateQueryable.
func (s *DuckDBStore) Finalize() error {
	if s.state != StateLoading {
		return phaseError("finalize", s.path, s.state)
	}
	if err := s.appender.Close(); err != nil {
		return &StoreError{Op: "flush appender", Path: s.path, Err: err}
	}
	s.appender = nil
	if err := s.loadConn.Close(); err != nil {
		return &StoreError{Op: "release connection", Path: s.path, Err: err}
	}
	s.loadConn = nil

	if _, err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_intervals_pos ON intervals(set_id, chrom, start)
	`); err != nil {
		return &StoreError{Op: "create index", Path: s.path, Err: err}
	}
	if _, err := s.db.Exec(`
		INSERT OR REPLACE INTO metadata (key, value) VALUES ('schema_version', ?)
	`, SchemaVersion); err != nil {
		return &StoreError{Op: "write schema version", Path: s.path, Err: err}
	}
	s.state = StateQueryable
	return nil
}

// QueryOverlaps returns intervals of the set on chrom intersecting
// [start, end), in (start, end, input order) order. The SQL predicate is a
// closed-span superset; exact half-open and zero-length semantics are
// applied on the scanned rows.
func (s *DuckDBStore) QueryOverlaps(setID, chrom string, start, end int64) ([]*interval.GenomicInterval, error) {
	if s.state != StateQueryable {
		return nil, phaseError("query overlaps", s.path, s.state)
	}
	rows, err := s.db.Query(`
		SELECT `+intervalColumns+`
		FROM intervals
		WHERE set_id = ? AND chrom = ? AND start <= ? AND end_ >= ?
		ORDER BY start, end_, input_order
	`, setID, chrom, end, start)
	if err != nil {
		return nil, &StoreError{Op: "query overlaps", Path: s.path, Err: err}
	}
	defer rows.Close()

	query := &interval.GenomicInterval{Chrom: chrom, Start: start, End: end}
	var hits []*interval.GenomicInterval
	for rows.Next() {
		iv, err := s.scanInterval(rows)
		if err != nil {
			return nil, err
		}
		if iv.Overlaps(query) {
			hits = append(hits, iv)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "query overlaps", Path: s.path, Err: err}
	}
	return hits, nil
}

// QueryNearest returns the interval of the set minimizing absolute distance
// to [start, end), with the same contract as MemoryStore.QueryNearest.
func (s *DuckDBStore) QueryNearest(setID, chrom string, start, end, maxDistance int64) (*interval.GenomicInterval, error) {
	hits, err := s.QueryOverlaps(setID, chrom, start, end)
	if err != nil {
		return nil, err
	}
	if len(hits) > 0 {
		return hits[0], nil
	}

	left, err := s.queryOne(`
		SELECT `+intervalColumns+`
		FROM intervals
		WHERE set_id = ? AND chrom = ? AND end_ <= ?
		ORDER BY end_ DESC, start, input_order
		LIMIT 1
	`, setID, chrom, start)
	if err != nil {
		return nil, err
	}
	right, err := s.queryOne(`
		SELECT `+intervalColumns+`
		FROM intervals
		WHERE set_id = ? AND chrom = ? AND start >= ?
		ORDER BY start, end_, input_order
		LIMIT 1
	`, setID, chrom, end)
	if err != nil {
		return nil, err
	}

	query := &interval.GenomicInterval{Chrom: chrom, Start: start, End: end}
	best := pickNearer(query, left, right)
	if best == nil {
		return nil, nil
	}
	if d := query.Distance(best); maxDistance >= 0 && abs64(d) > maxDistance {
		return nil, nil
	}
	return best, nil
}

// Partition returns the sorted partition for one chromosome.
func (s *DuckDBStore) Partition(setID, chrom string) ([]*interval.GenomicInterval, error) {
	if s.state != StateQueryable {
		return nil, phaseError("partition", s.path, s.state)
	}
	rows, err := s.db.Query(`
		SELECT `+intervalColumns+`
		FROM intervals
		WHERE set_id = ? AND chrom = ?
		ORDER BY start, end_, input_order
	`, setID, chrom)
	if err != nil {
		return nil, &StoreError{Op: "partition", Path: s.path, Err: err}
	}
	defer rows.Close()

	var ivs []*interval.GenomicInterval
	for rows.Next() {
		iv, err := s.scanInterval(rows)
		if err != nil {
			return nil, err
		}
		ivs = append(ivs, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "partition", Path: s.path, Err: err}
	}
	return ivs, nil
}

// Chromosomes returns the set's chromosomes in lexicographic order.
func (s *DuckDBStore) Chromosomes(setID string) ([]string, error) {
	if s.state != StateQueryable {
		return nil, phaseError("chromosomes", s.path, s.state)
	}
	rows, err := s.db.Query(`
		SELECT DISTINCT chrom FROM intervals WHERE set_id = ? ORDER BY chrom
	`, setID)
	if err != nil {
		return nil, &StoreError{Op: "chromosomes", Path: s.path, Err: err}
	}
	defer rows.Close()

	var chroms []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, &StoreError{Op: "chromosomes", Path: s.path, Err: err}
		}
		chroms = append(chroms, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "chromosomes", Path: s.path, Err: err}
	}
	sort.Strings(chroms)
	return chroms, nil
}

// Count returns the number of intervals in a set.
func (s *DuckDBStore) Count(setID string) (int64, error) {
	if s.state != StateQueryable {
		return 0, phaseError("count", s.path, s.state)
	}
	var n int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM intervals WHERE set_id = ?`, setID).Scan(&n)
	if err != nil {
		return 0, &StoreError{Op: "count", Path: s.path, Err: err}
	}
	return n, nil
}

// SetIDs returns the identifiers of all loaded sets.
func (s *DuckDBStore) SetIDs() ([]string, error) {
	if s.state != StateQueryable {
		return nil, phaseError("set ids", s.path, s.state)
	}
	rows, err := s.db.Query(`SELECT DISTINCT set_id FROM intervals ORDER BY set_id`)
	if err != nil {
		return nil, &StoreError{Op: "set ids", Path: s.path, Err: err}
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, &StoreError{Op: "set ids", Path: s.path, Err: err}
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "set ids", Path: s.path, Err: err}
	}
	return ids, nil
}

// Close releases the appender, if the store is still loading, and the
// database connection.
func (s *DuckDBStore) Close() error {
	if s.appender != nil {
		s.appender.Close()
		s.appender = nil
	}
	if s.loadConn != nil {
		s.loadConn.Close()
		s.loadConn = nil
	}
	return s.db.Close()
}

func (s *DuckDBStore) queryOne(q string, args ...interface{}) (*interval.GenomicInterval, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, &StoreError{Op: "query nearest", Path: s.path, Err: err}
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rowsErr(rows, s.path)
	}
	return s.scanInterval(rows)
}

func rowsErr(rows *sql.Rows, path string) error {
	if err := rows.Err(); err != nil {
		return &StoreError{Op: "query nearest", Path: path, Err: err}
	}
	return nil
}

func (s *DuckDBStore) scanInterval(rows *sql.Rows) (*interval.GenomicInterval, error) {
	iv := &interval.GenomicInterval{}
	var name sql.NullString
	var score sql.NullFloat64
	var strand int8
	err := rows.Scan(&iv.SetID, &iv.Chrom, &iv.Start, &iv.End, &strand, &name, &score, &iv.Order)
	if err != nil {
		return nil, &StoreError{Op: "scan interval", Path: s.path, Err: err}
	}
	iv.Strand = interval.Strand(strand)
	iv.Name = name.String
	if score.Valid {
		iv.Score = score.Float64
		iv.HasScore = true
	}
	return iv, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
