//go:build cgo

package graph

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements the Store interface using KuzuDB as the graph
// backend, so a built dependency graph can be queried across sessions. It
// requires CGO because the go-kuzu driver wraps KuzuDB's C library.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(":memory:", cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	return newKuzuStore(db)
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at the
// given directory path. KuzuDB creates the leaf directory itself for new
// databases.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(dbPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	return newKuzuStore(db)
}

func newKuzuStore(db *kuzu.Database) (*KuzuStore, error) {
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ddlStatements defines the Cypher DDL executed by InitSchema. External
// import targets are stored as File nodes with language "external" so that
// every edge has endpoints.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS File(
		path STRING,
		language STRING,
		PRIMARY KEY(path)
	)`,
	`CREATE REL TABLE IF NOT EXISTS DEPENDS_ON(FROM File TO File)`,
}

// InitSchema creates the node and relationship tables if they do not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// AddFile inserts a File node, ignoring duplicates.
func (s *KuzuStore) AddFile(_ context.Context, key string, lang Language) error {
	return s.exec(
		"MERGE (f:File {path: $path}) ON CREATE SET f.language = $lang",
		map[string]any{"path": key, "lang": string(lang)},
	)
}

// AddEdge inserts a DEPENDS_ON edge. Endpoints missing from the File table
// (external import tokens) are created with language "external".
func (s *KuzuStore) AddEdge(ctx context.Context, edge FileEdge) error {
	for _, endpoint := range []string{edge.Source, edge.Target} {
		if err := s.exec(
			"MERGE (f:File {path: $path}) ON CREATE SET f.language = $lang",
			map[string]any{"path": endpoint, "lang": "external"},
		); err != nil {
			return err
		}
	}
	return s.exec(
		`MATCH (a:File {path: $src}), (b:File {path: $dst})
		 CREATE (a)-[:DEPENDS_ON]->(b)`,
		map[string]any{"src": edge.Source, "dst": edge.Target},
	)
}

// Dependencies returns the targets key depends on.
func (s *KuzuStore) Dependencies(_ context.Context, key string) ([]string, error) {
	return s.neighborQuery(
		"MATCH (a:File {path: $path})-[:DEPENDS_ON]->(b:File) RETURN b.path",
		key,
	)
}

// Dependents returns the files that depend on key.
func (s *KuzuStore) Dependents(_ context.Context, key string) ([]string, error) {
	return s.neighborQuery(
		"MATCH (a:File)-[:DEPENDS_ON]->(b:File {path: $path}) RETURN a.path",
		key,
	)
}

func (s *KuzuStore) neighborQuery(cypher, key string) ([]string, error) {
	rows, err := s.query(cypher, map[string]any{"path": key})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, toString(r[0]))
	}
	return sortedUnique(out), nil
}

// Neighborhood performs a BFS over DEPENDS_ON edges starting from key. It
// returns one DependencyChain per reachable node.
func (s *KuzuStore) Neighborhood(ctx context.Context, key string, direction Direction, maxDepth int) ([]DependencyChain, error) {
	if maxDepth <= 0 {
		maxDepth = 10
	}

	type bfsEntry struct {
		path  []string
		depth int
	}
	visited := map[string]bool{key: true}
	queue := []bfsEntry{{path: []string{key}, depth: 0}}
	var chains []DependencyChain

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}
		tip := cur.path[len(cur.path)-1]

		var neighbors []string
		var err error
		switch direction {
		case DirectionUpstream:
			neighbors, err = s.Dependencies(ctx, tip)
		case DirectionDownstream:
			neighbors, err = s.Dependents(ctx, tip)
		default:
			return nil, fmt.Errorf("kuzu: unknown direction: %s", direction)
		}
		if err != nil {
			return nil, err
		}

		for _, nb := range neighbors {
			if visited[nb] {
				continue
			}
			visited[nb] = true
			newPath := make([]string, len(cur.path)+1)
			copy(newPath, cur.path)
			newPath[len(cur.path)] = nb
			chains = append(chains, DependencyChain{
				Nodes: newPath,
				Depth: cur.depth + 1,
			})
			queue = append(queue, bfsEntry{path: newPath, depth: cur.depth + 1})
		}
	}
	return chains, nil
}

// AssessImpact computes direct and transitive dependents of the changed
// files with a fan-out risk score.
func (s *KuzuStore) AssessImpact(ctx context.Context, changedFiles []string) (*ImpactResult, error) {
	totalFiles, err := s.countTable("File")
	if err != nil {
		return nil, err
	}

	changedSet := make(map[string]bool, len(changedFiles))
	for _, f := range changedFiles {
		changedSet[f] = true
	}

	directSet := map[string]bool{}
	transitiveSet := map[string]bool{}
	for _, f := range changedFiles {
		direct, err := s.Dependents(ctx, f)
		if err != nil {
			return nil, err
		}
		for _, d := range direct {
			if !changedSet[d] {
				directSet[d] = true
			}
		}

		chains, err := s.Neighborhood(ctx, f, DirectionDownstream, 10)
		if err != nil {
			return nil, err
		}
		for _, c := range chains {
			last := c.Nodes[len(c.Nodes)-1]
			if !changedSet[last] {
				transitiveSet[last] = true
			}
		}
	}

	risk := 0.0
	if totalFiles > 0 {
		risk = math.Min(1.0, float64(len(transitiveSet))/float64(totalFiles))
	}

	return &ImpactResult{
		DirectlyAffected:     setToSlice(directSet),
		TransitivelyAffected: setToSlice(transitiveSet),
		RiskScore:            risk,
	}, nil
}

// AllEdges returns every DEPENDS_ON edge.
func (s *KuzuStore) AllEdges(_ context.Context) ([]FileEdge, error) {
	rows, err := s.query(
		"MATCH (a:File)-[:DEPENDS_ON]->(b:File) RETURN a.path, b.path",
		nil,
	)
	if err != nil {
		return nil, err
	}
	edges := make([]FileEdge, 0, len(rows))
	for _, r := range rows {
		edges = append(edges, FileEdge{Source: toString(r[0]), Target: toString(r[1])})
	}
	return edges, nil
}

// Stats returns file and edge counts.
func (s *KuzuStore) Stats(_ context.Context) (*GraphStats, error) {
	files, err := s.countTable("File")
	if err != nil {
		return nil, err
	}
	rows, err := s.query("MATCH ()-[r:DEPENDS_ON]->() RETURN count(r)", nil)
	if err != nil {
		return nil, err
	}
	edges := 0
	if len(rows) > 0 && len(rows[0]) > 0 {
		edges = toInt(rows[0][0])
	}
	return &GraphStats{FileCount: files, EdgeCount: edges}, nil
}

// ---------- Internal helpers ----------

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// countTable returns the number of rows in a node table.
func (s *KuzuStore) countTable(table string) (int, error) {
	// Table name is a fixed internal constant, not user input.
	rows, err := s.query(fmt.Sprintf("MATCH (n:%s) RETURN count(n)", table), nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

// KuzuDB returns typed Go values; these helpers coerce any -> concrete type.

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
