package label

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ehr/spl/internal/platform/kg"
	"github.com/ehr/spl/internal/platform/spl"
)

var _ Repository = (*SQLiteRepo)(nil)

// SQLiteRepo is a single-file label store for local knowledge bases.
type SQLiteRepo struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path with WAL enabled and
// makes sure the schema exists.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite has a single writer; one connection also keeps the pragmas
	// below in effect for every statement.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}

	return &SQLiteRepo{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS spl_label (
	id TEXT PRIMARY KEY,
	set_id TEXT NOT NULL,
	version_number INTEGER NOT NULL DEFAULT 0,
	document_id TEXT,
	document_type TEXT NOT NULL,
	title TEXT,
	effective_time TEXT,
	labeler_name TEXT,
	input_filename TEXT,
	product_count INTEGER NOT NULL DEFAULT 0,
	section_count INTEGER NOT NULL DEFAULT 0,
	graph_root TEXT NOT NULL,
	record TEXT NOT NULL,
	ingested_at TEXT NOT NULL,
	UNIQUE (set_id, version_number)
);

CREATE INDEX IF NOT EXISTS idx_spl_label_document_type ON spl_label(document_type);

CREATE TABLE IF NOT EXISTS spl_product (
	id TEXT PRIMARY KEY,
	label_id TEXT NOT NULL REFERENCES spl_label(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	product_name TEXT,
	generic_name TEXT,
	product_ndc TEXT,
	rx_otc_flag TEXT NOT NULL,
	marketing_category TEXT,
	application_number TEXT
);

CREATE INDEX IF NOT EXISTS idx_spl_product_label ON spl_product(label_id);

CREATE TABLE IF NOT EXISTS spl_section (
	id TEXT PRIMARY KEY,
	label_id TEXT NOT NULL REFERENCES spl_label(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	code TEXT,
	title TEXT,
	text_plain TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_spl_section_label ON spl_section(label_id);

CREATE TABLE IF NOT EXISTS kg_entity (
	label_id TEXT NOT NULL REFERENCES spl_label(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	entity_id TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	properties TEXT NOT NULL DEFAULT '{}',
	PRIMARY KEY (label_id, entity_id)
);

CREATE INDEX IF NOT EXISTS idx_kg_entity_id ON kg_entity(entity_id);

CREATE TABLE IF NOT EXISTS kg_edge (
	label_id TEXT NOT NULL REFERENCES spl_label(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	edge_type TEXT NOT NULL,
	source_id TEXT NOT NULL,
	target_id TEXT NOT NULL,
	properties TEXT NOT NULL DEFAULT '{}',
	PRIMARY KEY (label_id, edge_type, source_id, target_id)
);

CREATE INDEX IF NOT EXISTS idx_kg_edge_source ON kg_edge(source_id);
`

func (r *SQLiteRepo) Save(ctx context.Context, rec *spl.Record, g *kg.Graph) (*Label, error) {
	l, err := NewLabel(rec)
	if err != nil {
		return nil, err
	}
	l.IngestedAt = r.now().UTC()
	doc, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var oldID sql.NullString
	err = tx.QueryRowContext(ctx, `SELECT id FROM spl_label WHERE set_id = ? AND version_number = ?`,
		l.SetID, l.VersionNumber).Scan(&oldID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lookup label: %w", err)
	}
	if oldID.Valid {
		for _, q := range []string{
			`DELETE FROM kg_edge WHERE label_id = ?`,
			`DELETE FROM kg_entity WHERE label_id = ?`,
			`DELETE FROM spl_product WHERE label_id = ?`,
			`DELETE FROM spl_section WHERE label_id = ?`,
			`DELETE FROM spl_label WHERE id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, q, oldID.String); err != nil {
				return nil, fmt.Errorf("replace label: %w", err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO spl_label (id, set_id, version_number, document_id, document_type, title,
			effective_time, labeler_name, input_filename, product_count, section_count,
			graph_root, record, ingested_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		l.ID.String(), l.SetID, l.VersionNumber, l.DocumentID, l.DocumentType, l.Title,
		l.EffectiveTime, l.LabelerName, l.InputFilename, l.ProductCount, l.SectionCount,
		l.GraphRoot, string(doc), l.IngestedAt.Format(time.RFC3339Nano)); err != nil {
		return nil, fmt.Errorf("insert label: %w", err)
	}

	for _, p := range productRows(rec) {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO spl_product (id, label_id, position, product_name, generic_name,
				product_ndc, rx_otc_flag, marketing_category, application_number)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			p.ID.String(), l.ID.String(), p.Position, p.ProductName, p.GenericName, p.ProductNDC,
			p.RxOTCFlag, p.MarketingCategory, p.ApplicationNumber); err != nil {
			return nil, fmt.Errorf("insert product %d: %w", p.Position, err)
		}
	}
	for _, s := range sectionRows(rec) {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO spl_section (id, label_id, position, code, title, text_plain)
			VALUES (?,?,?,?,?,?)`,
			s.ID.String(), l.ID.String(), s.Position, s.Code, s.Title, s.Plain); err != nil {
			return nil, fmt.Errorf("insert section %d: %w", s.Position, err)
		}
	}

	if g != nil {
		for i, e := range g.Entities {
			props, err := json.Marshal(e.Properties)
			if err != nil {
				return nil, fmt.Errorf("encode entity %s: %w", e.EntityID, err)
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO kg_entity (label_id, position, entity_id, entity_type, properties)
				VALUES (?,?,?,?,?)`,
				l.ID.String(), i, e.EntityID, string(e.EntityType), string(props)); err != nil {
				return nil, fmt.Errorf("insert entity %s: %w", e.EntityID, err)
			}
		}
		for i, e := range g.Edges {
			props, err := json.Marshal(e.Properties)
			if err != nil {
				return nil, fmt.Errorf("encode edge %s: %w", e.EdgeType, err)
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO kg_edge (label_id, position, edge_type, source_id, target_id, properties)
				VALUES (?,?,?,?,?,?)`,
				l.ID.String(), i, string(e.EdgeType), e.SourceID, e.TargetID, string(props)); err != nil {
				return nil, fmt.Errorf("insert edge %s %s->%s: %w", e.EdgeType, e.SourceID, e.TargetID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit label: %w", err)
	}
	return l, nil
}

const sqliteLabelCols = `id, set_id, version_number, document_id, document_type, title,
	effective_time, labeler_name, input_filename, product_count, section_count,
	graph_root, ingested_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteLabel(row rowScanner, extra ...any) (*Label, error) {
	var l Label
	var filename sql.NullString
	var ingested string
	dest := []any{&l.ID, &l.SetID, &l.VersionNumber, &l.DocumentID, &l.DocumentType,
		&l.Title, &l.EffectiveTime, &l.LabelerName, &filename, &l.ProductCount,
		&l.SectionCount, &l.GraphRoot, &ingested}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	l.InputFilename = filename.String
	at, err := time.Parse(time.RFC3339Nano, ingested)
	if err != nil {
		return nil, fmt.Errorf("parse ingested_at %q: %w", ingested, err)
	}
	l.IngestedAt = at
	return &l, nil
}

func (r *SQLiteRepo) latest(ctx context.Context, setID string) (*Label, string, error) {
	var doc string
	l, err := scanSQLiteLabel(r.db.QueryRowContext(ctx, `SELECT `+sqliteLabelCols+`, record
		FROM spl_label WHERE set_id = ? ORDER BY version_number DESC LIMIT 1`, setID), &doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return l, doc, nil
}

func (r *SQLiteRepo) GetBySetID(ctx context.Context, setID string) (*spl.Record, error) {
	_, doc, err := r.latest(ctx, setID)
	if err != nil {
		return nil, err
	}
	var rec spl.Record
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		return nil, fmt.Errorf("decode stored record %s: %w", setID, err)
	}
	return &rec, nil
}

func (r *SQLiteRepo) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Label, int, error) {
	where := ` WHERE 1=1`
	var args []any
	if f.DocumentType != "" {
		where += ` AND document_type = ?`
		args = append(args, f.DocumentType)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM spl_label`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+sqliteLabelCols+` FROM spl_label`+where+
		` ORDER BY set_id, version_number DESC LIMIT ? OFFSET ?`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []*Label{}
	for rows.Next() {
		l, err := scanSQLiteLabel(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, l)
	}
	return items, total, rows.Err()
}

func (r *SQLiteRepo) Graph(ctx context.Context, setID string) (*kg.Graph, error) {
	l, _, err := r.latest(ctx, setID)
	if err != nil {
		return nil, err
	}
	g := kg.New()

	rows, err := r.db.QueryContext(ctx, `SELECT entity_id, entity_type, properties FROM kg_entity
		WHERE label_id = ? ORDER BY position`, l.ID.String())
	if err != nil {
		return nil, fmt.Errorf("query graph entities: %w", err)
	}
	for rows.Next() {
		var e kg.Entity
		var typ, props string
		if err := rows.Scan(&e.EntityID, &typ, &props); err != nil {
			rows.Close()
			return nil, err
		}
		e.EntityType = kg.EntityType(typ)
		if err := json.Unmarshal([]byte(props), &e.Properties); err != nil {
			rows.Close()
			return nil, fmt.Errorf("decode entity %s: %w", e.EntityID, err)
		}
		g.AddEntity(e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.db.QueryContext(ctx, `SELECT edge_type, source_id, target_id, properties FROM kg_edge
		WHERE label_id = ? ORDER BY position`, l.ID.String())
	if err != nil {
		return nil, fmt.Errorf("query graph edges: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e kg.Edge
		var typ, props string
		if err := rows.Scan(&typ, &e.SourceID, &e.TargetID, &props); err != nil {
			return nil, err
		}
		e.EdgeType = kg.EdgeType(typ)
		if err := json.Unmarshal([]byte(props), &e.Properties); err != nil {
			return nil, fmt.Errorf("decode edge %s: %w", e.EdgeType, err)
		}
		g.AddEdge(e)
	}
	return g, rows.Err()
}

func (r *SQLiteRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
