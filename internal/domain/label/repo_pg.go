package label

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ehr/spl/internal/platform/kg"
	"github.com/ehr/spl/internal/platform/spl"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type labelRepoPG struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewLabelRepoPG returns a Repository backed by the migrated Postgres
// schema.
func NewLabelRepoPG(pool *pgxpool.Pool) Repository {
	return &labelRepoPG{pool: pool, now: time.Now}
}

const labelCols = `id, set_id, version_number, document_id, document_type, title,
	effective_time, labeler_name, input_filename, product_count, section_count,
	graph_root, ingested_at`

func scanLabel(row pgx.Row) (*Label, error) {
	var l Label
	var filename *string
	err := row.Scan(&l.ID, &l.SetID, &l.VersionNumber, &l.DocumentID, &l.DocumentType,
		&l.Title, &l.EffectiveTime, &l.LabelerName, &filename, &l.ProductCount,
		&l.SectionCount, &l.GraphRoot, &l.IngestedAt)
	if filename != nil {
		l.InputFilename = *filename
	}
	return &l, err
}

func (r *labelRepoPG) Save(ctx context.Context, rec *spl.Record, g *kg.Graph) (*Label, error) {
	l, err := NewLabel(rec)
	if err != nil {
		return nil, err
	}
	l.IngestedAt = r.now().UTC()
	doc, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM spl_label WHERE set_id = $1 AND version_number = $2`,
		l.SetID, l.VersionNumber); err != nil {
		return nil, fmt.Errorf("replace label: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO spl_label (id, set_id, version_number, document_id, document_type, title,
			effective_time, labeler_name, input_filename, product_count, section_count,
			graph_root, record, ingested_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		l.ID, l.SetID, l.VersionNumber, l.DocumentID, l.DocumentType, l.Title,
		l.EffectiveTime, l.LabelerName, l.InputFilename, l.ProductCount, l.SectionCount,
		l.GraphRoot, doc, l.IngestedAt); err != nil {
		return nil, fmt.Errorf("insert label: %w", err)
	}

	for _, p := range productRows(rec) {
		if _, err := tx.Exec(ctx, `
			INSERT INTO spl_product (id, label_id, position, product_name, generic_name,
				product_ndc, rx_otc_flag, marketing_category, application_number)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			p.ID, l.ID, p.Position, p.ProductName, p.GenericName, p.ProductNDC,
			p.RxOTCFlag, p.MarketingCategory, p.ApplicationNumber); err != nil {
			return nil, fmt.Errorf("insert product %d: %w", p.Position, err)
		}
	}
	for _, s := range sectionRows(rec) {
		if _, err := tx.Exec(ctx, `
			INSERT INTO spl_section (id, label_id, position, code, title, text_plain)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			s.ID, l.ID, s.Position, s.Code, s.Title, s.Plain); err != nil {
			return nil, fmt.Errorf("insert section %d: %w", s.Position, err)
		}
	}

	if err := saveGraphPG(ctx, tx, l.ID, g); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit label: %w", err)
	}
	return l, nil
}

// saveGraphPG stores g as the graph of one label row. Entities and edges
// keep their build position so the graph reads back in the same order.
func saveGraphPG(ctx context.Context, q queryable, labelID uuid.UUID, g *kg.Graph) error {
	if g == nil {
		return nil
	}
	for i, e := range g.Entities {
		props, err := json.Marshal(e.Properties)
		if err != nil {
			return fmt.Errorf("encode entity %s: %w", e.EntityID, err)
		}
		if _, err := q.Exec(ctx, `
			INSERT INTO kg_entity (label_id, position, entity_id, entity_type, properties)
			VALUES ($1,$2,$3,$4,$5) ON CONFLICT (label_id, entity_id) DO NOTHING`,
			labelID, i, e.EntityID, string(e.EntityType), props); err != nil {
			return fmt.Errorf("insert entity %s: %w", e.EntityID, err)
		}
	}
	for i, e := range g.Edges {
		props, err := json.Marshal(e.Properties)
		if err != nil {
			return fmt.Errorf("encode edge %s: %w", e.EdgeType, err)
		}
		if _, err := q.Exec(ctx, `
			INSERT INTO kg_edge (label_id, position, edge_type, source_id, target_id, properties)
			VALUES ($1,$2,$3,$4,$5,$6) ON CONFLICT (label_id, edge_type, source_id, target_id) DO NOTHING`,
			labelID, i, string(e.EdgeType), e.SourceID, e.TargetID, props); err != nil {
			return fmt.Errorf("insert edge %s %s->%s: %w", e.EdgeType, e.SourceID, e.TargetID, err)
		}
	}
	return nil
}

func (r *labelRepoPG) latest(ctx context.Context, setID string) (*Label, []byte, error) {
	var doc []byte
	var l Label
	var filename *string
	err := r.pool.QueryRow(ctx, `SELECT `+labelCols+`, record FROM spl_label
		WHERE set_id = $1 ORDER BY version_number DESC LIMIT 1`, setID).Scan(
		&l.ID, &l.SetID, &l.VersionNumber, &l.DocumentID, &l.DocumentType,
		&l.Title, &l.EffectiveTime, &l.LabelerName, &filename, &l.ProductCount,
		&l.SectionCount, &l.GraphRoot, &l.IngestedAt, &doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if filename != nil {
		l.InputFilename = *filename
	}
	return &l, doc, nil
}

func (r *labelRepoPG) GetBySetID(ctx context.Context, setID string) (*spl.Record, error) {
	_, doc, err := r.latest(ctx, setID)
	if err != nil {
		return nil, err
	}
	var rec spl.Record
	if err := json.Unmarshal(doc, &rec); err != nil {
		return nil, fmt.Errorf("decode stored record %s: %w", setID, err)
	}
	return &rec, nil
}

func (r *labelRepoPG) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Label, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1
	if f.DocumentType != "" {
		where += fmt.Sprintf(` AND document_type = $%d`, idx)
		args = append(args, f.DocumentType)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM spl_label`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + labelCols + ` FROM spl_label` + where +
		fmt.Sprintf(` ORDER BY set_id, version_number DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []*Label{}
	for rows.Next() {
		l, err := scanLabel(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, l)
	}
	return items, total, rows.Err()
}

const graphEntitiesPG = `SELECT entity_id, entity_type, properties FROM kg_entity
WHERE label_id = $1 ORDER BY position`

const graphEdgesPG = `SELECT edge_type, source_id, target_id, properties FROM kg_edge
WHERE label_id = $1 ORDER BY position`

func (r *labelRepoPG) Graph(ctx context.Context, setID string) (*kg.Graph, error) {
	l, _, err := r.latest(ctx, setID)
	if err != nil {
		return nil, err
	}
	g := kg.New()

	rows, err := r.pool.Query(ctx, graphEntitiesPG, l.ID)
	if err != nil {
		return nil, fmt.Errorf("query graph entities: %w", err)
	}
	for rows.Next() {
		var e kg.Entity
		var typ string
		var props []byte
		if err := rows.Scan(&e.EntityID, &typ, &props); err != nil {
			rows.Close()
			return nil, err
		}
		e.EntityType = kg.EntityType(typ)
		if err := json.Unmarshal(props, &e.Properties); err != nil {
			rows.Close()
			return nil, fmt.Errorf("decode entity %s: %w", e.EntityID, err)
		}
		g.AddEntity(e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx, graphEdgesPG, l.ID)
	if err != nil {
		return nil, fmt.Errorf("query graph edges: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e kg.Edge
		var typ string
		var props []byte
		if err := rows.Scan(&typ, &e.SourceID, &e.TargetID, &props); err != nil {
			return nil, err
		}
		e.EdgeType = kg.EdgeType(typ)
		if err := json.Unmarshal(props, &e.Properties); err != nil {
			return nil, fmt.Errorf("decode edge %s: %w", e.EdgeType, err)
		}
		g.AddEdge(e)
	}
	return g, rows.Err()
}

func (r *labelRepoPG) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
