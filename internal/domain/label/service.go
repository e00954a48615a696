package label

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ehr/spl/internal/platform/batch"
	"github.com/ehr/spl/internal/platform/kg"
	"github.com/ehr/spl/internal/platform/spl"
)

// Service parses SPL documents and merges them into the label store.
type Service struct {
	parser *spl.Parser
	labels Repository
	logger zerolog.Logger
}

func NewService(parser *spl.Parser, labels Repository, logger zerolog.Logger) *Service {
	return &Service{parser: parser, labels: labels, logger: logger}
}

// Parse normalizes one document without storing it.
func (s *Service) Parse(data []byte, filename string) (*spl.Record, error) {
	return s.parser.Parse(data, filename)
}

// BuildGraph parses one document and projects it without storing it.
func (s *Service) BuildGraph(data []byte, filename string) (*kg.Graph, error) {
	rec, err := s.parser.Parse(data, filename)
	if err != nil {
		return nil, err
	}
	return kg.Build(rec), nil
}

// Ingest parses data and stores the record together with its graph.
func (s *Service) Ingest(ctx context.Context, data []byte, filename string) (*Label, *spl.Record, error) {
	rec, err := s.parser.Parse(data, filename)
	if err != nil {
		return nil, nil, err
	}
	l, err := s.Store(ctx, rec, kg.Build(rec))
	if err != nil {
		return nil, nil, err
	}
	return l, rec, nil
}

// Store saves an already parsed record. A nil graph is built from rec.
func (s *Service) Store(ctx context.Context, rec *spl.Record, g *kg.Graph) (*Label, error) {
	if g == nil {
		g = kg.Build(rec)
	}
	l, err := s.labels.Save(ctx, rec, g)
	if err != nil {
		return nil, fmt.Errorf("save label %s: %w", rec.Label(), err)
	}
	s.logger.Info().
		Str("set_id", l.SetID).
		Int("version", l.VersionNumber).
		Str("file", l.InputFilename).
		Int("products", l.ProductCount).
		Int("entities", len(g.Entities)).
		Msg("label ingested")
	return l, nil
}

// Sink adapts Store for the batch runner and the drop-folder watcher.
func (s *Service) Sink() batch.SinkFunc {
	return func(ctx context.Context, res *batch.Result) error {
		_, err := s.Store(ctx, res.Record, res.Graph)
		return err
	}
}

func (s *Service) Get(ctx context.Context, setID string) (*spl.Record, error) {
	return s.labels.GetBySetID(ctx, setID)
}

func (s *Service) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Label, int, error) {
	return s.labels.List(ctx, f, limit, offset)
}

func (s *Service) Graph(ctx context.Context, setID string) (*kg.Graph, error) {
	return s.labels.Graph(ctx, setID)
}
