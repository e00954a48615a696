package label

import (
	"context"

	"github.com/ehr/spl/internal/platform/kg"
	"github.com/ehr/spl/internal/platform/spl"
)

// Repository stores normalized records and merges their graphs into one
// knowledge base. Saving the same set id and version again replaces the
// stored record; graph entities already present are left untouched.
type Repository interface {
	Save(ctx context.Context, rec *spl.Record, g *kg.Graph) (*Label, error)
	GetBySetID(ctx context.Context, setID string) (*spl.Record, error)
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*Label, int, error)
	Graph(ctx context.Context, setID string) (*kg.Graph, error)
	Ping(ctx context.Context) error
}
