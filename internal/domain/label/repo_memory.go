package label

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ehr/spl/internal/platform/kg"
	"github.com/ehr/spl/internal/platform/spl"
)

type storedLabel struct {
	label  *Label
	record *spl.Record
	graph  *kg.Graph
}

type memoryRepo struct {
	mu     sync.RWMutex
	labels map[string]map[int]storedLabel
	now    func() time.Time
}

// NewMemoryRepo returns a Repository that lives for the process only.
func NewMemoryRepo() Repository {
	return &memoryRepo{
		labels: make(map[string]map[int]storedLabel),
		now:    time.Now,
	}
}

func (r *memoryRepo) Save(_ context.Context, rec *spl.Record, g *kg.Graph) (*Label, error) {
	l, err := NewLabel(rec)
	if err != nil {
		return nil, err
	}
	l.IngestedAt = r.now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()
	versions, ok := r.labels[l.SetID]
	if !ok {
		versions = make(map[int]storedLabel)
		r.labels[l.SetID] = versions
	}
	// Keep a private copy so later changes to g do not reach the store.
	stored := kg.New()
	stored.Merge(g)
	versions[l.VersionNumber] = storedLabel{label: l, record: rec, graph: stored}
	return l, nil
}

func (r *memoryRepo) latest(setID string) (storedLabel, bool) {
	versions, ok := r.labels[setID]
	if !ok || len(versions) == 0 {
		return storedLabel{}, false
	}
	best := -1
	for v := range versions {
		if v > best {
			best = v
		}
	}
	return versions[best], true
}

func (r *memoryRepo) GetBySetID(_ context.Context, setID string) (*spl.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.latest(setID)
	if !ok {
		return nil, ErrNotFound
	}
	return s.record, nil
}

func (r *memoryRepo) List(_ context.Context, f ListFilter, limit, offset int) ([]*Label, int, error) {
	r.mu.RLock()
	var all []*Label
	for _, versions := range r.labels {
		for _, s := range versions {
			if f.DocumentType != "" && s.label.DocumentType != f.DocumentType {
				continue
			}
			all = append(all, s.label)
		}
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].SetID != all[j].SetID {
			return all[i].SetID < all[j].SetID
		}
		return all[i].VersionNumber > all[j].VersionNumber
	})

	total := len(all)
	if offset >= total {
		return []*Label{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *memoryRepo) Graph(_ context.Context, setID string) (*kg.Graph, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.latest(setID)
	if !ok {
		return nil, ErrNotFound
	}
	g := kg.New()
	g.Merge(s.graph)
	return g, nil
}

func (r *memoryRepo) Ping(context.Context) error { return nil }
