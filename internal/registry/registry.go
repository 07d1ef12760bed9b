package registry

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/domain"
)

// Registry is the process-lifetime scenario store. Records are write-once:
// there is no update or delete.
type Registry struct {
	mu      sync.RWMutex
	records map[string]domain.Record
	order   []string
	now     func() time.Time
}

func New() *Registry {
	return &Registry{
		records: make(map[string]domain.Record),
		now:     time.Now,
	}
}

// Create stores a new record keyed by name and derives its per-step totals.
func (r *Registry) Create(name, systemID string, d domain.Duration, p domain.Pattern, states domain.StatesValues, series domain.UsageSeries) (domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[name]; exists {
		return domain.Record{}, &domain.DuplicateScenarioError{Name: name}
	}

	rec := domain.Record{
		ID:           uuid.New(),
		Name:         name,
		SystemID:     systemID,
		Duration:     d,
		Pattern:      p,
		StatesValues: states,
		Series:       series.Clone(),
		Total:        Totals(series),
		CreatedAt:    r.now().UTC(),
	}
	r.records[name] = rec
	r.order = append(r.order, name)
	return rec.Clone(), nil
}

func (r *Registry) Get(name string) (domain.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[name]
	if !ok {
		return domain.Record{}, &domain.NotFoundError{Name: name}
	}
	return rec.Clone(), nil
}

// GetMany resolves names in order and fails on the first missing one.
func (r *Registry) GetMany(names []string) ([]domain.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Record, 0, len(names))
	for _, name := range names {
		rec, ok := r.records[name]
		if !ok {
			return nil, &domain.NotFoundError{Name: name}
		}
		out = append(out, rec.Clone())
	}
	return out, nil
}

// List returns summaries in creation order.
func (r *Registry) List() []domain.Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Summary, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.records[name].Summary())
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Totals sums device usage per hour step in fixed device order.
func Totals(series domain.UsageSeries) []float64 {
	steps := series.Steps()
	out := make([]float64, steps)
	col := make([]float64, len(domain.Devices))
	for i := 0; i < steps; i++ {
		for j, dev := range domain.Devices {
			col[j] = 0
			if vals := series[dev]; i < len(vals) {
				col[j] = vals[i]
			}
		}
		out[i] = floats.Sum(col)
	}
	return out
}
