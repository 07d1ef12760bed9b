package service

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/domain"
	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/registry"
	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/simulation"
	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/visualization"
)

// Notifier is told about every scenario that was stored.
type Notifier interface {
	ScenarioCreated(ctx context.Context, rec domain.Record) error
}

// Catalog keeps a durable index of stored scenarios, including ones simulated
// by earlier processes.
type Catalog interface {
	PutScenario(ctx context.Context, rec domain.Record) error
	ListScenarios(ctx context.Context) ([]domain.Summary, error)
}

// Exporter publishes a visualization result and returns where it can be fetched.
type Exporter interface {
	ExportResult(ctx context.Context, res visualization.Result) (string, error)
}

type Services struct {
	Scenarios *ScenarioService
}

type Option func(*ScenarioService)

// WithSeed makes pattern rotation and generated series reproducible.
func WithSeed(seed uint64) Option {
	return func(s *ScenarioService) {
		s.allocator = simulation.NewAllocator(rand.New(simulation.NewSource(seed)))
		s.generator = simulation.NewGenerator(simulation.NewSource(seed + 1))
	}
}

func WithNotifier(n Notifier) Option { return func(s *ScenarioService) { s.notifier = n } }
func WithCatalog(c Catalog) Option   { return func(s *ScenarioService) { s.catalog = c } }
func WithExporter(e Exporter) Option { return func(s *ScenarioService) { s.exporter = e } }

func New(opts ...Option) *Services {
	seed := uint64(time.Now().UnixNano())
	svc := &ScenarioService{registry: registry.New()}
	WithSeed(seed)(svc)
	for _, opt := range opts {
		opt(svc)
	}
	return &Services{Scenarios: svc}
}

type ScenarioService struct {
	// simMu serializes the duplicate check, pattern draw and insert so a
	// rejected request never consumes a pattern from the rotation.
	simMu sync.Mutex

	allocator *simulation.Allocator
	generator *simulation.Generator
	registry  *registry.Registry

	notifier Notifier
	catalog  Catalog
	exporter Exporter
}

type SimulateInput struct {
	ScenarioName string              `json:"scenario_name"`
	SystemID     string              `json:"system_id"`
	StatesValues domain.StatesValues `json:"states_values"`
	Duration     domain.Duration     `json:"duration"`
}

func (in SimulateInput) Validate() error {
	if strings.TrimSpace(in.ScenarioName) == "" {
		return &domain.ValidationError{Field: "scenario_name", Reason: "cannot be empty"}
	}
	if strings.TrimSpace(in.SystemID) == "" {
		return &domain.ValidationError{Field: "system_id", Reason: "cannot be empty"}
	}
	return in.Duration.Validate()
}

type VisualizeInput struct {
	ScenarioNames []string `json:"scenario_names"`
	GraphType     string   `json:"graph_type"`
}

func (in VisualizeInput) Validate() (domain.ChartKind, error) {
	if len(in.ScenarioNames) == 0 {
		return "", &domain.ValidationError{Field: "scenario_names", Reason: "cannot be empty"}
	}
	return domain.ParseChartKind(in.GraphType)
}

type VisualizeOutput struct {
	visualization.Result
	ReportURL string `json:"report_url,omitempty"`
}

// Simulate assigns a pattern, generates the device series and stores the
// scenario under its name.
func (s *ScenarioService) Simulate(ctx context.Context, in SimulateInput) (domain.Record, error) {
	if err := in.Validate(); err != nil {
		return domain.Record{}, err
	}

	s.simMu.Lock()
	if _, err := s.registry.Get(in.ScenarioName); err == nil {
		s.simMu.Unlock()
		return domain.Record{}, &domain.DuplicateScenarioError{Name: in.ScenarioName}
	}
	pattern := s.allocator.Assign()
	series := s.generator.Generate(in.Duration, pattern)
	rec, err := s.registry.Create(in.ScenarioName, in.SystemID, in.Duration, pattern, in.StatesValues, series)
	s.simMu.Unlock()
	if err != nil {
		return domain.Record{}, err
	}

	log.Info().
		Str("scenario", rec.Name).
		Str("system_id", rec.SystemID).
		Str("pattern", string(rec.Pattern.Label)).
		Int("steps", rec.Steps()).
		Msg("scenario simulated")

	s.afterCreate(ctx, rec)
	return rec, nil
}

func (s *ScenarioService) afterCreate(ctx context.Context, rec domain.Record) {
	if s.catalog != nil {
		if err := s.catalog.PutScenario(ctx, rec); err != nil {
			log.Error().Err(err).Str("scenario", rec.Name).Msg("catalog write failed")
		}
	}
	if s.notifier != nil {
		if err := s.notifier.ScenarioCreated(ctx, rec); err != nil {
			log.Error().Err(err).Str("scenario", rec.Name).Msg("scenario notification failed")
		}
	}
}

// Visualize resolves the named scenarios and reshapes them into the chart kind.
func (s *ScenarioService) Visualize(ctx context.Context, in VisualizeInput) (VisualizeOutput, error) {
	kind, err := in.Validate()
	if err != nil {
		return VisualizeOutput{}, err
	}

	records, err := s.registry.GetMany(in.ScenarioNames)
	if err != nil {
		return VisualizeOutput{}, err
	}

	res, err := visualization.Aggregate(records, kind)
	if err != nil {
		return VisualizeOutput{}, err
	}

	out := VisualizeOutput{Result: res}
	if s.exporter != nil {
		url, err := s.exporter.ExportResult(ctx, res)
		if err != nil {
			log.Error().Err(err).Str("graph_type", string(kind)).Msg("visualization export failed")
		} else {
			out.ReportURL = url
		}
	}
	return out, nil
}

func (s *ScenarioService) Get(name string) (domain.Record, error) {
	return s.registry.Get(name)
}

// List returns this process's scenarios in creation order, followed by
// catalog entries whose names are not held locally. A catalog failure only
// drops the catalog entries.
func (s *ScenarioService) List(ctx context.Context) []domain.Summary {
	local := s.registry.List()
	if s.catalog == nil {
		return local
	}

	remote, err := s.catalog.ListScenarios(ctx)
	if err != nil {
		log.Error().Err(err).Msg("catalog listing failed")
		return local
	}

	seen := make(map[string]bool, len(local))
	for _, sum := range local {
		seen[sum.Name] = true
	}
	for _, sum := range remote {
		if !seen[sum.Name] {
			seen[sum.Name] = true
			local = append(local, sum)
		}
	}
	return local
}
