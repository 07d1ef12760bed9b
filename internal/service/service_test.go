package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/domain"
	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/visualization"
)

type recordingNotifier struct {
	names []string
	err   error
}

func (n *recordingNotifier) ScenarioCreated(_ context.Context, rec domain.Record) error {
	n.names = append(n.names, rec.Name)
	return n.err
}

type recordingCatalog struct {
	names   []string
	listed  []domain.Summary
	listErr error
}

func (c *recordingCatalog) PutScenario(_ context.Context, rec domain.Record) error {
	c.names = append(c.names, rec.Name)
	return nil
}

func (c *recordingCatalog) ListScenarios(context.Context) ([]domain.Summary, error) {
	return c.listed, c.listErr
}

type stubExporter struct {
	kinds []domain.ChartKind
	err   error
}

func (e *stubExporter) ExportResult(_ context.Context, res visualization.Result) (string, error) {
	e.kinds = append(e.kinds, res.Kind)
	if e.err != nil {
		return "", e.err
	}
	return "https://exports.test/" + string(res.Kind), nil
}

func simulate(t *testing.T, s *ScenarioService, name string, d domain.Duration) domain.Record {
	t.Helper()
	rec, err := s.Simulate(context.Background(), SimulateInput{ScenarioName: name, SystemID: "sys", Duration: d})
	require.NoError(t, err)
	return rec
}

func TestSimulateStoresScenario(t *testing.T) {
	s := New(WithSeed(1)).Scenarios
	rec := simulate(t, s, "a", domain.Duration{Hours: 2})

	assert.Equal(t, 2, rec.Steps())
	for _, dev := range domain.Devices {
		assert.Len(t, rec.Series[dev], 2)
	}

	got, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, rec.Pattern, got.Pattern)
}

func TestSimulateRotatesPatterns(t *testing.T) {
	s := New(WithSeed(11)).Scenarios
	counts := map[domain.PatternLabel]int{}
	names := []string{"a", "b", "c", "d", "e", "f"}
	for _, name := range names {
		counts[simulate(t, s, name, domain.Duration{Hours: 1}).Pattern.Label]++
	}
	for _, p := range domain.Patterns {
		assert.Equal(t, 2, counts[p.Label])
	}
}

func TestSimulateDuplicateDoesNotConsumePattern(t *testing.T) {
	s := New(WithSeed(5)).Scenarios
	first := simulate(t, s, "dup", domain.Duration{Hours: 2})
	remaining := s.allocator.Remaining()

	_, err := s.Simulate(context.Background(), SimulateInput{ScenarioName: "dup", SystemID: "other", Duration: domain.Duration{Hours: 9}})
	require.ErrorIs(t, err, domain.ErrDuplicateScenario)
	assert.Equal(t, remaining, s.allocator.Remaining())

	got, err := s.Get("dup")
	require.NoError(t, err)
	assert.Equal(t, first.SystemID, got.SystemID)
	assert.Equal(t, first.Total, got.Total)
}

func TestSimulateValidation(t *testing.T) {
	s := New(WithSeed(1)).Scenarios
	cases := []SimulateInput{
		{ScenarioName: "  ", SystemID: "sys"},
		{ScenarioName: "a", SystemID: ""},
		{ScenarioName: "a", SystemID: "sys", Duration: domain.Duration{Minutes: -5}},
	}
	for _, in := range cases {
		_, err := s.Simulate(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Empty(t, s.List(context.Background()))
}

func TestSimulateSideEffects(t *testing.T) {
	n := &recordingNotifier{err: errors.New("sns down")}
	c := &recordingCatalog{}
	s := New(WithSeed(1), WithNotifier(n), WithCatalog(c)).Scenarios

	simulate(t, s, "a", domain.Duration{Hours: 1})
	assert.Equal(t, []string{"a"}, n.names)
	assert.Equal(t, []string{"a"}, c.names)
}

func TestVisualizeExample(t *testing.T) {
	s := New(WithSeed(3)).Scenarios
	simulate(t, s, "only", domain.Duration{Hours: 2})

	out, err := s.Visualize(context.Background(), VisualizeInput{ScenarioNames: []string{"only"}, GraphType: "stacked_area"})
	require.NoError(t, err)
	require.NotNil(t, out.Chart.StackedArea)
	require.Len(t, out.Chart.StackedArea.Layers, 4)
	for _, layer := range out.Chart.StackedArea.Layers {
		assert.Len(t, layer.Usage, 2)
	}
	assert.Empty(t, out.ReportURL)
}

func TestVisualizeErrors(t *testing.T) {
	s := New(WithSeed(3)).Scenarios
	simulate(t, s, "five-a", domain.Duration{Hours: 5})
	simulate(t, s, "five-b", domain.Duration{Hours: 5})
	simulate(t, s, "seven", domain.Duration{Hours: 7})

	_, err := s.Visualize(context.Background(), VisualizeInput{ScenarioNames: []string{"five-a", "ghost"}, GraphType: "comparison"})
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "ghost", nf.Name)

	_, err = s.Visualize(context.Background(), VisualizeInput{ScenarioNames: []string{"five-a", "seven"}, GraphType: "comparison"})
	assert.ErrorIs(t, err, domain.ErrIncompatibleShapes)

	out, err := s.Visualize(context.Background(), VisualizeInput{ScenarioNames: []string{"five-a", "five-b"}, GraphType: "comparison"})
	require.NoError(t, err)
	require.Len(t, out.Chart.Comparison.Lines, 2)
	assert.Len(t, out.Chart.Comparison.Lines[1].Usage, 5)

	_, err = s.Visualize(context.Background(), VisualizeInput{GraphType: "comparison"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = s.Visualize(context.Background(), VisualizeInput{ScenarioNames: []string{"seven"}, GraphType: "heatmap"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVisualizeExport(t *testing.T) {
	e := &stubExporter{}
	s := New(WithSeed(3), WithExporter(e)).Scenarios
	simulate(t, s, "a", domain.Duration{Hours: 1})

	out, err := s.Visualize(context.Background(), VisualizeInput{ScenarioNames: []string{"a"}, GraphType: "stacked_bar"})
	require.NoError(t, err)
	assert.Equal(t, "https://exports.test/stacked_bar", out.ReportURL)

	e.err = errors.New("s3 down")
	out, err = s.Visualize(context.Background(), VisualizeInput{ScenarioNames: []string{"a"}, GraphType: "stacked_bar"})
	require.NoError(t, err)
	assert.Empty(t, out.ReportURL)
	assert.Len(t, e.kinds, 2)
}

func TestListMergesCatalog(t *testing.T) {
	c := &recordingCatalog{listed: []domain.Summary{
		{Name: "a", SystemID: "stale"},
		{Name: "yesterday", SystemID: "sys-old", Pattern: domain.PatternHigh},
	}}
	s := New(WithSeed(1), WithCatalog(c)).Scenarios
	rec := simulate(t, s, "a", domain.Duration{Hours: 1})

	list := s.List(context.Background())
	require.Len(t, list, 2)
	assert.Equal(t, rec.ID, list[0].ID)
	assert.Equal(t, "sys", list[0].SystemID)
	assert.Equal(t, "yesterday", list[1].Name)

	c.listErr = errors.New("dynamo down")
	list = s.List(context.Background())
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].Name)
}
