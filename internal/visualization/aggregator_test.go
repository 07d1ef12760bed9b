package visualization

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/domain"
	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/registry"
	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/simulation"
)

func generated(t *testing.T, reg *registry.Registry, name string, hours int) domain.Record {
	t.Helper()
	g := simulation.NewGenerator(simulation.NewSource(uint64(hours)))
	d := domain.Duration{Hours: hours}
	p := domain.Patterns[1]
	rec, err := reg.Create(name, "sys-"+name, d, p, domain.StatesValues{}, g.Generate(d, p))
	require.NoError(t, err)
	return rec
}

// flat spreads each device total evenly over steps hours.
func flat(name string, steps int, totals map[domain.Device]float64) domain.Record {
	series := domain.UsageSeries{}
	for _, dev := range domain.Devices {
		vals := make([]float64, steps)
		for i := range vals {
			vals[i] = totals[dev] / float64(steps)
		}
		series[dev] = vals
	}
	return domain.Record{
		Name:     name,
		SystemID: "sys",
		Duration: domain.Duration{Hours: steps},
		Pattern:  domain.Patterns[0],
		Series:   series,
		Total:    registry.Totals(series),
	}
}

func TestComparisonEqualLengths(t *testing.T) {
	reg := registry.New()
	a := generated(t, reg, "a", 5)
	b := generated(t, reg, "b", 5)

	res, err := Aggregate([]domain.Record{a, b}, domain.ChartComparison)
	require.NoError(t, err)
	require.NotNil(t, res.Chart.Comparison)
	assert.Nil(t, res.Chart.StackedArea)
	assert.Nil(t, res.Chart.StackedBar)

	c := res.Chart.Comparison
	assert.Equal(t, 5, c.Steps)
	require.Len(t, c.Lines, 2)
	assert.Len(t, c.Lines[0].Usage, 5)
	assert.Len(t, c.Lines[1].Usage, 5)
	assert.Equal(t, "a usage", c.Lines[0].Label)
	assert.Equal(t, a.Total, c.Lines[0].Usage)
}

func TestComparisonMismatchedLengths(t *testing.T) {
	reg := registry.New()
	a := generated(t, reg, "a", 5)
	b := generated(t, reg, "b", 7)

	_, err := Aggregate([]domain.Record{a, b}, domain.ChartComparison)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIncompatibleShapes)

	var shapes *domain.IncompatibleShapesError
	require.ErrorAs(t, err, &shapes)
	assert.Equal(t, map[string]int{"a": 5, "b": 7}, shapes.Lengths)
	assert.Equal(t, domain.ChartComparison, shapes.Kind)
}

func TestComparisonSingleScenario(t *testing.T) {
	reg := registry.New()
	a := generated(t, reg, "a", 3)

	res, err := Aggregate([]domain.Record{a}, domain.ChartComparison)
	require.NoError(t, err)
	assert.Len(t, res.Chart.Comparison.Lines, 1)
}

func TestStackedAreaUsesFirstRecordOnly(t *testing.T) {
	reg := registry.New()
	a := generated(t, reg, "a", 2)
	b := generated(t, reg, "b", 9)

	res, err := Aggregate([]domain.Record{a, b}, domain.ChartStackedArea)
	require.NoError(t, err)

	area := res.Chart.StackedArea
	require.NotNil(t, area)
	assert.Equal(t, "a", area.Scenario)
	assert.Equal(t, []int{0, 1}, area.Time)
	require.Len(t, area.Layers, 4)
	for i, layer := range area.Layers {
		assert.Equal(t, domain.Devices[i], layer.Device)
		assert.Len(t, layer.Usage, 2)
	}

	require.Len(t, res.Details, 2)
	assert.Equal(t, 9, res.Details[1].Steps)
}

func TestStackedBarTotals(t *testing.T) {
	a := flat("A", 4, map[domain.Device]float64{
		domain.DeviceHeater: 10, domain.DeviceController: 2, domain.DeviceCloudRouter: 1, domain.DeviceThermoSensor: 1,
	})
	b := flat("B", 3, map[domain.Device]float64{
		domain.DeviceHeater: 5, domain.DeviceController: 1, domain.DeviceCloudRouter: 0.5, domain.DeviceThermoSensor: 0.5,
	})

	res, err := Aggregate([]domain.Record{a, b}, domain.ChartStackedBar)
	require.NoError(t, err)

	bars := res.Chart.StackedBar.Bars
	require.Len(t, bars, 2)

	assert.InDelta(t, 10, bars[0].Segments[0].Total, 1e-9)
	assert.Equal(t, domain.DeviceHeater, bars[0].Segments[0].Device)
	assert.InDelta(t, 14, bars[0].GrandTotal, 1e-9)
	assert.Equal(t, "14.0", bars[0].Annotation)
	assert.InDelta(t, 7, bars[1].GrandTotal, 1e-9)

	for _, bar := range bars {
		var sum float64
		for _, seg := range bar.Segments {
			sum += seg.Total
		}
		assert.InDelta(t, bar.GrandTotal, sum, 1e-9)
	}
}

func TestDetailsCarryMetadataAndRawData(t *testing.T) {
	reg := registry.New()
	a := generated(t, reg, "a", 2)

	res, err := Aggregate([]domain.Record{a}, domain.ChartStackedBar)
	require.NoError(t, err)
	require.Len(t, res.Details, 1)

	d := res.Details[0]
	assert.Equal(t, "a", d.Name)
	assert.Equal(t, "sys-a", d.SystemID)
	assert.Equal(t, domain.PatternMedium, d.Pattern)
	assert.Equal(t, 2, d.Steps)
	assert.Equal(t, "kWh", d.Unit)
	assert.Equal(t, []int{0, 1}, d.RawData.Time)
	assert.Equal(t, a.Series, d.RawData.DevicesUsage)
}

func TestAggregateRejectsEmptyAndUnknownKind(t *testing.T) {
	_, err := Aggregate(nil, domain.ChartComparison)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = Aggregate([]domain.Record{flat("a", 1, nil)}, domain.ChartKind("pie"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResultJSONShape(t *testing.T) {
	res, err := Aggregate([]domain.Record{flat("a", 2, nil)}, domain.ChartStackedArea)
	require.NoError(t, err)

	raw, err := json.Marshal(res)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "stacked_area", m["graph_type"])
	chart := m["chart"].(map[string]any)
	assert.Contains(t, chart, "stacked_area")
	assert.NotContains(t, chart, "comparison")
}
