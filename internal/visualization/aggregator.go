package visualization

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/domain"
)

const Unit = "kWh"

type RawData struct {
	Time         []int              `json:"time"`
	DevicesUsage domain.UsageSeries `json:"devices_usage"`
}

// ScenarioDetail carries enough of a record for a renderer to rebuild any
// chart without going back to the registry.
type ScenarioDetail struct {
	Name     string              `json:"scenario_name"`
	SystemID string              `json:"system_id"`
	Duration domain.Duration     `json:"duration"`
	Pattern  domain.PatternLabel `json:"pattern"`
	Steps    int                 `json:"num_time_steps"`
	Unit     string              `json:"unit"`
	RawData  RawData             `json:"raw_data"`
}

type ComparisonLine struct {
	Scenario string    `json:"scenario_name"`
	Label    string    `json:"label"`
	Usage    []float64 `json:"total_usage"`
}

// Comparison overlays one total-usage line per scenario on a shared hour axis.
type Comparison struct {
	Steps int              `json:"num_time_steps"`
	Lines []ComparisonLine `json:"lines"`
}

type DeviceLayer struct {
	Device domain.Device `json:"device"`
	Usage  []float64     `json:"usage"`
}

// StackedArea decomposes one scenario into device layers stacked over time.
type StackedArea struct {
	Scenario string        `json:"scenario_name"`
	Time     []int         `json:"time"`
	Layers   []DeviceLayer `json:"layers"`
}

type BarSegment struct {
	Device domain.Device `json:"device"`
	Total  float64       `json:"total"`
}

type Bar struct {
	Scenario   string       `json:"scenario_name"`
	Segments   []BarSegment `json:"segments"`
	GrandTotal float64      `json:"grand_total"`
	Annotation string       `json:"annotation"`
}

// StackedBar holds one bar per scenario, each split into per-device totals.
type StackedBar struct {
	Bars []Bar `json:"bars"`
}

// Chart holds exactly one populated shape matching the result's kind.
type Chart struct {
	Comparison  *Comparison  `json:"comparison,omitempty"`
	StackedArea *StackedArea `json:"stacked_area,omitempty"`
	StackedBar  *StackedBar  `json:"stacked_bar,omitempty"`
}

type Result struct {
	Kind    domain.ChartKind `json:"graph_type"`
	Details []ScenarioDetail `json:"scenario_details"`
	Chart   Chart            `json:"chart"`
}

// Aggregate reshapes stored scenarios into the requested chart kind.
func Aggregate(records []domain.Record, kind domain.ChartKind) (Result, error) {
	if len(records) == 0 {
		return Result{}, &domain.ValidationError{Field: "scenario_names", Reason: "cannot be empty"}
	}

	res := Result{Kind: kind, Details: details(records)}

	switch kind {
	case domain.ChartComparison:
		c, err := comparison(records)
		if err != nil {
			return Result{}, err
		}
		res.Chart.Comparison = c
	case domain.ChartStackedArea:
		res.Chart.StackedArea = stackedArea(records[0])
	case domain.ChartStackedBar:
		res.Chart.StackedBar = stackedBar(records)
	default:
		_, err := domain.ParseChartKind(string(kind))
		return Result{}, err
	}
	return res, nil
}

func details(records []domain.Record) []ScenarioDetail {
	out := make([]ScenarioDetail, len(records))
	for i, rec := range records {
		steps := rec.Series.Steps()
		out[i] = ScenarioDetail{
			Name:     rec.Name,
			SystemID: rec.SystemID,
			Duration: rec.Duration,
			Pattern:  rec.Pattern.Label,
			Steps:    steps,
			Unit:     Unit,
			RawData: RawData{
				Time:         timeAxis(steps),
				DevicesUsage: rec.Series,
			},
		}
	}
	return out
}

func comparison(records []domain.Record) (*Comparison, error) {
	steps := records[0].Steps()
	if len(records) > 1 {
		lengths := make(map[string]int, len(records))
		mismatch := false
		for _, rec := range records {
			lengths[rec.Name] = rec.Steps()
			if rec.Steps() != steps {
				mismatch = true
			}
		}
		if mismatch {
			return nil, &domain.IncompatibleShapesError{Kind: domain.ChartComparison, Lengths: lengths}
		}
	}

	c := &Comparison{Steps: steps, Lines: make([]ComparisonLine, len(records))}
	for i, rec := range records {
		c.Lines[i] = ComparisonLine{
			Scenario: rec.Name,
			Label:    rec.Name + " usage",
			Usage:    rec.Total,
		}
	}
	return c, nil
}

func stackedArea(rec domain.Record) *StackedArea {
	a := &StackedArea{
		Scenario: rec.Name,
		Time:     timeAxis(rec.Series.Steps()),
		Layers:   make([]DeviceLayer, len(domain.Devices)),
	}
	for i, dev := range domain.Devices {
		a.Layers[i] = DeviceLayer{Device: dev, Usage: rec.Series[dev]}
	}
	return a
}

func stackedBar(records []domain.Record) *StackedBar {
	b := &StackedBar{Bars: make([]Bar, len(records))}
	for i, rec := range records {
		bar := Bar{Scenario: rec.Name, Segments: make([]BarSegment, len(domain.Devices))}
		totals := make([]float64, len(domain.Devices))
		for j, dev := range domain.Devices {
			totals[j] = floats.Sum(rec.Series[dev])
			bar.Segments[j] = BarSegment{Device: dev, Total: totals[j]}
		}
		bar.GrandTotal = floats.Sum(totals)
		bar.Annotation = fmt.Sprintf("%.1f", bar.GrandTotal)
		b.Bars[i] = bar
	}
	return b
}

func timeAxis(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
