package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Duration is the simulated span requested by a caller.
type Duration struct {
	Days    int `json:"days" db:"days"`
	Hours   int `json:"hours" db:"hours"`
	Minutes int `json:"minutes" db:"minutes"`
}

// Steps normalizes the duration to whole hours. Leftover minutes count as one
// extra hour and the result is never below 1.
func (d Duration) Steps() int {
	steps := d.Days*24 + d.Hours
	if d.Minutes > 0 {
		steps++
	}
	if steps < 1 {
		steps = 1
	}
	return steps
}

// MaxSteps bounds a single simulation to ten years of hourly steps.
const MaxSteps = 10 * 366 * 24

// Validate rejects negative components and durations longer than MaxSteps
// hours. Days and hours are bounded before they are combined so Steps cannot
// overflow on validated input.
func (d Duration) Validate() error {
	switch {
	case d.Days < 0:
		return &ValidationError{Field: "duration.days", Reason: "cannot be negative"}
	case d.Hours < 0:
		return &ValidationError{Field: "duration.hours", Reason: "cannot be negative"}
	case d.Minutes < 0:
		return &ValidationError{Field: "duration.minutes", Reason: "cannot be negative"}
	case d.Days > MaxSteps/24, d.Hours > MaxSteps, d.Steps() > MaxSteps:
		return &ValidationError{Field: "duration", Reason: fmt.Sprintf("cannot exceed %d hourly steps", MaxSteps)}
	}
	return nil
}

// PatternLabel names one of the consumption-intensity profiles.
type PatternLabel string

const (
	PatternLow    PatternLabel = "LOW"
	PatternMedium PatternLabel = "MEDIUM"
	PatternHigh   PatternLabel = "HIGH"
)

// Pattern is a consumption-intensity profile: total hourly usage is drawn from
// Normal(Mean, StdDev) and the primary device receives PrimaryRatio of it.
type Pattern struct {
	Label        PatternLabel `json:"label"`
	Mean         float64      `json:"mean"`
	StdDev       float64      `json:"std_dev"`
	PrimaryRatio float64      `json:"primary_ratio"`
}

var Patterns = []Pattern{
	{Label: PatternLow, Mean: 0.5, StdDev: 0.1, PrimaryRatio: 0.70},
	{Label: PatternMedium, Mean: 1.0, StdDev: 0.2, PrimaryRatio: 0.80},
	{Label: PatternHigh, Mean: 2.0, StdDev: 0.3, PrimaryRatio: 0.90},
}

// PatternByLabel looks up the profile constants for a label.
func PatternByLabel(label PatternLabel) (Pattern, bool) {
	for _, p := range Patterns {
		if p.Label == label {
			return p, true
		}
	}
	return Pattern{}, false
}

type Device string

const (
	DeviceHeater       Device = "Heater"
	DeviceController   Device = "Controller"
	DeviceCloudRouter  Device = "Cloud Router"
	DeviceThermoSensor Device = "Thermo Sensor"
)

// Devices is the fixed device order. The first entry is the primary device.
var Devices = []Device{DeviceHeater, DeviceController, DeviceCloudRouter, DeviceThermoSensor}

const PrimaryDevice = DeviceHeater

// UsageSeries maps each device to its hourly usage in kWh.
type UsageSeries map[Device][]float64

// Steps returns the series length of the primary device.
func (s UsageSeries) Steps() int { return len(s[PrimaryDevice]) }

func (s UsageSeries) Clone() UsageSeries {
	out := make(UsageSeries, len(s))
	for dev, vals := range s {
		out[dev] = append([]float64(nil), vals...)
	}
	return out
}

// StatesValues is the optional device state override sent with a simulation
// request: either the literal "default" or a JSON object. It is recorded with
// the scenario and echoed back but does not affect generation.
type StatesValues struct {
	Custom map[string]json.RawMessage
}

func (v StatesValues) IsDefault() bool { return len(v.Custom) == 0 }

func (v StatesValues) MarshalJSON() ([]byte, error) {
	if v.IsDefault() {
		return []byte(`"default"`), nil
	}
	return json.Marshal(v.Custom)
}

func (v *StatesValues) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		v.Custom = nil
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != "default" {
			return fmt.Errorf("states_values must be \"default\" or an object, got %q", s)
		}
		v.Custom = nil
		return nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("states_values must be \"default\" or an object: %w", err)
	}
	v.Custom = m
	return nil
}

// Record is one stored simulation run. Records are never mutated after
// insertion; the registry hands out clones.
type Record struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"scenario_name"`
	SystemID     string       `json:"system_id"`
	Duration     Duration     `json:"duration"`
	Pattern      Pattern      `json:"pattern"`
	StatesValues StatesValues `json:"states_values"`
	Series       UsageSeries  `json:"devices_usage"`
	Total        []float64    `json:"total_usage"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (r Record) Steps() int { return len(r.Total) }

func (r Record) Clone() Record {
	out := r
	out.Series = r.Series.Clone()
	out.Total = append([]float64(nil), r.Total...)
	return out
}

// Summary is the metadata view of a record without its series.
type Summary struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"scenario_name"`
	SystemID  string       `json:"system_id"`
	Duration  Duration     `json:"duration"`
	Pattern   PatternLabel `json:"pattern"`
	Steps     int          `json:"num_time_steps"`
	CreatedAt time.Time    `json:"created_at"`
}

func (r Record) Summary() Summary {
	return Summary{
		ID:        r.ID,
		Name:      r.Name,
		SystemID:  r.SystemID,
		Duration:  r.Duration,
		Pattern:   r.Pattern.Label,
		Steps:     r.Steps(),
		CreatedAt: r.CreatedAt,
	}
}

// ChartKind selects how the aggregator reshapes scenarios.
type ChartKind string

const (
	ChartComparison  ChartKind = "comparison"
	ChartStackedArea ChartKind = "stacked_area"
	ChartStackedBar  ChartKind = "stacked_bar"
)

var ChartKinds = []ChartKind{ChartComparison, ChartStackedArea, ChartStackedBar}

// ParseChartKind accepts only the exact kind names and reports anything else
// as a ValidationError on graph_type.
func ParseChartKind(s string) (ChartKind, error) {
	for _, k := range ChartKinds {
		if string(k) == s {
			return k, nil
		}
	}
	names := make([]string, len(ChartKinds))
	for i, k := range ChartKinds {
		names[i] = string(k)
	}
	return "", &ValidationError{
		Field:  "graph_type",
		Reason: fmt.Sprintf("must be one of [%s]", strings.Join(names, ", ")),
	}
}

// UsageSample is one device's usage for one replayed hour, as archived.
type UsageSample struct {
	ID         int64     `db:"id" json:"id"`
	ScenarioID uuid.UUID `db:"scenario_id" json:"scenario_id"`
	Scenario   string    `db:"scenario_name" json:"scenario_name"`
	SystemID   string    `db:"system_id" json:"system_id"`
	Step       int       `db:"step" json:"step"`
	Timestamp  time.Time `db:"timestamp" json:"timestamp"`
	Device     string    `db:"device" json:"device"`
	UsageKWh   float64   `db:"usage_kwh" json:"usage_kwh"`
}
