package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/domain"
)

// StepMessage is one hour of a scenario as published on the replay topic.
type StepMessage struct {
	ScenarioID uuid.UUID                 `json:"scenario_id"`
	Scenario   string                    `json:"scenario_name"`
	SystemID   string                    `json:"system_id"`
	Pattern    domain.PatternLabel       `json:"pattern"`
	Step       int                       `json:"step"`
	Timestamp  time.Time                 `json:"timestamp"`
	Usage      map[domain.Device]float64 `json:"usage_kwh"`
	Total      float64                   `json:"total_kwh"`
}

// Messages lays the scenario out on an hourly clock beginning at start.
func Messages(rec domain.Record, start time.Time) []StepMessage {
	out := make([]StepMessage, rec.Steps())
	for i := range out {
		usage := make(map[domain.Device]float64, len(domain.Devices))
		for _, dev := range domain.Devices {
			usage[dev] = rec.Series[dev][i]
		}
		out[i] = StepMessage{
			ScenarioID: rec.ID,
			Scenario:   rec.Name,
			SystemID:   rec.SystemID,
			Pattern:    rec.Pattern.Label,
			Step:       i,
			Timestamp:  start.Add(time.Duration(i) * time.Hour).UTC(),
			Usage:      usage,
			Total:      rec.Total[i],
		}
	}
	return out
}

// Decode parses a published step. Reruns of the same scenario name are told
// apart by scenario_id, so it is required.
func Decode(payload []byte) (StepMessage, error) {
	var m StepMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		return StepMessage{}, fmt.Errorf("decode step message: %w", err)
	}
	if m.ScenarioID == uuid.Nil {
		return StepMessage{}, &domain.ValidationError{Field: "scenario_id", Reason: "cannot be empty"}
	}
	if m.Scenario == "" {
		return StepMessage{}, &domain.ValidationError{Field: "scenario_name", Reason: "cannot be empty"}
	}
	if m.Step < 0 {
		return StepMessage{}, &domain.ValidationError{Field: "step", Reason: "cannot be negative"}
	}
	if _, ok := domain.PatternByLabel(m.Pattern); !ok {
		return StepMessage{}, &domain.ValidationError{Field: "pattern", Reason: fmt.Sprintf("unknown label %q", m.Pattern)}
	}
	return m, nil
}

// Samples flattens the message into one archive row per device.
func (m StepMessage) Samples() []domain.UsageSample {
	out := make([]domain.UsageSample, 0, len(m.Usage))
	for _, dev := range domain.Devices {
		v, ok := m.Usage[dev]
		if !ok {
			continue
		}
		out = append(out, domain.UsageSample{
			ScenarioID: m.ScenarioID,
			Scenario:   m.Scenario,
			SystemID:   m.SystemID,
			Step:       m.Step,
			Timestamp:  m.Timestamp,
			Device:     string(dev),
			UsageKWh:   v,
		})
	}
	return out
}

type Publisher struct {
	client   mqtt.Client
	topic    string
	interval time.Duration
}

func NewPublisher(client mqtt.Client, topic string, interval time.Duration) *Publisher {
	return &Publisher{client: client, topic: topic, interval: interval}
}

// Replay publishes every step of rec, pausing interval between steps. It
// returns the number of steps published.
func (p *Publisher) Replay(ctx context.Context, rec domain.Record, start time.Time) (int, error) {
	msgs := Messages(rec, start)
	for i, m := range msgs {
		payload, err := json.Marshal(m)
		if err != nil {
			return i, fmt.Errorf("encode step %d: %w", m.Step, err)
		}
		token := p.client.Publish(p.topic, 0, false, payload)
		token.Wait()
		if err := token.Error(); err != nil {
			return i, fmt.Errorf("publish step %d: %w", m.Step, err)
		}
		log.Debug().Str("scenario", m.Scenario).Int("step", m.Step).Float64("total_kwh", m.Total).Msg("step published")

		if i == len(msgs)-1 || p.interval <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return i + 1, ctx.Err()
		case <-time.After(p.interval):
		}
	}
	return len(msgs), nil
}
