package service

import (
	"context"
	"fmt"

	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/domain"
	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/replay"
)

type SampleStore interface {
	InsertSamples(ctx context.Context, samples []domain.UsageSample) error
}

// ArchiveService persists replayed scenario hours received from the broker.
type ArchiveService struct {
	store SampleStore
}

func NewArchive(store SampleStore) *ArchiveService {
	return &ArchiveService{store: store}
}

func (s *ArchiveService) FromMQTT(ctx context.Context, topic string, payload []byte) error {
	m, err := replay.Decode(payload)
	if err != nil {
		return fmt.Errorf("topic %s: %w", topic, err)
	}
	if err := s.store.InsertSamples(ctx, m.Samples()); err != nil {
		return fmt.Errorf("archive %s step %d: %w", m.Scenario, m.Step, err)
	}
	return nil
}
