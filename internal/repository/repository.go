package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/domain"
)

const insertSamplesSQL = `INSERT INTO usage_samples(scenario_id, scenario_name, system_id, step, timestamp, device, usage_kwh)
		VALUES (:scenario_id, :scenario_name, :system_id, :step, :timestamp, :device, :usage_kwh)
		ON CONFLICT (scenario_id, step, device) DO NOTHING`

type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }

// InsertSamples writes one replayed hour. Re-delivered steps of the same run
// are ignored; a rerun under the same name has a new scenario_id.
func (r *Repos) InsertSamples(ctx context.Context, samples []domain.UsageSample) error {
	if len(samples) == 0 {
		return nil
	}
	_, err := r.db.NamedExecContext(ctx, insertSamplesSQL, samples)
	return err
}
