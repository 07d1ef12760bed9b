package simulation

import (
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/domain"
)

// weightEpsilon is the smallest random weight sum still safe to normalize by.
const weightEpsilon = 1e-9

// NewSource returns a seeded source for the allocator and generator.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// Generator produces hourly per-device usage. Each hour the total is drawn
// from the pattern's normal distribution and clamped at zero, the primary
// device takes its fixed ratio and the remaining devices split the residual
// by random weights.
type Generator struct {
	mu      sync.Mutex
	src     rand.Source
	rng     *rand.Rand
	devices []domain.Device
}

func NewGenerator(src rand.Source) *Generator {
	return &Generator{
		src:     src,
		rng:     rand.New(src),
		devices: domain.Devices,
	}
}

func (g *Generator) Generate(d domain.Duration, p domain.Pattern) domain.UsageSeries {
	g.mu.Lock()
	defer g.mu.Unlock()

	steps := d.Steps()
	primary, others := g.devices[0], g.devices[1:]

	series := make(domain.UsageSeries, len(g.devices))
	for _, dev := range g.devices {
		series[dev] = make([]float64, 0, steps)
	}

	normal := distuv.Normal{Mu: p.Mean, Sigma: p.StdDev, Src: g.src}
	weights := make([]float64, len(others))

	for i := 0; i < steps; i++ {
		total := max(normal.Rand(), 0)
		primaryShare := total * p.PrimaryRatio
		residual := max(total-primaryShare, 0)

		for j := range weights {
			weights[j] = g.rng.Float64()
		}
		if sum := floats.Sum(weights); sum < weightEpsilon {
			for j := range weights {
				weights[j] = 0
			}
			if len(weights) > 0 {
				weights[0] = residual
			}
		} else {
			floats.Scale(residual/sum, weights)
		}

		series[primary] = append(series[primary], primaryShare)
		for j, dev := range others {
			series[dev] = append(series[dev], weights[j])
		}
	}
	return series
}
