// Package generate synthesizes a year of plausible daily weather readings.
package generate

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/couchcryptid/weather-report-etl/internal/domain"
)

// DefaultStart is the first generated day when none is configured.
var DefaultStart = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Rainfall is drawn from these amounts (mm) with the matching weights.
var (
	rainAmounts = []float64{0.0, 0.0, 0.0, 0.1, 0.5, 2.0, 5.0, 10.0}
	rainWeights = []float64{0.7, 0.1, 0.05, 0.05, 0.05, 0.02, 0.02, 0.01}
)

const (
	tempBase     = 20.0
	tempSwing    = 10.0
	tempNoise    = 3.0
	humidBase    = 65.0
	humidSwing   = 10.0
	humidNoise   = 5.0
	humidMin     = 40
	humidMax     = 95
	cycleDays    = 365.0
	tempGapFrom  = 50
	tempGapTo    = 55 // exclusive
	rainGapIndex = 200
)

// Options controls a generated dataset.
type Options struct {
	Days  int
	Start time.Time
	// Seed makes the output reproducible. Zero picks a seed from the clock.
	Seed uint64
}

// Generator produces synthetic observations. It implements the pipeline's
// extractor so a generated year flows through the same stages as a file.
type Generator struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Generator, resolving a zero seed and start date.
func New(opts Options, logger *slog.Logger) *Generator {
	if opts.Start.IsZero() {
		opts.Start = DefaultStart
	}
	if opts.Seed == 0 {
		opts.Seed = uint64(domain.Now().UnixNano())
	}
	return &Generator{opts: opts, logger: logger}
}

// Seed returns the seed in use.
func (g *Generator) Seed() uint64 { return g.opts.Seed }

// Extract generates the configured number of days.
func (g *Generator) Extract(_ context.Context) (domain.Dataset, error) {
	g.logger.Info("making up data", "days", g.opts.Days, "start", g.opts.Start.Format(domain.DateLayout), "seed", g.opts.Seed)
	rows, err := Generate(g.opts)
	if err != nil {
		return domain.Dataset{}, err
	}
	return domain.Dataset{Rows: rows, Indexed: true}, nil
}

// Generate builds opts.Days observations starting at opts.Start. All
// temperature noise is drawn first, then humidity, then rainfall, so a seed
// always reproduces the same year.
func Generate(opts Options) ([]domain.Observation, error) {
	if opts.Days <= 0 {
		return nil, errors.New("days must be positive")
	}
	start := opts.Start
	if start.IsZero() {
		start = DefaultStart
	}

	src := rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)
	tempDist := distuv.Normal{Mu: 0, Sigma: tempNoise, Src: src}
	humidDist := distuv.Normal{Mu: 0, Sigma: humidNoise, Src: src}
	rainDist := distuv.NewCategorical(rainWeights, src)

	rows := make([]domain.Observation, opts.Days)
	cycle := make([]float64, opts.Days)
	for i := range rows {
		d := start.AddDate(0, 0, i)
		rows[i].Date = d
		cycle[i] = math.Sin(2 * math.Pi * float64(d.YearDay()) / cycleDays)
	}

	for i := range rows {
		rows[i].TemperatureC = round1(tempBase + tempSwing*cycle[i] + tempDist.Rand())
	}
	for i := range rows {
		h := math.RoundToEven(humidBase - humidSwing*cycle[i] + humidDist.Rand())
		rows[i].HumidityPct = clip(int(h), humidMin, humidMax)
	}
	for i := range rows {
		rows[i].RainfallMM = rainAmounts[int(rainDist.Rand())]
	}

	for i := tempGapFrom; i < tempGapTo && i < len(rows); i++ {
		rows[i].TemperatureC = math.NaN()
	}
	if rainGapIndex < len(rows) {
		rows[rainGapIndex].RainfallMM = math.NaN()
	}

	return rows, nil
}

func round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}

func clip(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
