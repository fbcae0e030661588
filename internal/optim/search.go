package optim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/san-kum/fbgain/internal/config"
	"github.com/san-kum/fbgain/internal/experiment"
	"github.com/san-kum/fbgain/internal/lti"
	"github.com/san-kum/fbgain/internal/place"
	"golang.org/x/sync/errgroup"
)

// ErrNoCandidate is returned when every grid point failed placement,
// simulation or a metric limit.
var ErrNoCandidate = errors.New("optim: no feasible pole placement")

// Candidate is one evaluated pole pair re ± im·i.
type Candidate struct {
	Re      float64
	Im      float64
	Poles   []complex128
	Gain    []float64
	Metrics map[string]float64
	Score   float64
}

// GridSearch evaluates every combination of Re and Im as the moving pole
// pair of a design and ranks them by Metric, lowest first. The configured
// pair chosen by place.SplitPair is replaced; every other pole is held fixed.
type GridSearch struct {
	Re      []float64
	Im      []float64
	Metric  string
	Limits  map[string]float64
	Workers int
}

func NewGridSearch(re, im []float64, metric string) *GridSearch {
	return &GridSearch{
		Re:      re,
		Im:      im,
		Metric:  metric,
		Limits:  make(map[string]float64),
		Workers: runtime.NumCPU(),
	}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

// Search returns the best candidate and every feasible one sorted by score.
func (g *GridSearch) Search(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Candidate, []Candidate, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(g.Re) == 0 || len(g.Im) == 0 {
		return nil, nil, fmt.Errorf("empty search grid")
	}
	for _, re := range g.Re {
		if re >= 0 {
			return nil, nil, fmt.Errorf("real part %g is not in the left half plane", re)
		}
	}

	sys, err := experiment.BuildSystem(cfg)
	if err != nil {
		return nil, nil, err
	}
	base, err := cfg.ParsePoles()
	if err != nil {
		return nil, nil, err
	}
	_, _, fixed, err := place.SplitPair(base)
	if err != nil {
		return nil, nil, fmt.Errorf("search: %w", err)
	}

	var (
		mu       sync.Mutex
		feasible []Candidate
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(g.Workers, 1))

	for _, re := range g.Re {
		for _, im := range g.Im {
			eg.Go(func() error {
				poles := append([]complex128{complex(re, im), complex(re, -im)}, fixed...)
				cand, err := g.evaluate(ctx, cfg, sys, poles, logger)
				if err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					logger.Debug("candidate rejected", "re", re, "im", im, "error", err)
					return nil
				}
				cand.Re, cand.Im = re, im
				mu.Lock()
				feasible = append(feasible, *cand)
				mu.Unlock()
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	if len(feasible) == 0 {
		return nil, nil, ErrNoCandidate
	}
	sort.Slice(feasible, func(i, j int) bool {
		if feasible[i].Score != feasible[j].Score {
			return feasible[i].Score < feasible[j].Score
		}
		// ties go to the slower, gentler design
		if feasible[i].Re != feasible[j].Re {
			return feasible[i].Re > feasible[j].Re
		}
		return feasible[i].Im < feasible[j].Im
	})

	best := feasible[0]
	logger.Debug("search finished", "evaluated", len(g.Re)*len(g.Im), "feasible", len(feasible), "best", best.Poles)
	return &best, feasible, nil
}

func (g *GridSearch) evaluate(ctx context.Context, cfg *config.Config, sys *lti.System, poles []complex128, logger *slog.Logger) (*Candidate, error) {
	d, err := experiment.NewDesign(sys, poles, logger)
	if err != nil {
		return nil, err
	}
	res, err := experiment.Simulate(ctx, cfg, d, logger)
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		return nil, res.Errors[0]
	}
	s, err := score(res.Metrics, g.Metric, g.Limits)
	if err != nil {
		return nil, err
	}
	return &Candidate{
		Poles:   poles,
		Gain:    d.GainRow(),
		Metrics: res.Metrics,
		Score:   s,
	}, nil
}

func score(metrics map[string]float64, name string, limits map[string]float64) (float64, error) {
	for limit, bound := range limits {
		v, ok := metrics[limit]
		if !ok {
			return 0, fmt.Errorf("limit on unknown metric %q", limit)
		}
		if v > bound {
			return 0, fmt.Errorf("%s %g exceeds %g", limit, v, bound)
		}
	}
	v, ok := metrics[name]
	if !ok {
		return 0, fmt.Errorf("unknown metric %q", name)
	}
	if math.IsNaN(v) {
		return 0, fmt.Errorf("%s is NaN", name)
	}
	return v, nil
}
