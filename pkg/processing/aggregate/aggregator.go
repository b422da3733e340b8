// Package aggregate drives the full pipeline: fetch the races of every
// track plan, reconstruct and normalize them, and evaluate the per-track
// statistic series.
package aggregate

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/racelytics/competitiveness-analyzer-go/log"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/adapter"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/model"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/processing/normalize"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/processing/reconstruct"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/processing/stats"
)

type (
	// Aggregator pools races per track and evaluates their statistics.
	Aggregator struct {
		source  adapter.Source
		engine  *stats.Engine
		workers int
		log     *log.Logger
	}
	Option func(*Aggregator)
)

// WithWorkers limits the number of concurrent track evaluations.
func WithWorkers(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.workers = n
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(a *Aggregator) {
		a.log = l
	}
}

func NewAggregator(source adapter.Source, engine *stats.Engine, opts ...Option) *Aggregator {
	ret := &Aggregator{
		source:  source,
		engine:  engine,
		workers: 4,
		log:     log.Default().Named("aggregate"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Run fetches every race referenced by the plans exactly once, sequentially
// in plan order, then evaluates the track statistics concurrently. Races
// that stay unavailable or inconsistent are logged and excluded; a track
// whose plan is empty fails fast as a configuration error and a track where
// no race could be resolved fails as a data consistency error.
func (a *Aggregator) Run(ctx context.Context, plans []adapter.TrackPlan) (map[string]*model.TrackStats, error) {
	for _, plan := range plans {
		if len(plan.Races) == 0 {
			return nil, fmt.Errorf("%w: track %q has no races configured", model.ErrConfiguration, plan.Name)
		}
	}

	pool, err := a.collectRaces(ctx, plans)
	if err != nil {
		return nil, err
	}

	results := make([]*model.TrackStats, len(plans))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, plan := range plans {
		g.Go(func() error {
			races := resolvedRaces(pool, plan)
			if len(races) == 0 {
				return fmt.Errorf("%w: track %q has no resolvable races", model.ErrDataConsistency, plan.Name)
			}
			res := a.engine.Evaluate(races)
			results[i] = &model.TrackStats{
				Races:           len(races),
				TrackType:       plan.TrackType,
				LapsUsed:        res.LapsUsed,
				LapsPerRaceUsed: res.LapsPerRaceUsed,
				Advancement:     res.Advancement,
				Correlation:     res.Correlation,
				PValue:          res.PValue,
				Leverage:        res.Leverage,
				Excitement:      res.Excitement,
				RaceStats:       races,
			}
			a.log.Info("track evaluated",
				log.String("track", plan.Name),
				log.Int("races", len(races)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*model.TrackStats, len(plans))
	for i, plan := range plans {
		out[plan.Name] = results[i]
	}
	return out, nil
}

// collectRaces loads each unique race once. Fetching stays sequential so
// upstream sources see at most one request at a time.
func (a *Aggregator) collectRaces(
	ctx context.Context,
	plans []adapter.TrackPlan,
) (map[adapter.RaceRef]*model.NormalizedRaceRecord, error) {
	refs := lo.Uniq(lo.FlatMap(plans,
		func(p adapter.TrackPlan, _ int) []adapter.RaceRef { return p.Races }))

	pool := make(map[adapter.RaceRef]*model.NormalizedRaceRecord, len(refs))
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		norm, err := a.loadRace(ctx, ref)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			a.log.Warn("race skipped",
				log.String("race", ref.String()),
				log.ErrorField(err))
			continue
		}
		a.log.Debug("race processed",
			log.String("race", ref.String()),
			log.Int("laps", norm.Race.LapCount),
			log.Int("cars", norm.Race.DriverCount))
		pool[ref] = norm
	}
	return pool, nil
}

func (a *Aggregator) loadRace(ctx context.Context, ref adapter.RaceRef) (*model.NormalizedRaceRecord, error) {
	raw, err := a.source.FetchRace(ctx, ref)
	if err != nil {
		return nil, err
	}
	rec, err := reconstruct.Build(raw)
	if err != nil {
		return nil, err
	}
	return normalize.Build(rec)
}

func resolvedRaces(
	pool map[adapter.RaceRef]*model.NormalizedRaceRecord,
	plan adapter.TrackPlan,
) []*model.NormalizedRaceRecord {
	races := make([]*model.NormalizedRaceRecord, 0, len(plan.Races))
	for _, ref := range plan.Races {
		if norm, ok := pool[ref]; ok {
			races = append(races, norm)
		}
	}
	return races
}
