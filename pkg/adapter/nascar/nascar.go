// Package nascar adapts the public stock car racing feed to the race source
// interface. Race metadata comes from the season race list documents, lap
// data from the per-race lap times documents.
package nascar

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/racelytics/competitiveness-analyzer-go/log"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/adapter"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/catalog"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/model"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/utils/cache"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/utils/cache/loadercache"
)

type (
	// seasonRaces is the cached view of one season race list: the points
	// races in schedule order plus their descriptors.
	seasonRaces struct {
		refs  []adapter.RaceRef
		descs map[adapter.RaceRef]RaceDesc
	}

	// Adapter converts feed documents into the raw race form. Season race
	// lists are fetched once per run through a read-through cache, lap
	// times are fetched per race.
	Adapter struct {
		client   *Client
		table    catalog.TrackTable
		seriesID int
		log      *log.Logger
		seasons  cache.Cache[int, seasonRaces]
	}
	AdapterOption func(*Adapter)
)

func WithLogger(l *log.Logger) AdapterOption {
	return func(a *Adapter) {
		a.log = l
	}
}

func NewAdapter(client *Client, table catalog.TrackTable, seriesID int, opts ...AdapterOption) *Adapter {
	ret := &Adapter{
		client:   client,
		table:    table,
		seriesID: seriesID,
		log:      log.Default().Named("nascar"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.seasons = loadercache.New(
		loadercache.WithLoader[int, seasonRaces](ret.loadSeason),
		loadercache.WithExpiration[int, seasonRaces](0),
		loadercache.WithLogger[int, seasonRaces](ret.log.Named("seasons")))
	return ret
}

// Series returns the bundle label of the configured series, for example
// "nascar1" for the premier series.
func (a *Adapter) Series() string {
	return fmt.Sprintf("nascar%d", a.seriesID)
}

// ListRaces returns the points races of a season in schedule order. Rounds
// count points race weekends within the season.
func (a *Adapter) ListRaces(ctx context.Context, season int) ([]adapter.RaceRef, error) {
	s, err := a.seasons.Get(ctx, season)
	if err != nil {
		return nil, err
	}
	return s.refs, nil
}

func (a *Adapter) loadSeason(ctx context.Context, season int) (*seasonRaces, error) {
	data, err := a.client.raceList(ctx, season)
	if err != nil {
		return nil, err
	}
	descs, err := parseRaceList(data, a.seriesID)
	if err != nil {
		return nil, err
	}

	ret := &seasonRaces{descs: make(map[adapter.RaceRef]RaceDesc, len(descs))}
	round := 0
	for _, desc := range descs {
		if desc.RaceTypeID != PointsRaceType {
			continue
		}
		round++
		ref := adapter.RaceRef{
			Season:   season,
			Round:    round,
			RaceID:   desc.RaceID,
			SeriesID: desc.SeriesID,
		}
		ret.refs = append(ret.refs, ref)
		ret.descs[ref] = desc
	}
	return ret, nil
}

// FetchRace downloads the lap times of one race and converts them: cars are
// ordered by final classification, sample series keep their lap order and
// the race duration comes from the race list's total race time.
func (a *Adapter) FetchRace(ctx context.Context, ref adapter.RaceRef) (*adapter.RawRace, error) {
	season, err := a.seasons.Get(ctx, ref.Season)
	if err != nil {
		return nil, err
	}
	desc, ok := season.descs[ref]
	if !ok {
		return nil, fmt.Errorf("%w: race %s not in the season race list", model.ErrDataConsistency, ref)
	}

	data, err := a.client.lapTimes(ctx, desc.RaceSeason, desc.SeriesID, desc.RaceID)
	if err != nil {
		return nil, err
	}
	doc, err := parseLapTimes(data)
	if err != nil {
		return nil, err
	}
	if len(doc.Laps) == 0 {
		return nil, fmt.Errorf("%w: race %s has no cars", model.ErrDataConsistency, ref)
	}
	duration, err := ParseRaceTime(desc.TotalRaceTime)
	if err != nil {
		return nil, fmt.Errorf("%w: race %s: %v", model.ErrDataConsistency, ref, err)
	}

	cars := make([]CarLaps, len(doc.Laps))
	copy(cars, doc.Laps)
	sort.SliceStable(cars, func(i, j int) bool { return cars[i].RunningPos < cars[j].RunningPos })

	entries := make([]adapter.Entry, len(cars))
	for i, car := range cars {
		key := car.Number
		if key == "" {
			key = fmt.Sprintf("car-%d", i+1)
		}
		samples := make([]adapter.LapSample, 0, len(car.Laps))
		for _, lap := range car.Laps {
			samples = append(samples, adapter.LapSample{Lap: lap.Lap, Pos: lap.RunningPos})
		}
		sort.SliceStable(samples, func(x, y int) bool { return samples[x].Lap < samples[y].Lap })
		entries[i] = adapter.Entry{Key: key, Samples: samples}
	}

	info := a.table.Lookup(desc.TrackID, desc.RestrictorPlate)
	return &adapter.RawRace{
		Ref:             ref,
		Name:            desc.RaceName,
		Date:            desc.RaceDate,
		TrackID:         desc.TrackID,
		TrackName:       info.Name,
		TrackType:       info.Type,
		RestrictorPlate: desc.RestrictorPlate,
		ScheduledLaps:   desc.ScheduledLaps,
		LapCount:        desc.ActualLaps,
		DurationSeconds: duration,
		Entries:         entries,
	}, nil
}

// BuildPlans discovers the track plans of a year range: the points races of
// every season grouped by curated track, with plate and non-plate
// configurations of the same venue kept apart and unmapped tracks pooled
// under the Unknown entry. Seasons whose race list stays unavailable are
// skipped with a warning.
func (a *Adapter) BuildPlans(ctx context.Context, startYear, endYear int) ([]adapter.TrackPlan, error) {
	if startYear > endYear {
		return nil, fmt.Errorf("%w: start year %d after end year %d",
			model.ErrConfiguration, startYear, endYear)
	}

	var order []string
	grouped := make(map[string]*adapter.TrackPlan)
	for year := startYear; year <= endYear; year++ {
		season, err := a.seasons.Get(ctx, year)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			a.log.Warn("season skipped", log.Int("season", year), log.ErrorField(err))
			continue
		}
		for _, ref := range season.refs {
			desc := season.descs[ref]
			info := a.table.Lookup(desc.TrackID, desc.RestrictorPlate)
			plan, ok := grouped[info.Name]
			if !ok {
				plan = &adapter.TrackPlan{Name: info.Name, TrackType: info.Type}
				grouped[info.Name] = plan
				order = append(order, info.Name)
			}
			plan.Races = append(plan.Races, ref)
		}
	}

	plans := make([]adapter.TrackPlan, 0, len(order))
	for _, name := range order {
		plans = append(plans, *grouped[name])
	}
	return plans, nil
}
