// Package fastf1 adapts archived session data of the open-wheel series to
// the race source interface. Sessions are consumed as prepared documents
// holding the race classification, the qualifying classification and all
// timed laps of one weekend.
package fastf1

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/racelytics/competitiveness-analyzer-go/pkg/adapter"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/model"
)

// SeriesLabel tags bundles produced from this source.
const SeriesLabel = "formula1"

// WithdrawnStatus marks classification entries that never took the start.
const WithdrawnStatus = "Withdrew"

type (
	// ResultRow is one line of the final race classification.
	ResultRow struct {
		Driver       string `json:"driver"`
		Position     int    `json:"position"`
		GridPosition int    `json:"gridPosition"`
		Status       string `json:"status"`
	}
	// QualiRow is one line of the qualifying classification.
	QualiRow struct {
		Driver   string `json:"driver"`
		Position int    `json:"position"`
	}
	// LapRow is one timed lap of one driver. TimeSeconds is the session
	// time at the start of the lap; laps without timing data carry zeros.
	LapRow struct {
		Driver         string  `json:"driver"`
		Lap            int     `json:"lap"`
		Position       int     `json:"position"`
		TimeSeconds    float64 `json:"timeSeconds"`
		LapTimeSeconds float64 `json:"lapTimeSeconds"`
	}
	// SessionDocument is the archived form of one race weekend.
	SessionDocument struct {
		Season     int         `json:"season"`
		Round      int         `json:"round"`
		EventName  string      `json:"eventName"`
		EventDate  string      `json:"eventDate"`
		Results    []ResultRow `json:"results"`
		Qualifying []QualiRow  `json:"qualifying"`
		Laps       []LapRow    `json:"laps"`
	}

	// SessionLoader provides archived session documents.
	SessionLoader interface {
		LoadRace(ctx context.Context, season, round int) (*SessionDocument, error)
		ListRounds(ctx context.Context, season int) ([]int, error)
	}

	// Adapter converts session documents into the raw race form.
	Adapter struct {
		loader SessionLoader
	}
)

func New(loader SessionLoader) *Adapter {
	return &Adapter{loader: loader}
}

func (a *Adapter) Series() string {
	return SeriesLabel
}

func (a *Adapter) ListRaces(ctx context.Context, season int) ([]adapter.RaceRef, error) {
	rounds, err := a.loader.ListRounds(ctx, season)
	if err != nil {
		return nil, err
	}
	return lo.Map(rounds, func(round, _ int) adapter.RaceRef {
		return adapter.RaceRef{Season: season, Round: round}
	}), nil
}

// FetchRace loads one archived session and converts it: entries follow the
// final classification with withdrawn drivers flagged, the published grid
// and qualifying classification become the start context, and the race
// duration spans from the earliest lap start to the latest lap end.
func (a *Adapter) FetchRace(ctx context.Context, ref adapter.RaceRef) (*adapter.RawRace, error) {
	doc, err := a.loader.LoadRace(ctx, ref.Season, ref.Round)
	if err != nil {
		return nil, err
	}
	if len(doc.Results) == 0 {
		return nil, fmt.Errorf("%w: session %s has no classification", model.ErrDataConsistency, ref)
	}
	if len(doc.Laps) == 0 {
		return nil, fmt.Errorf("%w: session %s has no laps", model.ErrDataConsistency, ref)
	}

	samples := make(map[string][]adapter.LapSample, len(doc.Results))
	lapCount := 0
	for _, lap := range doc.Laps {
		samples[lap.Driver] = append(samples[lap.Driver],
			adapter.LapSample{Lap: lap.Lap, Pos: lap.Position})
		if lap.Lap > lapCount {
			lapCount = lap.Lap
		}
	}
	for _, s := range samples {
		sort.SliceStable(s, func(i, j int) bool { return s[i].Lap < s[j].Lap })
	}

	grid := &adapter.GridContext{
		GridPos:  make(map[string]int, len(doc.Results)),
		QualiPos: make(map[string]int, len(doc.Qualifying)),
	}
	entries := make([]adapter.Entry, len(doc.Results))
	for i, res := range doc.Results {
		entries[i] = adapter.Entry{
			Key:       res.Driver,
			Withdrawn: res.Status == WithdrawnStatus,
			Samples:   samples[res.Driver],
		}
		grid.GridPos[res.Driver] = res.GridPosition
	}
	for _, q := range doc.Qualifying {
		grid.QualiPos[q.Driver] = q.Position
	}

	duration, err := raceDuration(doc.Laps)
	if err != nil {
		return nil, fmt.Errorf("%w: session %s: %v", model.ErrDataConsistency, ref, err)
	}

	return &adapter.RawRace{
		Ref:             ref,
		Name:            doc.EventName,
		Date:            doc.EventDate,
		LapCount:        lapCount,
		DurationSeconds: duration,
		Entries:         entries,
		Grid:            grid,
	}, nil
}

// raceDuration spans from the earliest lap start to the latest lap end,
// skipping lap rows without timing data.
func raceDuration(laps []LapRow) (float64, error) {
	first := math.Inf(1)
	last := math.Inf(-1)
	for _, lap := range laps {
		if lap.TimeSeconds <= 0 || lap.LapTimeSeconds <= 0 {
			continue
		}
		first = math.Min(first, lap.TimeSeconds)
		last = math.Max(last, lap.TimeSeconds+lap.LapTimeSeconds)
	}
	if math.IsInf(first, 1) {
		return 0, errors.New("no timed laps")
	}
	return last - first, nil
}
