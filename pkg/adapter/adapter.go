package adapter

import (
	"context"
	"fmt"
)

// RaceRef identifies one race at a data source.
type RaceRef struct {
	Season   int
	Round    int
	RaceID   int // feed-based series only
	SeriesID int // feed-based series only
}

func (r RaceRef) String() string {
	return fmt.Sprintf("%d/%d", r.Season, r.Round)
}

// LapSample is one raw running-position sample of a car. Samples may be
// sparse; missing laps are reconstructed downstream.
type LapSample struct {
	Lap int
	Pos int
}

// Entry is the raw lap data of one car. Entries of a RawRace are ordered by
// final classification, withdrawn cars included.
type Entry struct {
	Key       string // race-scoped driver/car key
	Withdrawn bool
	Samples   []LapSample // ascending by lap
}

// GridContext carries the start-order inputs of sources that publish a
// separate starting grid. A grid position of 0 (or a missing key) denotes a
// pit-lane start; pit-lane starters are ordered by their qualifying
// classification.
type GridContext struct {
	GridPos  map[string]int
	QualiPos map[string]int
}

// RawRace is the source-independent raw form consumed by the reconstructor.
type RawRace struct {
	Ref             RaceRef
	Name            string
	Date            string
	TrackID         int
	TrackName       string
	TrackType       string
	RestrictorPlate bool
	ScheduledLaps   int
	LapCount        int
	DurationSeconds float64
	Entries         []Entry
	Grid            *GridContext // nil when the source has no grid data
}

// TrackPlan lists the races pooled into one track dataset.
type TrackPlan struct {
	Name      string
	TrackType string
	Races     []RaceRef
}

// Source is the capability the aggregation pipeline needs from a race data
// source: enumerate the races of a season and fetch one race in raw form.
type Source interface {
	// Series returns the label identifying the data source, e.g. "formula1".
	Series() string
	ListRaces(ctx context.Context, season int) ([]RaceRef, error)
	FetchRace(ctx context.Context, ref RaceRef) (*RawRace, error)
}
