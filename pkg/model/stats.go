package model

import "time"

// TrackStats bundles the windowed metric series of one track together with
// the normalized per-race data they were pooled from.
type TrackStats struct {
	Races           int    `json:"races"`
	TrackType       string `json:"trackType"`
	LapsUsed        Series `json:"lapsUsed"`
	LapsPerRaceUsed Series `json:"lapsPerRaceUsed"`
	Advancement     Series `json:"advancement"`
	Correlation     Series `json:"correlation"`
	PValue          Series `json:"pValue"`
	Leverage        Series `json:"leverage"`
	Excitement      Series `json:"excitement"`

	RaceStats []*NormalizedRaceRecord `json:"raceStats"`
}

// Bundle is the single export document of one collector run.
type Bundle struct {
	FormatVersion string                 `json:"formatVersion"`
	RunID         string                 `json:"runId"`
	Series        string                 `json:"series"`
	CreatedAt     time.Time              `json:"createdAt"`
	CalcFrequency float64                `json:"calcFrequency"`
	CalcInterval  float64                `json:"calcInterval"`
	RaceTimes     Series                 `json:"raceTimes"`
	RaceTimesPct  Series                 `json:"raceTimesPct"`
	TrackStats    map[string]*TrackStats `json:"trackStats"`
}
