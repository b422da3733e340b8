package model

// PositionMatrix is the reconstructed running order of one race.
// Row 0 is the start order, row n the order after lap n. Columns are fixed
// to the final classification (winner = column 0), so rows can be compared
// across laps without re-sorting.
type PositionMatrix [][]int

func (m PositionMatrix) Rows() int {
	return len(m)
}

func (m PositionMatrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

//nolint:lll // readability
type RaceRecord struct {
	Season          int     `json:"season"`
	Round           int     `json:"round"`
	RaceID          int     `json:"raceId,omitempty"`
	SeriesID        int     `json:"seriesId,omitempty"`
	Name            string  `json:"name,omitempty"`
	Date            string  `json:"date,omitempty"`
	TrackID         int     `json:"trackId,omitempty"`
	TrackName       string  `json:"trackName,omitempty"`
	TrackType       string  `json:"trackType,omitempty"`
	RestrictorPlate bool    `json:"restrictorPlate,omitempty"`
	ScheduledLaps   int     `json:"scheduledLaps,omitempty"`
	LapCount        int     `json:"lapCount"`
	DriverCount     int     `json:"driverCount"`
	DurationSeconds float64 `json:"durationSeconds"`

	Positions      PositionMatrix `json:"positions"`
	Advances       []float64      `json:"advances"`       // passes per lap, index 0..LapCount
	FinalPositions []int          `json:"finalPositions"` // classification rank per column
}

// NormalizedRaceRecord is the race-length and field-size independent view
// of a RaceRecord. All values live in [0,1]; 0 is the leader resp. the start.
type NormalizedRaceRecord struct {
	Race              *RaceRecord `json:"race"`
	RelLaps           Series      `json:"relLaps"`
	RelAdvances       Series      `json:"relAdvances"`
	RelFinalPositions Series      `json:"relFinalPositions"`
	RelPositions      []Series    `json:"relPositions"`
}

// AdvanceRateScale converts a relative per-lap advancement sample into the
// passes-per-hour figure pooled by the statistics engine: scaled to a one
// hour race and down to the share of the race one grid step represents.
func (n *NormalizedRaceRecord) AdvanceRateScale(calcFrequency float64) float64 {
	return 3600.0 / n.Race.DurationSeconds * float64(n.Race.LapCount) * calcFrequency
}
