// Package normalize maps reconstructed races onto the unit interval so
// races of different lengths and field sizes can be pooled.
package normalize

import (
	"fmt"

	"github.com/racelytics/competitiveness-analyzer-go/pkg/model"
)

// Build derives the normalized view of a reconstructed race. Lap indexes map
// to [0,1] by lap/lapCount, positions by (pos-1)/(driverCount-1) and advance
// counts by advances/driverCount. A single-car field has no meaningful
// position scale and is rejected as a data consistency error.
func Build(race *model.RaceRecord) (*model.NormalizedRaceRecord, error) {
	if race.DriverCount < 2 {
		return nil, fmt.Errorf("%w: race %d/%d has %d active cars, need at least 2",
			model.ErrDataConsistency, race.Season, race.Round, race.DriverCount)
	}
	if race.DurationSeconds <= 0 {
		return nil, fmt.Errorf("%w: race %d/%d has non-positive duration %.1fs",
			model.ErrDataConsistency, race.Season, race.Round, race.DurationSeconds)
	}

	lapScale := 1.0 / float64(race.LapCount)
	posScale := 1.0 / float64(race.DriverCount-1)
	advScale := 1.0 / float64(race.DriverCount)

	n := &model.NormalizedRaceRecord{
		Race:              race,
		RelLaps:           make(model.Series, len(race.Positions)),
		RelAdvances:       make(model.Series, len(race.Advances)),
		RelFinalPositions: make(model.Series, len(race.FinalPositions)),
		RelPositions:      make([]model.Series, len(race.Positions)),
	}
	for i, row := range race.Positions {
		n.RelLaps[i] = float64(i) * lapScale
		rel := make(model.Series, len(row))
		for c, pos := range row {
			rel[c] = float64(pos-1) * posScale
		}
		n.RelPositions[i] = rel
	}
	for i, adv := range race.Advances {
		n.RelAdvances[i] = adv * advScale
	}
	for c, pos := range race.FinalPositions {
		n.RelFinalPositions[c] = float64(pos-1) * posScale
	}
	return n, nil
}
