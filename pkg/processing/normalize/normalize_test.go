//nolint:whitespace,lll,funlen // readability
package normalize

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/racelytics/competitiveness-analyzer-go/pkg/model"
)

func TestBuild_Mappings(t *testing.T) {
	race := &model.RaceRecord{
		Season:          2023,
		Round:           4,
		LapCount:        2,
		DriverCount:     3,
		DurationSeconds: 1800,
		Positions: model.PositionMatrix{
			{1, 2, 3},
			{2, 1, 3},
			{3, 1, 2},
		},
		Advances:       []float64{0, 1, 1},
		FinalPositions: []int{1, 2, 3},
	}
	norm, err := Build(race)
	assert.NoError(t, err)
	assert.Same(t, race, norm.Race)

	if diff := cmp.Diff(model.Series{0, 0.5, 1}, norm.RelLaps); diff != "" {
		t.Errorf("rel laps not correct: %s", diff)
	}
	// leader maps to 0, last place to 1
	wantPositions := []model.Series{
		{0, 0.5, 1},
		{0.5, 0, 1},
		{1, 0, 0.5},
	}
	if diff := cmp.Diff(wantPositions, norm.RelPositions); diff != "" {
		t.Errorf("rel positions not correct: %s", diff)
	}
	if diff := cmp.Diff(model.Series{0, 1.0 / 3.0, 1.0 / 3.0}, norm.RelAdvances); diff != "" {
		t.Errorf("rel advances not correct: %s", diff)
	}
	if diff := cmp.Diff(model.Series{0, 0.5, 1}, norm.RelFinalPositions); diff != "" {
		t.Errorf("rel final positions not correct: %s", diff)
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		race *model.RaceRecord
	}{
		{
			name: "single car field",
			race: &model.RaceRecord{
				LapCount:        2,
				DriverCount:     1,
				DurationSeconds: 1800,
				Positions:       model.PositionMatrix{{1}, {1}, {1}},
				Advances:        []float64{0, 0, 0},
				FinalPositions:  []int{1},
			},
		},
		{
			name: "zero duration",
			race: &model.RaceRecord{
				LapCount:        1,
				DriverCount:     2,
				DurationSeconds: 0,
				Positions:       model.PositionMatrix{{1, 2}, {1, 2}},
				Advances:        []float64{0, 0},
				FinalPositions:  []int{1, 2},
			},
		},
		{
			name: "negative duration",
			race: &model.RaceRecord{
				LapCount:        1,
				DriverCount:     2,
				DurationSeconds: -5,
				Positions:       model.PositionMatrix{{1, 2}, {1, 2}},
				Advances:        []float64{0, 0},
				FinalPositions:  []int{1, 2},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.race)
			assert.ErrorIs(t, err, model.ErrDataConsistency)
		})
	}
}
