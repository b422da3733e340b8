//nolint:whitespace,lll // readability
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionMatrix_Dimensions(t *testing.T) {
	var empty PositionMatrix
	assert.Equal(t, 0, empty.Rows())
	assert.Equal(t, 0, empty.Cols())

	m := PositionMatrix{{1, 2, 3}, {2, 1, 3}}
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())
}

func TestNormalizedRaceRecord_AdvanceRateScale(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		lapCount int
		freq     float64
		want     float64
	}{
		{name: "one hour race", duration: 3600, lapCount: 50, freq: 0.01, want: 0.5},
		{name: "half hour race", duration: 1800, lapCount: 50, freq: 0.01, want: 1.0},
		{name: "coarse grid", duration: 3600, lapCount: 10, freq: 0.1, want: 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &NormalizedRaceRecord{Race: &RaceRecord{
				DurationSeconds: tt.duration,
				LapCount:        tt.lapCount,
			}}
			assert.InDelta(t, tt.want, n.AdvanceRateScale(tt.freq), 1e-12)
		})
	}
}
