//nolint:whitespace,lll,funlen // readability
package nascar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/racelytics/competitiveness-analyzer-go/pkg/model"
)

const sampleRaceList = `{
  "series_1": [
    {
      "race_id": 5212,
      "series_id": 1,
      "race_season": 2023,
      "race_name": "Daytona 500",
      "race_type_id": 1,
      "race_date": "2023-02-19T00:00:00",
      "track_id": 105,
      "track_name": "Daytona International Speedway",
      "restrictor_plate": true,
      "scheduled_laps": 200,
      "actual_laps": 212,
      "total_race_time": "3:01:22"
    },
    {
      "race_id": 5213,
      "series_id": 1,
      "race_season": 2023,
      "race_name": "Duel 1",
      "race_type_id": 4,
      "race_date": "2023-02-16T00:00:00",
      "track_id": 105,
      "track_name": "Daytona International Speedway",
      "restrictor_plate": true,
      "scheduled_laps": 60,
      "actual_laps": 60,
      "total_race_time": "41:05"
    }
  ],
  "series_2": [
    {
      "race_id": 5301,
      "series_id": 2,
      "race_season": 2023,
      "race_name": "Beef. It's What's For Dinner. 300",
      "race_type_id": 1,
      "race_date": "2023-02-18T00:00:00",
      "track_id": 105,
      "track_name": "Daytona International Speedway",
      "restrictor_plate": true,
      "scheduled_laps": 120,
      "actual_laps": 120,
      "total_race_time": "2:00:00"
    }
  ]
}`

func TestParseRaceList(t *testing.T) {
	descs, err := parseRaceList([]byte(sampleRaceList), 1)
	assert.NoError(t, err)
	assert.Len(t, descs, 2)

	first := descs[0]
	assert.Equal(t, 5212, first.RaceID)
	assert.Equal(t, 1, first.SeriesID)
	assert.Equal(t, 2023, first.RaceSeason)
	assert.Equal(t, "Daytona 500", first.RaceName)
	assert.Equal(t, 1, first.RaceTypeID)
	assert.Equal(t, 105, first.TrackID)
	assert.True(t, first.RestrictorPlate)
	assert.Equal(t, 200, first.ScheduledLaps)
	assert.Equal(t, 212, first.ActualLaps)
	assert.Equal(t, "3:01:22", first.TotalRaceTime)

	// the other series keeps its own list
	descs, err = parseRaceList([]byte(sampleRaceList), 2)
	assert.NoError(t, err)
	assert.Len(t, descs, 1)
	assert.Equal(t, 5301, descs[0].RaceID)

	// a series the season never ran is empty, not an error
	descs, err = parseRaceList([]byte(sampleRaceList), 3)
	assert.NoError(t, err)
	assert.Empty(t, descs)
}

func TestParseRaceList_Invalid(t *testing.T) {
	_, err := parseRaceList([]byte("{"), 1)
	assert.ErrorIs(t, err, model.ErrDataConsistency)
}

func TestParseLapTimes(t *testing.T) {
	doc, err := parseLapTimes([]byte(`{
	  "laps": [
	    {
	      "Number": "24",
	      "FullName": "William Byron",
	      "RunningPos": 1,
	      "Laps": [
	        {"Lap": 0, "RunningPos": 3},
	        {"Lap": 1, "RunningPos": 2},
	        {"Lap": 2, "RunningPos": 1}
	      ]
	    }
	  ]
	}`))
	assert.NoError(t, err)
	assert.Len(t, doc.Laps, 1)
	assert.Equal(t, "24", doc.Laps[0].Number)
	assert.Equal(t, 1, doc.Laps[0].RunningPos)
	assert.Len(t, doc.Laps[0].Laps, 3)
	assert.Equal(t, FeedLap{Lap: 1, RunningPos: 2}, doc.Laps[0].Laps[1])

	_, err = parseLapTimes([]byte("not json"))
	assert.ErrorIs(t, err, model.ErrDataConsistency)
}

func TestParseRaceTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{name: "hours minutes seconds", input: "3:01:22", want: 10882},
		{name: "minutes seconds", input: "41:05", want: 2465},
		{name: "seconds only", input: "59", want: 59},
		{name: "whole hour", input: "1:00:00", want: 3600},
		{name: "padded", input: " 2:03 ", want: 123},
		{name: "empty", input: "", wantErr: true},
		{name: "blank", input: "   ", wantErr: true},
		{name: "not a number", input: "abc", wantErr: true},
		{name: "bad part", input: "1:xx:00", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRaceTime(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
