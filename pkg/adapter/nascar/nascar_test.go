//nolint:thelper,whitespace,lll,funlen,gocritic,dupl // ok for tests
package nascar

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/racelytics/competitiveness-analyzer-go/pkg/adapter"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/catalog"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/model"
)

// raceDesc renders one race list entry. trackID 105 is the plate track of
// the default table, 4 the unrestricted one.
func raceDesc(raceID, raceType, trackID int, plate bool) string {
	return fmt.Sprintf(`{
	  "race_id": %d,
	  "series_id": 1,
	  "race_season": 2023,
	  "race_name": "Race %d",
	  "race_type_id": %d,
	  "race_date": "2023-02-19T00:00:00",
	  "track_id": %d,
	  "track_name": "Feed Track Name",
	  "restrictor_plate": %t,
	  "scheduled_laps": 3,
	  "actual_laps": 3,
	  "total_race_time": "1:00:00"
	}`, raceID, raceID, raceType, trackID, plate)
}

const sampleLapTimes = `{
  "laps": [
    {
      "Number": "11",
      "FullName": "Second Car",
      "RunningPos": 2,
      "Laps": [
        {"Lap": 1, "RunningPos": 1},
        {"Lap": 2, "RunningPos": 2},
        {"Lap": 3, "RunningPos": 2}
      ]
    },
    {
      "Number": "24",
      "FullName": "Winning Car",
      "RunningPos": 1,
      "Laps": [
        {"Lap": 2, "RunningPos": 1},
        {"Lap": 1, "RunningPos": 2},
        {"Lap": 3, "RunningPos": 1}
      ]
    }
  ]
}`

// feedServer serves a 2023 race list with two points races on different
// tracks plus one exhibition, and lap times for race 5212.
func feedServer(t *testing.T) (*httptest.Server, *int) {
	var listCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/2023/race_list_basic.json", func(w http.ResponseWriter, _ *http.Request) {
		listCalls++
		fmt.Fprintf(w, `{"series_1":[%s,%s,%s]}`,
			raceDesc(5212, 1, 105, true),
			raceDesc(5213, 4, 105, true),
			raceDesc(5214, 1, 4, false))
	})
	mux.HandleFunc("/2023/1/5212/lap-times.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleLapTimes))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &listCalls
}

func testAdapter(t *testing.T, baseURL string) *Adapter {
	client := NewClient(
		WithBaseURL(baseURL),
		WithMaxAttempts(1),
		WithRetryDelay(time.Millisecond),
		WithFetchPause(0))
	return NewAdapter(client, catalog.DefaultTrackTable(), 1)
}

func TestAdapter_SeriesLabel(t *testing.T) {
	a := NewAdapter(NewClient(), catalog.DefaultTrackTable(), 2)
	assert.Equal(t, "nascar2", a.Series())
}

func TestAdapter_ListRaces(t *testing.T) {
	srv, listCalls := feedServer(t)
	a := testAdapter(t, srv.URL)

	refs, err := a.ListRaces(context.Background(), 2023)
	assert.NoError(t, err)
	// the exhibition race does not count as a round
	want := []adapter.RaceRef{
		{Season: 2023, Round: 1, RaceID: 5212, SeriesID: 1},
		{Season: 2023, Round: 2, RaceID: 5214, SeriesID: 1},
	}
	if diff := cmp.Diff(want, refs); diff != "" {
		t.Errorf("refs not correct: %s", diff)
	}

	// the season list is cached
	_, err = a.ListRaces(context.Background(), 2023)
	assert.NoError(t, err)
	assert.Equal(t, 1, *listCalls)
}

func TestAdapter_FetchRace(t *testing.T) {
	srv, listCalls := feedServer(t)
	a := testAdapter(t, srv.URL)

	refs, err := a.ListRaces(context.Background(), 2023)
	assert.NoError(t, err)
	raw, err := a.FetchRace(context.Background(), refs[0])
	assert.NoError(t, err)

	assert.Equal(t, "Race 5212", raw.Name)
	assert.Equal(t, 105, raw.TrackID)
	// curated name and type win over the feed's track name
	assert.Equal(t, "Daytona", raw.TrackName)
	assert.Equal(t, "superspeedway", raw.TrackType)
	assert.True(t, raw.RestrictorPlate)
	assert.Equal(t, 3, raw.ScheduledLaps)
	assert.Equal(t, 3, raw.LapCount)
	assert.InDelta(t, 3600.0, raw.DurationSeconds, 1e-9)
	assert.Nil(t, raw.Grid)

	// entries ordered by final classification, samples by lap
	assert.Len(t, raw.Entries, 2)
	assert.Equal(t, "24", raw.Entries[0].Key)
	assert.Equal(t, "11", raw.Entries[1].Key)
	wantSamples := []adapter.LapSample{{Lap: 1, Pos: 2}, {Lap: 2, Pos: 1}, {Lap: 3, Pos: 1}}
	if diff := cmp.Diff(wantSamples, raw.Entries[0].Samples); diff != "" {
		t.Errorf("samples not correct: %s", diff)
	}

	assert.Equal(t, 1, *listCalls)
}

func TestAdapter_FetchRace_UnknownRef(t *testing.T) {
	srv, _ := feedServer(t)
	a := testAdapter(t, srv.URL)

	_, err := a.FetchRace(context.Background(), adapter.RaceRef{Season: 2023, Round: 99})
	assert.ErrorIs(t, err, model.ErrDataConsistency)
}

func TestAdapter_BuildPlans(t *testing.T) {
	srv, listCalls := feedServer(t)
	a := testAdapter(t, srv.URL)

	// 2024 has no race list on the server: skipped with a warning
	plans, err := a.BuildPlans(context.Background(), 2023, 2024)
	assert.NoError(t, err)

	want := []adapter.TrackPlan{
		{Name: "Daytona", TrackType: "superspeedway", Races: []adapter.RaceRef{
			{Season: 2023, Round: 1, RaceID: 5212, SeriesID: 1},
		}},
		{Name: "Darlington", TrackType: "intermediate", Races: []adapter.RaceRef{
			{Season: 2023, Round: 2, RaceID: 5214, SeriesID: 1},
		}},
	}
	if diff := cmp.Diff(want, plans); diff != "" {
		t.Errorf("plans not correct: %s", diff)
	}
	assert.Equal(t, 1, *listCalls)
}

func TestAdapter_BuildPlans_InvalidRange(t *testing.T) {
	srv, _ := feedServer(t)
	a := testAdapter(t, srv.URL)

	_, err := a.BuildPlans(context.Background(), 2024, 2023)
	assert.ErrorIs(t, err, model.ErrConfiguration)
}
