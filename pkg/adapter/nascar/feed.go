package nascar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/racelytics/competitiveness-analyzer-go/pkg/model"
)

// PointsRaceType is the race_type_id of championship points races; every
// other type (exhibitions, qualifying duels) is ignored.
const PointsRaceType = 1

type (
	// RaceDesc describes one race in the season race list document.
	//nolint:tagliatelle // field names follow the upstream feed
	RaceDesc struct {
		RaceID          int    `json:"race_id"`
		SeriesID        int    `json:"series_id"`
		RaceSeason      int    `json:"race_season"`
		RaceName        string `json:"race_name"`
		RaceTypeID      int    `json:"race_type_id"`
		RaceDate        string `json:"race_date"`
		TrackID         int    `json:"track_id"`
		TrackName       string `json:"track_name"`
		RestrictorPlate bool   `json:"restrictor_plate"`
		ScheduledLaps   int    `json:"scheduled_laps"`
		ActualLaps      int    `json:"actual_laps"`
		TotalRaceTime   string `json:"total_race_time"`
	}

	// FeedLap is one running position sample of a car.
	//nolint:tagliatelle // field names follow the upstream feed
	FeedLap struct {
		Lap        int `json:"Lap"`
		RunningPos int `json:"RunningPos"`
	}

	// CarLaps is the lap history of one car in the lap times document. The
	// car level RunningPos is the final classified position.
	//nolint:tagliatelle // field names follow the upstream feed
	CarLaps struct {
		Number     string    `json:"Number"`
		FullName   string    `json:"FullName"`
		RunningPos int       `json:"RunningPos"`
		Laps       []FeedLap `json:"Laps"`
	}

	// LapTimesDocument is the per-race lap times document.
	LapTimesDocument struct {
		Laps []CarLaps `json:"laps"`
	}
)

// parseRaceList extracts the races of one series from the season race list.
// The document keys each series as "series_<id>"; a season where the series
// did not run yields an empty slice.
func parseRaceList(data []byte, seriesID int) ([]RaceDesc, error) {
	obj, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing race list: %v", model.ErrDataConsistency, err)
	}
	path, err := jp.ParseString(fmt.Sprintf("$.series_%d[*]", seriesID))
	if err != nil {
		return nil, err
	}
	res := path.Get(obj)

	descs := make([]RaceDesc, 0, len(res))
	for _, node := range res {
		var desc RaceDesc
		if err := oj.Unmarshal([]byte(oj.JSON(node)), &desc); err != nil {
			return nil, fmt.Errorf("%w: decoding race list entry: %v", model.ErrDataConsistency, err)
		}
		descs = append(descs, desc)
	}
	return descs, nil
}

func parseLapTimes(data []byte) (*LapTimesDocument, error) {
	var doc LapTimesDocument
	if err := oj.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing lap times: %v", model.ErrDataConsistency, err)
	}
	return &doc, nil
}

// ParseRaceTime converts the feed's colon-delimited race time into seconds.
// Parts are weighted right to left as powers of 60, so "3:01:22" is 3 hours
// 1 minute 22 seconds and "41:05" is 41 minutes 5 seconds.
func ParseRaceTime(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, errors.New("empty race time")
	}
	total := 0
	weight := 1
	parts := strings.Split(trimmed, ":")
	for i := len(parts) - 1; i >= 0; i-- {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return 0, fmt.Errorf("invalid race time %q: %w", s, err)
		}
		total += weight * v
		weight *= 60
	}
	return float64(total), nil
}
