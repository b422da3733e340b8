// Package reconstruct turns sparse per-car position samples into a dense
// lap-by-lap position matrix.
//
// The matrix has lapCount+1 rows (row 0 is the start order) and one column
// per active car, columns ordered by final classification. Missing samples
// never fail the reconstruction: within a car's data range its last known
// position is carried forward, after its data ends it is padded with its
// final classified position, and duplicate or gapped position values within
// a lap are compacted into a dense 1..N ranking.
package reconstruct

import (
	"fmt"
	"sort"

	"github.com/racelytics/competitiveness-analyzer-go/pkg/adapter"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/model"
)

type (
	// entrySeries is the preprocessed lap data of one active car.
	entrySeries struct {
		key      string
		byLap    map[int]int
		firstPos int // position value of the earliest sample
		maxLap   int // last lap with a sample, -1 if none
		final    int // final classified position (column index + 1)
	}
)

// Build reconstructs the dense position matrix and the per-lap advance
// counts of a race. It returns a DataConsistencyError when the race has no
// active cars or no usable lap range.
func Build(raw *adapter.RawRace) (*model.RaceRecord, error) {
	active := activeEntries(raw.Entries)
	if len(active) == 0 {
		return nil, fmt.Errorf("%w: race %s has no active cars", model.ErrDataConsistency, raw.Ref)
	}
	if raw.LapCount < 1 {
		return nil, fmt.Errorf("%w: race %s has lap count %d", model.ErrDataConsistency, raw.Ref, raw.LapCount)
	}

	series := preprocess(active, raw.LapCount)
	matrix := make(model.PositionMatrix, 0, raw.LapCount+1)
	matrix = append(matrix, startOrder(active, series, raw.Grid))

	advances := make([]float64, raw.LapCount+1)
	for lap := 1; lap <= raw.LapCount; lap++ {
		prev := matrix[len(matrix)-1]
		row := nextRow(prev, series, lap)
		advances[lap] = advancesOf(prev, row)
		matrix = append(matrix, row)
	}

	finals := make([]int, len(active))
	for i := range finals {
		finals[i] = i + 1
	}

	return &model.RaceRecord{
		Season:          raw.Ref.Season,
		Round:           raw.Ref.Round,
		RaceID:          raw.Ref.RaceID,
		SeriesID:        raw.Ref.SeriesID,
		Name:            raw.Name,
		Date:            raw.Date,
		TrackID:         raw.TrackID,
		TrackName:       raw.TrackName,
		TrackType:       raw.TrackType,
		RestrictorPlate: raw.RestrictorPlate,
		ScheduledLaps:   raw.ScheduledLaps,
		LapCount:        raw.LapCount,
		DriverCount:     len(active),
		DurationSeconds: raw.DurationSeconds,
		Positions:       matrix,
		Advances:        advances,
		FinalPositions:  finals,
	}, nil
}

// activeEntries filters out withdrawn cars, keeping classification order.
func activeEntries(entries []adapter.Entry) []adapter.Entry {
	active := make([]adapter.Entry, 0, len(entries))
	for _, e := range entries {
		if !e.Withdrawn {
			active = append(active, e)
		}
	}
	return active
}

// preprocess indexes each car's samples by lap. Samples beyond lapCount are
// dropped, duplicate laps keep the last sample.
func preprocess(active []adapter.Entry, lapCount int) []entrySeries {
	series := make([]entrySeries, len(active))
	for i, e := range active {
		s := entrySeries{
			key:      e.Key,
			byLap:    make(map[int]int, len(e.Samples)),
			firstPos: i + 1,
			maxLap:   -1,
			final:    i + 1,
		}
		first := true
		for _, sample := range e.Samples {
			if sample.Lap > lapCount {
				continue
			}
			if first {
				s.firstPos = sample.Pos
				first = false
			}
			s.byLap[sample.Lap] = sample.Pos
			if sample.Lap > s.maxLap {
				s.maxLap = sample.Lap
			}
		}
		series[i] = s
	}
	return series
}

// startOrder builds matrix row 0. With grid data the row is the published
// start order: grid starters ascending by grid slot, then pit-lane starters
// ascending by qualifying classification. Without grid data each car takes
// the value of its earliest sample, compacted into a dense ranking.
func startOrder(active []adapter.Entry, series []entrySeries, grid *adapter.GridContext) []int {
	if grid == nil {
		ranked := make([]rankedCol, len(series))
		for i, s := range series {
			ranked[i] = rankedCol{col: i, pos: s.firstPos}
		}
		return compact(ranked, len(series))
	}

	type starter struct {
		col   int
		order int
	}
	var gridders, pitters []starter
	for i, e := range active {
		if p, ok := grid.GridPos[e.Key]; ok && p > 0 {
			gridders = append(gridders, starter{col: i, order: p})
			continue
		}
		q, ok := grid.QualiPos[e.Key]
		if !ok {
			q = len(active) + 1 // no qualifying result: line up last
		}
		pitters = append(pitters, starter{col: i, order: q})
	}
	sort.SliceStable(gridders, func(a, b int) bool { return gridders[a].order < gridders[b].order })
	sort.SliceStable(pitters, func(a, b int) bool { return pitters[a].order < pitters[b].order })

	row := make([]int, len(active))
	pos := 1
	for _, s := range gridders {
		row[s.col] = pos
		pos++
	}
	for _, s := range pitters {
		row[s.col] = pos
		pos++
	}
	return row
}

// nextRow resolves one lap: cars with a sample are ranked by sample value
// and compacted to dense positions, cars inside a data gap carry their
// previous position, cars past the end of their data take their final
// classified position.
func nextRow(prev []int, series []entrySeries, lap int) []int {
	row := make([]int, len(series))
	sampled := make([]rankedCol, 0, len(series))
	for col, s := range series {
		if pos, ok := s.byLap[lap]; ok {
			sampled = append(sampled, rankedCol{col: col, pos: pos})
			continue
		}
		if lap <= s.maxLap {
			row[col] = prev[col]
		} else {
			row[col] = s.final
		}
	}
	sort.SliceStable(sampled, func(a, b int) bool { return sampled[a].pos < sampled[b].pos })
	for rank, rc := range sampled {
		row[rc.col] = rank + 1
	}
	return row
}

type rankedCol struct {
	col int
	pos int
}

// compact maps raw position values onto a dense 1..n ranking, resolving
// duplicates by column order.
func compact(ranked []rankedCol, n int) []int {
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].pos < ranked[b].pos })
	row := make([]int, n)
	for rank, rc := range ranked {
		row[rc.col] = rank + 1
	}
	return row
}

// advancesOf counts the positions gained across one lap, summed over the
// cars that improved.
func advancesOf(prev, cur []int) float64 {
	var gained int
	for i := range cur {
		if d := prev[i] - cur[i]; d > 0 {
			gained += d
		}
	}
	return float64(gained)
}
