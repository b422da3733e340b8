package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/racelytics/competitiveness-analyzer-go/pkg/model"
)

type (
	// Engine evaluates the statistic series of a race pool on a TimeGrid.
	Engine struct {
		grid     *TimeGrid
		interval float64
	}

	// Result holds one value per grid point for each statistic.
	Result struct {
		LapsUsed        model.Series
		LapsPerRaceUsed model.Series
		Advancement     model.Series
		Correlation     model.Series
		PValue          model.Series
		Leverage        model.Series
		Excitement      model.Series
	}
)

// NewEngine validates the window width and creates an engine bound to grid.
func NewEngine(grid *TimeGrid, interval float64) (*Engine, error) {
	if interval <= 0 || interval > 1 {
		return nil, fmt.Errorf("%w: calc interval %g outside (0,1]", model.ErrConfiguration, interval)
	}
	return &Engine{grid: grid, interval: interval}, nil
}

// Evaluate pools, for every grid point t, the lap rows of all races whose
// relative race time falls into [t-interval/2, t+interval/2] and derives the
// window statistics: the advance rate scaled to passes per hour, the
// correlation of current against final position, and the leverage and
// excitement values combined from both. Windows without data yield NaN.
func (e *Engine) Evaluate(races []*model.NormalizedRaceRecord) *Result {
	res := newResult(len(e.grid.Times))
	scales := make([]float64, len(races))
	for i, race := range races {
		scales[i] = race.AdvanceRateScale(e.grid.Frequency)
	}

	for i, t := range e.grid.Times {
		begin := t - e.interval/2
		end := t + e.interval/2

		var advances, positions, finals []float64
		for ri, race := range races {
			lo, hi := window(race.RelLaps, begin, end)
			for idx := lo; idx < hi; idx++ {
				advances = append(advances, race.RelAdvances[idx]*scales[ri])
				positions = append(positions, race.RelPositions[idx]...)
				finals = append(finals, race.RelFinalPositions...)
			}
		}

		reg := Linregress(positions, finals)
		res.LapsUsed[i] = float64(len(advances))
		res.LapsPerRaceUsed[i] = float64(len(advances)) / float64(len(races))
		res.Advancement[i] = stat.Mean(advances, nil)
		res.Correlation[i] = reg.R
		res.PValue[i] = reg.P
		res.Leverage[i] = math.Abs(reg.R)
		res.Excitement[i] = math.Abs(reg.R) * res.Advancement[i]
	}
	return res
}

// window returns the half-open index range of the rel lap values inside
// [begin, end]. relLaps is ascending, so both bounds are binary searches.
func window(relLaps model.Series, begin, end float64) (int, int) {
	lo := sort.SearchFloat64s(relLaps, begin)
	hi := sort.Search(len(relLaps), func(i int) bool { return relLaps[i] > end })
	return lo, hi
}

func newResult(n int) *Result {
	return &Result{
		LapsUsed:        make(model.Series, n),
		LapsPerRaceUsed: make(model.Series, n),
		Advancement:     make(model.Series, n),
		Correlation:     make(model.Series, n),
		PValue:          make(model.Series, n),
		Leverage:        make(model.Series, n),
		Excitement:      make(model.Series, n),
	}
}
