// Package stats evaluates windowed competitiveness statistics over pools of
// normalized races.
package stats

import (
	"fmt"
	"math"

	"github.com/racelytics/competitiveness-analyzer-go/pkg/model"
)

// TimeGrid is the shared sequence of relative race times at which the
// statistics are evaluated. With frequency f the grid holds floor(1/f)+1
// points i*f starting at 0; the default 0.01 yields 101 points spanning
// [0,1].
type TimeGrid struct {
	Frequency float64
	Times     model.Series
}

// NewTimeGrid validates the frequency and builds the grid.
func NewTimeGrid(frequency float64) (*TimeGrid, error) {
	if frequency <= 0 || frequency > 1 {
		return nil, fmt.Errorf("%w: calc frequency %g outside (0,1]", model.ErrConfiguration, frequency)
	}
	n := int(math.Floor(1/frequency + 1e-9))
	times := make(model.Series, n+1)
	for i := range times {
		times[i] = float64(i) * frequency
	}
	return &TimeGrid{Frequency: frequency, Times: times}, nil
}

// Percent returns the grid points expressed as percent of race distance.
func (g *TimeGrid) Percent() model.Series {
	pct := make(model.Series, len(g.Times))
	for i, t := range g.Times {
		pct[i] = t * 100
	}
	return pct
}
