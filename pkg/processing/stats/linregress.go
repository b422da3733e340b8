package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// tiny keeps the t statistic finite when |r| reaches 1.
const tiny = 1e-20

// Regression is an ordinary least squares fit of y over x.
type Regression struct {
	Slope     float64
	Intercept float64
	R         float64
	P         float64
	N         int
}

// Linregress fits y = intercept + slope*x and derives the Pearson
// correlation r together with the two-sided p-value of the null hypothesis
// that the slope is zero, against a Student's t distribution with n-2
// degrees of freedom. Degenerate inputs (fewer than two pairs, mismatched
// lengths, or zero variance in x) yield NaN results instead of an error so
// that sparse windows stay representable.
func Linregress(x, y []float64) Regression {
	nan := math.NaN()
	res := Regression{Slope: nan, Intercept: nan, R: nan, P: nan, N: len(x)}
	if len(x) < 2 || len(x) != len(y) {
		return res
	}
	if stat.Variance(x, nil) == 0 {
		return res
	}

	res.Intercept, res.Slope = stat.LinearRegression(x, y, nil, false)
	if stat.Variance(y, nil) == 0 {
		res.R = 0
	} else {
		res.R = min(max(stat.Correlation(x, y, nil), -1), 1)
	}

	if res.N == 2 {
		// two points always fit exactly, only equality of y is informative
		if y[0] == y[1] {
			res.P = 1
		} else {
			res.P = 0
		}
		return res
	}
	df := float64(res.N - 2)
	t := res.R * math.Sqrt(df/((1-res.R+tiny)*(1+res.R+tiny)))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	res.P = 2 * dist.Survival(math.Abs(t))
	return res
}
