package algo

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// NormalInterval returns the upper (or lower) bound of the normal-approximation
// binomial interval for pass successes out of total trials at the given
// confidence level. Bounds are clipped to [0, 1]; total == 0 yields [0, 1].
func NormalInterval(total, pass, level float64, upper bool) float64 {
	alpha := (1 - level) / 2
	if total == 0 {
		if upper {
			return 1
		}
		return 0
	}
	avg := pass / total
	sigma := math.Sqrt(avg * (1 - avg) / total)
	delta := distuv.UnitNormal.Quantile(1-alpha) * sigma
	if upper {
		return math.Min(avg+delta, 1)
	}
	return math.Max(avg-delta, 0)
}

// halfWidth is half the width of the 68% normal interval.
func halfWidth(total, pass float64) float64 {
	return 0.5 * (NormalInterval(total, pass, 0.68, true) - NormalInterval(total, pass, 0.68, false))
}
