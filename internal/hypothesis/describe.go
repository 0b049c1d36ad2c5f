package hypothesis

import (
	"math"
	"sort"

	"hypotest/domain/stats"
	"hypotest/internal/errors"

	mstats "github.com/montanaflynn/stats"
)

// Describe computes count, mean, sample standard deviation, min, quartiles
// and max. Quartiles interpolate linearly between order statistics.
func (r *Runner) Describe(sample stats.Sample) (stats.Summary, error) {
	if sample.Len() == 0 {
		return stats.Summary{}, errors.EmptySample(sample.Name)
	}
	data := mstats.Float64Data(sample.Values)

	mean, err := mstats.Mean(data)
	if err != nil {
		return stats.Summary{}, errors.Wrap(err, "mean")
	}
	minimum, err := mstats.Min(data)
	if err != nil {
		return stats.Summary{}, errors.Wrap(err, "min")
	}
	maximum, err := mstats.Max(data)
	if err != nil {
		return stats.Summary{}, errors.Wrap(err, "max")
	}
	median, err := mstats.Median(data)
	if err != nil {
		return stats.Summary{}, errors.Wrap(err, "median")
	}

	std := 0.0
	if sample.Len() > 1 {
		std, err = mstats.StandardDeviationSample(data)
		if err != nil {
			return stats.Summary{}, errors.Wrap(err, "standard deviation")
		}
	}

	sorted := append([]float64(nil), sample.Values...)
	sort.Float64s(sorted)

	return stats.Summary{
		Name:   sample.Name,
		Count:  sample.Len(),
		Mean:   mean,
		StdDev: std,
		Min:    minimum,
		Q25:    linearQuantile(sorted, 0.25),
		Median: median,
		Q75:    linearQuantile(sorted, 0.75),
		Max:    maximum,
	}, nil
}

// linearQuantile interpolates between order statistics at position p*(n-1)
func linearQuantile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
