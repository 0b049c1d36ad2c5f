// Package hypothesis runs classical hypothesis tests over an in-memory dataset.
//
// Every operation is a pure function of its inputs: nothing is logged,
// printed or cached, and the dataset is only read. A single Runner may be
// shared by concurrent callers.
package hypothesis

import (
	"fmt"

	"hypotest/domain/dataset"
	"hypotest/domain/stats"
	"hypotest/internal/analysis"
	"hypotest/internal/errors"

	gstat "gonum.org/v1/gonum/stat"
)

// Runner computes test statistics, p-values and verdicts
type Runner struct {
	dist *analysis.StatisticalDistributions
}

// NewRunner creates a hypothesis test runner
func NewRunner() *Runner {
	return &Runner{dist: analysis.NewDistributions()}
}

// ExtractSample returns the numeric column values of the rows matching pred.
// A selection that keeps no rows fails with an empty-sample error.
func (r *Runner) ExtractSample(ds *dataset.Dataset, column string, pred dataset.Predicate) (stats.Sample, error) {
	if pred == nil {
		pred = dataset.All()
	}
	values, err := ds.Floats(column, pred)
	if err != nil {
		return stats.Sample{}, err
	}
	name := fmt.Sprintf("%s where %s", column, pred)
	if len(values) == 0 {
		return stats.Sample{}, errors.EmptySample(name)
	}
	return stats.Sample{Name: name, Values: values}, nil
}

// groupStat carries the moments of one group
type groupStat struct {
	label    string
	n        float64
	mean     float64
	variance float64
}

func summarizeGroups(groups []dataset.Group) []groupStat {
	out := make([]groupStat, len(groups))
	for i, g := range groups {
		mean, variance := meanVariance(g.Values)
		out[i] = groupStat{label: g.Label, n: float64(len(g.Values)), mean: mean, variance: variance}
	}
	return out
}

// meanVariance returns the mean and unbiased variance; variance is 0 for a
// single observation.
func meanVariance(values []float64) (float64, float64) {
	if len(values) < 2 {
		if len(values) == 1 {
			return values[0], 0
		}
		return 0, 0
	}
	return gstat.MeanVariance(values, nil)
}

// partition groups the numeric column and enforces the preconditions shared by
// ANOVA, Tukey HSD and the categorical regression: at least two groups and at
// least one error degree of freedom.
func partition(ds *dataset.Dataset, numeric, group string) ([]dataset.Group, int, error) {
	groups, err := ds.GroupBy(numeric, group)
	if err != nil {
		return nil, 0, err
	}
	if len(groups) < 2 {
		return nil, 0, errors.InsufficientGroups(group, len(groups))
	}
	total := 0
	for _, g := range groups {
		total += len(g.Values)
	}
	if total <= len(groups) {
		return nil, 0, errors.InsufficientObservations(
			fmt.Sprintf("%d observations across %d groups leave no error degrees of freedom", total, len(groups)))
	}
	return groups, total, nil
}
