package hypothesis

import (
	"math"

	"hypotest/domain/dataset"
	"hypotest/domain/stats"
	"hypotest/internal/errors"
)

// TukeyHSD compares every pair of group labels with Tukey-Kramer standard
// errors and simultaneous confidence intervals at family-wise level alpha.
// Pairs follow the sorted label order: (g0,g1), (g0,g2), ..., (g1,g2), ...
// and MeanDiff is mean(Group2) - mean(Group1). A pair is rejected when its
// interval excludes zero.
func (r *Runner) TukeyHSD(ds *dataset.Dataset, numeric, group string, alpha float64) ([]stats.PairwiseResult, error) {
	if err := stats.ValidateAlpha(alpha); err != nil {
		return nil, err
	}
	groups, total, err := partition(ds, numeric, group)
	if err != nil {
		return nil, err
	}

	table := buildANOVATable(groups, total)
	if table.ssWithin == 0 {
		return nil, errors.ZeroVariance(numeric + " has no variance within the groups of " + group)
	}

	k := len(table.groups)
	mse := table.msWithin()
	df := table.dfWithin
	qCrit := r.dist.StudentizedRangeQuantile(1-alpha, k, df)

	results := make([]stats.PairwiseResult, 0, k*(k-1)/2)
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			gi, gj := table.groups[i], table.groups[j]
			diff := gj.mean - gi.mean
			se := math.Sqrt(mse / 2 * (1/gi.n + 1/gj.n))
			q := math.Abs(diff) / se
			margin := qCrit * se

			decision := stats.FailToRejectNull
			if q > qCrit {
				decision = stats.RejectNull
			}

			results = append(results, stats.PairwiseResult{
				Group1:   gi.label,
				Group2:   gj.label,
				MeanDiff: diff,
				PValue:   stats.ClampProbability(1 - r.dist.StudentizedRangeCDF(q, k, df)),
				Lower:    diff - margin,
				Upper:    diff + margin,
				Alpha:    alpha,
				Decision: decision,
			})
		}
	}
	return results, nil
}
