package hypothesis

import (
	"hypotest/domain/dataset"
	"hypotest/domain/stats"
	"hypotest/internal/errors"
)

// anovaTable holds the sums of squares of a one-way layout
type anovaTable struct {
	groups     []groupStat
	grandMean  float64
	ssBetween  float64
	ssWithin   float64
	dfBetween  float64
	dfWithin   float64
	totalCount int
}

func (t anovaTable) msWithin() float64 {
	return t.ssWithin / t.dfWithin
}

func buildANOVATable(groups []dataset.Group, total int) anovaTable {
	gs := summarizeGroups(groups)

	var sum float64
	for _, g := range gs {
		sum += g.mean * g.n
	}
	grand := sum / float64(total)

	var ssb, ssw float64
	for _, g := range gs {
		d := g.mean - grand
		ssb += g.n * d * d
		ssw += (g.n - 1) * g.variance
	}

	return anovaTable{
		groups:     gs,
		grandMean:  grand,
		ssBetween:  ssb,
		ssWithin:   ssw,
		dfBetween:  float64(len(gs) - 1),
		dfWithin:   float64(total - len(gs)),
		totalCount: total,
	}
}

// OneWayANOVA tests equality of the means of numeric across the distinct
// labels of group.
func (r *Runner) OneWayANOVA(ds *dataset.Dataset, numeric, group string, alpha float64) (stats.TestResult, error) {
	if err := stats.ValidateAlpha(alpha); err != nil {
		return stats.TestResult{}, err
	}
	groups, total, err := partition(ds, numeric, group)
	if err != nil {
		return stats.TestResult{}, err
	}

	table := buildANOVATable(groups, total)
	return r.anovaResult(table, numeric, group, alpha)
}

func (r *Runner) anovaResult(table anovaTable, numeric, group string, alpha float64) (stats.TestResult, error) {
	if table.ssWithin == 0 {
		return stats.TestResult{}, errors.ZeroVariance(numeric + " has no variance within the groups of " + group)
	}

	f := (table.ssBetween / table.dfBetween) / table.msWithin()
	pValue := r.dist.FTestPValue(f, table.dfBetween, table.dfWithin)
	return stats.TestResult{
		Kind:      stats.KindOneWayANOVA,
		Statistic: f,
		PValue:    pValue,
		DF:        table.dfBetween,
		DF2:       table.dfWithin,
		Alpha:     alpha,
		Decision:  stats.Decide(pValue, alpha),
	}, nil
}
