package hypothesis

import (
	"fmt"
	"math"

	"hypotest/domain/dataset"
	"hypotest/domain/stats"
	"hypotest/internal/errors"
)

// CategoricalOLS fits numeric ~ C(group) by least squares with treatment
// coding. The first label in sorted order is the reference level: the
// intercept estimates its mean and every other coefficient estimates the
// difference from it. Confidence intervals are at level 1-alpha.
func (r *Runner) CategoricalOLS(ds *dataset.Dataset, numeric, group string, alpha float64) (stats.RegressionResult, error) {
	if err := stats.ValidateAlpha(alpha); err != nil {
		return stats.RegressionResult{}, err
	}
	groups, total, err := partition(ds, numeric, group)
	if err != nil {
		return stats.RegressionResult{}, err
	}

	table := buildANOVATable(groups, total)
	anova, err := r.anovaResult(table, numeric, group, alpha)
	if err != nil {
		return stats.RegressionResult{}, err
	}

	mse := table.msWithin()
	df := table.dfWithin
	tCrit := r.dist.TQuantile(1-alpha/2, df)
	ref := table.groups[0]

	coef := func(term string, estimate, se float64) stats.Coefficient {
		t := estimate / se
		return stats.Coefficient{
			Term:     term,
			Estimate: estimate,
			StdErr:   se,
			T:        t,
			PValue:   r.dist.TTestPValue(t, df, stats.TwoSided),
			Lower:    estimate - tCrit*se,
			Upper:    estimate + tCrit*se,
		}
	}

	coefficients := make([]stats.Coefficient, 0, len(table.groups))
	coefficients = append(coefficients, coef("Intercept", ref.mean, math.Sqrt(mse/ref.n)))
	for _, g := range table.groups[1:] {
		se := math.Sqrt(mse * (1/g.n + 1/ref.n))
		coefficients = append(coefficients, coef(fmt.Sprintf("%s[T.%s]", group, g.label), g.mean-ref.mean, se))
	}

	fitted, residuals, err := fitRows(ds, numeric, group, table)
	if err != nil {
		return stats.RegressionResult{}, err
	}

	ssTotal := table.ssBetween + table.ssWithin
	rSquared := table.ssBetween / ssTotal
	n := float64(total)
	adj := 1 - (1-rSquared)*(n-1)/df

	return stats.RegressionResult{
		Reference:    ref.label,
		Coefficients: coefficients,
		RSquared:     rSquared,
		AdjRSquared:  adj,
		ANOVA:        anova,
		Fitted:       fitted,
		Residuals:    residuals,
		Observations: total,
	}, nil
}

// fitRows returns fitted values (the group mean) and residuals in row order,
// skipping rows whose group label is missing
func fitRows(ds *dataset.Dataset, numeric, group string, table anovaTable) ([]float64, []float64, error) {
	means := make(map[string]float64, len(table.groups))
	for _, g := range table.groups {
		means[g.label] = g.mean
	}

	var fitted, residuals []float64
	for i := 0; i < ds.Len(); i++ {
		label := ds.Value(i, group)
		if label.IsMissing() {
			continue
		}
		y, ok := ds.Value(i, numeric).Float()
		if !ok {
			return nil, nil, errors.InvalidInput(fmt.Sprintf("column %q row %d is not numeric", numeric, i))
		}
		mean := means[label.String()]
		fitted = append(fitted, mean)
		residuals = append(residuals, y-mean)
	}
	return fitted, residuals, nil
}
