package analysis

import (
	"math"

	"hypotest/domain/stats"

	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/distuv"
)

// StatisticalDistributions provides p-values and critical values for the
// reference distributions used by the test runner
type StatisticalDistributions struct{}

// NewDistributions creates a new distributions utility
func NewDistributions() *StatisticalDistributions {
	return &StatisticalDistributions{}
}

// TTestPValue computes the p-value of a t statistic under the chosen tail.
// Tail areas come from the regularized incomplete beta function so very small
// p-values keep their precision instead of collapsing to 1-CDF = 0.
func (sd *StatisticalDistributions) TTestPValue(tStatistic, df float64, tail stats.Tail) float64 {
	if df <= 0 || math.IsNaN(tStatistic) {
		return 1.0
	}

	var p float64
	switch tail {
	case stats.Less:
		p = sd.tLowerTail(tStatistic, df)
	case stats.Greater:
		p = sd.tLowerTail(-tStatistic, df)
	default:
		p = 2 * sd.tLowerTail(-math.Abs(tStatistic), df)
	}
	return stats.ClampProbability(p)
}

// tLowerTail returns P(T <= t)
func (sd *StatisticalDistributions) tLowerTail(t, df float64) float64 {
	if math.IsInf(t, -1) {
		return 0
	}
	if math.IsInf(t, 1) {
		return 1
	}
	upper := 0.5 * mathext.RegIncBeta(0.5*df, 0.5, df/(df+t*t))
	if t > 0 {
		return 1 - upper
	}
	return upper
}

// TQuantile returns the p-quantile of Student's t with df degrees of freedom
func (sd *StatisticalDistributions) TQuantile(p, df float64) float64 {
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Quantile(p)
}

// FTestPValue computes the upper-tail p-value of an F statistic (ANOVA, regression)
func (sd *StatisticalDistributions) FTestPValue(fStatistic, df1, df2 float64) float64 {
	if df1 <= 0 || df2 <= 0 || math.IsNaN(fStatistic) {
		return 1.0
	}
	if fStatistic <= 0 {
		return 1.0
	}
	if math.IsInf(fStatistic, 1) {
		return 0
	}

	// P(F > f) = I_{d2/(d2+d1 f)}(d2/2, d1/2)
	x := df2 / (df2 + df1*fStatistic)
	return stats.ClampProbability(mathext.RegIncBeta(0.5*df2, 0.5*df1, x))
}
