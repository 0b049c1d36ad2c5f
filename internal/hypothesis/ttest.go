package hypothesis

import (
	"fmt"
	"math"

	"hypotest/domain/stats"
	"hypotest/internal/errors"
)

// TwoSampleTest runs Welch's t-test (unequal variances) of a against b.
// Less means the alternative mean(a) < mean(b); Greater means mean(a) > mean(b).
func (r *Runner) TwoSampleTest(a, b stats.Sample, tail stats.Tail, alpha float64) (stats.TestResult, error) {
	tail, err := checkTailAlpha(tail, alpha)
	if err != nil {
		return stats.TestResult{}, err
	}
	for _, s := range []stats.Sample{a, b} {
		if s.Len() < 2 {
			return stats.TestResult{}, errors.InsufficientObservations(
				fmt.Sprintf("sample %q has %d observation(s), need at least 2", s.Name, s.Len()))
		}
	}

	n1, n2 := float64(a.Len()), float64(b.Len())
	mean1, var1 := meanVariance(a.Values)
	mean2, var2 := meanVariance(b.Values)

	se1 := var1 / n1
	se2 := var2 / n2
	se := math.Sqrt(se1 + se2)
	if se == 0 {
		return stats.TestResult{}, errors.ZeroVariance(
			fmt.Sprintf("samples %q and %q both have zero variance", a.Name, b.Name))
	}

	tStat := (mean1 - mean2) / se

	// Welch-Satterthwaite degrees of freedom
	df := math.Pow(se1+se2, 2) / (se1*se1/(n1-1) + se2*se2/(n2-1))

	pValue := r.dist.TTestPValue(tStat, df, tail)
	return stats.TestResult{
		Kind:      stats.KindTwoSampleT,
		Tail:      tail,
		Statistic: tStat,
		PValue:    pValue,
		DF:        df,
		Alpha:     alpha,
		Decision:  stats.Decide(pValue, alpha),
	}, nil
}

// OneSampleTest runs a one-sample t-test of the sample mean against reference.
func (r *Runner) OneSampleTest(sample stats.Sample, reference float64, tail stats.Tail, alpha float64) (stats.TestResult, error) {
	tail, err := checkTailAlpha(tail, alpha)
	if err != nil {
		return stats.TestResult{}, err
	}
	if math.IsNaN(reference) || math.IsInf(reference, 0) {
		return stats.TestResult{}, errors.InvalidInput("reference value must be finite")
	}
	if sample.Len() < 2 {
		return stats.TestResult{}, errors.InsufficientObservations(
			fmt.Sprintf("sample %q has %d observation(s), need at least 2", sample.Name, sample.Len()))
	}

	n := float64(sample.Len())
	mean, variance := meanVariance(sample.Values)
	se := math.Sqrt(variance / n)
	if se == 0 {
		return stats.TestResult{}, errors.ZeroVariance(fmt.Sprintf("sample %q has zero variance", sample.Name))
	}

	tStat := (mean - reference) / se
	df := n - 1

	pValue := r.dist.TTestPValue(tStat, df, tail)
	return stats.TestResult{
		Kind:      stats.KindOneSampleT,
		Tail:      tail,
		Statistic: tStat,
		PValue:    pValue,
		DF:        df,
		Alpha:     alpha,
		Decision:  stats.Decide(pValue, alpha),
	}, nil
}

func checkTailAlpha(tail stats.Tail, alpha float64) (stats.Tail, error) {
	parsed, err := stats.ParseTail(string(tail))
	if err != nil {
		return "", err
	}
	if err := stats.ValidateAlpha(alpha); err != nil {
		return "", err
	}
	return parsed, nil
}
