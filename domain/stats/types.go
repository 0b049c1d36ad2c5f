package stats

import (
	"fmt"
	"math"
	"strings"

	"hypotest/internal/errors"
)

// ============================================================================
// TEST VOCABULARY
// ============================================================================

// TestKind names a hypothesis test procedure
type TestKind string

const (
	KindTwoSampleT  TestKind = "two-sample-t"
	KindOneSampleT  TestKind = "one-sample-t"
	KindOneWayANOVA TestKind = "one-way-anova"
	KindTukeyHSD    TestKind = "tukey-hsd"
	KindOLS         TestKind = "ols"
)

// ParseKind validates a test kind keyword
func ParseKind(s string) (TestKind, error) {
	switch k := TestKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindTwoSampleT, KindOneSampleT, KindOneWayANOVA, KindTukeyHSD, KindOLS:
		return k, nil
	}
	return "", errors.InvalidInput(fmt.Sprintf("unknown test kind %q", s))
}

// UsesTail reports whether the kind takes an alternative-hypothesis direction
func (k TestKind) UsesTail() bool {
	return k == KindTwoSampleT || k == KindOneSampleT
}

// Tail selects the alternative hypothesis
type Tail string

const (
	TwoSided Tail = "two-sided"
	Less     Tail = "less"
	Greater  Tail = "greater"
)

// ParseTail validates a tail keyword
func ParseTail(s string) (Tail, error) {
	switch t := Tail(strings.ToLower(strings.TrimSpace(s))); t {
	case TwoSided, Less, Greater:
		return t, nil
	}
	return "", errors.InvalidTail(s)
}

// Decision is the verdict on the null hypothesis
type Decision string

const (
	RejectNull       Decision = "reject-null"
	FailToRejectNull Decision = "fail-to-reject-null"
)

// Decide rejects the null iff p < alpha
func Decide(pValue, alpha float64) Decision {
	if pValue < alpha {
		return RejectNull
	}
	return FailToRejectNull
}

// ValidateAlpha enforces alpha in the open interval (0,1)
func ValidateAlpha(alpha float64) error {
	if math.IsNaN(alpha) || alpha <= 0 || alpha >= 1 {
		return errors.InvalidAlpha(alpha)
	}
	return nil
}

// ClampProbability forces a probability into [0,1]; NaN maps to 1
func ClampProbability(p float64) float64 {
	switch {
	case math.IsNaN(p):
		return 1
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// ============================================================================
// SPEC AND RESULTS
// ============================================================================

// Sample is the numeric values of one column for the rows a selection kept
type Sample struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Len returns the number of observations
func (s Sample) Len() int {
	return len(s.Values)
}

// TestSpec fully parameterizes one test invocation
type TestSpec struct {
	Kind      TestKind `json:"kind"`
	Tail      Tail     `json:"tail,omitempty"`
	Alpha     float64  `json:"alpha"`
	Reference *float64 `json:"reference,omitempty"` // One-sample only
}

// Validate checks the combination of fields for the kind
func (s TestSpec) Validate() error {
	if _, err := ParseKind(string(s.Kind)); err != nil {
		return err
	}
	if err := ValidateAlpha(s.Alpha); err != nil {
		return err
	}
	if s.Kind.UsesTail() {
		if _, err := ParseTail(string(s.Tail)); err != nil {
			return err
		}
	}
	if s.Kind == KindOneSampleT {
		if s.Reference == nil {
			return errors.InvalidInput("one-sample test requires a reference value")
		}
		if math.IsNaN(*s.Reference) || math.IsInf(*s.Reference, 0) {
			return errors.InvalidInput("reference value must be finite")
		}
	}
	return nil
}

// TestResult is the immutable outcome of one test
type TestResult struct {
	Kind      TestKind `json:"kind"`
	Tail      Tail     `json:"tail,omitempty"`
	Statistic float64  `json:"statistic"`
	PValue    float64  `json:"p_value"`
	DF        float64  `json:"df"`            // t degrees of freedom, or F numerator df
	DF2       float64  `json:"df2,omitempty"` // F denominator df
	Alpha     float64  `json:"alpha"`
	Decision  Decision `json:"decision"`
}

// Rejected reports whether the null hypothesis was rejected
func (r TestResult) Rejected() bool {
	return r.Decision == RejectNull
}

// PairwiseResult is one Tukey HSD comparison. MeanDiff is mean(Group2) - mean(Group1).
type PairwiseResult struct {
	Group1   string   `json:"group1"`
	Group2   string   `json:"group2"`
	MeanDiff float64  `json:"mean_diff"`
	PValue   float64  `json:"p_adj"`
	Lower    float64  `json:"lower"`
	Upper    float64  `json:"upper"`
	Alpha    float64  `json:"alpha"`
	Decision Decision `json:"decision"`
}

// Summary holds descriptive statistics of one sample
type Summary struct {
	Name   string  `json:"name,omitempty"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std"` // Sample standard deviation (n-1)
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// Coefficient is one term of a categorical regression
type Coefficient struct {
	Term     string  `json:"term"`
	Estimate float64 `json:"estimate"`
	StdErr   float64 `json:"std_err"`
	T        float64 `json:"t"`
	PValue   float64 `json:"p_value"`
	Lower    float64 `json:"lower"`
	Upper    float64 `json:"upper"`
}

// RegressionResult is an OLS fit of a numeric column on one categorical factor
type RegressionResult struct {
	Reference    string        `json:"reference"`
	Coefficients []Coefficient `json:"coefficients"` // Intercept first
	RSquared     float64       `json:"r_squared"`
	AdjRSquared  float64       `json:"adj_r_squared"`
	ANOVA        TestResult    `json:"anova"`
	Fitted       []float64     `json:"fitted,omitempty"`
	Residuals    []float64     `json:"residuals,omitempty"`
	Observations int           `json:"observations"`
}
