package hypothesis

import (
	"math"
	"math/rand"
	"testing"

	"hypotest/domain/dataset"
	"hypotest/domain/stats"
	"hypotest/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(name string, values ...float64) stats.Sample {
	return stats.Sample{Name: name, Values: values}
}

func TestTwoSampleTest_SeparatedMeansReject(t *testing.T) {
	r := NewRunner()

	res, err := r.TwoSampleTest(sample("a", 10, 12, 11, 13), sample("b", 20, 22, 21, 23), stats.TwoSided, 0.05)
	require.NoError(t, err)

	assert.InDelta(t, -10.9545, res.Statistic, 1e-4)
	assert.InDelta(t, 6.0, res.DF, 1e-9)
	assert.InDelta(t, 3.4364e-5, res.PValue, 1e-7)
	assert.Equal(t, stats.RejectNull, res.Decision)
	assert.Equal(t, 0.05, res.Alpha)
	assert.Equal(t, stats.KindTwoSampleT, res.Kind)
}

func TestTwoSampleTest_WelchUnequalVariances(t *testing.T) {
	r := NewRunner()
	a := sample("a", 1, 2, 3, 4, 5)
	b := sample("b", 2, 4, 6, 8, 10, 12)

	tests := []struct {
		tail     stats.Tail
		wantP    float64
		decision stats.Decision
	}{
		{stats.TwoSided, 0.049284, stats.RejectNull},
		{stats.Less, 0.024642, stats.RejectNull},
		{stats.Greater, 1 - 0.024642, stats.FailToRejectNull},
	}

	for _, tt := range tests {
		t.Run(string(tt.tail), func(t *testing.T) {
			res, err := r.TwoSampleTest(a, b, tt.tail, 0.05)
			require.NoError(t, err)
			assert.InDelta(t, -2.376354, res.Statistic, 1e-6)
			assert.InDelta(t, 6.972256, res.DF, 1e-6)
			assert.InDelta(t, tt.wantP, res.PValue, 1e-5)
			assert.Equal(t, tt.decision, res.Decision)
		})
	}
}

func TestTwoSampleTest_SwapSymmetry(t *testing.T) {
	r := NewRunner()
	a := sample("ny", 3, 5, 4, 6, 2, 5)
	b := sample("ohio", 7, 6, 9, 8, 5)

	ab, err := r.TwoSampleTest(a, b, stats.Less, 0.05)
	require.NoError(t, err)
	ba, err := r.TwoSampleTest(b, a, stats.Greater, 0.05)
	require.NoError(t, err)

	assert.InDelta(t, ab.Statistic, -ba.Statistic, 1e-12)
	assert.InDelta(t, ab.PValue, ba.PValue, 1e-12)
	assert.Equal(t, ab.Decision, ba.Decision)
}

func TestTwoSampleTest_NullCalibration(t *testing.T) {
	r := NewRunner()
	rng := rand.New(rand.NewSource(20240601))

	const draws = 2000
	kept := 0
	for i := 0; i < draws; i++ {
		a := make([]float64, 15)
		b := make([]float64, 15)
		for j := range a {
			a[j] = 50 + 8*rng.NormFloat64()
			b[j] = 50 + 8*rng.NormFloat64()
		}
		res, err := r.TwoSampleTest(sample("a", a...), sample("b", b...), stats.TwoSided, 0.05)
		require.NoError(t, err)
		if !res.Rejected() {
			kept++
		}
	}

	rate := float64(kept) / draws
	assert.InDelta(t, 0.95, rate, 0.02, "fail-to-reject rate %.3f", rate)
}

func TestTwoSampleTest_Errors(t *testing.T) {
	r := NewRunner()
	ok := sample("ok", 1, 2, 3)

	_, err := r.TwoSampleTest(ok, sample("tiny", 4), stats.TwoSided, 0.05)
	assert.ErrorIs(t, err, errors.ErrInsufficientObservations)

	_, err = r.TwoSampleTest(sample("flat", 2, 2), sample("flat2", 2, 2), stats.TwoSided, 0.05)
	assert.ErrorIs(t, err, errors.ErrZeroVariance)

	_, err = r.TwoSampleTest(ok, ok, "upward", 0.05)
	assert.ErrorIs(t, err, errors.ErrInvalidTail)

	_, err = r.TwoSampleTest(ok, ok, stats.TwoSided, 0)
	assert.ErrorIs(t, err, errors.ErrInvalidAlpha)
}

func TestOneSampleTest_CloseToReferenceFailsToReject(t *testing.T) {
	r := NewRunner()

	res, err := r.OneSampleTest(sample("s", 9, 9, 10, 10, 11), 10, stats.TwoSided, 0.05)
	require.NoError(t, err)

	assert.InDelta(t, -0.534522, res.Statistic, 1e-6)
	assert.Equal(t, 4.0, res.DF)
	assert.InDelta(t, 0.621308, res.PValue, 1e-5)
	assert.Equal(t, stats.FailToRejectNull, res.Decision)
}

func TestOneSampleTest_Tails(t *testing.T) {
	r := NewRunner()
	s := sample("michigan", 6, 8, 7, 9, 8, 7, 10, 6)

	greater, err := r.OneSampleTest(s, 10, stats.Greater, 0.05)
	require.NoError(t, err)
	less, err := r.OneSampleTest(s, 10, stats.Less, 0.05)
	require.NoError(t, err)

	assert.Less(t, greater.Statistic, 0.0)
	assert.InDelta(t, 1.0, greater.PValue+less.PValue, 1e-12)
	assert.Equal(t, stats.FailToRejectNull, greater.Decision)
	assert.Equal(t, stats.RejectNull, less.Decision)
}

func TestOneSampleTest_Errors(t *testing.T) {
	r := NewRunner()

	_, err := r.OneSampleTest(sample("one", 3), 1, stats.TwoSided, 0.05)
	assert.ErrorIs(t, err, errors.ErrInsufficientObservations)

	_, err = r.OneSampleTest(sample("flat", 3, 3, 3), 1, stats.TwoSided, 0.05)
	assert.ErrorIs(t, err, errors.ErrZeroVariance)

	_, err = r.OneSampleTest(sample("s", 1, 2), math.NaN(), stats.TwoSided, 0.05)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	_, err = r.OneSampleTest(sample("s", 1, 2), 1, stats.TwoSided, 1.2)
	assert.ErrorIs(t, err, errors.ErrInvalidAlpha)
}

func TestExtractSample(t *testing.T) {
	r := NewRunner()
	ds, err := dataset.FromRecords(
		[]string{"state_name", "county_name", "aqi"},
		[][]string{
			{"California", "Los Angeles", "12"},
			{"California", "Fresno", "9"},
			{"Ohio", "Franklin", "8"},
		},
	)
	require.NoError(t, err)

	s, err := r.ExtractSample(ds, "aqi", dataset.Eq("state_name", "California"))
	require.NoError(t, err)
	assert.Equal(t, []float64{12, 9}, s.Values)
	assert.Equal(t, "aqi where state_name == California", s.Name)

	_, err = r.ExtractSample(ds, "aqi", dataset.Eq("state_name", "Texas"))
	assert.ErrorIs(t, err, errors.ErrEmptySample)

	_, err = r.ExtractSample(ds, "aqi", dataset.Eq("region", "West"))
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	all, err := r.ExtractSample(ds, "aqi", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, all.Len())
}
