package hypothesis

import (
	"testing"

	"hypotest/domain/stats"
	"hypotest/internal/analysis"
	"hypotest/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTukeyHSD_Marketing(t *testing.T) {
	r := NewRunner()

	results, err := r.TukeyHSD(marketing(t), "Sales", "TV", 0.05)
	require.NoError(t, err)
	require.Len(t, results, 3)

	wantPairs := [][2]string{{"High", "Low"}, {"High", "Medium"}, {"Low", "Medium"}}
	wantDiff := []float64{-206.8, -106.2, 100.6}
	for i, res := range results {
		assert.Equal(t, wantPairs[i][0], res.Group1)
		assert.Equal(t, wantPairs[i][1], res.Group2)
		assert.InDelta(t, wantDiff[i], res.MeanDiff, 1e-9)
		assert.Equal(t, stats.RejectNull, res.Decision)
		assert.Less(t, res.PValue, 0.001)
		assert.Equal(t, 0.05, res.Alpha)
	}

	// q(0.95; 3, 12) = 3.773, se = sqrt(MSE/2 * 2/5) with MSE = 400/12.
	first := results[0]
	assert.InDelta(t, 3.773*2.581989, first.Upper-first.MeanDiff, 0.01)
	assert.InDelta(t, first.MeanDiff-first.Lower, first.Upper-first.MeanDiff, 1e-9)
}

func TestTukeyHSD_PairCountAndSymmetry(t *testing.T) {
	r := NewRunner()
	data := map[string][]float64{
		"Nano":  {10.2, 12.5, 9.8, 11.1},
		"Micro": {11.9, 13.4, 12.2},
		"Macro": {12.8, 10.9, 13.7, 12.1, 11.6},
		"Mega":  {13.2, 14.1, 12.4},
	}
	labels := []string{"Nano", "Micro", "Macro", "Mega"}
	ds := groupedDataset(t, "Sales", "Influencer", data, labels)

	results, err := r.TukeyHSD(ds, "Sales", "Influencer", 0.05)
	require.NoError(t, err)
	assert.Len(t, results, 6)

	for _, x := range labels {
		for _, y := range labels {
			if x == y {
				continue
			}
			xy, ok := findPair(results, x, y)
			require.True(t, ok)
			yx, ok := findPair(results, y, x)
			require.True(t, ok)
			assert.InDelta(t, xy.MeanDiff, -yx.MeanDiff, 1e-12)
			assert.Equal(t, xy.Decision, yx.Decision)
		}
	}

	for i := 1; i < len(results); i++ {
		prev, cur := results[i-1], results[i]
		ordered := prev.Group1 < cur.Group1 || (prev.Group1 == cur.Group1 && prev.Group2 < cur.Group2)
		assert.True(t, ordered, "pairs out of order at %d", i)
	}
}

func TestTukeyHSD_TwoGroupsMatchesPooledT(t *testing.T) {
	r := NewRunner()
	low := []float64{3, 5, 4, 6, 2}
	high := []float64{7, 6, 9, 8, 5, 7}
	ds := groupedDataset(t, "y", "g", map[string][]float64{"low": low, "high": high}, []string{"low", "high"})

	results, err := r.TukeyHSD(ds, "y", "g", 0.05)
	require.NoError(t, err)
	require.Len(t, results, 1)

	tStat, df := pooledT(low, high)
	want := analysis.NewDistributions().TTestPValue(tStat, df, stats.TwoSided)
	assert.InDelta(t, want, results[0].PValue, 1e-5)
	assert.Equal(t, stats.Decide(want, 0.05), results[0].Decision)
}

func TestTukeyHSD_OverlappingGroupsFailToReject(t *testing.T) {
	r := NewRunner()
	ds := groupedDataset(t, "y", "g", map[string][]float64{
		"a": {5, 6, 7},
		"b": {5.5, 6.5, 6},
		"c": {6, 7, 5},
	}, []string{"a", "b", "c"})

	results, err := r.TukeyHSD(ds, "y", "g", 0.05)
	require.NoError(t, err)
	for _, res := range results {
		assert.Equal(t, stats.FailToRejectNull, res.Decision)
		assert.Less(t, res.Lower, 0.0)
		assert.Greater(t, res.Upper, 0.0)
		assert.Greater(t, res.PValue, 0.05)
	}
}

func TestTukeyHSD_Errors(t *testing.T) {
	r := NewRunner()

	single := groupedDataset(t, "y", "g", map[string][]float64{"only": {1, 2}}, []string{"only"})
	_, err := r.TukeyHSD(single, "y", "g", 0.05)
	assert.ErrorIs(t, err, errors.ErrInsufficientGroups)

	_, err = r.TukeyHSD(marketing(t), "Sales", "TV", -0.05)
	assert.ErrorIs(t, err, errors.ErrInvalidAlpha)
}

// findPair looks up x against y, mirroring a pair stored the other way round.
func findPair(results []stats.PairwiseResult, x, y string) (stats.PairwiseResult, bool) {
	for _, r := range results {
		if r.Group1 == x && r.Group2 == y {
			return r, true
		}
		if r.Group1 == y && r.Group2 == x {
			m := r
			m.Group1, m.Group2 = x, y
			m.MeanDiff = -r.MeanDiff
			m.Lower, m.Upper = -r.Upper, -r.Lower
			return m, true
		}
	}
	return stats.PairwiseResult{}, false
}

func TestFindPairMirrors(t *testing.T) {
	results := []stats.PairwiseResult{{Group1: "High", Group2: "Low", MeanDiff: -208.8, Lower: -216.6, Upper: -201.0}}

	r, ok := findPair(results, "Low", "High")
	require.True(t, ok)
	assert.Equal(t, 208.8, r.MeanDiff)
	assert.Equal(t, 201.0, r.Lower)
	assert.Equal(t, 216.6, r.Upper)

	_, ok = findPair(results, "Low", "Medium")
	assert.False(t, ok)
}
