package hypothesis

import (
	"testing"

	"hypotest/domain/stats"
	"hypotest/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	r := NewRunner()

	s, err := r.Describe(sample("aqi", 4, 1, 3, 2))
	require.NoError(t, err)

	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, s.Mean, 1e-12)
	assert.InDelta(t, 1.290994, s.StdDev, 1e-6)
	assert.Equal(t, 1.0, s.Min)
	assert.InDelta(t, 1.75, s.Q25, 1e-12)
	assert.InDelta(t, 2.5, s.Median, 1e-12)
	assert.InDelta(t, 3.25, s.Q75, 1e-12)
	assert.Equal(t, 4.0, s.Max)
	assert.Equal(t, "aqi", s.Name)
}

func TestDescribeSingleObservation(t *testing.T) {
	r := NewRunner()

	s, err := r.Describe(sample("one", 7))
	require.NoError(t, err)
	assert.Equal(t, stats.Summary{Name: "one", Count: 1, Mean: 7, Min: 7, Q25: 7, Median: 7, Q75: 7, Max: 7}, s)
}

func TestDescribeEmpty(t *testing.T) {
	_, err := NewRunner().Describe(sample("none"))
	assert.ErrorIs(t, err, errors.ErrEmptySample)
}
