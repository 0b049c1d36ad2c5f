package app

import (
	"os"
	"path/filepath"
	"testing"

	"hypotest/domain/dataset"
	"hypotest/domain/stats"
	"hypotest/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const airQualityPlan = `
name: air quality
alpha: 0.05
tests:
  - name: los angeles vs rest of california
    kind: two-sample-t
    column: aqi
    tail: two-sided
    sample_a:
      - {column: state_name, op: eq, value: California}
      - {column: county_name, op: eq, value: Los Angeles}
    sample_b:
      - {column: state_name, op: eq, value: California}
      - {column: county_name, op: ne, value: Los Angeles}
  - name: michigan above 10
    kind: one-sample-t
    column: aqi
    tail: greater
    reference: 10
    sample:
      - {column: state_name, op: in, values: [Michigan]}
`

func TestCompileAirQualityPlan(t *testing.T) {
	plan, err := ParsePlan([]byte(airQualityPlan))
	require.NoError(t, err)

	steps, err := plan.Compile()
	require.NoError(t, err)
	require.Len(t, steps, 2)

	la := steps[0]
	assert.Equal(t, stats.KindTwoSampleT, la.Spec.Kind)
	assert.Equal(t, stats.TwoSided, la.Spec.Tail)
	assert.Equal(t, 0.05, la.Spec.Alpha)
	assert.Equal(t, "state_name == California && county_name == Los Angeles", la.SampleA.String())
	assert.Equal(t, "state_name == California && county_name != Los Angeles", la.SampleB.String())

	mi := steps[1]
	require.NotNil(t, mi.Spec.Reference)
	assert.Equal(t, 10.0, *mi.Spec.Reference)
	assert.Equal(t, stats.Greater, mi.Spec.Tail)
	assert.Equal(t, "state_name in [Michigan]", mi.Sample.String())
}

func TestCompileRejectsInvalidPlans(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{
			name: "missing alpha",
			yaml: "tests:\n  - {name: a, kind: one-way-anova, column: Sales, group: TV}\n",
			want: errors.ErrInvalidAlpha,
		},
		{
			name: "alpha out of range",
			yaml: "alpha: 1.5\ntests:\n  - {name: a, kind: one-way-anova, column: Sales, group: TV}\n",
			want: errors.ErrInvalidAlpha,
		},
		{
			name: "bad tail",
			yaml: "alpha: 0.05\ntests:\n  - {name: a, kind: one-sample-t, column: aqi, tail: up, reference: 1}\n",
			want: errors.ErrInvalidTail,
		},
		{
			name: "unknown kind",
			yaml: "alpha: 0.05\ntests:\n  - {name: a, kind: chi-square, column: aqi}\n",
			want: errors.ErrInvalidInput,
		},
		{
			name: "missing reference",
			yaml: "alpha: 0.05\ntests:\n  - {name: a, kind: one-sample-t, column: aqi, tail: less}\n",
			want: errors.ErrInvalidInput,
		},
		{
			name: "missing group",
			yaml: "alpha: 0.05\ntests:\n  - {name: a, kind: tukey-hsd, column: Sales}\n",
			want: errors.ErrInvalidInput,
		},
		{
			name: "missing sample_b",
			yaml: "alpha: 0.05\ntests:\n  - name: a\n    kind: two-sample-t\n    column: aqi\n    sample_a: [{column: s, value: x}]\n",
			want: errors.ErrInvalidInput,
		},
		{
			name: "unknown op",
			yaml: "alpha: 0.05\ntests:\n  - {name: a, kind: one-sample-t, column: aqi, reference: 1, sample: [{column: s, op: like, value: x}]}\n",
			want: errors.ErrInvalidInput,
		},
		{
			name: "duplicate names",
			yaml: "alpha: 0.05\ntests:\n  - {name: a, kind: one-way-anova, column: y, group: g}\n  - {name: a, kind: tukey-hsd, column: y, group: g}\n",
			want: errors.ErrInvalidInput,
		},
		{
			name: "no tests",
			yaml: "name: empty\nalpha: 0.05\n",
			want: errors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := ParsePlan([]byte(tt.yaml))
			require.NoError(t, err)

			_, err = plan.Compile()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCompileTestAlphaOverridesPlan(t *testing.T) {
	plan, err := ParsePlan([]byte("alpha: 0.05\ntests:\n  - {name: a, kind: one-way-anova, column: y, group: g, alpha: 0.01}\n"))
	require.NoError(t, err)

	steps, err := plan.Compile()
	require.NoError(t, err)
	assert.Equal(t, 0.01, steps[0].Spec.Alpha)
}

func TestCompileDefaultsTailToTwoSided(t *testing.T) {
	plan, err := ParsePlan([]byte("alpha: 0.05\ntests:\n  - {name: a, kind: one-sample-t, column: y, reference: 3}\n"))
	require.NoError(t, err)

	steps, err := plan.Compile()
	require.NoError(t, err)
	assert.Equal(t, stats.TwoSided, steps[0].Spec.Tail)
	assert.Equal(t, dataset.All().String(), steps[0].Sample.String())
}

func TestParsePlanRejectsUnknownFields(t *testing.T) {
	_, err := ParsePlan([]byte("alpha: 0.05\ntests:\n  - {name: a, kind: one-way-anova, colum: y}\n"))
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestLoadPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(airQualityPlan), 0o644))

	plan, err := LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, "air quality", plan.Name)
	assert.Len(t, plan.Tests, 2)

	_, err = LoadPlan(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, errors.ErrNotFound)
}
