package app

import (
	"context"
	"log/slog"
	"time"

	"hypotest/domain/dataset"
	"hypotest/domain/run"
	"hypotest/domain/stats"
	"hypotest/internal/errors"
	"hypotest/internal/hypothesis"

	"golang.org/x/sync/errgroup"
)

// AnalysisService executes analysis plans against a shared dataset
type AnalysisService struct {
	runner  *hypothesis.Runner
	logger  *slog.Logger
	workers int
}

// Report is the complete result of one plan run
type Report struct {
	run.Manifest
	Duration   time.Duration `json:"duration_ns"`
	Outcomes   []Outcome     `json:"outcomes"`
	Rejections int           `json:"rejections"`
}

// Outcome is the result of one plan step. Exactly one of Result, Pairwise or
// Regression is set, matching Kind.
type Outcome struct {
	Name       string                  `json:"name"`
	Kind       stats.TestKind          `json:"kind"`
	Column     string                  `json:"column"`
	Group      string                  `json:"group,omitempty"`
	Samples    []stats.Summary         `json:"samples,omitempty"`
	Result     *stats.TestResult       `json:"result,omitempty"`
	Pairwise   []stats.PairwiseResult  `json:"pairwise,omitempty"`
	Regression *stats.RegressionResult `json:"regression,omitempty"`
	Elapsed    time.Duration           `json:"elapsed_ns"`
}

// Rejected counts rejected null hypotheses in the outcome
func (o Outcome) Rejected() int {
	switch {
	case o.Result != nil:
		if o.Result.Rejected() {
			return 1
		}
	case o.Regression != nil:
		if o.Regression.ANOVA.Rejected() {
			return 1
		}
	default:
		n := 0
		for _, p := range o.Pairwise {
			if p.Decision == stats.RejectNull {
				n++
			}
		}
		return n
	}
	return 0
}

// NewAnalysisService creates a service running at most workers steps at once
func NewAnalysisService(runner *hypothesis.Runner, logger *slog.Logger, workers int) *AnalysisService {
	if workers < 1 {
		workers = 1
	}
	return &AnalysisService{runner: runner, logger: logger, workers: workers}
}

// Run validates the whole plan, then executes its steps. Outcomes keep plan
// order regardless of parallelism. The first failing step fails the run and
// no partial report is returned.
func (s *AnalysisService) Run(ctx context.Context, ds *dataset.Dataset, plan *Plan) (*Report, error) {
	steps, err := plan.Compile()
	if err != nil {
		return nil, errors.Wrap(err, "invalid plan")
	}

	report := &Report{
		Manifest: run.NewManifest(plan.Name, ds.Len(), run.NewFingerprint(plan.Hash(), ds.Hash())),
		Outcomes: make([]Outcome, len(steps)),
	}
	logger := s.logger.With("run_id", report.RunID.String(), "plan", plan.Name,
		"fingerprint", report.Fingerprint.Fingerprint.Short())
	logger.Info("plan started", "tests", len(steps), "rows", ds.Len(), "workers", s.workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, step := range steps {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			outcome, err := s.execute(ds, step)
			if err != nil {
				logger.Error("test failed", "test", step.Name, "kind", step.Spec.Kind, "error", err)
				return errors.Wrapf(err, "%s", step.Name)
			}
			outcome.Elapsed = time.Since(start)
			report.Outcomes[i] = outcome
			logger.Debug("test finished", "test", step.Name, "elapsed", outcome.Elapsed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report.Duration = time.Since(report.StartedAt)
	for _, o := range report.Outcomes {
		report.Rejections += o.Rejected()
	}
	logger.Info("plan finished", "rejections", report.Rejections, "duration", report.Duration)
	return report, nil
}

func (s *AnalysisService) execute(ds *dataset.Dataset, step Step) (Outcome, error) {
	out := Outcome{Name: step.Name, Kind: step.Spec.Kind, Column: step.Column, Group: step.Group}
	spec := step.Spec

	switch spec.Kind {
	case stats.KindTwoSampleT:
		a, err := s.runner.ExtractSample(ds, step.Column, step.SampleA)
		if err != nil {
			return out, err
		}
		b, err := s.runner.ExtractSample(ds, step.Column, step.SampleB)
		if err != nil {
			return out, err
		}
		res, err := s.runner.TwoSampleTest(a, b, spec.Tail, spec.Alpha)
		if err != nil {
			return out, err
		}
		out.Result = &res
		out.Samples, err = s.describeAll(a, b)
		return out, err

	case stats.KindOneSampleT:
		sample, err := s.runner.ExtractSample(ds, step.Column, step.Sample)
		if err != nil {
			return out, err
		}
		res, err := s.runner.OneSampleTest(sample, *spec.Reference, spec.Tail, spec.Alpha)
		if err != nil {
			return out, err
		}
		out.Result = &res
		out.Samples, err = s.describeAll(sample)
		return out, err

	case stats.KindOneWayANOVA:
		res, err := s.runner.OneWayANOVA(ds, step.Column, step.Group, spec.Alpha)
		if err != nil {
			return out, err
		}
		out.Result = &res

	case stats.KindTukeyHSD:
		res, err := s.runner.TukeyHSD(ds, step.Column, step.Group, spec.Alpha)
		if err != nil {
			return out, err
		}
		out.Pairwise = res

	case stats.KindOLS:
		res, err := s.runner.CategoricalOLS(ds, step.Column, step.Group, spec.Alpha)
		if err != nil {
			return out, err
		}
		out.Regression = &res

	default:
		return out, errors.InternalError("no executor for test kind " + string(spec.Kind))
	}

	samples, err := s.DescribeGroups(ds, step.Column, step.Group)
	out.Samples = samples
	return out, err
}

func (s *AnalysisService) describeAll(samples ...stats.Sample) ([]stats.Summary, error) {
	out := make([]stats.Summary, 0, len(samples))
	for _, sample := range samples {
		sum, err := s.runner.Describe(sample)
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, nil
}

// DescribeColumn summarizes one numeric column over every row
func (s *AnalysisService) DescribeColumn(ds *dataset.Dataset, column string) (stats.Summary, error) {
	sample, err := s.runner.ExtractSample(ds, column, dataset.All())
	if err != nil {
		return stats.Summary{}, err
	}
	sample.Name = column
	return s.runner.Describe(sample)
}

// DescribeGroups summarizes a numeric column per label of group, in label order
func (s *AnalysisService) DescribeGroups(ds *dataset.Dataset, column, group string) ([]stats.Summary, error) {
	groups, err := ds.GroupBy(column, group)
	if err != nil {
		return nil, err
	}
	samples := make([]stats.Sample, len(groups))
	for i, g := range groups {
		samples[i] = stats.Sample{Name: g.Label, Values: g.Values}
	}
	return s.describeAll(samples...)
}

// Counts tallies the labels of a categorical column
func (s *AnalysisService) Counts(ds *dataset.Dataset, column string) ([]dataset.LabelCount, error) {
	return ds.ValueCounts(column)
}
