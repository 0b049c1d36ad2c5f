package app

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"hypotest/domain/core"
	"hypotest/domain/dataset"
	"hypotest/domain/stats"
	"hypotest/internal/errors"

	"gopkg.in/yaml.v3"
)

// Plan declares a batch of tests over one data file
type Plan struct {
	Name           string     `yaml:"name"`
	Data           string     `yaml:"data,omitempty"`
	SkipIncomplete bool       `yaml:"skip_incomplete,omitempty"`
	Alpha          *float64   `yaml:"alpha,omitempty"`
	Tests          []PlanTest `yaml:"tests"`
}

// PlanTest is one declared test. Which fields apply depends on Kind.
type PlanTest struct {
	Name      string   `yaml:"name"`
	Kind      string   `yaml:"kind"`
	Column    string   `yaml:"column"`
	Group     string   `yaml:"group,omitempty"`
	Tail      string   `yaml:"tail,omitempty"`
	Alpha     *float64 `yaml:"alpha,omitempty"`
	Reference *float64 `yaml:"reference,omitempty"`
	SampleA   Selector `yaml:"sample_a,omitempty"`
	SampleB   Selector `yaml:"sample_b,omitempty"`
	Sample    Selector `yaml:"sample,omitempty"`
}

// Selector is a list of row conditions joined with AND
type Selector []Condition

// Condition compares one column against a value or a set of values
type Condition struct {
	Column string   `yaml:"column"`
	Op     string   `yaml:"op"`
	Value  string   `yaml:"value,omitempty"`
	Values []string `yaml:"values,omitempty"`
}

// Step is a validated, executable test
type Step struct {
	Name    string
	Spec    stats.TestSpec
	Column  string
	Group   string
	SampleA dataset.Predicate
	SampleB dataset.Predicate
	Sample  dataset.Predicate
}

// LoadPlan reads a plan file
func LoadPlan(path string) (*Plan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound(fmt.Sprintf("plan file %s", path))
		}
		return nil, errors.Wrapf(err, "read plan %s", path)
	}
	return ParsePlan(raw)
}

// ParsePlan decodes plan YAML, rejecting unknown fields
func ParsePlan(raw []byte) (*Plan, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var plan Plan
	if err := dec.Decode(&plan); err != nil {
		return nil, errors.InvalidInput(fmt.Sprintf("decode plan: %v", err))
	}
	return &plan, nil
}

// Hash fingerprints the plan's declared content
func (p *Plan) Hash() core.Hash {
	raw, err := yaml.Marshal(p)
	if err != nil {
		raw = []byte(fmt.Sprintf("%+v", *p))
	}
	return core.NewHash(raw)
}

// Compile validates every test and resolves it into a Step. Nothing is
// executed until the whole plan is valid.
func (p *Plan) Compile() ([]Step, error) {
	if len(p.Tests) == 0 {
		return nil, errors.InvalidInput("plan declares no tests")
	}
	seen := make(map[string]bool, len(p.Tests))
	steps := make([]Step, 0, len(p.Tests))
	for i, t := range p.Tests {
		label := t.Name
		if label == "" {
			label = fmt.Sprintf("test %d", i+1)
		}
		if seen[label] {
			return nil, errors.InvalidInput(fmt.Sprintf("duplicate test name %q", label))
		}
		seen[label] = true

		step, err := p.compileTest(label, t)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", label)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func (p *Plan) compileTest(label string, t PlanTest) (Step, error) {
	kind, err := stats.ParseKind(t.Kind)
	if err != nil {
		return Step{}, err
	}

	alpha := t.Alpha
	if alpha == nil {
		alpha = p.Alpha
	}
	if alpha == nil {
		return Step{}, errors.New(errors.CodeInvalidAlpha, "alpha is required: set it on the test or the plan")
	}

	spec := stats.TestSpec{Kind: kind, Alpha: *alpha, Reference: t.Reference}
	if kind.UsesTail() {
		tail := stats.TwoSided
		if strings.TrimSpace(t.Tail) != "" {
			if tail, err = stats.ParseTail(t.Tail); err != nil {
				return Step{}, err
			}
		}
		spec.Tail = tail
	} else if t.Tail != "" {
		return Step{}, errors.InvalidInput(fmt.Sprintf("%s takes no tail", kind))
	}
	if err := spec.Validate(); err != nil {
		return Step{}, err
	}

	if strings.TrimSpace(t.Column) == "" {
		return Step{}, errors.InvalidInput("column is required")
	}
	step := Step{Name: label, Spec: spec, Column: t.Column, Group: t.Group}

	switch kind {
	case stats.KindTwoSampleT:
		if len(t.SampleA) == 0 || len(t.SampleB) == 0 {
			return Step{}, errors.InvalidInput("two-sample test requires sample_a and sample_b")
		}
		if step.SampleA, err = t.SampleA.Predicate(); err != nil {
			return Step{}, err
		}
		if step.SampleB, err = t.SampleB.Predicate(); err != nil {
			return Step{}, err
		}
	case stats.KindOneSampleT:
		if step.Sample, err = t.Sample.Predicate(); err != nil {
			return Step{}, err
		}
	default:
		if strings.TrimSpace(t.Group) == "" {
			return Step{}, errors.InvalidInput(fmt.Sprintf("%s requires a group column", kind))
		}
	}
	return step, nil
}

// Predicate builds the AND of the conditions; an empty selector keeps every row
func (s Selector) Predicate() (dataset.Predicate, error) {
	if len(s) == 0 {
		return dataset.All(), nil
	}
	parts := make([]dataset.Predicate, 0, len(s))
	for _, c := range s {
		p, err := c.Predicate()
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return dataset.And(parts...), nil
}

// Predicate converts one condition
func (c Condition) Predicate() (dataset.Predicate, error) {
	if strings.TrimSpace(c.Column) == "" {
		return nil, errors.InvalidInput("condition needs a column")
	}
	switch strings.ToLower(strings.TrimSpace(c.Op)) {
	case "eq", "==", "":
		return dataset.Eq(c.Column, c.Value), nil
	case "ne", "!=":
		return dataset.Ne(c.Column, c.Value), nil
	case "in":
		if len(c.Values) == 0 {
			return nil, errors.InvalidInput(fmt.Sprintf("condition on %s: in needs values", c.Column))
		}
		return dataset.In(c.Column, c.Values...), nil
	}
	return nil, errors.InvalidInput(fmt.Sprintf("condition on %s: unknown op %q", c.Column, c.Op))
}
