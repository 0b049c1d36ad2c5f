package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"hypotest/app"
	"hypotest/domain/dataset"
	"hypotest/domain/stats"

	"github.com/fatih/color"
)

type palette struct {
	reject *color.Color
	keep   *color.Color
	title  *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		reject: color.New(color.FgRed, color.Bold),
		keep:   color.New(color.FgGreen),
		title:  color.New(color.Bold),
	}
	if noColor {
		p.reject.DisableColor()
		p.keep.DisableColor()
		p.title.DisableColor()
	}
	return p
}

func (p palette) decision(d stats.Decision) string {
	if d == stats.RejectNull {
		return p.reject.Sprint(d)
	}
	return p.keep.Sprint(d)
}

// writeText prints one block per outcome. Decisions come last on each line so
// color escapes do not disturb column alignment.
func writeText(w io.Writer, r *app.Report, opts Options) error {
	pal := newPalette(opts.NoColor)

	fmt.Fprintf(w, "%s  run %s  inputs %s  rows %d  %s\n", pal.title.Sprint(planTitle(r)), r.RunID,
		r.Fingerprint.Fingerprint.Short(), r.Rows, r.Duration.Round(time.Microsecond))
	for _, o := range r.Outcomes {
		fmt.Fprintf(w, "\n%s\n", pal.title.Sprintf("== %s: %s", o.Name, describeTest(o)))

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		switch {
		case o.Result != nil:
			resultText(tw, *o.Result, pal)
		case o.Regression != nil:
			regressionText(tw, *o.Regression, pal)
		default:
			pairwiseText(tw, o.Pairwise, pal)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		if len(o.Samples) > 0 {
			fmt.Fprintln(w)
			if err := textSummaries(w, o.Samples); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "\n%d null hypotheses rejected across %d tests\n", r.Rejections, len(r.Outcomes))
	return err
}

func planTitle(r *app.Report) string {
	if r.Plan == "" {
		return "analysis"
	}
	return r.Plan
}

func resultText(tw *tabwriter.Writer, res stats.TestResult, pal palette) {
	df := formatDF(res.DF)
	if res.Kind == stats.KindOneWayANOVA {
		df = formatDF(res.DF) + ", " + formatDF(res.DF2)
	}
	fmt.Fprintln(tw, "statistic\tdf\tp-value\talpha\tdecision")
	fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%s\n", formatFloat(res.Statistic), df, formatP(res.PValue), res.Alpha, pal.decision(res.Decision))
}

func pairwiseText(tw *tabwriter.Writer, pairs []stats.PairwiseResult, pal palette) {
	fmt.Fprintln(tw, "group1\tgroup2\tmeandiff\tp-adj\tlower\tupper\treject")
	for _, p := range pairs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Group1, p.Group2, formatFloat(p.MeanDiff), formatP(p.PValue),
			formatFloat(p.Lower), formatFloat(p.Upper), pal.decision(p.Decision))
	}
}

func regressionText(tw *tabwriter.Writer, reg stats.RegressionResult, pal palette) {
	fmt.Fprintf(tw, "observations\t%d\n", reg.Observations)
	fmt.Fprintf(tw, "R-squared\t%s\n", formatFloat(reg.RSquared))
	fmt.Fprintf(tw, "adj. R-squared\t%s\n", formatFloat(reg.AdjRSquared))
	fmt.Fprintf(tw, "F (%s, %s)\t%s\tp %s\t%s\n", formatDF(reg.ANOVA.DF), formatDF(reg.ANOVA.DF2),
		formatFloat(reg.ANOVA.Statistic), formatP(reg.ANOVA.PValue), pal.decision(reg.ANOVA.Decision))
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "term\tcoef\tstd err\tt\tP>|t|\tlower\tupper")
	for _, c := range reg.Coefficients {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", c.Term, formatFloat(c.Estimate), formatFloat(c.StdErr),
			formatFloat(c.T), formatP(c.PValue), formatFloat(c.Lower), formatFloat(c.Upper))
	}
}

func textSummaries(w io.Writer, summaries []stats.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "sample\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax\t")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n", s.Name, s.Count, formatFloat(s.Mean), formatFloat(s.StdDev),
			formatFloat(s.Min), formatFloat(s.Q25), formatFloat(s.Median), formatFloat(s.Q75), formatFloat(s.Max))
	}
	return tw.Flush()
}

func textCounts(w io.Writer, column string, counts []dataset.LabelCount) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\tcount\n", column)
	for _, c := range counts {
		fmt.Fprintf(tw, "%s\t%d\n", c.Label, c.Count)
	}
	return tw.Flush()
}
