package report

import (
	"fmt"
	"strings"

	"hypotest/app"
	"hypotest/domain/dataset"
	"hypotest/domain/stats"
)

// Markdown renders the report as a markdown document
func Markdown(r *app.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", planTitle(r))
	fmt.Fprintf(&b, "Run `%s` over %d rows (inputs `%s`), %d null hypotheses rejected.\n",
		r.RunID, r.Rows, r.Fingerprint.Fingerprint.Short(), r.Rejections)

	for _, o := range r.Outcomes {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n\n", o.Name, describeTest(o))
		switch {
		case o.Result != nil:
			resultTable(&b, *o.Result)
		case o.Regression != nil:
			regressionTable(&b, *o.Regression)
		default:
			pairwiseTable(&b, o.Pairwise)
		}
		if len(o.Samples) > 0 {
			b.WriteString("\n")
			summaryTable(&b, o.Samples)
		}
	}
	return b.String()
}

func row(b *strings.Builder, cells ...string) {
	for i, c := range cells {
		cells[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	fmt.Fprintf(b, "| %s |\n", strings.Join(cells, " | "))
}

func header(b *strings.Builder, cells ...string) {
	row(b, cells...)
	sep := make([]string, len(cells))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintf(b, "|%s|\n", strings.Join(sep, "|"))
}

func resultTable(b *strings.Builder, res stats.TestResult) {
	header(b, "statistic", "df", "p-value", "alpha", "decision")
	df := formatDF(res.DF)
	if res.Kind == stats.KindOneWayANOVA {
		df += ", " + formatDF(res.DF2)
	}
	row(b, formatFloat(res.Statistic), df, formatP(res.PValue), fmt.Sprint(res.Alpha), string(res.Decision))
}

func pairwiseTable(b *strings.Builder, pairs []stats.PairwiseResult) {
	header(b, "group1", "group2", "meandiff", "p-adj", "lower", "upper", "decision")
	for _, p := range pairs {
		row(b, p.Group1, p.Group2, formatFloat(p.MeanDiff), formatP(p.PValue),
			formatFloat(p.Lower), formatFloat(p.Upper), string(p.Decision))
	}
}

func regressionTable(b *strings.Builder, reg stats.RegressionResult) {
	fmt.Fprintf(b, "R² %s, adjusted %s, F(%s, %s) = %s, p %s: %s\n\n",
		formatFloat(reg.RSquared), formatFloat(reg.AdjRSquared), formatDF(reg.ANOVA.DF), formatDF(reg.ANOVA.DF2),
		formatFloat(reg.ANOVA.Statistic), formatP(reg.ANOVA.PValue), reg.ANOVA.Decision)
	header(b, "term", "coef", "std err", "t", "P>|t|", "lower", "upper")
	for _, c := range reg.Coefficients {
		row(b, c.Term, formatFloat(c.Estimate), formatFloat(c.StdErr), formatFloat(c.T),
			formatP(c.PValue), formatFloat(c.Lower), formatFloat(c.Upper))
	}
}

func summaryTable(b *strings.Builder, summaries []stats.Summary) {
	header(b, "sample", "count", "mean", "std", "min", "25%", "50%", "75%", "max")
	for _, s := range summaries {
		row(b, s.Name, fmt.Sprint(s.Count), formatFloat(s.Mean), formatFloat(s.StdDev), formatFloat(s.Min),
			formatFloat(s.Q25), formatFloat(s.Median), formatFloat(s.Q75), formatFloat(s.Max))
	}
}

func countTable(b *strings.Builder, column string, counts []dataset.LabelCount) {
	header(b, column, "count")
	for _, c := range counts {
		row(b, c.Label, fmt.Sprint(c.Count))
	}
}
