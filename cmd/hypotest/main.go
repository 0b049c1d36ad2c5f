package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"hypotest/adapters/excel"
	"hypotest/app"
	"hypotest/domain/dataset"
	"hypotest/domain/stats"
	"hypotest/internal/config"
	"hypotest/internal/errors"
	"hypotest/internal/hypothesis"
	"hypotest/internal/logging"
	"hypotest/internal/report"
	"hypotest/ports"

	"github.com/spf13/cobra"
)

// cli carries state shared by every subcommand
type cli struct {
	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{}
	rootCmd := &cobra.Command{
		Use:           "hypotest",
		Short:         "Run classical hypothesis tests over tabular data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
			return nil
		},
	}

	rootCmd.AddCommand(
		c.newRunCmd(),
		c.newDescribeCmd(),
		c.newCountsCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error [%s]: %v\n", errors.GetCode(err), err)
		os.Exit(1)
	}
}

func (c *cli) newRunCmd() *cobra.Command {
	var planPath, dataPath, format string
	var workers int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute every test declared in an analysis plan",
		Long: `Execute an analysis plan against a data file and render the report.

The data file is taken from --data, then the plan's data field (relative to
the plan file), then HYPOTEST_DATA_FILE.

Example: hypotest run --plan examples/plans/marketing_sales.yaml --format markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if planPath == "" {
				planPath = c.cfg.Paths.PlanFile
			}
			if planPath == "" {
				return errors.ConfigInvalid("a plan file is required (--plan or HYPOTEST_PLAN_FILE)")
			}
			plan, err := app.LoadPlan(planPath)
			if err != nil {
				return err
			}

			source := dataPath
			if source == "" && plan.Data != "" {
				source = plan.Data
				if !filepath.IsAbs(source) {
					source = filepath.Join(filepath.Dir(planPath), source)
				}
			}
			cfg := excel.DefaultReaderConfig(c.dataFile(source))
			cfg.SkipIncomplete = plan.SkipIncomplete
			ds, err := c.load(cmd.Context(), excel.NewDataReaderWithConfig(cfg), cfg.FilePath)
			if err != nil {
				return err
			}

			f, err := c.format(format)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				workers = c.cfg.Runner.Workers
			}

			svc := app.NewAnalysisService(hypothesis.NewRunner(), c.logger, workers)
			rep, err := svc.Run(cmd.Context(), ds, plan)
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout(), rep, f, report.Options{NoColor: c.cfg.Output.NoColor})
		},
	}

	cmd.Flags().StringVar(&planPath, "plan", "", "Analysis plan YAML file")
	cmd.Flags().StringVar(&dataPath, "data", "", "Data file (.csv, .tsv, .txt or .xlsx)")
	cmd.Flags().StringVar(&format, "format", "", "Report format: text|markdown|html|json")
	cmd.Flags().IntVar(&workers, "workers", 1, "Tests to run concurrently")
	return cmd
}

func (c *cli) newDescribeCmd() *cobra.Command {
	var dataPath, column, group, format string
	var skipIncomplete bool

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Summarize a numeric column, optionally per group",
		Long: `Print count, mean, standard deviation, min, quartiles and max.

Example: hypotest describe --data marketing_sales_data.csv --column Sales --group TV`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := excel.DefaultReaderConfig(c.dataFile(dataPath))
			cfg.SkipIncomplete = skipIncomplete
			ds, err := c.load(cmd.Context(), excel.NewDataReaderWithConfig(cfg), cfg.FilePath)
			if err != nil {
				return err
			}
			f, err := c.format(format)
			if err != nil {
				return err
			}

			svc := app.NewAnalysisService(hypothesis.NewRunner(), c.logger, 1)
			if group != "" {
				summaries, err := svc.DescribeGroups(ds, column, group)
				if err != nil {
					return err
				}
				return report.WriteSummaries(cmd.OutOrStdout(), summaries, f)
			}
			summary, err := svc.DescribeColumn(ds, column)
			if err != nil {
				return err
			}
			return report.WriteSummaries(cmd.OutOrStdout(), []stats.Summary{summary}, f)
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "Data file (.csv, .tsv, .txt or .xlsx)")
	cmd.Flags().StringVar(&column, "column", "", "Numeric column to summarize")
	cmd.Flags().StringVar(&group, "group", "", "Categorical column to split by")
	cmd.Flags().StringVar(&format, "format", "", "Output format: text|markdown|html|json")
	cmd.Flags().BoolVar(&skipIncomplete, "skip-incomplete", false, "Drop rows with missing cells")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

func (c *cli) newCountsCmd() *cobra.Command {
	var dataPath, column, format string

	cmd := &cobra.Command{
		Use:   "counts",
		Short: "Count rows per label of a categorical column",
		Long: `Count rows per distinct label, most frequent first.

Example: hypotest counts --data c4_epa_air_quality.csv --column state_name`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.dataFile(dataPath)
			ds, err := c.load(cmd.Context(), excel.NewDataReader(path), path)
			if err != nil {
				return err
			}
			f, err := c.format(format)
			if err != nil {
				return err
			}

			svc := app.NewAnalysisService(hypothesis.NewRunner(), c.logger, 1)
			counts, err := svc.Counts(ds, column)
			if err != nil {
				return err
			}
			return report.WriteCounts(cmd.OutOrStdout(), column, counts, f)
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "Data file (.csv, .tsv, .txt or .xlsx)")
	cmd.Flags().StringVar(&column, "column", "", "Categorical column to count")
	cmd.Flags().StringVar(&format, "format", "", "Output format: text|markdown|html|json")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

// dataFile falls back to HYPOTEST_DATA_FILE when no path was given
func (c *cli) dataFile(path string) string {
	if path != "" {
		return path
	}
	return c.cfg.Paths.DataFile
}

func (c *cli) load(ctx context.Context, reader ports.DatasetReader, path string) (*dataset.Dataset, error) {
	if path == "" {
		return nil, errors.ConfigInvalid("a data file is required (--data or HYPOTEST_DATA_FILE)")
	}
	ds, err := reader.ReadDataset(ctx)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("dataset loaded", "path", path, "rows", ds.Len(), "columns", len(ds.Columns()))
	return ds, nil
}

// format resolves the output format from the flag, then HYPOTEST_FORMAT
func (c *cli) format(flag string) (report.Format, error) {
	if flag == "" {
		flag = c.cfg.Output.Format
	}
	return report.ParseFormat(flag)
}
