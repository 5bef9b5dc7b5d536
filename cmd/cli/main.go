package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"evalytics/adapters/excel"
	"evalytics/adapters/rng"
	"evalytics/domain/core"
	"evalytics/domain/evaluation"
	"evalytics/internal"
	"evalytics/internal/analytics"
	"evalytics/internal/config"
	"evalytics/internal/container"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "evalytics",
		Short: "Evalytics CLI for performance evaluation statistics",
	}

	rootCmd.AddCommand(
		newDescribeCmd(),
		newReliabilityCmd(),
		newClusterCmd(),
		newRiskCmd(),
		newImportCmd(),
		newReportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newImporter() *excel.Importer {
	return excel.NewImporter(excel.DefaultConfig(), internal.NewLogger(internal.LogLevelWarn))
}

func newDescribeCmd() *cobra.Command {
	var values, file, column string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Descriptive statistics and distribution shape of a sample",
		Long: `Describe a sample given inline or read from one column of a CSV/XLSX file.

Example: evalytics describe --values 3.5,4,4.2,2.8
         evalytics describe --file scores.xlsx --column puntaje`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loadSample(cmd.Context(), values, file, column)
			if err != nil {
				return err
			}
			skew := analytics.Skewness(data)
			kurt := analytics.Kurtosis(data)
			return printJSON(map[string]interface{}{
				"descriptive":              analytics.DescribeSample(data),
				"skewness":                 analytics.Round(skew, 4),
				"skewness_interpretation":  analytics.SkewnessInterpretation(skew),
				"kurtosis":                 analytics.Round(kurt, 4),
				"kurtosis_interpretation":  analytics.KurtosisInterpretation(kurt),
				"coefficient_of_variation": analytics.Round(analytics.CoefficientOfVariation(data), 4),
			})
		},
	}

	cmd.Flags().StringVar(&values, "values", "", "Comma separated values")
	cmd.Flags().StringVar(&file, "file", "", "CSV or XLSX file to read the sample from")
	cmd.Flags().StringVar(&column, "column", "", "Column holding the sample (default: first column)")
	return cmd
}

func newReliabilityCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "reliability",
		Short: "Cronbach's alpha of an instrument's item responses",
		Long: `Compute internal consistency from an item response file, in long
(respondent, item, value) or wide (one column per item) layout.

Example: evalytics reliability --file clima.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			responses, err := newImporter().ImportItemResponses(cmd.Context(), file)
			if err != nil {
				return err
			}
			items, matrix := evaluation.ItemMatrix(responses)
			return printJSON(map[string]interface{}{
				"reliability":      analytics.CronbachAlpha(matrix),
				"alpha_if_deleted": analytics.CronbachAlphaIfItemDeleted(matrix, items),
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Item response file (CSV or XLSX)")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newClusterCmd() *cobra.Command {
	var file string
	var k, maxK int
	var seed int64

	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Group employees by their dimension scores with k-means",
		Long: `Cluster employee profiles read from a score file. Without --k the
number of clusters is suggested with the elbow method.

Example: evalytics cluster --file scores.csv --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scores, err := newImporter().ImportScores(cmd.Context(), file)
			if err != nil {
				return err
			}
			profiles := evaluation.Profiles(scores)
			dims := evaluation.Dimensions(scores)

			var source analytics.RandSource = analytics.GlobalRand
			if cmd.Flags().Changed("seed") {
				stream, err := rng.NewAdapter().SeededStream(cmd.Context(), "cli-cluster", seed)
				if err != nil {
					return err
				}
				source = stream
			}

			accessors := make([]func(evaluation.EmployeeProfile) float64, len(dims))
			for i, dim := range dims {
				dim := dim
				accessors[i] = func(p evaluation.EmployeeProfile) float64 { return p.Score(dim) }
			}

			out := map[string]interface{}{"dimensions": dims}
			if k == 0 {
				suggestion := analytics.SuggestOptimalClusters(profiles, accessors, maxK, source)
				out["suggestion"] = suggestion
				k = suggestion.OptimalK
			}
			if k < 1 {
				return fmt.Errorf("not enough employees to cluster (%d)", len(profiles))
			}
			result := analytics.KMeansClustering(profiles, k, accessors, analytics.DefaultMaxIterations, source)
			out["clusters"] = clusterMembers(result)
			out["k"] = result.K
			out["converged"] = result.Converged
			out["total_within_ss"] = result.TotalWithinSS
			return printJSON(out)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Score file (CSV or XLSX)")
	cmd.Flags().IntVar(&k, "k", 0, "Number of clusters (0 suggests one)")
	cmd.Flags().IntVar(&maxK, "max-k", analytics.DefaultMaxClusters, "Largest k considered when suggesting")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for reproducible centroids")
	cmd.MarkFlagRequired("file")
	return cmd
}

type clusterOutput struct {
	ClusterID int               `json:"cluster_id"`
	Size      int               `json:"size"`
	Centroid  []float64         `json:"centroid"`
	Members   []core.EmployeeID `json:"members"`
}

func clusterMembers(result analytics.KMeansResult[evaluation.EmployeeProfile]) []clusterOutput {
	out := make([]clusterOutput, 0, len(result.Clusters))
	for _, c := range result.Clusters {
		members := make([]core.EmployeeID, 0, len(c.Members))
		for _, m := range c.Members {
			members = append(members, m.EmployeeID)
		}
		out = append(out, clusterOutput{ClusterID: c.ClusterID, Size: c.Size, Centroid: c.Centroid, Members: members})
	}
	return out
}

func newRiskCmd() *cobra.Command {
	var factors []string

	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Composite risk score from weighted factors",
		Long: `Each --factor is name=value:weight:threshold[:direction], direction being
higher_is_risk (default) or lower_is_risk.

Example: evalytics risk --factor ausentismo=12:2:5 --factor desempeno=2.1:3:3:lower_is_risk`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed := make([]analytics.RiskFactor, 0, len(factors))
			for _, f := range factors {
				factor, err := parseRiskFactor(f)
				if err != nil {
					return err
				}
				parsed = append(parsed, factor)
			}
			return printJSON(analytics.CalculateRiskScore(parsed))
		},
	}

	cmd.Flags().StringArrayVar(&factors, "factor", nil, "Risk factor name=value:weight:threshold[:direction]")
	cmd.MarkFlagRequired("factor")
	return cmd
}

func newImportCmd() *cobra.Command {
	var scoresFile, itemsFile, name string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Store a cycle's scores and item responses",
		Long: `Import a score file, and optionally an item response file, as a new
evaluation cycle in the configured store (DATABASE_URL).

Example: evalytics import --name "2024 H1" --scores scores.csv --items clima.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			summary, err := c.Reports.ImportCycle(cmd.Context(), evaluation.Cycle{Name: name}, scoresFile, itemsFile)
			if err != nil {
				return err
			}
			return printJSON(summary)
		},
	}

	cmd.Flags().StringVar(&scoresFile, "scores", "", "Score file (CSV or XLSX)")
	cmd.Flags().StringVar(&itemsFile, "items", "", "Item response file (CSV or XLSX)")
	cmd.Flags().StringVar(&name, "name", "", "Cycle name")
	cmd.MarkFlagRequired("scores")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newReportCmd() *cobra.Command {
	var cycleID, instrumentID, scoresFile, itemsFile string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the analysis report of a cycle",
		Long: `Generate a report for a stored cycle, or for files imported on the fly
when --scores is given.

Example: evalytics report --cycle 018f... --instrument clima
         evalytics report --scores scores.csv --items clima.csv --instrument clima`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := newContainer(ctx)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			var id core.CycleID
			if scoresFile != "" {
				summary, err := c.Reports.ImportCycle(ctx, evaluation.Cycle{Name: scoresFile}, scoresFile, itemsFile)
				if err != nil {
					return err
				}
				id = summary.CycleID
			} else if id, err = core.ParseCycleID(cycleID); err != nil {
				return fmt.Errorf("either --cycle or --scores is required: %w", err)
			}

			report, err := c.Reports.GenerateCycleReport(ctx, id, core.ParseInstrumentID(instrumentID))
			if err != nil {
				return err
			}
			return printJSON(report)
		},
	}

	cmd.Flags().StringVar(&cycleID, "cycle", "", "Stored cycle ID")
	cmd.Flags().StringVar(&instrumentID, "instrument", "", "Instrument whose reliability is analyzed")
	cmd.Flags().StringVar(&scoresFile, "scores", "", "Score file to import before reporting")
	cmd.Flags().StringVar(&itemsFile, "items", "", "Item response file to import before reporting")
	return cmd
}

func newContainer(ctx context.Context) (*container.Container, error) {
	godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	return container.New(ctx, cfg, logger)
}

func loadSample(ctx context.Context, values, file, column string) ([]float64, error) {
	switch {
	case values != "" && file != "":
		return nil, fmt.Errorf("use either --values or --file")
	case values != "":
		return parseValues(values)
	case file != "":
		return newImporter().ReadColumn(ctx, file, column)
	default:
		return nil, fmt.Errorf("either --values or --file is required")
	}
}

func parseValues(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseRiskFactor(s string) (analytics.RiskFactor, error) {
	name, fields, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(name) == "" {
		return analytics.RiskFactor{}, fmt.Errorf("invalid factor %q: expected name=value:weight:threshold", s)
	}
	parts := strings.Split(fields, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return analytics.RiskFactor{}, fmt.Errorf("invalid factor %q: expected name=value:weight:threshold", s)
	}
	nums := make([]float64, 3)
	for i := range nums {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return analytics.RiskFactor{}, fmt.Errorf("invalid factor %q: %q is not a number", s, parts[i])
		}
		nums[i] = v
	}
	direction := analytics.HigherIsRisk
	if len(parts) == 4 {
		direction = analytics.RiskDirection(strings.TrimSpace(parts[3]))
		if direction != analytics.HigherIsRisk && direction != analytics.LowerIsRisk {
			return analytics.RiskFactor{}, fmt.Errorf("invalid factor %q: unknown direction %q", s, parts[3])
		}
	}
	return analytics.RiskFactor{
		Name:      strings.TrimSpace(name),
		Value:     nums[0],
		Weight:    nums[1],
		Threshold: nums[2],
		Direction: direction,
	}, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
