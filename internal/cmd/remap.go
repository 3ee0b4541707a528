package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/predelinq/riskgen/internal/remap"
	"github.com/predelinq/riskgen/internal/ui"
)

var (
	remapInput     string
	remapOutput    string
	remapSeed      int64
	remapLegit     int
	remapCustomers int
	remapBaseDate  string
)

// remapCmd represents the remap command
var remapCmd = &cobra.Command{
	Use:   "remap",
	Short: "Remap the card-fraud research CSV into dashboard JSON",
	Long: `Convert the anonymized card-fraud dataset (creditcard.csv layout:
Time, V1..V28, Amount, Class) into customers_real.json and
transactions_real.json.

Every fraud row is kept together with a fixed-size sample of legitimate
rows. Categories are projected from the first three PCA components so
mathematically similar rows land in the same category, merchants are
drawn from per-category pools, and the two-day capture window is
stretched onto a month-long timeline.

Example:
  riskgen remap --input creditcard.csv --output ./data
  riskgen remap --input creditcard.csv --seed 42 --sample 5000`,
	Run: runRemap,
}

func init() {
	rootCmd.AddCommand(remapCmd)

	remapCmd.Flags().StringVar(&remapInput, "input", "", "source CSV file (required)")
	remapCmd.Flags().StringVar(&remapOutput, "output", "./data", "output directory for JSON files")
	remapCmd.Flags().Int64Var(&remapSeed, "seed", 0, "random seed for reproducible sampling (0 = random)")
	remapCmd.Flags().IntVar(&remapLegit, "sample", 5000, "number of legitimate rows to sample")
	remapCmd.Flags().IntVar(&remapCustomers, "remap-customers", 100, "synthetic customer pool size")
	remapCmd.Flags().StringVar(&remapBaseDate, "base-date", "2026-01-15", "timeline anchor date (YYYY-MM-DD)")

	remapCmd.MarkFlagRequired("input")
}

func runRemap(cmd *cobra.Command, args []string) {
	u := ui.New()
	if noColor {
		u.SetNoColor(true)
	}

	baseDate, err := time.Parse("2006-01-02", remapBaseDate)
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(fmt.Sprintf("invalid base date %q: %v", remapBaseDate, err)))
		os.Exit(1)
	}

	fmt.Println(u.Header("Card-Fraud Dataset Remapper"))
	fmt.Println()
	fmt.Println(u.KeyValue("Input", remapInput))
	fmt.Println(u.KeyValue("Output", remapOutput))
	fmt.Println(u.KeyValue("Sample", fmt.Sprintf("%d legit rows", remapLegit)))
	fmt.Println(u.KeyValue("Customers", fmt.Sprintf("%d", remapCustomers)))
	fmt.Println()

	r := remap.New(remap.Options{
		InputCSV:     remapInput,
		OutputDir:    remapOutput,
		Seed:         remapSeed,
		LegitSample:  remapLegit,
		NumCustomers: remapCustomers,
		BaseDate:     baseDate.UTC(),
	})

	spin := u.NewSpinner("Remapping transactions")
	spin.Start()
	summary, err := r.Run()
	if err != nil {
		spin.Error(err.Error())
		os.Exit(1)
	}
	spin.Success("complete")

	items := []ui.KV{
		{Key: "Source rows", Value: fmt.Sprintf("%d", summary.SourceRows)},
		{Key: "Fraud rows", Value: fmt.Sprintf("%d", summary.FraudRows)},
		{Key: "Sampled", Value: fmt.Sprintf("%d", summary.Sampled)},
		{Key: "Customers", Value: fmt.Sprintf("%d", summary.Customers)},
		{Key: "Transactions", Value: fmt.Sprintf("%d", summary.Transactions)},
		{Key: "Status", Value: "Success"},
	}
	fmt.Println(u.SummaryBox("Remap Complete", items))
	fmt.Println()
	fmt.Println(u.Success("Output files written to: " + remapOutput))
}
