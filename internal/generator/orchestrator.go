package generator

import (
	"fmt"
	"sync"
	"time"

	"github.com/predelinq/riskgen/internal/config"
	"github.com/predelinq/riskgen/internal/models"
	"github.com/predelinq/riskgen/internal/simulator"
	"github.com/predelinq/riskgen/internal/utils"
)

// Orchestrator coordinates a full generation run: profile draw, parallel
// daily simulation, derived metrics, and export.
type Orchestrator struct {
	cfg          *config.GenerateConfig
	verbose      bool
	showProgress bool
}

// GenerationResult holds statistics from the generation run
type GenerationResult struct {
	Seed             int64
	CustomerCount    int
	DefaultCount     int
	FailedCount      int64
	TransactionCount int64
	SnapshotCount    int64
	Duration         time.Duration
	OutputDir        string
}

// OrchestratorOptions holds optional settings for the orchestrator
type OrchestratorOptions struct {
	Verbose      bool
	ShowProgress bool
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(cfg *config.GenerateConfig, opts OrchestratorOptions) *Orchestrator {
	return &Orchestrator{
		cfg:          cfg,
		verbose:      opts.Verbose,
		showProgress: opts.ShowProgress,
	}
}

// Run executes the full pipeline and writes all dataset files.
func (o *Orchestrator) Run() (*GenerationResult, error) {
	startTime := time.Now()

	startDate, err := o.cfg.ParseStartDate()
	if err != nil {
		return nil, err
	}

	// The profile RNG resolves seed 0 to a random one; every per-customer
	// stream below is keyed off the resolved value so the whole run hangs
	// off a single number.
	profileRNG := utils.NewRandom(o.cfg.Seed)
	seed := int64(profileRNG.Seed())

	o.log("Generating %d customer profiles...", o.cfg.NumCustomers)
	customers, err := GenerateProfiles(o.cfg, profileRNG)
	if err != nil {
		return nil, fmt.Errorf("profile generation failed: %w", err)
	}

	workerCount := GetWorkerCount(o.cfg.NumWorkers)
	o.log("Simulating %d days across %d workers...", o.cfg.HorizonDays, workerCount)

	var progress *ProgressReporter
	if o.showProgress {
		progress = NewProgressReporter(ProgressConfig{
			Total: int64(len(customers)),
			Label: "  Simulating customers",
		})
	}

	partitions := PartitionCustomers(customers, workerCount)
	shock := simulator.DefaultMacroShock()

	var wg sync.WaitGroup
	workerResults := make([]WorkerResult, workerCount)

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			wr := WorkerResult{WorkerID: workerID}
			for _, c := range partitions[workerID] {
				res, err := o.simulateCustomer(c, startDate, shock, seed)
				if err != nil {
					// One bad customer never sinks the run; it is
					// dropped from every output file and counted.
					wr.Failed++
					o.log("  customer %d failed: %v", c.ID, err)
				} else {
					wr.Results = append(wr.Results, res)
				}
				if progress != nil {
					progress.Increment()
				}
			}
			workerResults[workerID] = wr
		}(i)
	}
	wg.Wait()

	if progress != nil {
		progress.Finish()
	}

	// Partitions are contiguous id ranges, so concatenating in worker
	// order restores global customer-id order.
	result := &GenerationResult{
		Seed:          seed,
		CustomerCount: len(customers),
		OutputDir:     o.cfg.OutputDir,
	}
	var merged []*simulator.Result
	for _, wr := range workerResults {
		merged = append(merged, wr.Results...)
		result.FailedCount += wr.Failed
	}

	o.log("Computing rolling balance metrics...")
	for _, res := range merged {
		simulator.ApplyRollingBalance(res.Days, config.RollingWindowDays)
		if res.Defaulted {
			result.DefaultCount++
		}
		result.TransactionCount += int64(len(res.Transactions))
		result.SnapshotCount += int64(len(res.Days))
	}

	if err := o.export(customers, merged, result, startDate); err != nil {
		return nil, err
	}

	result.Duration = time.Since(startTime)
	return result, nil
}

// simulateCustomer runs one engine inside a panic barrier so a corrupt
// profile or a bug in one trajectory cannot abort the batch.
func (o *Orchestrator) simulateCustomer(c *models.Customer, startDate time.Time, shock simulator.MacroShock, seed int64) (res *simulator.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("simulation panic: %v", r)
		}
	}()

	stream := utils.NewStream(seed, uint64(c.ID))
	engine := simulator.NewEngine(c, stream, startDate, o.cfg.HorizonDays, shock, TxnIDBlockStart(c.ID, o.cfg.HorizonDays))
	return engine.Run(), nil
}

// export writes every dataset file plus the run manifest. Exported
// results only include customers that simulated cleanly.
func (o *Orchestrator) export(customers []*models.Customer, merged []*simulator.Result, result *GenerationResult, startDate time.Time) error {
	// The profile table also drops failed customers so all three CSVs
	// reference the same population.
	ok := make(map[int64]bool, len(merged))
	for _, res := range merged {
		ok[res.Customer.ID] = true
	}
	exported := make([]*models.Customer, 0, len(merged))
	for _, c := range customers {
		if ok[c.ID] {
			exported = append(exported, c)
		}
	}

	exp := &Exporter{OutputDir: o.cfg.OutputDir, Compress: o.cfg.Compress}

	o.log("Writing customers.csv...")
	if _, err := exp.WriteCustomersCSV(exported); err != nil {
		return fmt.Errorf("failed to write customers CSV: %w", err)
	}

	o.log("Writing daily_accounts.csv...")
	if _, err := exp.WriteDailyAccountsCSV(merged); err != nil {
		return fmt.Errorf("failed to write daily accounts CSV: %w", err)
	}

	o.log("Writing transactions.csv...")
	if _, err := exp.WriteTransactionsCSV(merged); err != nil {
		return fmt.Errorf("failed to write transactions CSV: %w", err)
	}

	o.log("Writing UI JSON files...")
	if err := exp.WriteCustomersJSON(exported); err != nil {
		return fmt.Errorf("failed to write customers JSON: %w", err)
	}
	if err := exp.WriteTransactionsJSON(merged); err != nil {
		return fmt.Errorf("failed to write transactions JSON: %w", err)
	}

	manifest := NewManifest()
	manifest.Seed = result.Seed
	manifest.StartDate = startDate.Format("2006-01-02")
	manifest.HorizonDays = o.cfg.HorizonDays
	manifest.Customers = len(exported)
	manifest.Defaults = result.DefaultCount
	manifest.Failed = result.FailedCount
	manifest.Transactions = result.TransactionCount
	manifest.SnapshotRows = result.SnapshotCount
	manifest.Files = []string{
		"customers.csv", "daily_accounts.csv", "transactions.csv",
		"customers_real.json", "transactions_real.json",
	}
	if o.cfg.Compress {
		for i, f := range manifest.Files[:3] {
			manifest.Files[i] = f + ".xz"
		}
	}
	if err := exp.WriteManifest(manifest); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		fmt.Printf(format+"\n", args...)
	}
}
