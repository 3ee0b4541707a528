package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"

	"github.com/predelinq/riskgen/internal/ui"
)

var (
	importDBConnection string
	importInputDir     string
	importMaxOpenConns int
	importMaxIdleConns int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import dataset CSVs into MySQL/MariaDB",
	Long: `Import generated CSV data into a MySQL/MariaDB database using LOAD DATA LOCAL INFILE.

This command performs bulk data loading with automatic parallelization.
It handles both plain CSV files and xz-compressed files (.csv.xz).

The import process:
1. Creates tables if they don't exist
2. Disables foreign key and unique checks for speed
3. Loads all tables in parallel
4. Creates indexes after loading

Examples:
  riskgen import --db "user:pass@tcp(localhost:3306)/risk"
  riskgen import --db "user:pass@tcp(localhost:3306)/risk" --input ./my-data`,
	Run: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importDBConnection, "db", "", "database connection string (required)")
	importCmd.Flags().StringVar(&importInputDir, "input", "./output", "input directory containing CSV files")
	importCmd.Flags().IntVar(&importMaxOpenConns, "db-max-open", 10, "max open database connections")
	importCmd.Flags().IntVar(&importMaxIdleConns, "db-max-idle", 10, "max idle database connections")

	importCmd.MarkFlagRequired("db")
}

// tableConfig holds metadata for loading a single table
type tableConfig struct {
	name    string
	csvFile string
	loadSQL string
}

// loadResult holds the result of loading a table
type loadResult struct {
	table    string
	rows     int64
	duration time.Duration
	err      error
}

// All tables with their LOAD DATA INFILE SQL
var tablesToLoad = []tableConfig{
	{
		name:    "customers",
		csvFile: "customers",
		loadSQL: `LOAD DATA LOCAL INFILE '%s'
INTO TABLE customers
FIELDS TERMINATED BY ','
ENCLOSED BY '"'
LINES TERMINATED BY '\n'
IGNORE 1 LINES
(customer_id, archetype, monthly_salary, emi_amount, emi_due_day,
 credit_limit, baseline_spend, baseline_savings_bal, salary_day)`,
	},
	{
		name:    "daily_accounts",
		csvFile: "daily_accounts",
		loadSQL: `LOAD DATA LOCAL INFILE '%s'
INTO TABLE daily_accounts
FIELDS TERMINATED BY ','
ENCLOSED BY '"'
LINES TERMINATED BY '\n'
IGNORE 1 LINES
(customer_id, date, closing_balance, daily_spend, daily_income,
 salary_flag, emi_flag, risk_state, @rolling_30d_balance)
SET
    rolling_30d_balance = NULLIF(@rolling_30d_balance, '')`,
	},
	{
		name:    "transactions",
		csvFile: "transactions",
		loadSQL: `LOAD DATA LOCAL INFILE '%s'
INTO TABLE transactions
FIELDS TERMINATED BY ','
ENCLOSED BY '"'
LINES TERMINATED BY '\n'
IGNORE 1 LINES
(transaction_id, customer_id, date, category, amount, balance_after, type)`,
	},
}

func runImport(cmd *cobra.Command, args []string) {
	u := ui.New()
	if noColor {
		u.SetNoColor(true)
	}

	fmt.Println(u.Header("Pre-Delinquency Dataset Importer"))
	fmt.Println()
	fmt.Println(u.KeyValue("Database", maskDSN(importDBConnection)))
	fmt.Println(u.KeyValue("Input", importInputDir))
	fmt.Println(u.KeyValue("DB Pool", fmt.Sprintf("%d open / %d idle", importMaxOpenConns, importMaxIdleConns)))
	fmt.Println()

	if err := validateInputDir(importInputDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if hasCompressedFiles(importInputDir) {
		if _, err := exec.LookPath("xz"); err != nil {
			fmt.Fprintln(os.Stderr, "Error: xz not found but compressed files detected")
			fmt.Fprintln(os.Stderr, "Install xz-utils (Linux) or xz (macOS via Homebrew)")
			os.Exit(1)
		}
	}

	dsn := ensureLocalInfileEnabled(importDBConnection)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	db.SetMaxOpenConns(importMaxOpenConns)
	db.SetMaxIdleConns(importMaxIdleConns)

	ctx := context.Background()
	spin := u.NewSpinner("Connecting to database")
	spin.Start()
	if err := db.PingContext(ctx); err != nil {
		spin.Error("connection failed: " + err.Error())
		os.Exit(1)
	}
	spin.Success("connected!")

	spinTables := u.NewSpinner("Creating tables")
	spinTables.Start()
	if err := createTablesIfNotExist(ctx, db); err != nil {
		spinTables.Error("failed: " + err.Error())
		os.Exit(1)
	}
	spinTables.Success("tables ready")

	if err := disableChecks(ctx, db); err != nil {
		fmt.Fprintf(os.Stderr, "Error disabling checks: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(u.Bold("Loading data..."))
	startTime := time.Now()
	results, loadErr := loadTablesParallel(ctx, db, importInputDir, u)
	loadDuration := time.Since(startTime)

	if loadErr != nil {
		fmt.Fprintln(os.Stderr, u.Error("Import stopped due to error"))
		printImportSummary(u, results, loadDuration)
		os.Exit(1)
	}

	if err := enableChecks(ctx, db); err != nil {
		fmt.Fprintf(os.Stderr, "Error re-enabling checks: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(u.Bold("Creating indexes..."))
	if err := createIndexes(ctx, db, u); err != nil {
		fmt.Fprintln(os.Stderr, u.Error("Error creating indexes: "+err.Error()))
		os.Exit(1)
	}

	printImportSummary(u, results, loadDuration)
}

// createTablesIfNotExist creates tables using CREATE TABLE IF NOT EXISTS
func createTablesIfNotExist(ctx context.Context, db *sql.DB) error {
	content, err := schemaFS.ReadFile("schemas/schema_no_indexes.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	for _, stmt := range splitSQLStatements(string(content)) {
		trimmed := strings.TrimSpace(stmt)
		if trimmed == "" {
			continue
		}
		upper := strings.ToUpper(trimmed)
		if strings.HasPrefix(upper, "DROP ") ||
			strings.HasPrefix(upper, "USE ") ||
			strings.HasPrefix(upper, "CREATE DATABASE") {
			continue
		}
		if strings.HasPrefix(upper, "CREATE TABLE") {
			stmt = strings.Replace(stmt, "CREATE TABLE", "CREATE TABLE IF NOT EXISTS", 1)
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// createIndexes creates indexes after data load
func createIndexes(ctx context.Context, db *sql.DB, u *ui.UI) error {
	content, err := schemaFS.ReadFile("schemas/schema_indexes.sql")
	if err != nil {
		return fmt.Errorf("failed to read index schema: %w", err)
	}

	var stmts []string
	for _, stmt := range splitSQLStatements(string(content)) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" || strings.HasPrefix(strings.ToUpper(stmt), "USE ") {
			continue
		}
		stmts = append(stmts, stmt)
	}

	bar := u.NewStepBar("Indexes", len(stmts))
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			// Re-running the import should not fail on existing indexes
			errStr := err.Error()
			if strings.Contains(errStr, "Duplicate") ||
				strings.Contains(errStr, "already exists") {
				bar.Advance()
				continue
			}
			bar.Fail(err)
			return fmt.Errorf("failed to create index: %w", err)
		}
		bar.Advance()
	}
	bar.Complete()

	return nil
}

// loadTablesParallel loads all tables concurrently with fail-fast behavior
func loadTablesParallel(ctx context.Context, db *sql.DB, inputDir string, u *ui.UI) ([]loadResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]loadResult, len(tablesToLoad))
	var mu sync.Mutex
	var firstErr error
	var wg sync.WaitGroup

	for i, table := range tablesToLoad {
		wg.Add(1)
		go func(idx int, tbl tableConfig) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			default:
			}

			result := loadTable(ctx, db, inputDir, tbl, u)
			results[idx] = result

			if result.err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = result.err
				}
				mu.Unlock()
				cancel()
			}
		}(i, table)
	}

	wg.Wait()
	return results, firstErr
}

// loadTable loads a single table from CSV (plain or xz-compressed)
func loadTable(ctx context.Context, db *sql.DB, inputDir string, tbl tableConfig, u *ui.UI) loadResult {
	start := time.Now()
	result := loadResult{table: tbl.name}

	csvPath := filepath.Join(inputDir, tbl.csvFile+".csv")
	xzPath := filepath.Join(inputDir, tbl.csvFile+".csv.xz")

	var filePath string
	var isCompressed bool

	if _, err := os.Stat(xzPath); err == nil {
		filePath = xzPath
		isCompressed = true
	} else if _, err := os.Stat(csvPath); err == nil {
		filePath = csvPath
	} else {
		result.err = fmt.Errorf("file not found: %s or %s", csvPath, xzPath)
		fmt.Println(u.Warning(fmt.Sprintf("%-16s skipped (no file)", tbl.name)))
		return result
	}

	if isCompressed {
		result.rows, result.err = loadCompressedFile(ctx, db, filePath, tbl)
	} else {
		result.rows, result.err = loadPlainFile(ctx, db, filePath, tbl)
	}
	result.duration = time.Since(start)

	if result.err != nil {
		fmt.Println(u.Error(fmt.Sprintf("%-16s %v", tbl.name, result.err)))
	} else {
		fmt.Println(u.Success(fmt.Sprintf("%-16s %s rows in %s",
			tbl.name, formatNumber(result.rows), formatDuration(result.duration))))
	}

	return result
}

// loadPlainFile loads an uncompressed CSV file
func loadPlainFile(ctx context.Context, db *sql.DB, filePath string, tbl tableConfig) (int64, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to get absolute path: %w", err)
	}

	mysql.RegisterLocalFile(absPath)
	defer mysql.DeregisterLocalFile(absPath)

	loadSQL := fmt.Sprintf(tbl.loadSQL, absPath)
	res, err := db.ExecContext(ctx, loadSQL)
	if err != nil {
		return 0, fmt.Errorf("LOAD DATA failed: %w", err)
	}

	rows, _ := res.RowsAffected()
	return rows, nil
}

// loadCompressedFile decompresses an xz file to a temp file, then loads it
func loadCompressedFile(ctx context.Context, db *sql.DB, xzPath string, tbl tableConfig) (int64, error) {
	tmpFile, err := os.CreateTemp("", fmt.Sprintf("riskgen_%s_*.csv", tbl.name))
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	xzCmd := exec.CommandContext(ctx, "xz", "-d", "-c", xzPath)
	xzCmd.Stdout = tmpFile
	xzCmd.Stderr = os.Stderr

	if err := xzCmd.Run(); err != nil {
		tmpFile.Close()
		return 0, fmt.Errorf("xz decompression failed: %w", err)
	}
	tmpFile.Close()

	return loadPlainFile(ctx, db, tmpPath, tbl)
}

// Helper functions

func ensureLocalInfileEnabled(dsn string) string {
	if strings.Contains(dsn, "allowAllFiles") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&allowAllFiles=true"
	}
	return dsn + "?allowAllFiles=true"
}

func disableChecks(ctx context.Context, db *sql.DB) error {
	queries := []string{
		"SET FOREIGN_KEY_CHECKS = 0",
		"SET UNIQUE_CHECKS = 0",
	}
	for _, q := range queries {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func enableChecks(ctx context.Context, db *sql.DB) error {
	queries := []string{
		"SET UNIQUE_CHECKS = 1",
		"SET FOREIGN_KEY_CHECKS = 1",
	}
	for _, q := range queries {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func maskDSN(dsn string) string {
	// Mask password between : and @
	if colonIdx := strings.Index(dsn, ":"); colonIdx > 0 {
		rest := dsn[colonIdx:]
		if atIdx := strings.Index(rest, "@"); atIdx > 0 {
			return dsn[:colonIdx+1] + "***" + rest[atIdx:]
		}
	}
	return dsn
}

func validateInputDir(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("input directory does not exist: %s", dir)
	}
	if err != nil {
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}

	for _, tbl := range tablesToLoad {
		csvPath := filepath.Join(dir, tbl.csvFile+".csv")
		xzPath := filepath.Join(dir, tbl.csvFile+".csv.xz")
		if _, err := os.Stat(csvPath); err == nil {
			return nil
		}
		if _, err := os.Stat(xzPath); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no CSV files found in %s", dir)
}

func hasCompressedFiles(dir string) bool {
	for _, tbl := range tablesToLoad {
		xzPath := filepath.Join(dir, tbl.csvFile+".csv.xz")
		if _, err := os.Stat(xzPath); err == nil {
			return true
		}
	}
	return false
}

func splitSQLStatements(content string) []string {
	var statements []string
	var current strings.Builder

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	return statements
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}

func formatNumber(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}

func printImportSummary(u *ui.UI, results []loadResult, totalDuration time.Duration) {
	var totalRows int64
	var failures int

	for _, r := range results {
		if r.err != nil {
			failures++
		} else {
			totalRows += r.rows
		}
	}

	items := []ui.KV{
		{Key: "Total rows", Value: formatNumber(totalRows)},
		{Key: "Total time", Value: formatDuration(totalDuration)},
	}

	if failures > 0 {
		items = append(items, ui.KV{Key: "Failed", Value: fmt.Sprintf("%d tables", failures)})
		items = append(items, ui.KV{Key: "Status", Value: "Failed"})
	} else {
		items = append(items, ui.KV{Key: "Status", Value: "Success"})
	}

	fmt.Println(u.SummaryBox("Import Summary", items))

	if failures > 0 {
		os.Exit(1)
	}
}
