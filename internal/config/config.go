package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the dataset generator
type Config struct {
	// Database configuration (import target)
	Database DatabaseConfig `mapstructure:"database"`

	// Dataset generation configuration
	Generate GenerateConfig `mapstructure:"generate"`

	// Logging
	Verbose bool `mapstructure:"verbose"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	// Connection string (DSN)
	// Format: user:password@tcp(host:port)/database
	DSN string `mapstructure:"dsn"`

	// Driver (mysql)
	Driver string `mapstructure:"driver"`

	// Connection pool settings
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// GenerateConfig holds dataset generation settings
type GenerateConfig struct {
	// Random seed for reproducibility (0 = random)
	Seed int64 `mapstructure:"seed"`

	// Output directory for generated files
	OutputDir string `mapstructure:"output_dir"`

	// Volume settings
	NumCustomers int `mapstructure:"num_customers"`
	HorizonDays  int `mapstructure:"horizon_days"`

	// StartDate is the first simulated day (YYYY-MM-DD)
	StartDate string `mapstructure:"start_date"`

	// Archetype mix (must sum to 1.0)
	StablePrimeRatio       float64 `mapstructure:"stable_prime_ratio"`
	LiquidityShockRatio    float64 `mapstructure:"liquidity_shock_ratio"`
	OverspendingRatio      float64 `mapstructure:"overspending_ratio"`
	SavingsDepletionRatio  float64 `mapstructure:"savings_depletion_ratio"`
	IncomeInstabilityRatio float64 `mapstructure:"income_instability_ratio"`

	// Parallelism for generation (0 = one worker per CPU)
	NumWorkers int `mapstructure:"num_workers"`

	// Compress output files with xz
	Compress bool `mapstructure:"compress"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:          DBDriver,
			MaxOpenConns:    DBMaxOpenConns,
			MaxIdleConns:    DBMaxIdleConns,
			ConnMaxLifetime: DBConnMaxLifetime,
			ConnMaxIdleTime: DBConnMaxIdleTime,
		},
		Generate: GenerateConfig{
			Seed:                   0,
			OutputDir:              "./output",
			NumCustomers:           NumCustomers,
			HorizonDays:            HorizonDays,
			StartDate:              StartDate,
			StablePrimeRatio:       StablePrimeRatio,
			LiquidityShockRatio:    LiquidityShockRatio,
			OverspendingRatio:      OverspendingRatio,
			SavingsDepletionRatio:  SavingsDepletionRatio,
			IncomeInstabilityRatio: IncomeInstabilityRatio,
			NumWorkers:             0,
			Compress:               false,
		},
		Verbose: false,
	}
}

// Load reads configuration from viper into a Config struct
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// ArchetypeRatios returns the archetype mix in draw order.
func (g *GenerateConfig) ArchetypeRatios() []float64 {
	return []float64{
		g.StablePrimeRatio,
		g.LiquidityShockRatio,
		g.OverspendingRatio,
		g.SavingsDepletionRatio,
		g.IncomeInstabilityRatio,
	}
}

// ParseStartDate returns the configured start date at UTC midnight.
func (g *GenerateConfig) ParseStartDate() (time.Time, error) {
	t, err := time.Parse("2006-01-02", g.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start_date %q: %w", g.StartDate, err)
	}
	return t.UTC(), nil
}

// Validate checks if the configuration is valid. Any violation fails the
// whole run before a single customer is generated.
func (c *Config) Validate() error {
	var errs []string

	if c.Generate.NumCustomers <= 0 {
		errs = append(errs, "generate.num_customers must be positive")
	}
	if c.Generate.HorizonDays <= 0 {
		errs = append(errs, "generate.horizon_days must be positive")
	}
	if c.Generate.NumWorkers < 0 {
		errs = append(errs, "generate.num_workers must be non-negative")
	}
	if c.Generate.OutputDir == "" {
		errs = append(errs, "generate.output_dir must not be empty")
	}
	if _, err := c.Generate.ParseStartDate(); err != nil {
		errs = append(errs, err.Error())
	}

	var sum float64
	for _, r := range c.Generate.ArchetypeRatios() {
		if r < 0 {
			errs = append(errs, "archetype ratios must be non-negative")
			break
		}
		sum += r
	}
	if math.Abs(sum-1.0) > 1e-9 {
		errs = append(errs, fmt.Sprintf("archetype ratios must sum to 1.0 (got %g)", sum))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
