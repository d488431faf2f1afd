// Package config defines run configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env.
// - External errors must be wrapped via this package's error kinds.
package config

import (
	"fmt"

	"github.com/tbeaumont/wagescout/internal/domain/model"
)

// Config contains everything one analysis run needs. Populated from
// defaults, an optional YAML file, and WAGESCOUT_* environment variables.
type Config struct {
	// HourlyWage is the wage being tested against the selected level.
	HourlyWage float64 `koanf:"hourly_wage"`

	// WageLevel selects the tier to compare against: L1, L2, L3 or L4.
	WageLevel string `koanf:"wage_level"`

	// SocCode is the occupation code filter, in the stored source format.
	SocCode string `koanf:"soc_code"`

	// DataYear selects the dataset folder, e.g. "2025-26" ->
	// data/OFLC_Wages_2025-26/.
	DataYear string `koanf:"data_year"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	Paths    Paths    `koanf:"paths"`
	Output   Output   `koanf:"output"`
	Advanced Advanced `koanf:"advanced"`
}

// Paths locates the input datasets and the output directory.
type Paths struct {
	DataDir       string `koanf:"data_dir"`
	OutputDir     string `koanf:"output_dir"`
	ALCFile       string `koanf:"alc_file"`
	GeographyFile string `koanf:"geography_file"`
}

// Output controls the report format and column selection.
type Output struct {
	// Format is "xlsx" or "csv".
	Format string `koanf:"format"`

	// Columns optionally restricts the exported columns. Empty means the
	// canonical column order; unknown names are ignored.
	Columns []string `koanf:"columns"`
}

// Advanced holds the knobs most runs never touch.
type Advanced struct {
	// ComparisonOperator is applied as "hourly_wage <op> level_value".
	ComparisonOperator string `koanf:"comparison_operator"`

	// CSVEncodings is the ordered list of text encodings tried when
	// reading the input files.
	CSVEncodings []string `koanf:"csv_encodings"`
}

// Output formats accepted by Validate.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// New creates a Config with defaults. Required fields (hourly_wage,
// wage_level, soc_code, data_year) have no defaults and must come from
// the file or environment.
func New() *Config {
	return &Config{
		LogLevel: "info",
		Paths: Paths{
			DataDir:       "data",
			OutputDir:     "output",
			ALCFile:       "ALC_Export.csv",
			GeographyFile: "Geography.csv",
		},
		Output: Output{
			Format: FormatXLSX,
		},
		Advanced: Advanced{
			ComparisonOperator: string(model.DefaultComparator),
			CSVEncodings:       []string{"utf-8", "utf-8-sig", "latin-1", "iso-8859-1", "cp1252", "windows-1252"},
		},
	}
}

// Validate checks the configuration before any dataset I/O happens.
// All failures wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	if _, err := model.ParseWageLevel(c.WageLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.HourlyWage <= 0 {
		return fmt.Errorf("%w: hourly_wage must be a positive number (got %v)", ErrInvalidConfig, c.HourlyWage)
	}
	if c.SocCode == "" {
		return fmt.Errorf("%w: soc_code must be specified", ErrInvalidConfig)
	}
	if c.DataYear == "" {
		return fmt.Errorf("%w: data_year must be specified", ErrInvalidConfig)
	}
	if _, err := model.ParseComparator(c.Advanced.ComparisonOperator); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Output.Format != FormatXLSX && c.Output.Format != FormatCSV {
		return fmt.Errorf("%w: output format must be %q or %q (got %q)", ErrInvalidConfig, FormatXLSX, FormatCSV, c.Output.Format)
	}
	if len(c.Advanced.CSVEncodings) == 0 {
		return fmt.Errorf("%w: advanced.csv_encodings must not be empty", ErrInvalidConfig)
	}
	return nil
}

// Level returns the parsed wage level. Valid only after Validate.
func (c *Config) Level() model.WageLevel {
	lvl, _ := model.ParseWageLevel(c.WageLevel)
	return lvl
}

// Operator returns the parsed comparison operator. Valid only after Validate.
func (c *Config) Operator() model.Comparator {
	op, _ := model.ParseComparator(c.Advanced.ComparisonOperator)
	return op
}

// DatasetVersion is the dataset folder name and output file prefix,
// e.g. "OFLC_Wages_2025-26".
func (c *Config) DatasetVersion() string {
	return "OFLC_Wages_" + c.DataYear
}
