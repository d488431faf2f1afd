// Package app wires the pipeline stages together: load both tables, filter
// and join, compute statistics, export the report.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/tbeaumont/wagescout/internal/adapters/dataset"
	"github.com/tbeaumont/wagescout/internal/adapters/export"
	"github.com/tbeaumont/wagescout/internal/config"
	"github.com/tbeaumont/wagescout/internal/domain/eligibility"
	"github.com/tbeaumont/wagescout/internal/domain/stats"
	"github.com/tbeaumont/wagescout/pkg/logger"
	"github.com/tbeaumont/wagescout/pkg/metrics"
)

// Service runs one analysis end to end.
type Service struct {
	cfg     *config.Config
	log     logger.Logger
	metrics *metrics.Manager
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the validated run configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetrics sets the metrics manager recording run counts.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// New constructs a Service with default collaborators.
func New(opts ...Option) *Service {
	s := &Service{
		log:     logger.Nop(),
		metrics: metrics.NewManager(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunSummary is what a completed run reports back to the caller.
type RunSummary struct {
	RunID      string
	SocCode    string
	WageLevel  string
	HourlyWage float64

	WageRows      int
	GeographyRows int
	SocMatches    int
	Eligible      int
	LostRows      int
	Locations     int

	// LevelStats summarizes the level column over all SOC matches;
	// StatsOK is false when every match had a missing level value.
	LevelStats stats.Summary
	StatsOK    bool

	// WagePercentile is the rank of the requested wage within the SOC
	// matches' level distribution.
	WagePercentile float64

	OutputPath string

	// Empty flags the zero-eligible-locations case. It is a warning,
	// not a failure: the (header-only) report is still written.
	Empty bool
}

// Run executes the pipeline. Any stage failure aborts the run; an empty
// result does not.
func (s *Service) Run(ctx context.Context) (*RunSummary, error) {
	if s.cfg == nil {
		return nil, fmt.Errorf("%w: service has no configuration", config.ErrInvalidConfig)
	}
	cfg := s.cfg
	start := time.Now()

	summary := &RunSummary{
		RunID:      uuid.NewString(),
		SocCode:    cfg.SocCode,
		WageLevel:  cfg.Level().String(),
		HourlyWage: cfg.HourlyWage,
	}

	s.log.Info(ctx, "run starting",
		logger.String("run_id", summary.RunID),
		logger.Float64("hourly_wage", cfg.HourlyWage),
		logger.String("wage_level", summary.WageLevel),
		logger.String("soc_code", cfg.SocCode),
		logger.String("data_year", cfg.DataYear),
		logger.String("operator", cfg.Operator().String()),
	)

	alcPath, geoPath, err := s.resolvePaths()
	if err != nil {
		return nil, err
	}

	loader := dataset.NewLoader(
		dataset.WithEncodings(cfg.Advanced.CSVEncodings),
		dataset.WithLogger(s.log),
	)

	wages, wageReport, err := loader.LoadWages(ctx, alcPath)
	if err != nil {
		return nil, err
	}
	summary.WageRows = wageReport.Rows
	s.metrics.RowsLoaded("wages", wageReport.Rows)
	s.recordMissing(ctx, wageReport)

	geos, geoReport, err := loader.LoadGeography(ctx, geoPath)
	if err != nil {
		return nil, err
	}
	summary.GeographyRows = geoReport.Rows
	s.metrics.RowsLoaded("geography", geoReport.Rows)

	engine := eligibility.New()
	res, err := engine.Run(ctx, wages, geos, eligibility.Params{
		SocCode:    cfg.SocCode,
		Level:      cfg.Level(),
		HourlyWage: cfg.HourlyWage,
		Comparator: cfg.Operator(),
	})
	if err != nil {
		return nil, err
	}

	summary.SocMatches = res.SocMatches
	summary.Eligible = res.Eligible
	summary.LostRows = res.LostRows
	summary.Locations = len(res.Locations)
	s.metrics.SocMatches(res.SocMatches)
	s.metrics.EligibleRows(res.Eligible)
	s.metrics.LostJoinRows(res.LostRows)

	if res.SocMatches == 0 {
		s.log.Warn(ctx, "no rows for the requested SOC code",
			logger.String("soc_code", cfg.SocCode),
			logger.Any("available_sample", res.SampleSocCodes),
		)
	} else {
		s.logStats(ctx, summary, res)
	}

	if res.LostRows > 0 {
		s.log.Warn(ctx, "eligible rows lost without geography match",
			logger.Int("lost_rows", res.LostRows),
		)
	}

	writer := export.NewWriter(export.WithLogger(s.log))
	outputPath, err := writer.Write(ctx, res.Locations, export.Spec{
		Format:         cfg.Output.Format,
		OutputDir:      cfg.Paths.OutputDir,
		DatasetVersion: cfg.DatasetVersion(),
		Columns:        cfg.Output.Columns,
	})
	if err != nil {
		return nil, err
	}
	summary.OutputPath = outputPath

	if summary.Locations == 0 {
		summary.Empty = true
		s.log.Warn(ctx, "no eligible locations found; empty report written",
			logger.String("path", outputPath),
		)
	}

	s.metrics.RunDuration(time.Since(start).Seconds())
	s.logRunMetrics(ctx, summary.RunID)

	s.log.Info(ctx, "run complete",
		logger.String("run_id", summary.RunID),
		logger.Int("eligible_locations", summary.Locations),
		logger.String("output", outputPath),
	)
	return summary, nil
}

// resolvePaths locates the dataset folder for the configured year and the
// two input files inside it. Missing pieces fail before any parsing.
func (s *Service) resolvePaths() (alcPath, geoPath string, err error) {
	cfg := s.cfg
	folder := filepath.Join(cfg.Paths.DataDir, cfg.DatasetVersion())
	if _, statErr := os.Stat(folder); statErr != nil {
		return "", "", fmt.Errorf("%w: data folder not found: %s", dataset.ErrDataLoad, folder)
	}

	alcPath = filepath.Join(folder, cfg.Paths.ALCFile)
	geoPath = filepath.Join(folder, cfg.Paths.GeographyFile)
	for _, p := range []string{alcPath, geoPath} {
		if _, statErr := os.Stat(p); statErr != nil {
			return "", "", fmt.Errorf("%w: input file not found: %s", dataset.ErrDataLoad, p)
		}
	}
	return alcPath, geoPath, nil
}

func (s *Service) recordMissing(ctx context.Context, report *dataset.LoadReport) {
	total := 0
	for _, n := range report.MissingByColumn {
		total += n
	}
	if total == 0 {
		return
	}
	s.metrics.MissingWageCells(total)
	s.log.Warn(ctx, "wage cells missing or non-numeric",
		logger.Int("cells", total),
		logger.Any("by_column", report.MissingByColumn),
	)
}

// logStats computes and logs the level-column distribution over all SOC
// matches, mirroring the figures a reviewer checks by hand.
func (s *Service) logStats(ctx context.Context, summary *RunSummary, res *eligibility.Result) {
	levelStats, ok := stats.Describe(res.LevelValues)
	if !ok {
		return
	}
	summary.LevelStats = levelStats
	summary.StatsOK = true
	summary.WagePercentile = stats.PercentileRank(res.LevelValues, s.cfg.HourlyWage)

	s.log.Info(ctx, "level wage statistics",
		logger.String("level", summary.WageLevel),
		logger.Int("count", levelStats.Count),
		logger.Float64("min", levelStats.Min),
		logger.Float64("p25", levelStats.P25),
		logger.Float64("median", levelStats.Median),
		logger.Float64("p75", levelStats.P75),
		logger.Float64("max", levelStats.Max),
		logger.Float64("wage_percentile", summary.WagePercentile),
	)
}

func (s *Service) logRunMetrics(ctx context.Context, runID string) {
	samples, err := s.metrics.Gather()
	if err != nil {
		s.log.Warn(ctx, "gathering run metrics failed", logger.Error(err))
		return
	}
	for _, sample := range samples {
		fields := []logger.Field{
			logger.String("run_id", runID),
			logger.String("metric", sample.Name),
			logger.Float64("value", sample.Value),
		}
		if sample.Label != "" {
			fields = append(fields, logger.String("label", sample.Label))
		}
		s.log.Debug(ctx, "run metric", fields...)
	}
}
