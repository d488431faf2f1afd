// Command wagescout finds the geographic areas where a given hourly wage
// satisfies a prevailing-wage level for one SOC occupation code, and writes
// the sorted report to a spreadsheet or delimited file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tbeaumont/wagescout/internal/app"
	"github.com/tbeaumont/wagescout/internal/config"
	"github.com/tbeaumont/wagescout/pkg/logger"
	"github.com/tbeaumont/wagescout/pkg/metrics"
)

func main() {
	os.Exit(run())
}

func run() int {
	configFlag := flag.String("config", "", "path to the configuration file (default: config.yaml, or WAGESCOUT_CONFIG)")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Configuration is validated before any dataset I/O happens.
	cfg, err := config.Load(ctx, config.DefaultPath(*configFlag))
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.New(
		app.WithConfig(cfg),
		app.WithLogger(log),
		app.WithMetrics(metrics.NewManager()),
	)

	summary, err := svc.Run(ctx)
	if err != nil {
		log.Error(ctx, "run failed", logger.Error(err))
		return 1
	}

	printSummary(summary)
	return 0
}

// printSummary writes the closing figures to stdout, outside the log stream.
func printSummary(s *app.RunSummary) {
	fmt.Println("analysis complete")
	fmt.Printf("  eligible locations: %d\n", s.Locations)
	fmt.Printf("  soc code:           %s\n", s.SocCode)
	fmt.Printf("  hourly wage:        $%.2f\n", s.HourlyWage)
	fmt.Printf("  wage level:         %s\n", s.WageLevel)
	if s.StatsOK {
		fmt.Printf("  wage percentile:    %.1f\n", s.WagePercentile)
	}
	fmt.Printf("  output file:        %s\n", s.OutputPath)
	if s.Empty {
		fmt.Println("  note: no eligible locations found; check the configuration")
	}
}
