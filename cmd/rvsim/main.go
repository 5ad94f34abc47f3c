package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/rvcalc/internal/simulate"
	"github.com/okian/rvcalc/pkg/logger"
)

// Default configuration constants.
const (
	defaultReports     = 200
	defaultNames       = 60
	defaultProjections = 100
	defaultTimeout     = 10 * time.Second
	defaultRunTimeout  = 5 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		rank        = flag.String("rank", "Capt", "Rank of the generated baseline profile")
		reports     = flag.Int("reports", defaultReports, "Number of reports to commit")
		names       = flag.Int("names", defaultNames, "Size of the report name pool; smaller than -reports forces replacements")
		projections = flag.Int("projections", defaultProjections, "Number of projection previews")
		workers     = flag.Int("workers", runtime.NumCPU(), "Number of concurrent projection workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed        = flag.Int64("seed", time.Now().UnixNano(), "Generator seed")
		outputFile  = flag.String("output", "", "Write the committed reports to this JSON file")
		verbose     = flag.Bool("verbose", false, "Log every committed report")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &simulate.Config{
		BaseURL:     *baseURL,
		Rank:        *rank,
		Reports:     *reports,
		Names:       max(*names, 1),
		Projections: *projections,
		Workers:     *workers,
		Timeout:     *timeout,
		Seed:        *seed,
		OutputFile:  *outputFile,
		Verbose:     *verbose,
	}

	if _, err := simulate.Run(ctx, config); err != nil {
		logger.Get().Error(ctx, "simulation failed", logger.Error(err))
		cancel()
		os.Exit(1)
	}
}
