package simulate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/rvcalc/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// ErrMismatch reports a server answer that differs from the local replay.
var ErrMismatch = errors.New("server disagrees with local recomputation")

// Run executes a complete simulation and returns its statistics. The
// server's session is reset first.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Named("simulate")
	client := newHTTPClient(config.BaseURL, config.Timeout)
	gen := newGenerator(config.Seed, config.Rank)

	log.Info(ctx, "starting simulation",
		logger.String("base_url", config.BaseURL),
		logger.Int("reports", config.Reports),
		logger.Int("names", config.Names),
		logger.Int("projections", config.Projections),
		logger.Int("workers", config.Workers),
		logger.Any("seed", config.Seed))

	// Step 1: Check service health
	if _, err := client.do(ctx, http.MethodGet, "/healthz", nil, nil); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Start from a clean session with a generated baseline
	if _, err := client.do(ctx, http.MethodDelete, "/session", nil, nil); err != nil {
		return stats, fmt.Errorf("session reset failed: %w", err)
	}
	var initial profilesView
	if _, err := client.do(ctx, http.MethodPost, "/profile", gen.baseline(), &initial); err != nil {
		return stats, fmt.Errorf("baseline initialization failed: %w", err)
	}
	// The server may have recovered exact fractions; replay against its copy.
	local := newMirror(initial.Baseline)

	// Step 3: Commit reports in order
	payloads := gen.reports(config.Reports, config.Names)
	stats.ReportsGenerated = len(payloads)
	for _, p := range payloads {
		var view ReportView
		if _, err := client.do(ctx, http.MethodPut, "/reports", p, &view); err != nil {
			return stats, fmt.Errorf("commit %q failed: %w", p.Name, err)
		}
		replaced, err := local.commit(p)
		if err != nil {
			return stats, fmt.Errorf("local replay of %q failed: %w", p.Name, err)
		}
		stats.ReportsCommitted++
		if replaced {
			stats.ReportsReplaced++
		}
		if config.Verbose {
			log.Debug(ctx, "report committed", logger.String("name", p.Name), logger.Float64("average", view.Average))
		}
	}

	// Step 4: Verify committed state
	if err := verifyCommitted(ctx, client, local, stats); err != nil {
		return stats, err
	}

	// Step 5: Preview projections concurrently
	candidates := gen.reports(config.Projections, config.Names*2)
	projectConcurrently(ctx, client, local, candidates, config.Workers, stats)

	// Step 6: Projections must not have changed committed state
	if err := verifyCommitted(ctx, client, local, stats); err != nil {
		return stats, fmt.Errorf("after projections: %w", err)
	}

	if config.OutputFile != "" {
		if err := saveReports(config.OutputFile, payloads); err != nil {
			log.Warn(ctx, "failed to save reports to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)

	if stats.Mismatches > 0 || stats.ProjectionsFailed > 0 {
		return stats, fmt.Errorf("%w: %d mismatches, %d failed projections",
			ErrMismatch, stats.Mismatches, stats.ProjectionsFailed)
	}
	return stats, nil
}

func verifyCommitted(ctx context.Context, client *httpClient, local *mirror, stats *Stats) error {
	want, err := local.aggregate()
	if err != nil {
		return fmt.Errorf("local aggregate failed: %w", err)
	}

	var profiles profilesView
	if _, err := client.do(ctx, http.MethodGet, "/profile", nil, &profiles); err != nil {
		return fmt.Errorf("profile retrieval failed: %w", err)
	}
	var reports []ReportView
	if _, err := client.do(ctx, http.MethodGet, "/reports", nil, &reports); err != nil {
		return fmt.Errorf("report retrieval failed: %w", err)
	}

	if err := errors.Join(
		compareProfiles("active", profiles.Active, want.Profile),
		compareReports(reports, local.reports.Reports()),
	); err != nil {
		stats.Mismatches++
		return fmt.Errorf("%w: %w", ErrMismatch, err)
	}
	return nil
}

// projectConcurrently fans candidates out to workers. Rate limited previews
// are counted, not retried.
func projectConcurrently(ctx context.Context, client *httpClient, local *mirror, candidates []ReportPayload, workers int, stats *Stats) {
	log := logger.Named("simulate")
	if workers < 1 {
		workers = 1
	}

	var served, limited, failed, mismatched int64
	jobs := make(chan ReportPayload, workers*2)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				var got projectionView
				status, err := client.do(ctx, http.MethodPost, "/projection", p, &got)
				switch {
				case status == http.StatusTooManyRequests:
					atomic.AddInt64(&limited, 1)
					continue
				case err != nil:
					atomic.AddInt64(&failed, 1)
					log.Warn(ctx, "projection failed", logger.String("name", p.Name), logger.Error(err))
					continue
				}
				atomic.AddInt64(&served, 1)

				want, err := local.project(p)
				if err == nil {
					err = compareProfiles("projected", got.Profile, want.Profile)
				}
				if err != nil {
					atomic.AddInt64(&mismatched, 1)
					log.Warn(ctx, "projection mismatch", logger.String("name", p.Name), logger.Error(err))
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, p := range candidates {
			select {
			case <-ctx.Done():
				return
			case jobs <- p:
			}
		}
	}()

	wg.Wait()

	stats.ProjectionsServed = int(served)
	stats.ProjectionsLimited = int(limited)
	stats.ProjectionsFailed = int(failed)
	stats.Mismatches += int(mismatched)
}

// saveReports writes the committed payloads as a JSON array.
func saveReports(filename string, payloads []ReportPayload) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(payloads, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal reports: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var commitsPerSecond float64
	if stats.Duration > 0 {
		commitsPerSecond = float64(stats.ReportsCommitted) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("reports_generated", stats.ReportsGenerated),
		logger.Int("reports_committed", stats.ReportsCommitted),
		logger.Int("reports_replaced", stats.ReportsReplaced),
		logger.Int("projections_served", stats.ProjectionsServed),
		logger.Int("projections_limited", stats.ProjectionsLimited),
		logger.Int("projections_failed", stats.ProjectionsFailed),
		logger.Int("mismatches", stats.Mismatches),
		logger.Duration("duration", stats.Duration),
		logger.Float64("commits_per_second", commitsPerSecond))
}
