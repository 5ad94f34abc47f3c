// Package simulate drives a running rvcalc server with generated reports and
// checks its answers against a local recomputation.
package simulate

import (
	"time"

	"github.com/okian/rvcalc/internal/domain/model"
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL     string        // Base URL of the service
	Rank        string        // Rank of the generated baseline
	Reports     int           // Number of report commits
	Names       int           // Size of the name pool; fewer names than reports forces replacements
	Projections int           // Number of projection previews
	Workers     int           // Concurrent projection workers
	Timeout     time.Duration // HTTP request timeout
	Seed        int64         // Generator seed
	OutputFile  string        // Optional JSON dump of the committed reports
	Verbose     bool          // Log every request
}

// ReportPayload is the body sent to PUT /reports and POST /projection.
type ReportPayload struct {
	Name    string `json:"name"`
	Letters string `json:"letters"`
}

// ReportView mirrors the report shape served by the API.
type ReportView struct {
	Name    string   `json:"name"`
	Rank    string   `json:"rank"`
	Letters string   `json:"letters"`
	Average float64  `json:"average"`
	RVProc  *float64 `json:"rv_proc"`
	RVCum   *float64 `json:"rv_cum"`
}

type profilesView struct {
	Baseline model.Profile `json:"baseline"`
	Active   model.Profile `json:"active"`
}

type projectionView struct {
	Profile model.Profile `json:"profile"`
}

// Stats holds run statistics.
type Stats struct {
	ReportsGenerated   int
	ReportsCommitted   int
	ReportsReplaced    int
	ProjectionsServed  int
	ProjectionsLimited int
	ProjectionsFailed  int
	Mismatches         int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
