// Package scoring folds evaluation reports into a profile and computes each
// report's relative value.
package scoring

import (
	"fmt"
	"math"

	"github.com/okian/rvcalc/internal/domain/model"
)

// Relative value policy constants.
const (
	MinReportsForRV   = 3
	DegenerateEpsilon = 0.0001
	BaseRV            = 90.0
	RVSpread          = 10.0
	FloorRV           = 80.0
)

// ReportRV is the pair of relative values computed for one report.
type ReportRV struct {
	Name string  `json:"name"`
	Proc float64 `json:"rv_proc"`
	Cum  float64 `json:"rv_cum"`
}

// Result is a freshly built profile and the relative values of the reports
// that produced it, in input order.
type Result struct {
	Profile model.Profile `json:"profile"`
	RVs     []ReportRV    `json:"rvs"`
}

// RVFor returns the relative values for name (case-insensitive).
func (r Result) RVFor(name string) (ReportRV, bool) {
	key := model.NameKey(name)
	for _, rv := range r.RVs {
		if model.NameKey(rv.Name) == key {
			return rv, true
		}
	}
	return ReportRV{}, false
}

// Aggregator combines a baseline profile with reports.
type Aggregator interface {
	// Aggregate returns a new profile; baseline is never modified. Each report
	// receives its processing-order and cumulative relative values.
	Aggregate(baseline *model.Profile, reports []*model.Report) (Result, error)
}

// Calculator implements Aggregator. It holds no state.
type Calculator struct{}

// NewCalculator creates a calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Aggregate runs two passes over reports. The first walks them in the given
// order and assigns each a relative value against the running totals that
// include it; the second assigns relative values against the final profile.
func (c *Calculator) Aggregate(baseline *model.Profile, reports []*model.Report) (Result, error) {
	if baseline == nil {
		return Result{}, fmt.Errorf("%w: baseline profile is required", model.ErrInvalidArgument)
	}
	for i, rpt := range reports {
		if rpt == nil {
			return Result{}, fmt.Errorf("%w: report %d is nil", model.ErrInvalidArgument, i)
		}
		if avg := rpt.Average(); math.IsNaN(avg) || math.IsInf(avg, 0) {
			return Result{}, fmt.Errorf("%w: report %q has no numeric average", model.ErrInvalidArgument, rpt.Name)
		}
	}

	totalScore := baseline.Avg * float64(baseline.ReportCount)
	totalCount := baseline.ReportCount
	high, low := baseline.High, baseline.Low

	rvs := make([]ReportRV, len(reports))

	// Pass 1: processing order.
	for i, rpt := range reports {
		avg := rpt.Average()
		totalScore += avg
		totalCount++
		if avg > high {
			high = avg
		}
		if avg < low {
			low = avg
		}
		proc := RelativeValue(avg, totalCount, high, totalScore/float64(totalCount))
		rpt.AssignProcRV(proc)
		rvs[i] = ReportRV{Name: rpt.Name, Proc: proc}
	}

	profile := model.Profile{
		Rank:        baseline.Rank,
		High:        high,
		Low:         low,
		ReportCount: totalCount,
	}
	if totalCount > 0 {
		profile.Avg = totalScore / float64(totalCount)
	}

	// Pass 2: against the settled profile.
	for i, rpt := range reports {
		cum := RelativeValue(rpt.Average(), profile.ReportCount, profile.High, profile.Avg)
		rpt.AssignCumRV(cum)
		rvs[i].Cum = cum
	}

	return Result{Profile: profile, RVs: rvs}, nil
}

// RelativeValue places reportAvg between a profile's average (90) and high
// (100). Profiles with fewer than MinReportsForRV reports yield 0, a profile
// with no spread yields BaseRV, and results are floored at FloorRV but not
// capped.
func RelativeValue(reportAvg float64, numReports int, high, avg float64) float64 {
	if numReports < MinReportsForRV {
		return 0
	}
	denom := high - avg
	if math.Abs(denom) < DegenerateEpsilon {
		return BaseRV
	}
	raw := BaseRV + RVSpread*(reportAvg-avg)/denom
	return math.Max(FloorRV, raw)
}

var defaultCalculator = NewCalculator()

// Aggregate runs the default calculator.
func Aggregate(baseline *model.Profile, reports []*model.Report) (Result, error) {
	return defaultCalculator.Aggregate(baseline, reports)
}
