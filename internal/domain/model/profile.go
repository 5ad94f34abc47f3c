package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/rvcalc/internal/domain/score"
)

// DefaultMaxReportCount bounds the report count accepted for a baseline.
const DefaultMaxReportCount = 500

// Profile summarises a population of reports for one rank.
type Profile struct {
	Rank        string  `json:"rank"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	Avg         float64 `json:"avg"`
	ReportCount int     `json:"report_count"`
}

// ProfileOption tunes profile validation.
type ProfileOption func(*profileRules)

type profileRules struct {
	maxReportCount int
}

// WithMaxReportCount overrides the upper bound on ReportCount.
func WithMaxReportCount(n int) ProfileOption {
	return func(r *profileRules) {
		if n > 0 {
			r.maxReportCount = n
		}
	}
}

// NewProfile builds a validated baseline profile.
func NewProfile(rank string, high, low, avg float64, reportCount int, opts ...ProfileOption) (*Profile, error) {
	p := &Profile{
		Rank:        strings.TrimSpace(rank),
		High:        high,
		Low:         low,
		Avg:         avg,
		ReportCount: reportCount,
	}
	if err := p.Validate(opts...); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks ranges and ordering, reporting every violation at once.
func (p *Profile) Validate(opts ...ProfileOption) error {
	rules := profileRules{maxReportCount: DefaultMaxReportCount}
	for _, opt := range opts {
		opt(&rules)
	}

	var errs []error
	if p.Rank == "" {
		errs = append(errs, errors.New("rank is required"))
	}
	for _, f := range []struct {
		name string
		v    float64
	}{{"high", p.High}, {"avg", p.Avg}, {"low", p.Low}} {
		if !inGradeRange(f.v) {
			errs = append(errs, fmt.Errorf("%s must be between %.2f and %.2f", f.name, 0.0, float64(score.Max)))
		}
	}
	if p.ReportCount < 0 || p.ReportCount > rules.maxReportCount {
		errs = append(errs, fmt.Errorf("report count must be between 0 and %d", rules.maxReportCount))
	}
	if len(errs) == 0 && (p.Low > p.Avg || p.Avg > p.High) {
		errs = append(errs, fmt.Errorf("low (%.2f) <= avg (%.2f) <= high (%.2f) does not hold", p.Low, p.Avg, p.High))
	}
	// With no reports the aggregate avg is 0, which low may not exceed.
	if len(errs) == 0 && p.ReportCount == 0 && (p.Avg != 0 || p.Low != 0) {
		errs = append(errs, fmt.Errorf("avg and low must be 0 when report count is 0, got avg %.2f low %.2f", p.Avg, p.Low))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, errors.Join(errs...))
	}
	return nil
}

// Clone returns an independent copy.
func (p *Profile) Clone() *Profile {
	c := *p
	return &c
}

func inGradeRange(v float64) bool {
	return v >= 0 && v <= float64(score.Max)
}
