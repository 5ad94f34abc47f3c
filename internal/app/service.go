// Package service owns the committed evaluation session: the baseline
// profile, the ordered report collection and the active profile derived
// from them.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/rvcalc/internal/adapters/repository"
	"github.com/okian/rvcalc/internal/domain/model"
	"github.com/okian/rvcalc/internal/domain/scoring"
	"github.com/okian/rvcalc/pkg/logger"
	"github.com/okian/rvcalc/pkg/metrics"
)

// Session holds the state of one evaluation session. All mutation goes
// through Initialize, Upsert and Reset; reads return copies.
type Session struct {
	mu sync.RWMutex

	aggregator     scoring.Aggregator
	reports        repository.Store
	maxReportCount int

	// nil until Initialize
	baseline *model.Profile
	active   *model.Profile
	id       string

	logger logger.Logger
}

// Option applies a configuration option to the Session.
type Option func(*Session)

// WithLogger sets a custom logger for the session.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAggregator replaces the aggregation engine.
func WithAggregator(a scoring.Aggregator) Option {
	return func(s *Session) {
		if a != nil {
			s.aggregator = a
		}
	}
}

// WithStore replaces the report collection.
func WithStore(st repository.Store) Option {
	return func(s *Session) {
		if st != nil {
			s.reports = st
		}
	}
}

// WithMaxReportCount sets the largest baseline report count accepted.
func WithMaxReportCount(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxReportCount = n
		}
	}
}

// New constructs an uninitialized Session.
func New(opts ...Option) *Session {
	s := &Session{
		aggregator:     scoring.NewCalculator(),
		reports:        repository.NewReportList(),
		maxReportCount: model.DefaultMaxReportCount,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Named("session")
	}
	return s
}

// Initialize installs baseline as the immutable ground truth for the session
// and clears any committed reports. The session keeps its own copy.
func (s *Session) Initialize(ctx context.Context, baseline *model.Profile) error {
	if baseline == nil {
		return fmt.Errorf("%w: baseline profile is required", model.ErrInvalidArgument)
	}
	if err := baseline.Validate(model.WithMaxReportCount(s.maxReportCount)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.baseline = baseline.Clone()
	s.reports.Reset()
	res, err := s.aggregate(nil)
	if err != nil {
		s.clearLocked()
		return err
	}
	s.id = uuid.NewString()
	s.setActiveLocked(res.Profile)

	metrics.RecordSessionInitialized()
	s.logger.Info(ctx, "session initialized",
		logger.String("session_id", s.id),
		logger.String("rank", s.baseline.Rank),
		logger.Float64("high", s.baseline.High),
		logger.Float64("low", s.baseline.Low),
		logger.Float64("avg", s.baseline.Avg),
		logger.Int("report_count", s.baseline.ReportCount),
	)
	return nil
}

// Upsert commits a copy of r. A report with the same case-insensitive name
// is replaced at its position; otherwise the copy is appended. The active
// profile is rebuilt.
func (s *Session) Upsert(ctx context.Context, r *model.Report) error {
	if r == nil {
		return fmt.Errorf("%w: report is required", model.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.baseline == nil {
		return fmt.Errorf("%w: upsert before initialize", ErrInvalidState)
	}

	committed := r.Clone()

	// Aggregate the prospective list first so a rejected report leaves the
	// collection untouched.
	next := repository.NewReportList(s.reports.Reports()...)
	next.Upsert(committed)
	res, err := s.aggregate(next.Reports())
	if err != nil {
		return err
	}

	idx, replaced := s.reports.Upsert(committed)
	s.setActiveLocked(res.Profile)

	metrics.RecordReportUpsert(replaced)
	rv, _ := committed.RV()
	s.logger.Info(ctx, "report committed",
		logger.String("session_id", s.id),
		logger.String("name", committed.Name),
		logger.Int("index", idx),
		logger.Bool("replaced", replaced),
		logger.Float64("average", committed.Average()),
		logger.Float64("rv_proc", rv.Proc),
		logger.Float64("rv_cum", rv.Cum),
		logger.Int("report_count", res.Profile.ReportCount),
	)
	return nil
}

// ProjectedAggregate previews the session with candidate upserted, using the
// same same-name rule as Upsert. Committed state, including the relative
// values of committed reports, is not changed. The returned result's RVs are
// in the order of the projected list.
func (s *Session) ProjectedAggregate(ctx context.Context, candidate *model.Report) (scoring.Result, error) {
	if candidate == nil {
		return scoring.Result{}, fmt.Errorf("%w: candidate report is required", model.ErrInvalidArgument)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.baseline == nil {
		return scoring.Result{}, fmt.Errorf("%w: projection before initialize", ErrInvalidState)
	}

	projected := repository.NewReportList(s.reports.Snapshot()...)
	_, replaced := projected.Upsert(candidate.Clone())

	res, err := s.aggregate(projected.Reports())
	if err != nil {
		return scoring.Result{}, err
	}

	metrics.RecordProjection()
	s.logger.Debug(ctx, "projection computed",
		logger.String("session_id", s.id),
		logger.String("candidate", candidate.Name),
		logger.Bool("replaces", replaced),
		logger.Int("report_count", res.Profile.ReportCount),
		logger.Float64("avg", res.Profile.Avg),
	)
	return res, nil
}

// Reset returns the session to the uninitialized state.
func (s *Session) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.id
	s.clearLocked()

	metrics.RecordSessionReset()
	s.logger.Info(ctx, "session reset", logger.String("session_id", id))
}

// ActiveProfile returns the profile derived from the baseline and committed
// reports. ok is false before Initialize.
func (s *Session) ActiveProfile() (model.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.active == nil {
		return model.Profile{}, false
	}
	return *s.active, true
}

// BaselineProfile returns the immutable baseline. ok is false before Initialize.
func (s *Session) BaselineProfile() (model.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.baseline == nil {
		return model.Profile{}, false
	}
	return *s.baseline, true
}

// Reports returns copies of the committed reports in commit order.
func (s *Session) Reports() []*model.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.reports.Snapshot()
}

// Find returns a copy of the committed report named name.
func (s *Session) Find(name string) (*model.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports.Find(name)
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

// Initialized reports whether a baseline is installed.
func (s *Session) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.baseline != nil
}

// ID returns the identifier assigned by the latest Initialize, or "".
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.id
}

// MaxReportCount returns the baseline report count bound.
func (s *Session) MaxReportCount() int {
	return s.maxReportCount
}

// GetStats returns session statistics for monitoring.
func (s *Session) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"initialized":      s.baseline != nil,
		"sessionId":        s.id,
		"committedReports": s.reports.Len(),
		"maxReportCount":   s.maxReportCount,
	}
	if s.active != nil {
		stats["rank"] = s.active.Rank
		stats["reportCount"] = s.active.ReportCount
		stats["avg"] = s.active.Avg
		stats["high"] = s.active.High
		stats["low"] = s.active.Low
	}
	return stats
}

func (s *Session) setActiveLocked(p model.Profile) {
	s.active = &p
	metrics.UpdateActiveProfile(p.ReportCount, p.Avg, p.High, s.reports.Len())
}

func (s *Session) aggregate(reports []*model.Report) (scoring.Result, error) {
	start := time.Now()
	res, err := s.aggregator.Aggregate(s.baseline, reports)
	if err != nil {
		metrics.RecordAggregationError()
		return scoring.Result{}, err
	}

	cums := make([]float64, len(res.RVs))
	for i, rv := range res.RVs {
		cums[i] = rv.Cum
	}
	metrics.RecordAggregation(float64(time.Since(start).Microseconds())/1000, cums)
	return res, nil
}

func (s *Session) clearLocked() {
	s.baseline = nil
	s.active = nil
	s.id = ""
	s.reports.Reset()
}
