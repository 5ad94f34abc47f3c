package simulate

import (
	"errors"
	"fmt"
	"math"

	"github.com/okian/rvcalc/internal/adapters/repository"
	"github.com/okian/rvcalc/internal/domain/model"
	"github.com/okian/rvcalc/internal/domain/score"
	"github.com/okian/rvcalc/internal/domain/scoring"
)

// tolerance absorbs JSON float round trips.
const tolerance = 1e-9

// mirror replays commits locally so server answers can be checked.
type mirror struct {
	baseline model.Profile
	reports  *repository.ReportList
}

func newMirror(baseline model.Profile) *mirror {
	return &mirror{baseline: baseline, reports: repository.NewReportList()}
}

func (m *mirror) toReport(p ReportPayload) (*model.Report, error) {
	scores, err := score.ParseLetters(p.Letters)
	if err != nil {
		return nil, err
	}
	return model.NewReport(p.Name, m.baseline.Rank, scores)
}

// commit mirrors PUT /reports and reports whether p replaced a report.
func (m *mirror) commit(p ReportPayload) (bool, error) {
	r, err := m.toReport(p)
	if err != nil {
		return false, err
	}
	_, replaced := m.reports.Upsert(r)
	return replaced, nil
}

// aggregate rebuilds the expected active profile and annotates the mirrored
// reports.
func (m *mirror) aggregate() (scoring.Result, error) {
	return scoring.Aggregate(&m.baseline, m.reports.Reports())
}

// project mirrors POST /projection. It is safe for concurrent use once
// commits have stopped.
func (m *mirror) project(p ReportPayload) (scoring.Result, error) {
	r, err := m.toReport(p)
	if err != nil {
		return scoring.Result{}, err
	}
	list := repository.NewReportList(m.reports.Snapshot()...)
	list.Upsert(r)
	return scoring.Aggregate(&m.baseline, list.Reports())
}

func compareProfiles(what string, got, want model.Profile) error {
	var errs []error
	if got.Rank != want.Rank {
		errs = append(errs, fmt.Errorf("rank %q, want %q", got.Rank, want.Rank))
	}
	if got.ReportCount != want.ReportCount {
		errs = append(errs, fmt.Errorf("report count %d, want %d", got.ReportCount, want.ReportCount))
	}
	for _, f := range []struct {
		name      string
		got, want float64
	}{{"high", got.High, want.High}, {"low", got.Low, want.Low}, {"avg", got.Avg, want.Avg}} {
		if !approx(f.got, f.want) {
			errs = append(errs, fmt.Errorf("%s %.6f, want %.6f", f.name, f.got, f.want))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s profile: %w", what, errors.Join(errs...))
	}
	return nil
}

func compareReports(got []ReportView, want []*model.Report) error {
	if len(got) != len(want) {
		return fmt.Errorf("server holds %d reports, want %d", len(got), len(want))
	}
	var errs []error
	for i, w := range want {
		g := got[i]
		if g.Name != w.Name {
			errs = append(errs, fmt.Errorf("report %d is %q, want %q", i, g.Name, w.Name))
			continue
		}
		if !approx(g.Average, w.Average()) {
			errs = append(errs, fmt.Errorf("report %q average %.6f, want %.6f", g.Name, g.Average, w.Average()))
		}
		rv, _ := w.RV()
		if g.RVProc == nil || g.RVCum == nil {
			errs = append(errs, fmt.Errorf("report %q has no relative values", g.Name))
			continue
		}
		if !approx(*g.RVProc, rv.Proc) || !approx(*g.RVCum, rv.Cum) {
			errs = append(errs, fmt.Errorf("report %q rv (%.4f, %.4f), want (%.4f, %.4f)",
				g.Name, *g.RVProc, *g.RVCum, rv.Proc, rv.Cum))
		}
	}
	return errors.Join(errs...)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) <= tolerance*math.Max(1, math.Abs(b))
}
