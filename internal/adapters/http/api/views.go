package api

import (
	"errors"
	"strings"

	"github.com/okian/rvcalc/internal/domain/model"
	"github.com/okian/rvcalc/internal/domain/score"
	"github.com/okian/rvcalc/internal/domain/scoring"
)

// profileRequest is the body of POST /profile.
type profileRequest struct {
	Rank        string  `json:"rank"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	Avg         float64 `json:"avg"`
	ReportCount int     `json:"report_count"`
}

type profileResponse struct {
	Baseline model.Profile `json:"baseline"`
	Active   model.Profile `json:"active"`
}

// reportRequest is the body of PUT /reports and POST /projection. Exactly
// one of Scores and Letters is set.
type reportRequest struct {
	Name    string        `json:"name"`
	Rank    string        `json:"rank,omitempty"`
	Scores  []score.Score `json:"scores,omitempty"`
	Letters string        `json:"letters,omitempty"`
}

// toReport builds a report, defaulting the rank to defaultRank. A report
// with no observed score is rejected here; the session accepts it as a
// zero average.
func (q reportRequest) toReport(defaultRank string) (*model.Report, error) {
	scores := q.Scores
	switch {
	case len(q.Scores) > 0 && strings.TrimSpace(q.Letters) != "":
		return nil, errors.New("set either scores or letters, not both")
	case strings.TrimSpace(q.Letters) != "":
		parsed, err := score.ParseLetters(q.Letters)
		if err != nil {
			return nil, err
		}
		scores = parsed
	case len(q.Scores) == 0:
		return nil, errors.New("scores or letters are required")
	}

	rank := strings.TrimSpace(q.Rank)
	if rank == "" {
		rank = defaultRank
	}
	r, err := model.NewReport(q.Name, rank, scores)
	if err != nil {
		return nil, err
	}
	if r.Observed() == 0 {
		return nil, errors.New("at least one attribute must be observed")
	}
	return r, nil
}

type reportView struct {
	Name     string        `json:"name"`
	Rank     string        `json:"rank"`
	Scores   []score.Score `json:"scores"`
	Letters  string        `json:"letters"`
	Average  float64       `json:"average"`
	Observed int           `json:"observed"`
	RVProc   *float64      `json:"rv_proc,omitempty"`
	RVCum    *float64      `json:"rv_cum,omitempty"`
}

func newReportView(r *model.Report) reportView {
	scores := r.Scores()
	v := reportView{
		Name:     r.Name,
		Rank:     r.Rank,
		Scores:   scores,
		Letters:  score.FormatLetters(scores),
		Average:  r.Average(),
		Observed: r.Observed(),
	}
	if rv, ok := r.RV(); ok {
		v.RVProc = &rv.Proc
		v.RVCum = &rv.Cum
	}
	return v
}

func newReportViews(reports []*model.Report) []reportView {
	out := make([]reportView, len(reports))
	for i, r := range reports {
		out[i] = newReportView(r)
	}
	return out
}

type projectionResponse struct {
	Profile model.Profile      `json:"profile"`
	Reports []scoring.ReportRV `json:"reports"`
}
