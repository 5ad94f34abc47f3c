// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"

	"github.com/okian/rvcalc/internal/domain/score"
)

// RV holds a report's relative values.
type RV struct {
	Proc float64 // against the running profile at the report's position
	Cum  float64 // against the final profile
}

// Report is one named, scored evaluation.
type Report struct {
	Name string
	Rank string // copied from the profile; informational only

	scores []score.Score
	rv     RV
	rated  bool
}

// NewReport validates its inputs and returns a Report owning a copy of scores.
func NewReport(name, rank string, scores []score.Score) (*Report, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: report name is required", ErrInvalidArgument)
	}
	if len(scores) != score.AttributeCount {
		return nil, fmt.Errorf("%w: report %q has %d scores, want %d",
			ErrInvalidArgument, name, len(scores), score.AttributeCount)
	}
	for i, s := range scores {
		if !s.Valid() {
			return nil, fmt.Errorf("%w: report %q score %d (%s) out of range: %d",
				ErrInvalidArgument, name, i, score.Attributes[i], s)
		}
	}
	return &Report{
		Name:   name,
		Rank:   rank,
		scores: append([]score.Score(nil), scores...),
	}, nil
}

// Scores returns a copy of the score vector.
func (r *Report) Scores() []score.Score {
	return append([]score.Score(nil), r.scores...)
}

// Observed returns the number of observed (nonzero) scores.
func (r *Report) Observed() int {
	n := 0
	for _, s := range r.scores {
		if s.Observed() {
			n++
		}
	}
	return n
}

// Average is the mean of the observed scores, or 0 when none are observed.
// It is recomputed on every call.
func (r *Report) Average() float64 {
	sum, n := 0, 0
	for _, s := range r.scores {
		if s.Observed() {
			sum += int(s)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// Key is the case-insensitive identity of the report within a session.
func (r *Report) Key() string {
	return NameKey(r.Name)
}

// SameName reports whether r and other share an identity.
func (r *Report) SameName(other *Report) bool {
	return other != nil && r.Key() == other.Key()
}

// AssignProcRV records the processing-order relative value.
func (r *Report) AssignProcRV(v float64) {
	r.rv.Proc = v
}

// AssignCumRV records the cumulative relative value. A report counts as rated
// once its cumulative value is known.
func (r *Report) AssignCumRV(v float64) {
	r.rv.Cum = v
	r.rated = true
}

// RV returns the assigned relative values and whether they have been computed.
func (r *Report) RV() (RV, bool) {
	return r.rv, r.rated
}

// Clone returns a deep copy, relative values included.
func (r *Report) Clone() *Report {
	c := *r
	c.scores = r.Scores()
	return &c
}

// NameKey normalises a report name for identity comparisons.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
