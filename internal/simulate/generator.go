package simulate

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/okian/rvcalc/internal/domain/model"
	"github.com/okian/rvcalc/internal/domain/score"
)

// Generation ranges.
const (
	baselineMinReports = 3
	baselineMaxReports = 40
	baselineLowMin     = 2.0
	baselineSpread     = 1.5
	notObservedOneIn   = 10
)

// generator produces reproducible baselines and reports.
type generator struct {
	rng  *rand.Rand
	rank string
}

func newGenerator(seed int64, rank string) *generator {
	return &generator{rng: rand.New(rand.NewSource(seed)), rank: rank} //nolint:gosec // reproducible test data
}

// baseline returns a consistent profile rounded to two decimals, the way
// published profiles are.
func (g *generator) baseline() model.Profile {
	low := baselineLowMin + g.rng.Float64()
	avg := low + g.rng.Float64()*baselineSpread
	high := avg + g.rng.Float64()*baselineSpread
	return model.Profile{
		Rank:        g.rank,
		High:        round2(high),
		Low:         round2(low),
		Avg:         round2(avg),
		ReportCount: baselineMinReports + g.rng.Intn(baselineMaxReports-baselineMinReports+1),
	}
}

// report draws a report for one of poolSize names. Names vary in case so
// that identity matching is exercised.
func (g *generator) report(poolSize int) ReportPayload {
	name := fmt.Sprintf("Marine %03d", g.rng.Intn(poolSize))
	if g.rng.Intn(2) == 0 {
		name = strings.ToUpper(name)
	}

	scores := make([]score.Score, score.AttributeCount)
	for i := range scores {
		if i > 0 && g.rng.Intn(notObservedOneIn) == 0 {
			continue
		}
		scores[i] = score.Score(2 + g.rng.Intn(int(score.Max)-1))
	}
	return ReportPayload{Name: name, Letters: score.FormatLetters(scores)}
}

func (g *generator) reports(n, poolSize int) []ReportPayload {
	out := make([]ReportPayload, n)
	for i := range out {
		out[i] = g.report(poolSize)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
