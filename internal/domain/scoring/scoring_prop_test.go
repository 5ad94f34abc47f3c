package scoring_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/rvcalc/internal/domain/model"
	"github.com/okian/rvcalc/internal/domain/score"
	"github.com/okian/rvcalc/internal/domain/scoring"
)

const propIterations = 500

// TestRelativeValueProperties checks the floor and monotonicity over
// randomly drawn profiles with a positive spread.
func TestRelativeValueProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7)) //nolint:gosec // deterministic seed for reproducible tests

	for i := 0; i < propIterations; i++ {
		avg := rng.Float64() * 6
		high := avg + 0.001 + rng.Float64()*(7-avg)
		n := scoring.MinReportsForRV + rng.Intn(200)

		lo := rng.Float64() * 7
		hi := lo + rng.Float64()*(7-lo)

		rvLo := scoring.RelativeValue(lo, n, high, avg)
		rvHi := scoring.RelativeValue(hi, n, high, avg)

		require.GreaterOrEqual(t, rvLo, scoring.FloorRV, "floor must hold (avg=%v high=%v)", avg, high)
		require.GreaterOrEqual(t, rvHi, rvLo, "rv must not decrease with report average")
	}
}

func TestRelativeValueSmallProfiles(t *testing.T) {
	for n := -1; n < scoring.MinReportsForRV; n++ {
		assert.Zero(t, scoring.RelativeValue(7, n, 7, 1), "n=%d", n)
	}
}

// TestAggregateInvariants checks low <= avg <= high, report count growth and
// that an empty report set reproduces the baseline, for random valid
// baselines and report sets.
func TestAggregateInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(11)) //nolint:gosec // deterministic seed for reproducible tests

	for i := 0; i < propIterations; i++ {
		low := rng.Float64() * 7
		high := low + rng.Float64()*(7-low)
		avg := min(low+rng.Float64()*(high-low), high)
		base := &model.Profile{Rank: "Maj", High: high, Low: low, Avg: avg, ReportCount: rng.Intn(51)}
		if base.ReportCount == 0 {
			base.Low, base.Avg = 0, 0
		}
		require.NoError(t, base.Validate())
		before := *base

		reports := make([]*model.Report, rng.Intn(8))
		for j := range reports {
			scores := make([]score.Score, score.AttributeCount)
			for k := range scores {
				scores[k] = score.Score(rng.Intn(int(score.Max) + 1))
			}
			r, err := model.NewReport(string(rune('a'+j)), "Maj", scores)
			require.NoError(t, err)
			reports[j] = r
		}

		res, err := scoring.Aggregate(base, reports)
		require.NoError(t, err)

		p := res.Profile
		assert.Equal(t, before, *base, "baseline must not change")
		if len(reports) == 0 {
			c := base.Clone()
			assert.Equal(t, c.Rank, p.Rank)
			assert.Equal(t, c.ReportCount, p.ReportCount)
			assert.Equal(t, c.High, p.High)
			assert.Equal(t, c.Low, p.Low)
			assert.InDelta(t, c.Avg, p.Avg, 1e-12)
		}
		assert.Equal(t, before.ReportCount+len(reports), p.ReportCount)
		assert.LessOrEqual(t, p.Low, p.Avg+1e-9)
		assert.LessOrEqual(t, p.Avg, p.High+1e-9)
		require.Len(t, res.RVs, len(reports))
		for j, r := range reports {
			rv, ok := r.RV()
			require.True(t, ok)
			assert.Equal(t, res.RVs[j].Proc, rv.Proc)
			assert.Equal(t, res.RVs[j].Cum, rv.Cum)
		}
	}
}
