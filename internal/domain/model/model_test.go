package model_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/rvcalc/internal/domain/model"
	"github.com/okian/rvcalc/internal/domain/score"
	"github.com/smartystreets/goconvey/convey"
)

func vector(vals ...score.Score) []score.Score {
	out := make([]score.Score, score.AttributeCount)
	for i := range out {
		out[i] = vals[i%len(vals)]
	}
	return out
}

func TestReport_New(t *testing.T) {
	convey.Convey("Given report construction inputs", t, func() {
		convey.Convey("When all inputs are valid", func() {
			scores := vector(5)
			r, err := model.NewReport("  Smith ", "Capt", scores)

			convey.Convey("Then the report is built with a trimmed name", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(r.Name, convey.ShouldEqual, "Smith")
				convey.So(r.Rank, convey.ShouldEqual, "Capt")
				convey.So(r.Average(), convey.ShouldEqual, 5.0)
			})

			convey.Convey("And the report owns its scores", func() {
				scores[0] = 1
				convey.So(r.Scores()[0], convey.ShouldEqual, score.Score(5))

				out := r.Scores()
				out[1] = 1
				convey.So(r.Average(), convey.ShouldEqual, 5.0)
			})

			convey.Convey("And it has no relative values yet", func() {
				_, ok := r.RV()
				convey.So(ok, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the name is blank", func() {
			_, err := model.NewReport("   ", "Capt", vector(5))

			convey.Convey("Then it fails with ErrInvalidArgument", func() {
				convey.So(errors.Is(err, model.ErrInvalidArgument), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the vector has the wrong length", func() {
			_, err := model.NewReport("Smith", "Capt", []score.Score{5, 5, 5})

			convey.Convey("Then it fails with ErrInvalidArgument", func() {
				convey.So(errors.Is(err, model.ErrInvalidArgument), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "has 3 scores")
			})
		})

		convey.Convey("When a score is out of range", func() {
			scores := vector(5)
			scores[2] = 8
			_, err := model.NewReport("Smith", "Capt", scores)

			convey.Convey("Then it fails naming the attribute", func() {
				convey.So(errors.Is(err, model.ErrInvalidArgument), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "Courage")
			})
		})
	})
}

func TestReport_Average(t *testing.T) {
	convey.Convey("Given reports with unobserved attributes", t, func() {
		convey.Convey("When some scores are zero", func() {
			scores := vector(4)
			scores[0], scores[13] = 0, 0
			scores[1] = 7
			r, _ := model.NewReport("A", "Sgt", scores)

			convey.Convey("Then zeros are excluded from the mean", func() {
				convey.So(r.Observed(), convey.ShouldEqual, 12)
				convey.So(r.Average(), convey.ShouldAlmostEqual, (4.0*11+7)/12, 1e-12)
			})
		})

		convey.Convey("When every score is zero", func() {
			r, err := model.NewReport("A", "Sgt", vector(0))

			convey.Convey("Then the report is constructible with average 0", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(r.Average(), convey.ShouldEqual, 0.0)
			})
		})
	})
}

func TestReport_Identity(t *testing.T) {
	convey.Convey("Given two reports differing only in name case", t, func() {
		a, _ := model.NewReport("Jones", "Sgt", vector(3))
		b, _ := model.NewReport("JONES", "Sgt", vector(6))

		convey.So(a.SameName(b), convey.ShouldBeTrue)
		convey.So(a.Key(), convey.ShouldEqual, "jones")
		convey.So(a.SameName(nil), convey.ShouldBeFalse)
	})
}

func TestReport_Clone(t *testing.T) {
	convey.Convey("Given a rated report", t, func() {
		r, _ := model.NewReport("A", "Sgt", vector(5))
		r.AssignProcRV(91)
		r.AssignCumRV(95)

		convey.Convey("When cloning it", func() {
			c := r.Clone()
			c.AssignCumRV(10)
			c.Name = "B"

			convey.Convey("Then the clone is independent", func() {
				rv, ok := r.RV()
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(rv, convey.ShouldResemble, model.RV{Proc: 91, Cum: 95})
				convey.So(r.Name, convey.ShouldEqual, "A")
			})
		})
	})
}

func TestProfile_New(t *testing.T) {
	convey.Convey("Given baseline profile inputs", t, func() {
		convey.Convey("When the inputs are consistent", func() {
			p, err := model.NewProfile("Capt", 5.0, 3.0, 4.0, 5)

			convey.Convey("Then the profile is built", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(*p, convey.ShouldResemble, model.Profile{Rank: "Capt", High: 5, Low: 3, Avg: 4, ReportCount: 5})
			})

			convey.Convey("And clones are independent", func() {
				c := p.Clone()
				c.Avg = 1
				convey.So(p.Avg, convey.ShouldEqual, 4.0)
			})
		})

		convey.Convey("When an empty profile is given", func() {
			_, err := model.NewProfile("Sgt", 0, 0, 0, 0)

			convey.Convey("Then it is accepted", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When an empty population carries statistics", func() {
			_, errAvg := model.NewProfile("Capt", 5, 4, 4.5, 0)
			_, errHighOnly := model.NewProfile("Capt", 5, 0, 0, 0)

			convey.Convey("Then nonzero avg or low is rejected but high alone is kept", func() {
				convey.So(errors.Is(errAvg, model.ErrInvalidArgument), convey.ShouldBeTrue)
				convey.So(errAvg.Error(), convey.ShouldContainSubstring, "report count is 0")
				convey.So(errHighOnly, convey.ShouldBeNil)
			})
		})

		convey.Convey("When several fields are invalid", func() {
			_, err := model.NewProfile("", 8, -1, math.NaN(), 501)

			convey.Convey("Then every violation is reported", func() {
				convey.So(errors.Is(err, model.ErrInvalidArgument), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "rank is required")
				convey.So(err.Error(), convey.ShouldContainSubstring, "high must be")
				convey.So(err.Error(), convey.ShouldContainSubstring, "low must be")
				convey.So(err.Error(), convey.ShouldContainSubstring, "avg must be")
				convey.So(err.Error(), convey.ShouldContainSubstring, "report count")
			})
		})

		convey.Convey("When avg lies outside [low, high]", func() {
			_, err := model.NewProfile("Capt", 4.0, 3.0, 4.5, 5)

			convey.Convey("Then it is rejected", func() {
				convey.So(errors.Is(err, model.ErrInvalidArgument), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "does not hold")
			})
		})

		convey.Convey("When a custom report bound is configured", func() {
			_, err := model.NewProfile("Capt", 5, 3, 4, 900, model.WithMaxReportCount(1000))
			convey.So(err, convey.ShouldBeNil)

			_, err = model.NewProfile("Capt", 5, 3, 4, 11, model.WithMaxReportCount(10))
			convey.So(errors.Is(err, model.ErrInvalidArgument), convey.ShouldBeTrue)
		})
	})
}
