package scoring_test

import (
	"errors"
	"testing"

	"github.com/okian/rvcalc/internal/domain/model"
	"github.com/okian/rvcalc/internal/domain/score"
	"github.com/okian/rvcalc/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func baseline() *model.Profile {
	return &model.Profile{Rank: "Capt", High: 5.0, Low: 3.0, Avg: 4.0, ReportCount: 5}
}

func uniformReport(name string, v score.Score) *model.Report {
	scores := make([]score.Score, score.AttributeCount)
	for i := range scores {
		scores[i] = v
	}
	r, err := model.NewReport(name, "Capt", scores)
	if err != nil {
		panic(err)
	}
	return r
}

func TestRelativeValue(t *testing.T) {
	Convey("Given the relative value formula", t, func() {
		Convey("When the profile has fewer than three reports", func() {
			Convey("Then the value is 0 regardless of other inputs", func() {
				So(scoring.RelativeValue(7, 0, 7, 1), ShouldEqual, 0.0)
				So(scoring.RelativeValue(7, 2, 7, 1), ShouldEqual, 0.0)
				So(scoring.RelativeValue(1, 2, 4, 4), ShouldEqual, 0.0)
			})
		})

		Convey("When high equals avg", func() {
			Convey("Then the value is exactly 90", func() {
				So(scoring.RelativeValue(2, 10, 4, 4), ShouldEqual, 90.0)
				So(scoring.RelativeValue(6, 10, 4.00005, 4), ShouldEqual, 90.0)
			})
		})

		Convey("When the report sits on the average", func() {
			So(scoring.RelativeValue(4, 10, 5, 4), ShouldEqual, 90.0)
		})

		Convey("When the report sits on the high", func() {
			So(scoring.RelativeValue(5, 10, 5, 4), ShouldEqual, 100.0)
		})

		Convey("When the raw value drops below the floor", func() {
			Convey("Then it is floored at 80", func() {
				So(scoring.RelativeValue(1, 10, 5, 4), ShouldEqual, 80.0)
			})
		})

		Convey("When the report exceeds the high", func() {
			Convey("Then the value is not capped", func() {
				So(scoring.RelativeValue(6, 10, 5, 4), ShouldEqual, 110.0)
			})
		})
	})
}

func TestAggregate_Scenarios(t *testing.T) {
	Convey("Given a baseline of five reports averaging 4.00", t, func() {
		base := baseline()

		Convey("When a report averaging 5.00 is added", func() {
			rpt := uniformReport("A", 5)
			res, err := scoring.Aggregate(base, []*model.Report{rpt})

			Convey("Then the combined profile includes it", func() {
				So(err, ShouldBeNil)
				So(rpt.Average(), ShouldEqual, 5.0)
				So(res.Profile.ReportCount, ShouldEqual, 6)
				So(res.Profile.Avg, ShouldAlmostEqual, 25.0/6, 1e-9)
				So(res.Profile.High, ShouldEqual, 5.0)
				So(res.Profile.Low, ShouldEqual, 3.0)
				So(res.Profile.Rank, ShouldEqual, "Capt")
			})

			Convey("And its relative value reaches 100 uncapped", func() {
				rv, ok := rpt.RV()
				So(ok, ShouldBeTrue)
				So(rv.Proc, ShouldAlmostEqual, 100.0, 1e-9)
				So(rv.Cum, ShouldAlmostEqual, 100.0, 1e-9)

				got, found := res.RVFor("a")
				So(found, ShouldBeTrue)
				So(got.Proc, ShouldAlmostEqual, rv.Proc, 1e-12)
			})
		})

		Convey("When a report averaging 2.00 is added", func() {
			rpt := uniformReport("B", 2)
			res, err := scoring.Aggregate(base, []*model.Report{rpt})

			Convey("Then the low is lowered and the value is floored", func() {
				So(err, ShouldBeNil)
				So(res.Profile.Low, ShouldEqual, 2.0)
				So(res.Profile.Avg, ShouldAlmostEqual, 22.0/6, 1e-9)
				rv, _ := rpt.RV()
				So(rv.Proc, ShouldEqual, 80.0)
				So(rv.Cum, ShouldEqual, 80.0)
			})
		})

		Convey("When no reports are given", func() {
			res, err := scoring.Aggregate(base, nil)

			Convey("Then the profile equals the baseline", func() {
				So(err, ShouldBeNil)
				So(res.Profile, ShouldResemble, *base.Clone())
				So(res.RVs, ShouldBeEmpty)
			})
		})

		Convey("When aggregating", func() {
			before := *base
			_, err := scoring.Aggregate(base, []*model.Report{uniformReport("A", 7), uniformReport("B", 1)})

			Convey("Then the baseline is left untouched", func() {
				So(err, ShouldBeNil)
				So(*base, ShouldResemble, before)
			})
		})
	})
}

func TestAggregate_OrderSensitivity(t *testing.T) {
	Convey("Given two reports folded into the same baseline", t, func() {
		Convey("When their order is swapped", func() {
			a1, b1 := uniformReport("A", 6), uniformReport("B", 3)
			first, err1 := scoring.Aggregate(baseline(), []*model.Report{a1, b1})

			a2, b2 := uniformReport("A", 6), uniformReport("B", 3)
			second, err2 := scoring.Aggregate(baseline(), []*model.Report{b2, a2})

			So(err1, ShouldBeNil)
			So(err2, ShouldBeNil)

			Convey("Then processing-order values follow position", func() {
				rvB1, _ := b1.RV()
				rvB2, _ := b2.RV()
				So(rvB1.Proc, ShouldAlmostEqual, 90+10*(3-29.0/7)/(6-29.0/7), 1e-9)
				So(rvB2.Proc, ShouldAlmostEqual, 90+10*(3-23.0/6)/(5-23.0/6), 1e-9)
				So(rvB1.Proc, ShouldNotAlmostEqual, rvB2.Proc, 1e-6)
			})

			Convey("And cumulative values and the profile do not", func() {
				So(second.Profile, ShouldResemble, first.Profile)
				rvA1, _ := a1.RV()
				rvA2, _ := a2.RV()
				rvB1, _ := b1.RV()
				rvB2, _ := b2.RV()
				So(rvA1.Cum, ShouldAlmostEqual, rvA2.Cum, 1e-12)
				So(rvB1.Cum, ShouldAlmostEqual, rvB2.Cum, 1e-12)
			})

			Convey("And results are listed in input order", func() {
				So(first.RVs[0].Name, ShouldEqual, "A")
				So(second.RVs[0].Name, ShouldEqual, "B")
			})
		})
	})
}

func TestAggregate_SmallAndDegenerateProfiles(t *testing.T) {
	Convey("Given an empty baseline", t, func() {
		empty := &model.Profile{Rank: "Sgt"}

		Convey("When reports are folded in one by one", func() {
			rpts := []*model.Report{uniformReport("A", 5), uniformReport("B", 6), uniformReport("C", 4)}
			res, err := scoring.Aggregate(empty, rpts)

			Convey("Then the first two have no processing-order value", func() {
				So(err, ShouldBeNil)
				rvA, _ := rpts[0].RV()
				rvB, _ := rpts[1].RV()
				So(rvA.Proc, ShouldEqual, 0.0)
				So(rvB.Proc, ShouldEqual, 0.0)
			})

			Convey("And the third is ranked against three reports", func() {
				rvC, _ := rpts[2].RV()
				So(rvC.Proc, ShouldEqual, 80.0)
				So(res.Profile.ReportCount, ShouldEqual, 3)
				So(res.Profile.Avg, ShouldAlmostEqual, 5.0, 1e-12)
				So(res.Profile.High, ShouldEqual, 6.0)
			})

			Convey("And the low stays at the empty baseline's zero", func() {
				So(res.Profile.Low, ShouldEqual, 0.0)
			})
		})
	})

	Convey("Given a baseline with no spread", t, func() {
		flat := &model.Profile{Rank: "Sgt", High: 4, Low: 4, Avg: 4, ReportCount: 5}

		Convey("When a report at the same average is added", func() {
			rpt := uniformReport("A", 4)
			_, err := scoring.Aggregate(flat, []*model.Report{rpt})

			Convey("Then both values are exactly 90", func() {
				So(err, ShouldBeNil)
				rv, _ := rpt.RV()
				So(rv.Proc, ShouldEqual, 90.0)
				So(rv.Cum, ShouldEqual, 90.0)
			})
		})
	})
}

func TestAggregate_Errors(t *testing.T) {
	Convey("Given malformed aggregate inputs", t, func() {
		Convey("When the baseline is missing", func() {
			_, err := scoring.Aggregate(nil, nil)
			So(errors.Is(err, model.ErrInvalidArgument), ShouldBeTrue)
		})

		Convey("When a report is missing", func() {
			_, err := scoring.Aggregate(baseline(), []*model.Report{uniformReport("A", 5), nil})
			So(errors.Is(err, model.ErrInvalidArgument), ShouldBeTrue)
		})
	})
}

func TestCalculator_Interface(t *testing.T) {
	Convey("Given a calculator used through the Aggregator interface", t, func() {
		var agg scoring.Aggregator = scoring.NewCalculator()

		Convey("When aggregating the same input twice", func() {
			first, err1 := agg.Aggregate(baseline(), []*model.Report{uniformReport("A", 5), uniformReport("B", 6)})
			second, err2 := agg.Aggregate(baseline(), []*model.Report{uniformReport("A", 5), uniformReport("B", 6)})

			Convey("Then the results are identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(second, ShouldResemble, first)
			})
		})
	})
}
