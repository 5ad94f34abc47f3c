package repository_test

import (
	"testing"

	"github.com/okian/rvcalc/internal/adapters/repository"
	"github.com/okian/rvcalc/internal/domain/model"
	"github.com/okian/rvcalc/internal/domain/score"
	. "github.com/smartystreets/goconvey/convey"
)

func report(name string, v score.Score) *model.Report {
	scores := make([]score.Score, score.AttributeCount)
	for i := range scores {
		scores[i] = v
	}
	r, err := model.NewReport(name, "Sgt", scores)
	if err != nil {
		panic(err)
	}
	return r
}

func names(rs []*model.Report) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}

func TestReportList_Upsert(t *testing.T) {
	Convey("Given a list with three reports", t, func() {
		list := repository.NewReportList(report("A", 3), report("B", 4), report("C", 5))

		Convey("When upserting a new name", func() {
			idx, replaced := list.Upsert(report("D", 6))

			Convey("Then it is appended", func() {
				So(replaced, ShouldBeFalse)
				So(idx, ShouldEqual, 3)
				So(names(list.Reports()), ShouldResemble, []string{"A", "B", "C", "D"})
			})
		})

		Convey("When upserting an existing name in another case", func() {
			idx, replaced := list.Upsert(report("b", 7))

			Convey("Then it replaces the report in place", func() {
				So(replaced, ShouldBeTrue)
				So(idx, ShouldEqual, 1)
				So(list.Len(), ShouldEqual, 3)
				So(names(list.Reports()), ShouldResemble, []string{"A", "b", "C"})
				So(list.Reports()[1].Average(), ShouldEqual, 7.0)
			})
		})

		Convey("When finding by name", func() {
			r, ok := list.Find("  c ")
			So(ok, ShouldBeTrue)
			So(r.Name, ShouldEqual, "C")

			_, ok = list.Find("Z")
			So(ok, ShouldBeFalse)
		})

		Convey("When taking a snapshot", func() {
			snap := list.Snapshot()
			snap[0].AssignCumRV(99)
			snap[0].Name = "changed"

			Convey("Then the stored reports are unaffected", func() {
				_, rated := list.Reports()[0].RV()
				So(rated, ShouldBeFalse)
				So(list.Reports()[0].Name, ShouldEqual, "A")
			})
		})

		Convey("When resetting", func() {
			list.Reset()
			So(list.Len(), ShouldEqual, 0)
			So(list.Reports(), ShouldBeEmpty)
		})
	})
}
