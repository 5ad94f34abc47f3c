// Package repository holds the ordered, in-memory collection of reports.
package repository

import (
	"github.com/okian/rvcalc/internal/domain/model"
)

// Store provides ordered access to reports keyed by case-insensitive name.
type Store interface {
	// Upsert replaces the report with the same name at its position, or
	// appends it. Returns the report's index and whether it replaced one.
	Upsert(r *model.Report) (int, bool)

	// Find returns the stored report for name.
	Find(name string) (*model.Report, bool)

	// Reports returns the stored reports in order. Callers must not modify
	// the slice; it is shared with the store.
	Reports() []*model.Report

	// Snapshot returns deep copies of the stored reports in order.
	Snapshot() []*model.Report

	// Len returns the number of stored reports.
	Len() int

	// Reset removes all reports.
	Reset()
}

// ReportList implements Store with a slice. Identity lookups are linear;
// sessions hold a handful of reports.
type ReportList struct {
	reports []*model.Report
}

// NewReportList creates an empty list, optionally seeded with reports.
func NewReportList(seed ...*model.Report) *ReportList {
	l := &ReportList{}
	for _, r := range seed {
		l.Upsert(r)
	}
	return l
}

func (l *ReportList) indexOf(name string) int {
	key := model.NameKey(name)
	for i, r := range l.reports {
		if r.Key() == key {
			return i
		}
	}
	return -1
}

// Upsert implements Store.
func (l *ReportList) Upsert(r *model.Report) (int, bool) {
	if i := l.indexOf(r.Name); i >= 0 {
		l.reports[i] = r
		return i, true
	}
	l.reports = append(l.reports, r)
	return len(l.reports) - 1, false
}

// Find implements Store.
func (l *ReportList) Find(name string) (*model.Report, bool) {
	if i := l.indexOf(name); i >= 0 {
		return l.reports[i], true
	}
	return nil, false
}

// Reports implements Store.
func (l *ReportList) Reports() []*model.Report {
	return l.reports
}

// Snapshot implements Store.
func (l *ReportList) Snapshot() []*model.Report {
	out := make([]*model.Report, len(l.reports))
	for i, r := range l.reports {
		out[i] = r.Clone()
	}
	return out
}

// Len implements Store.
func (l *ReportList) Len() int {
	return len(l.reports)
}

// Reset implements Store.
func (l *ReportList) Reset() {
	l.reports = nil
}
