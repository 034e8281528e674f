package testutil

import (
	"fmt"
	"strings"
	"sync"
)

// Report is a single call made against a RecordingAPI.
type Report struct {
	Kind   string
	Id     string
	Params []any
	Count  int64
}

// RecordingAPI is a telemetry.API that keeps every report in memory so tests
// can assert on what was reported.
type RecordingAPI struct {
	mutex   sync.Mutex
	reports []Report
}

func NewRecordingAPI() *RecordingAPI {
	return &RecordingAPI{}
}

func (r *RecordingAPI) add(report Report) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, report)
}

func (r *RecordingAPI) ReportBroken(id string, params ...any) {
	r.add(Report{Kind: "broken", Id: id, Params: params})
}

func (r *RecordingAPI) ReportWarning(id string, params ...any) {
	r.add(Report{Kind: "warning", Id: id, Params: params})
}

func (r *RecordingAPI) ReportDebug(msg string, params ...any) {
	r.add(Report{Kind: "debug", Id: msg, Params: params})
}

func (r *RecordingAPI) ReportCount(id string, count int64) {
	r.add(Report{Kind: "count", Id: id, Count: count})
}

// Reports returns a copy of every report of the given kind, or all reports if kind is empty.
func (r *RecordingAPI) Reports(kind string) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []Report
	for _, report := range r.reports {
		if kind == "" || report.Kind == kind {
			out = append(out, report)
		}
	}
	return out
}

// Broken returns the ids of all broken reports.
func (r *RecordingAPI) Broken() []string {
	var ids []string
	for _, report := range r.Reports("broken") {
		ids = append(ids, report.Id)
	}
	return ids
}

// HasReport checks if any report of the given kind has an id containing the substring.
func (r *RecordingAPI) HasReport(kind, idSubstring string) bool {
	for _, report := range r.Reports(kind) {
		if strings.Contains(report.Id, idSubstring) {
			return true
		}
	}
	return false
}

func (r *RecordingAPI) String() string {
	var out strings.Builder
	for _, report := range r.Reports("") {
		out.WriteString(fmt.Sprintf("%s %s %v\n", report.Kind, report.Id, report.Params))
	}
	return out.String()
}
