package services

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"pricelabs-dash/models"
)

func sampleRecords() []models.Record {
	return []models.Record{
		{"id": "1", "group": "Beach", "mpi_next_7": 0.9, "mpi_next_30": 1.1, "mpi_next_60": nil},
		{"id": "2", "group": "Downtown", "mpi_next_7": 1.2, "mpi_next_30": "0.8"},
		{"id": "3", "group": "Beach", "mpi_next_7": 1.1, "mpi_next_30": 0.9, "mpi_next_60": "n/a"},
		{"id": "4", "group": "Downtown", "mpi_next_7": nil},
		{"id": "5", "group": "Downtown", "mpi_next_7": 0.6},
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestInsightGroupOrderAndCounts(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleRecords())

	if r.TotalGroups != 2 {
		t.Fatalf("TotalGroups: got %d, want 2", r.TotalGroups)
	}
	if r.Groups[0].Group != "Beach" || r.Groups[1].Group != "Downtown" {
		t.Errorf("group order: got %q, %q; want Beach, Downtown", r.Groups[0].Group, r.Groups[1].Group)
	}
	if r.Groups[0].Count != 2 || r.Groups[1].Count != 3 {
		t.Errorf("counts: got %d, %d; want 2, 3", r.Groups[0].Count, r.Groups[1].Count)
	}
	if r.TotalListings != 5 {
		t.Errorf("TotalListings: got %d, want 5", r.TotalListings)
	}
	if r.AvgListingsPerGroup != 3 {
		t.Errorf("AvgListingsPerGroup: got %d, want 3 (2.5 rounds up)", r.AvgListingsPerGroup)
	}
}

func TestInsightMeansScaled(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleRecords())

	beach := r.Groups[0]
	if v := beach.Metric("mpi_next_7"); v == nil || !approx(*v, 100) {
		t.Errorf("Beach mpi_next_7: got %v, want 100", v)
	}
	if v := beach.Metric("mpi_next_30"); v == nil || !approx(*v, 100) {
		t.Errorf("Beach mpi_next_30: got %v, want 100", v)
	}
	if v := beach.Metric("mpi_next_60"); v != nil {
		t.Errorf("Beach mpi_next_60: got %v, want nil", *v)
	}

	downtown := r.Groups[1]
	if v := downtown.Metric("mpi_next_7"); v == nil || !approx(*v, 90) {
		t.Errorf("Downtown mpi_next_7: got %v, want 90 (null skipped)", v)
	}
	if v := downtown.Metric("mpi_next_30"); v == nil || !approx(*v, 80) {
		t.Errorf("Downtown mpi_next_30: got %v, want 80 (numeric string)", v)
	}
	if v := downtown.Metric("mpi_next_120"); v != nil {
		t.Errorf("Downtown mpi_next_120: got %v, want nil", *v)
	}
}

func TestInsightNumericGroupsShareKey(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate([]models.Record{
		{"group": 3.0},
		{"group": "3"},
	})
	if r.TotalGroups != 1 || r.Groups[0].Count != 2 {
		t.Errorf("expected one group of 2, got %+v", r.Groups)
	}
}

func TestInsightEmptyInput(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(nil)
	if r.TotalListings != 0 || r.TotalGroups != 0 || r.AvgListingsPerGroup != 0 {
		t.Errorf("expected zeroed report for empty input, got %+v", r)
	}
	if r.Groups == nil {
		t.Error("Groups should be an empty slice, not nil")
	}
}

func TestInsightPrint(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	var buf bytes.Buffer
	svc.SetOutput(&buf)

	svc.Print(svc.Generate(sampleRecords()))

	out := buf.String()
	for _, want := range []string{"Total groups", "Beach", "Downtown", "MPI Next 120", "100.0", "N/A"} {
		if !strings.Contains(out, want) {
			t.Errorf("Print output missing %q", want)
		}
	}
}

func TestInsightPrintEmpty(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	var buf bytes.Buffer
	svc.SetOutput(&buf)

	svc.Print(svc.Generate(nil))

	if !strings.Contains(buf.String(), "No grouped data available") {
		t.Errorf("expected no-data notice, got %q", buf.String())
	}
}

func TestFormatMetricAndLabels(t *testing.T) {
	v := 87.25
	if got := FormatMetric(&v); got != "87.2" && got != "87.3" {
		t.Errorf("FormatMetric(87.25) = %q", got)
	}
	w := 101.0
	if got := FormatMetric(&w); got != "101.0" {
		t.Errorf("FormatMetric(101) = %q; want 101.0", got)
	}
	if got := FormatMetric(nil); got != "N/A" {
		t.Errorf("FormatMetric(nil) = %q; want N/A", got)
	}

	labels := map[string]string{
		"group":        "Group",
		"count":        "Listings Count",
		"mpi_next_7":   "MPI Next 7",
		"mpi_next_120": "MPI Next 120",
	}
	for in, want := range labels {
		if got := ColumnLabel(in); got != want {
			t.Errorf("ColumnLabel(%q) = %q; want %q", in, got, want)
		}
	}
}
