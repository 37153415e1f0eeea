package services

import (
	"testing"

	"pricelabs-dash/models"
)

func ptr(f float64) *float64 { return &f }

func sortFixture() []models.GroupStats {
	return []models.GroupStats{
		{Group: "b", Count: 2, Metrics: map[string]*float64{"mpi_next_7": ptr(50)}},
		{Group: "a", Count: 5, Metrics: map[string]*float64{"mpi_next_7": nil}},
		{Group: "c", Count: 2, Metrics: map[string]*float64{"mpi_next_7": ptr(120)}},
	}
}

func groupNames(gs []models.GroupStats) []string {
	out := make([]string, len(gs))
	for i, g := range gs {
		out[i] = g.Group
	}
	return out
}

func TestApplySorting(t *testing.T) {
	tests := []struct {
		name string
		cfg  SortConfig
		want []string
	}{
		{"no key keeps order", SortConfig{}, []string{"b", "a", "c"}},
		{"group asc", SortConfig{ColumnGroup, Asc}, []string{"a", "b", "c"}},
		{"group desc", SortConfig{ColumnGroup, Desc}, []string{"c", "b", "a"}},
		{"count asc is stable", SortConfig{ColumnCount, Asc}, []string{"b", "c", "a"}},
		{"count desc is stable", SortConfig{ColumnCount, Desc}, []string{"a", "b", "c"}},
		{"metric asc nulls last", SortConfig{"mpi_next_7", Asc}, []string{"b", "c", "a"}},
		{"metric desc nulls last", SortConfig{"mpi_next_7", Desc}, []string{"c", "b", "a"}},
		{"unknown key ignored", SortConfig{"price", Asc}, []string{"b", "a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sortFixture()
			got := groupNames(ApplySorting(in, tt.cfg))
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v; want %v", got, tt.want)
				}
			}
			if in[0].Group != "b" {
				t.Error("ApplySorting must not reorder its input")
			}
		})
	}
}

func TestSortConfigNext(t *testing.T) {
	c := SortConfig{}
	c = c.Next(ColumnCount)
	if c != (SortConfig{ColumnCount, Asc}) {
		t.Errorf("first click: got %+v", c)
	}
	c = c.Next(ColumnCount)
	if c != (SortConfig{ColumnCount, Desc}) {
		t.Errorf("second click: got %+v", c)
	}
	c = c.Next(ColumnCount)
	if c != (SortConfig{ColumnCount, Asc}) {
		t.Errorf("third click: got %+v", c)
	}
	c = c.Next(ColumnGroup)
	if c != (SortConfig{ColumnGroup, Asc}) {
		t.Errorf("other column: got %+v", c)
	}
}

func TestIsSortable(t *testing.T) {
	for _, c := range []string{"group", "count", "mpi_next_7", "mpi_next_120"} {
		if !IsSortable(c) {
			t.Errorf("IsSortable(%q) = false", c)
		}
	}
	if IsSortable("mpi_next_14") {
		t.Error("IsSortable(mpi_next_14) = true")
	}
}
