package services

import (
	"math"
	"testing"

	"pricelabs-dash/models"
	"pricelabs-dash/utils"
)

func newTestLogger() *utils.Logger { return utils.NopLogger() }

func TestCleanerDropsNullGroup(t *testing.T) {
	c := NewCleaner(newTestLogger())
	records := []models.Record{
		{"id": "1", "group": "A"},
		{"id": "2", "group": nil},
		{"id": "3"},
		{"id": "4", "group": ""},
		{"id": "5", "group": 0.0},
	}

	cleaned := c.Clean(records)
	if len(cleaned) != 3 {
		t.Fatalf("expected 3 listings after dropping null groups, got %d", len(cleaned))
	}
	for i, want := range []string{"1", "4", "5"} {
		if cleaned[i]["id"] != want {
			t.Errorf("cleaned[%d].id = %v; want %s", i, cleaned[i]["id"], want)
		}
	}
}

func TestGroupKey(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"Downtown", "Downtown"},
		{3.0, "3"},
		{2.5, "2.5"},
		{true, "true"},
		{[]any{"a", 1.0}, "a,1"},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := GroupKey(tt.in); got != tt.want {
			t.Errorf("GroupKey(%v) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestNumericValue(t *testing.T) {
	tests := []struct {
		in     any
		want   float64
		wantOK bool
	}{
		{0.85, 0.85, true},
		{"1.25", 1.25, true},
		{" 0.5 ", 0.5, true},
		{"", 0, false},
		{"abc", 0, false},
		{nil, 0, false},
		{true, 0, false},
		{math.NaN(), 0, false},
		{math.Inf(1), 0, false},
		{[]any{1.0}, 0, false},
	}

	for _, tt := range tests {
		got, ok := NumericValue(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("NumericValue(%v) = (%v, %v); want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
