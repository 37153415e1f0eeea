package services

import (
	"sort"

	"pricelabs-dash/models"
)

const (
	ColumnGroup = "group"
	ColumnCount = "count"
)

// Direction of a column sort.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortConfig is the active sort. An empty Key keeps group order as
// produced by Generate.
type SortConfig struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// Columns lists every sortable column in display order.
func Columns() []string {
	return append([]string{ColumnGroup, ColumnCount}, MetricColumns...)
}

// IsSortable reports whether column can be passed to ApplySorting.
func IsSortable(column string) bool {
	for _, c := range Columns() {
		if c == column {
			return true
		}
	}
	return false
}

// Next returns the config after a click on column: a second click on an
// ascending column flips it, anything else starts ascending.
func (c SortConfig) Next(column string) SortConfig {
	if c.Key == column && c.Direction == Asc {
		return SortConfig{Key: column, Direction: Desc}
	}
	return SortConfig{Key: column, Direction: Asc}
}

// ApplySorting returns a sorted copy of groups. Null metrics sink to the
// bottom in both directions; ties keep their previous relative order.
func ApplySorting(groups []models.GroupStats, cfg SortConfig) []models.GroupStats {
	out := make([]models.GroupStats, len(groups))
	copy(out, groups)
	if cfg.Key == "" || !IsSortable(cfg.Key) {
		return out
	}

	desc := cfg.Direction == Desc
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch cfg.Key {
		case ColumnGroup:
			if desc {
				return a.Group > b.Group
			}
			return a.Group < b.Group
		case ColumnCount:
			if desc {
				return a.Count > b.Count
			}
			return a.Count < b.Count
		}

		av, bv := a.Metric(cfg.Key), b.Metric(cfg.Key)
		switch {
		case av == nil && bv == nil:
			return false
		case av == nil:
			return false
		case bv == nil:
			return true
		}
		if desc {
			return *av > *bv
		}
		return *av < *bv
	})
	return out
}
