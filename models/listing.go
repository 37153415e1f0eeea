package models

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Record is one listing after flattening: nested objects are folded into
// dotted keys ("market.city"), every other value is kept as decoded.
type Record map[string]any

// Group returns the raw value of the "group" field and whether it is set
// to something other than null.
func (r Record) Group() (any, bool) {
	v, ok := r["group"]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// GroupStats is the aggregated row for one group value.
type GroupStats struct {
	Group   string              `json:"group"`
	Count   int                 `json:"count"`
	Metrics map[string]*float64 `json:"metrics"`
	// Listings are the member records in their original order.
	Listings []Record `json:"-"`
}

// Metric returns the scaled mean for column, nil when no listing in the
// group carried a usable value.
func (g GroupStats) Metric(column string) *float64 {
	return g.Metrics[column]
}

// InsightReport holds the grouped analytics over the cleaned dataset.
type InsightReport struct {
	Groups              []GroupStats `json:"groups"`
	TotalGroups         int          `json:"totalGroups"`
	TotalListings       int          `json:"totalListings"`
	AvgListingsPerGroup int          `json:"avgListingsPerGroup"`
}

// RateLimitInfo carries the upstream rate limit headers verbatim. Empty
// strings mean the header was absent.
type RateLimitInfo struct {
	Remaining string
	Reset     string
	Limit     string
}

// ResetTime parses Reset as unix seconds.
func (r RateLimitInfo) ResetTime() (time.Time, bool) {
	if r.Reset == "" {
		return time.Time{}, false
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(r.Reset), 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(secs * 1000)), true
}
