package dashboard

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"pricelabs-dash/models"
	"pricelabs-dash/pricelabs"
	"pricelabs-dash/services"
)

// View is an immutable snapshot of the dashboard for rendering.
type View struct {
	Loading    bool   `json:"loading"`
	Refreshing bool   `json:"refreshing"`
	Error      string `json:"error,omitempty"`
	Dark       bool   `json:"dark"`

	Sort    services.SortConfig `json:"sort"`
	Columns []Column            `json:"columns"`
	Groups  []GroupRow          `json:"groups"`
	// Expanded lists the expanded group keys, sorted.
	Expanded []string `json:"expanded"`

	TotalGroups         int `json:"totalGroups"`
	TotalListings       int `json:"totalListings"`
	AvgListingsPerGroup int `json:"avgListingsPerGroup"`

	CooldownSeconds int    `json:"cooldownSeconds"`
	CooldownLabel   string `json:"cooldownLabel,omitempty"`
	CanRefresh      bool   `json:"canRefresh"`

	LastRefresh *time.Time      `json:"lastRefresh,omitempty"`
	RateLimit   *pricelabs.Meta `json:"rateLimit,omitempty"`
}

// HasData reports whether there is at least one group to show.
func (v View) HasData() bool {
	return len(v.Groups) > 0
}

// Column is one sortable table header.
type Column struct {
	Key       string             `json:"key"`
	Label     string             `json:"label"`
	Active    bool               `json:"active"`
	Direction services.Direction `json:"direction,omitempty"`
}

// Indicator is the arrow shown next to the header: ▲ for inactive or
// ascending, ▼ for descending.
func (c Column) Indicator() string {
	if c.Active && c.Direction == services.Desc {
		return "▼"
	}
	return "▲"
}

// GroupRow is an aggregated table row.
type GroupRow struct {
	Name     string       `json:"group"`
	Count    int          `json:"count"`
	Cells    []string     `json:"cells"`
	Expanded bool         `json:"expanded"`
	Listings []ListingRow `json:"listings,omitempty"`
}

// ListingRow is one member listing shown under an expanded group.
type ListingRow struct {
	Label string   `json:"label"`
	Cells []string `json:"cells"`
}

// View builds a snapshot of the current state.
func (d *Dashboard) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()

	remaining := d.cooldown.Remaining()
	v := View{
		Loading:         d.loading && !d.refreshing,
		Refreshing:      d.refreshing,
		Dark:            d.dark,
		Sort:            d.sort,
		Columns:         columns(d.sort),
		Groups:          []GroupRow{},
		Expanded:        d.expanded.Members(),
		CooldownSeconds: remaining,
		CanRefresh:      remaining == 0 && !d.refreshing,
		RateLimit:       d.meta,
	}
	if remaining > 0 {
		v.CooldownLabel = FormatCountdown(remaining)
	}
	if d.err != nil {
		v.Error = d.err.Error()
	}
	if !d.lastRefresh.IsZero() {
		t := d.lastRefresh
		v.LastRefresh = &t
	}
	if d.report == nil {
		return v
	}

	v.TotalGroups = d.report.TotalGroups
	v.TotalListings = d.report.TotalListings
	v.AvgListingsPerGroup = d.report.AvgListingsPerGroup

	for _, g := range services.ApplySorting(d.report.Groups, d.sort) {
		row := GroupRow{
			Name:     g.Group,
			Count:    g.Count,
			Cells:    make([]string, 0, len(services.MetricColumns)),
			Expanded: d.expanded.Contains(g.Group),
		}
		for _, column := range services.MetricColumns {
			row.Cells = append(row.Cells, services.FormatMetric(g.Metric(column)))
		}
		if row.Expanded {
			row.Listings = listingRows(g.Listings)
		}
		v.Groups = append(v.Groups, row)
	}
	return v
}

func columns(sort services.SortConfig) []Column {
	out := make([]Column, 0, len(services.Columns()))
	for _, key := range services.Columns() {
		c := Column{Key: key, Label: services.ColumnLabel(key)}
		if sort.Key == key {
			c.Active = true
			c.Direction = sort.Direction
		}
		out = append(out, c)
	}
	return out
}

func listingRows(records []models.Record) []ListingRow {
	rows := make([]ListingRow, 0, len(records))
	for i, r := range records {
		row := ListingRow{
			Label: ListingLabel(r["id"], i),
			Cells: make([]string, 0, len(services.MetricColumns)),
		}
		for _, column := range services.MetricColumns {
			row.Cells = append(row.Cells, FormatListingMetric(r[column]))
		}
		rows = append(rows, row)
	}
	return rows
}

// ListingLabel is the listing id when it is set to something truthy,
// otherwise "Listing N" with a 1-based index.
func ListingLabel(id any, index int) string {
	switch v := id.(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		if v != 0 && !math.IsNaN(v) {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	case bool:
		if v {
			return "true"
		}
	case []any:
		return services.GroupKey(v)
	}
	return fmt.Sprintf("Listing %d", index+1)
}

// FormatListingMetric scales a single listing's raw value like the group
// averages, or returns N/A when it is not numeric.
func FormatListingMetric(v any) string {
	f, ok := services.NumericValue(v)
	if !ok {
		return "N/A"
	}
	scaled := f * services.MetricScale
	return services.FormatMetric(&scaled)
}
