package services

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"pricelabs-dash/models"
	"pricelabs-dash/utils"
)

// MetricColumns are the market penetration index horizons averaged per group.
var MetricColumns = []string{"mpi_next_7", "mpi_next_30", "mpi_next_60", "mpi_next_90", "mpi_next_120"}

// MetricScale turns the upstream ratio into the percentage shown in tables.
const MetricScale = 100

type InsightService struct {
	logger *utils.Logger
	out    io.Writer
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger, out: os.Stdout}
}

// SetOutput redirects Print.
func (s *InsightService) SetOutput(w io.Writer) {
	s.out = w
}

// Generate groups cleaned records by their group key and averages every
// metric column. Groups appear in order of first occurrence.
func (s *InsightService) Generate(records []models.Record) *models.InsightReport {
	report := &models.InsightReport{Groups: []models.GroupStats{}}
	if len(records) == 0 {
		return report
	}

	index := make(map[string]int)
	for _, r := range records {
		raw, ok := r.Group()
		if !ok {
			continue
		}
		key := GroupKey(raw)
		i, seen := index[key]
		if !seen {
			i = len(report.Groups)
			index[key] = i
			report.Groups = append(report.Groups, models.GroupStats{Group: key})
		}
		report.Groups[i].Listings = append(report.Groups[i].Listings, r)
	}

	for i := range report.Groups {
		g := &report.Groups[i]
		g.Count = len(g.Listings)
		g.Metrics = make(map[string]*float64, len(MetricColumns))
		for _, column := range MetricColumns {
			g.Metrics[column] = scaledMean(g.Listings, column)
		}
		report.TotalListings += g.Count
	}

	report.TotalGroups = len(report.Groups)
	if report.TotalGroups > 0 {
		report.AvgListingsPerGroup = int(math.Floor(float64(report.TotalListings)/float64(report.TotalGroups) + 0.5))
	}

	s.logger.Debug("[insights] %d listings in %d groups", report.TotalListings, report.TotalGroups)
	return report
}

// scaledMean averages the usable values of column and scales the result.
// It returns nil when no listing has a usable value.
func scaledMean(listings []models.Record, column string) *float64 {
	var total float64
	var n int
	for _, l := range listings {
		v, ok := NumericValue(l[column])
		if !ok {
			continue
		}
		total += v
		n++
	}
	if n == 0 {
		return nil
	}
	mean := total / float64(n) * MetricScale
	return &mean
}

func (s *InsightService) Print(r *models.InsightReport) {
	w := s.out
	sep := strings.Repeat("═", 96)
	thin := strings.Repeat("─", 96)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📊 PRICELABS MPI ANALYSIS BY GROUP\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total groups        : \033[1m%d\033[0m\n", r.TotalGroups)
	fmt.Fprintf(w, "  Total listings      : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Fprintf(w, "  Avg listings/group  : \033[1m%d\033[0m\n", r.AvgListingsPerGroup)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Average MPI by Group\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.Groups) == 0 {
		fmt.Fprintf(w, "  No grouped data available\n")
		fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
		return
	}

	fmt.Fprintf(w, "  \033[1m%-28s %8s", "Group", "Count")
	for _, column := range MetricColumns {
		fmt.Fprintf(w, " %11s", ColumnLabel(column))
	}
	fmt.Fprintf(w, "\033[0m\n")

	for _, g := range r.Groups {
		fmt.Fprintf(w, "  %-28s %8d", truncate(g.Group, 28), g.Count)
		for _, column := range MetricColumns {
			fmt.Fprintf(w, " %11s", FormatMetric(g.Metric(column)))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

// FormatMetric renders a scaled mean with one decimal, or N/A.
func FormatMetric(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *v)
}

// ColumnLabel is the human header for a sortable column.
func ColumnLabel(column string) string {
	switch column {
	case ColumnGroup:
		return "Group"
	case ColumnCount:
		return "Listings Count"
	}
	return strings.Replace(column, "mpi_next_", "MPI Next ", 1)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
