package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"pricelabs-dash/models"
	"pricelabs-dash/services"
)

// CSVWriter exports grouped summaries to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu   sync.Mutex
	file *os.File
}

// NewCSVWriter creates (or truncates) the CSV file at the given path.
// Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}
	return &CSVWriter{file: f}, nil
}

// WriteSummary writes the header and one row per group.
func (c *CSVWriter) WriteSummary(groups []models.GroupStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return WriteSummaryCSV(c.file, groups)
}

// Close closes the underlying file.
func (c *CSVWriter) Close() error {
	return c.file.Close()
}

// SummaryHeader is the CSV header row.
func SummaryHeader() []string {
	return append([]string{services.ColumnGroup, services.ColumnCount}, services.MetricColumns...)
}

// WriteSummaryCSV encodes groups to w. Metric cells carry one decimal; a
// group without data for a metric gets an empty cell.
func WriteSummaryCSV(w io.Writer, groups []models.GroupStats) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(SummaryHeader()); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, g := range groups {
		row := make([]string, 0, 2+len(services.MetricColumns))
		row = append(row, g.Group, strconv.Itoa(g.Count))
		for _, column := range services.MetricColumns {
			v := g.Metric(column)
			if v == nil {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.FormatFloat(*v, 'f', 1, 64))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
