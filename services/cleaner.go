package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"pricelabs-dash/models"
	"pricelabs-dash/utils"
)

// Cleaner drops flattened records that cannot take part in grouping.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean keeps only records whose group is present and non-null. Order is
// preserved.
func (c *Cleaner) Clean(records []models.Record) []models.Record {
	result := make([]models.Record, 0, len(records))

	for i, r := range records {
		if _, ok := r.Group(); !ok {
			c.logger.Debug("[cleaner] Dropping listing %d with null group (id=%v)", i, r["id"])
			continue
		}
		result = append(result, r)
	}

	c.logger.Info("[cleaner] Cleaned %d → %d listings (dropped %d)",
		len(records), len(result), len(records)-len(result))
	return result
}

// GroupKey renders a group value the way it is displayed and compared.
// Numbers use the shortest decimal form, so 3 and 3.0 share a group.
func GroupKey(v any) string {
	switch g := v.(type) {
	case string:
		return g
	case float64:
		return strconv.FormatFloat(g, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(g)
	case nil:
		return ""
	default:
		return stringify(g)
	}
}

// stringify joins arrays with commas and falls back to fmt for the rest.
func stringify(v any) string {
	arr, ok := v.([]any)
	if !ok {
		return fmt.Sprint(v)
	}
	parts := make([]string, len(arr))
	for i, el := range arr {
		parts[i] = GroupKey(el)
	}
	return strings.Join(parts, ",")
}

// NumericValue reports the float value of v when it is a finite number or a
// string holding one. Nulls, booleans, empty strings and anything else are
// rejected.
func NumericValue(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
