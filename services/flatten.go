package services

import "pricelabs-dash/models"

// Flatten folds nested objects into one level using dotted keys. Arrays and
// nulls are leaves and are copied as-is.
//
//	{"id": 1, "market": {"city": "Austin"}} → {"id": 1, "market.city": "Austin"}
func Flatten(obj map[string]any, prefix string) models.Record {
	flat := make(models.Record, len(obj))
	flattenInto(flat, obj, prefix)
	return flat
}

func flattenInto(dst models.Record, obj map[string]any, prefix string) {
	for key, val := range obj {
		newKey := key
		if prefix != "" {
			newKey = prefix + "." + key
		}

		if nested, ok := val.(map[string]any); ok {
			flattenInto(dst, nested, newKey)
			continue
		}
		dst[newKey] = val
	}
}

// Normalize flattens every decoded listing. Elements that are not JSON
// objects produce an empty record, which the Cleaner later drops for lack of
// a group.
func Normalize(listings []any) []models.Record {
	out := make([]models.Record, 0, len(listings))
	for _, l := range listings {
		obj, ok := l.(map[string]any)
		if !ok {
			out = append(out, models.Record{})
			continue
		}
		out = append(out, Flatten(obj, ""))
	}
	return out
}
