package jobs

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"time"
)

// marshalMealsCSV renders meal records as CSV, one row per record. The
// column set is the union of fields across all records, with "id" first
// and the rest in alphabetical order so output is deterministic. Missing
// fields render as empty cells; timestamp values render as RFC 3339.
func marshalMealsCSV(meals []MealRecord) ([]byte, error) {
	columns := []string{"id"}
	seen := map[string]bool{"id": true}
	for _, meal := range meals {
		for field := range meal.Fields {
			if !seen[field] {
				seen[field] = true
				columns = append(columns, field)
			}
		}
	}
	sort.Strings(columns[1:])

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(columns); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	row := make([]string, len(columns))
	for _, meal := range meals {
		row[0] = meal.ID
		for i, column := range columns[1:] {
			row[i+1] = formatCell(meal.Fields[column])
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
