package utils

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
)

// ArtifactCSV flattens a model artifact payload (feature importances,
// elasticities, cv scores) into CSV bytes with a deterministic row and
// column order.
//
// Two payload shapes occur: a map of rows (every value itself an object)
// becomes a table with the union of inner keys as columns; anything else
// becomes a two-column key/value listing.
func ArtifactCSV(payload map[string]interface{}) ([]byte, error) {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if rowsShaped(payload) {
		columns := innerColumns(payload)
		if err := writer.Write(append([]string{""}, columns...)); err != nil {
			return nil, err
		}
		for _, key := range keys {
			inner := payload[key].(map[string]interface{})
			record := make([]string, 0, len(columns)+1)
			record = append(record, key)
			for _, column := range columns {
				record = append(record, formatValue(inner[column]))
			}
			if err := writer.Write(record); err != nil {
				return nil, err
			}
		}
	} else {
		if err := writer.Write([]string{"key", "value"}); err != nil {
			return nil, err
		}
		for _, key := range keys {
			if err := writer.Write([]string{key, formatValue(payload[key])}); err != nil {
				return nil, err
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ResultCSV renders optimization result rows under their price column names
func ResultCSV(priceCols []string, rows [][]float64) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(priceCols); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := make([]string, 0, len(row))
		for _, value := range row {
			record = append(record, formatValue(value))
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func rowsShaped(payload map[string]interface{}) bool {
	if len(payload) == 0 {
		return false
	}
	for _, value := range payload {
		if _, ok := value.(map[string]interface{}); !ok {
			return false
		}
	}
	return true
}

func innerColumns(payload map[string]interface{}) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, value := range payload {
		for column := range value.(map[string]interface{}) {
			if !seen[column] {
				seen[column] = true
				columns = append(columns, column)
			}
		}
	}
	sort.Strings(columns)
	return columns
}

func formatValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case float64:
		return fmt.Sprintf("%g", v)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
