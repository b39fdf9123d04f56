package tabular

import "encoding/json"

// columnarDocument is the column-major form the external trainer ingests:
// one array per column, plus the column order.
type columnarDocument struct {
	Order   []string            `json:"order"`
	Columns map[string][]string `json:"columns"`
}

// Columnar converts a verified time-series upload into the column-major
// blob the trainer expects.
func Columnar(data []byte) ([]byte, error) {
	v, err := NewVerifier(data, TimeSeriesHeader)
	if err != nil {
		return nil, err
	}

	doc := columnarDocument{
		Order:   v.header,
		Columns: make(map[string][]string, len(v.header)),
	}
	for colIdx, column := range v.header {
		values := make([]string, 0, len(v.rows))
		for _, row := range v.rows {
			values = append(values, cell(row, colIdx))
		}
		doc.Columns[column] = values
	}
	return json.Marshal(doc)
}
