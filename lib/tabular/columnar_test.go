package tabular

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnarShape(t *testing.T) {
	blob, err := Columnar(timeSeriesCSV(
		"1,1,2,3,10,5,2.5",
		"2,1,2,3,20,7,3.0",
	))
	require.NoError(t, err)

	var doc struct {
		Order   []string            `json:"order"`
		Columns map[string][]string `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(blob, &doc))

	assert.Equal(t, TimeSeriesHeader, doc.Order)
	assert.Equal(t, []string{"1", "2"}, doc.Columns["Wk"])
	assert.Equal(t, []string{"10", "20"}, doc.Columns["Item_ID"])
	assert.Equal(t, []string{"2.5", "3.0"}, doc.Columns["Price_"])
}

func TestColumnarRejectsWrongHeader(t *testing.T) {
	_, err := Columnar([]byte("a,b\n1,2\n"))
	assert.ErrorIs(t, err, ErrWrongHeader)
}
