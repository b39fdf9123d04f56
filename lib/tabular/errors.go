package tabular

import (
	"errors"
	"fmt"
)

// ErrUnreadableFile means the upload could not be decoded as UTF-8 text or
// parsed as delimited records at all.
var ErrUnreadableFile = errors.New("unable to read file")

// ErrWrongHeader means the first record does not exactly match the expected
// header list in order and count.
var ErrWrongHeader = errors.New("csv file has the wrong headers")

// ErrQuerySizeExceeded means a series query asked for more items than a
// single call allows.
var ErrQuerySizeExceeded = errors.New("too many items requested in a single query")

// CellErrors maps "column,row" keys to a description of what is wrong with
// that cell. Row numbering starts at 2: the header is row 1.
type CellErrors map[string]string

// Add records one malformed cell
func (e CellErrors) Add(column string, row int, message string) {
	e[fmt.Sprintf("%s,%d", column, row)] = message
}

func (e CellErrors) Error() string {
	return fmt.Sprintf("%d invalid cells", len(e))
}
