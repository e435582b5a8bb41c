package table

import (
	"fmt"
	"io"
	"strings"
)

const cellWidth = 10

// Print writes title followed by up to maxRows rows and maxCols columns of t,
// each cell left aligned with three decimals, and a trailing blank line.
// A limit of zero or less prints everything.
func Print(w io.Writer, t NumericTable, title string, maxRows, maxCols int) error {
	rows, cols := t.NumRows(), t.NumCols()
	if maxRows > 0 && maxRows < rows {
		rows = maxRows
	}
	if maxCols > 0 && maxCols < cols {
		cols = maxCols
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteByte('\n')
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			fmt.Fprintf(&b, "%-*.3f", cellWidth, t.At(i, j))
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}
