package table

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

type Format string

const (
	FormatDense Format = "dense"
	FormatCSR   Format = "csr"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatDense, FormatCSR:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// LoadFile reads the table stored at path. nCols only applies to the csr
// format, see ReadCSR.
func LoadFile(path string, format Format, nCols int) (t NumericTable, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))

	switch format {
	case FormatDense:
		t, err = ReadDenseCSV(f)
	case FormatCSR:
		t, err = ReadCSR(f, nCols)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ReadDenseCSV reads comma separated rows of numbers. Blank lines and lines
// starting with '#' are skipped.
func ReadDenseCSV(r io.Reader) (*DenseTable, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	var data []float64
	rows, cols := 0, -1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		// A trailing delimiter leaves an empty last field.
		if n := len(record); n > 1 && strings.TrimSpace(record[n-1]) == "" {
			record = record[:n-1]
		}
		if cols == -1 {
			cols = len(record)
		} else if len(record) != cols {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrRaggedRow, rows, len(record), cols)
		}
		for j, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", rows, j, err)
			}
			data = append(data, v)
		}
		rows++
	}
	if cols == -1 {
		cols = 0
	}
	return NewDenseTable(rows, cols, data)
}

// ReadCSR reads the three-line compressed sparse row encoding: one-based row
// offsets, one-based column indices and values, each line comma separated.
// When nCols is zero the column count is the largest column index present;
// a positive nCols fixes it, so that blocks which happen to miss the last
// features still line up.
func ReadCSR(r io.Reader, nCols int) (*CSRTable, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) != 3 {
		return nil, fmt.Errorf("%w: expected 3 lines, got %d", ErrBadCSR, len(lines))
	}

	rowOffsets, err := parseIndices(lines[0])
	if err != nil {
		return nil, fmt.Errorf("%w: row offsets: %v", ErrBadCSR, err)
	}
	colIndices, err := parseIndices(lines[1])
	if err != nil {
		return nil, fmt.Errorf("%w: column indices: %v", ErrBadCSR, err)
	}
	values, err := parseValues(lines[2])
	if err != nil {
		return nil, fmt.Errorf("%w: values: %v", ErrBadCSR, err)
	}

	maxCol := 0
	for _, c := range colIndices {
		if c+1 > maxCol {
			maxCol = c + 1
		}
	}
	if nCols == 0 {
		nCols = maxCol
	} else if maxCol > nCols {
		return nil, fmt.Errorf("%w: column %d exceeds %d features", ErrBadCSR, maxCol, nCols)
	}
	return NewCSRTable(nCols, rowOffsets, colIndices, values)
}

// parseIndices converts one-based indices to zero-based.
func parseIndices(line string) ([]int, error) {
	fields := splitFields(line)
	out := make([]int, len(fields))
	for i, field := range fields {
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, err
		}
		if v < 1 {
			return nil, fmt.Errorf("index %d at position %d is not one-based", v, i)
		}
		out[i] = v - 1
	}
	return out, nil
}

func parseValues(line string) ([]float64, error) {
	fields := splitFields(line)
	out := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func splitFields(line string) []string {
	parts := strings.Split(line, ",")
	fields := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			fields = append(fields, p)
		}
	}
	return fields
}
