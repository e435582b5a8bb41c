package table

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDenseTable(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}
	dense, err := NewDenseTable(2, 3, data)
	require.NoError(t, err)

	data[0] = 100
	assert.Equal(t, 2, dense.NumRows())
	assert.Equal(t, 3, dense.NumCols())
	assert.Equal(t, 1.0, dense.At(0, 0))
	assert.Equal(t, []float64{4, 5, 6}, dense.RawRowView(1))

	_, err = NewDenseTable(2, 2, data)
	assert.ErrorIs(t, err, ErrBadShape)

	empty, err := NewDenseTable(0, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.NumRows())
	assert.Equal(t, 3, empty.NumCols())
}

func TestNewCSRTable(t *testing.T) {
	csr, err := NewCSRTable(4, []int{0, 2, 2, 3}, []int{0, 3, 1}, []float64{1.5, 2, -4})
	require.NoError(t, err)

	assert.Equal(t, 3, csr.NumRows())
	assert.Equal(t, 4, csr.NumCols())
	assert.Equal(t, 3, csr.NNZ())
	assert.Equal(t, 1.5, csr.At(0, 0))
	assert.Equal(t, 0.0, csr.At(0, 1))
	assert.Equal(t, 2.0, csr.At(0, 3))
	assert.Equal(t, 0.0, csr.At(1, 3))
	assert.Equal(t, -4.0, csr.At(2, 1))

	cols, values := csr.RowNonZeros(1)
	assert.Empty(t, cols)
	assert.Empty(t, values)
}

func TestNewCSRTable_Invalid(t *testing.T) {
	cases := map[string]struct {
		cols    int
		offsets []int
		indices []int
		values  []float64
	}{
		"offsets not starting at zero": {2, []int{1, 2}, []int{0}, []float64{1}},
		"offsets decreasing":           {2, []int{0, 2, 1, 2}, []int{0, 1}, []float64{1, 2}},
		"last offset mismatch":         {2, []int{0, 1}, []int{0, 1}, []float64{1, 2}},
		"index/value mismatch":         {2, []int{0, 2}, []int{0, 1}, []float64{1}},
		"column out of range":          {2, []int{0, 1}, []int{2}, []float64{1}},
		"duplicate column":             {2, []int{0, 2}, []int{1, 1}, []float64{1, 2}},
		"unsorted columns":             {2, []int{0, 2}, []int{1, 0}, []float64{1, 2}},
		"offset past values":           {4, []int{0, 5, 3}, []int{0, 1, 2}, []float64{1, 2, 3}},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewCSRTable(c.cols, c.offsets, c.indices, c.values)
			assert.ErrorIs(t, err, ErrBadCSR)
		})
	}
}

func TestReadCSR_OffsetPastValues(t *testing.T) {
	var err error
	assert.NotPanics(t, func() {
		_, err = ReadCSR(strings.NewReader("1,6,4\n1,2,3\n1.0,2.0,3.0\n"), 0)
	})
	assert.ErrorIs(t, err, ErrBadCSR)
}

func TestReadDenseCSV(t *testing.T) {
	in := "# header comment\n1, 2, 3\n\n4,5,6,\n"
	dense, err := ReadDenseCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 2, dense.NumRows())
	assert.Equal(t, 3, dense.NumCols())
	assert.Equal(t, 6.0, dense.At(1, 2))

	_, err = ReadDenseCSV(strings.NewReader("1,2\n3\n"))
	assert.ErrorIs(t, err, ErrRaggedRow)

	_, err = ReadDenseCSV(strings.NewReader("1,x\n"))
	assert.Error(t, err)
}

func TestReadCSR(t *testing.T) {
	in := "1,3,4,6\n1,3,2,1,4\n1.5,2,4,-1,3\n"
	csr, err := ReadCSR(strings.NewReader(in), 0)
	require.NoError(t, err)
	assert.Equal(t, 3, csr.NumRows())
	assert.Equal(t, 4, csr.NumCols())
	assert.Equal(t, 1.5, csr.At(0, 0))
	assert.Equal(t, 2.0, csr.At(0, 2))
	assert.Equal(t, 4.0, csr.At(1, 1))
	assert.Equal(t, 3.0, csr.At(2, 3))

	wide, err := ReadCSR(strings.NewReader(in), 6)
	require.NoError(t, err)
	assert.Equal(t, 6, wide.NumCols())

	_, err = ReadCSR(strings.NewReader(in), 3)
	assert.ErrorIs(t, err, ErrBadCSR)

	_, err = ReadCSR(strings.NewReader("1,2\n1\n"), 0)
	assert.ErrorIs(t, err, ErrBadCSR)

	_, err = ReadCSR(strings.NewReader("0,1\n1\n2\n"), 0)
	assert.ErrorIs(t, err, ErrBadCSR)
}

func TestLoadFile(t *testing.T) {
	csr, err := LoadFile(filepath.Join("testdata", "block_csr_2.csv"), FormatCSR, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, csr.NumRows())
	assert.Equal(t, 5.0, csr.At(0, 3))

	dense, err := LoadFile(filepath.Join("testdata", "dense.csv"), FormatDense, 0)
	require.NoError(t, err)
	assert.Equal(t, 12, dense.NumRows())
	assert.Equal(t, 4, dense.NumCols())

	// Every CSR block matches its slice of the dense file.
	row := 0
	for _, name := range []string{"block_csr_1.csv", "block_csr_2.csv", "block_csr_3.csv", "block_csr_4.csv"} {
		block, err := LoadFile(filepath.Join("testdata", name), FormatCSR, 4)
		require.NoError(t, err)
		for i := 0; i < block.NumRows(); i++ {
			for j := 0; j < 4; j++ {
				assert.Equal(t, dense.At(row, j), block.At(i, j), "row %d col %d", row, j)
			}
			row++
		}
	}
	assert.Equal(t, 12, row)

	_, err = LoadFile(filepath.Join("testdata", "missing.csv"), FormatCSR, 0)
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join("testdata", "dense.csv"), Format("json"), 0)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" CSR ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSR, f)

	_, err = ParseFormat("parquet")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestPrint(t *testing.T) {
	dense, err := NewDenseTable(2, 3, []float64{1, 2.5, -3, 4, 5, 6})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, dense, "Mean:", 0, 0))
	assert.Equal(t,
		"Mean:\n"+
			"1.000     2.500     -3.000    \n"+
			"4.000     5.000     6.000     \n\n",
		buf.String())

	buf.Reset()
	require.NoError(t, Print(&buf, dense, "", 1, 2))
	assert.Equal(t, "1.000     2.500     \n\n", buf.String())
}
