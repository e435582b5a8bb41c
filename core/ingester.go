package core

import (
	"momentsdb/table"
)

// IngestBuffer collects rows of a fixed width until it holds Capacity rows.
type IngestBuffer struct {
	Capacity int64
	Size     int64
	width    int
	values   []float64
}

// maxPrealloc bounds the values reserved up front; larger buffers grow on
// Append.
const maxPrealloc = 1 << 20

func NewIngestBuffer(capacity int64, width int) *IngestBuffer {
	prealloc := int64(maxPrealloc)
	if capacity >= 0 && width >= 0 && capacity <= prealloc/int64(max(width, 1)) {
		prealloc = capacity * int64(width)
	}
	return &IngestBuffer{
		Capacity: capacity,
		Size:     0,
		width:    width,
		values:   make([]float64, 0, prealloc),
	}
}

// Append copies row into the buffer. It returns false when the buffer is
// full; the caller checks the row width.
func (ib *IngestBuffer) Append(row []float64) bool {
	if ib.IsFull() {
		return false
	}
	ib.values = append(ib.values, row...)
	ib.Size += 1
	return true
}

func (ib *IngestBuffer) IsFull() bool {
	return ib.Size >= ib.Capacity
}

func (ib *IngestBuffer) IsEmpty() bool {
	return ib.Size == 0
}

func (ib *IngestBuffer) Width() int {
	return ib.width
}

// Table copies the buffered rows into a dense table.
func (ib *IngestBuffer) Table() (*table.DenseTable, error) {
	return table.NewDenseTable(int(ib.Size), ib.width, ib.values)
}

func (ib *IngestBuffer) Clear() {
	ib.Size = 0
	ib.values = ib.values[:0]
}
