package core

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const DefaultBufferSize = 1024

// Stream feeds an Accumulator one row at a time, cutting the rows into
// blocks of bufferSize. Like the Accumulator it is single threaded.
type Stream struct {
	bufferSize  int64
	numElements int64
	buffer      *IngestBuffer
	acc         *Accumulator
	logger      *zap.Logger
}

func NewStream(bufferSize int64) *Stream {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Stream{
		bufferSize:  bufferSize,
		numElements: 0,
		buffer:      nil,
		acc:         NewAccumulator(),
		logger:      zap.NewNop(),
	}
}

func (stream *Stream) SetLogger(logger *zap.Logger) *Stream {
	if logger == nil {
		logger = zap.NewNop()
	}
	stream.logger = logger
	stream.acc.SetLogger(logger)
	return stream
}

// Append buffers row, ingesting a block whenever the buffer fills up. The
// first row fixes the feature count.
func (stream *Stream) Append(row []float64) error {
	if len(row) == 0 {
		return ErrEmptyBlock
	}
	width := stream.acc.NFeatures()
	if stream.buffer != nil {
		width = stream.buffer.Width()
	}
	if width != 0 && len(row) != width {
		return fmt.Errorf("%w: have %d features, row has %d", ErrDimensionMismatch, width, len(row))
	}
	if stream.buffer == nil {
		stream.buffer = NewIngestBuffer(stream.bufferSize, len(row))
	}

	stream.buffer.Append(row)
	stream.numElements++
	if stream.buffer.IsFull() {
		return stream.Flush()
	}
	return nil
}

// Flush ingests any buffered rows as one block.
func (stream *Stream) Flush() error {
	if stream.buffer == nil || stream.buffer.IsEmpty() {
		return nil
	}
	block, err := stream.buffer.Table()
	if err != nil {
		return err
	}
	if err := stream.acc.Ingest(block); err != nil {
		return err
	}
	stream.buffer.Clear()
	return nil
}

// Finalize flushes and then finalizes the underlying accumulator.
func (stream *Stream) Finalize() (*Result, error) {
	if err := stream.Flush(); err != nil {
		return nil, err
	}
	result, err := stream.acc.Finalize()
	if errors.Is(err, ErrInsufficientSamples) {
		stream.logger.Debug("finalize with too few rows", zap.Int64("rows", stream.numElements))
	}
	return result, err
}

func (stream *Stream) NumElements() int64 {
	return stream.numElements
}

// Accumulator exposes the accumulator behind the stream, e.g. to export its
// partial result.
func (stream *Stream) Accumulator() *Accumulator {
	return stream.acc
}
