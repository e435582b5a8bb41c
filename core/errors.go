package core

import "errors"

var (
	// ErrDimensionMismatch is returned when a block or partial result has a
	// feature count other than the one fixed by the first ingested block.
	ErrDimensionMismatch = errors.New("core: feature count mismatch")

	// ErrEmptyInput is returned when finalizing before any data was ingested.
	ErrEmptyInput = errors.New("core: no data ingested")

	// ErrInsufficientSamples is returned when finalizing with fewer than two
	// observations; variance is undefined there.
	ErrInsufficientSamples = errors.New("core: fewer than two observations")

	// ErrEmptyBlock is returned for a block without rows or columns.
	ErrEmptyBlock = errors.New("core: empty block")

	// ErrUnknownResult is returned for an unrecognised result name.
	ErrUnknownResult = errors.New("core: unknown result")

	// ErrCorruptPartial is returned when a serialized partial result cannot
	// be decoded into a consistent state.
	ErrCorruptPartial = errors.New("core: corrupt partial result")
)
