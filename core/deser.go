package core

import (
	"fmt"

	capnp "zombiezen.com/go/capnproto2"
)

// Partial results travel between local steps and the master as a single
// Cap'n Proto struct:
//
//	data     @0 nFeatures :UInt64, @8 nObservations :UInt64
//	pointers  0 minimum, 1 maximum, 2 sum, 3 sumSquares, 4 mean,
//	          5 sumSquaresCentered, each a List(Float64)
var partialObjectSize = capnp.ObjectSize{DataSize: 16, PointerCount: 6}

const (
	nFeaturesOffset     capnp.DataOffset = 0
	nObservationsOffset capnp.DataOffset = 8
)

func partialLists(p *PartialResult) []*[]float64 {
	return []*[]float64{
		&p.Minimum,
		&p.Maximum,
		&p.Sum,
		&p.SumSquares,
		&p.Mean,
		&p.SumSquaresCentered,
	}
}

func PartialResultToBytes(p *PartialResult) ([]byte, error) {
	msg, seg, err := capnp.NewMessage(capnp.SingleSegment(nil))
	if err != nil {
		return nil, err
	}
	root, err := capnp.NewRootStruct(seg, partialObjectSize)
	if err != nil {
		return nil, err
	}

	root.SetUint64(nFeaturesOffset, uint64(p.NFeatures()))
	root.SetUint64(nObservationsOffset, p.NObservations)

	for i, values := range partialLists(p) {
		list, err := capnp.NewFloat64List(seg, int32(len(*values)))
		if err != nil {
			return nil, err
		}
		for j, v := range *values {
			list.Set(j, v)
		}
		if err := root.SetPtr(uint16(i), list.List.ToPtr()); err != nil {
			return nil, err
		}
	}

	return msg.Marshal()
}

func BytesToPartialResult(buf []byte) (*PartialResult, error) {
	msg, err := capnp.Unmarshal(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPartial, err)
	}
	rootPtr, err := msg.RootPtr()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPartial, err)
	}
	root := rootPtr.Struct()

	nFeatures := root.Uint64(nFeaturesOffset)
	p := &PartialResult{NObservations: root.Uint64(nObservationsOffset)}
	for i, values := range partialLists(p) {
		ptr, err := root.Ptr(uint16(i))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptPartial, err)
		}
		list := capnp.Float64List{List: ptr.List()}
		if uint64(list.Len()) != nFeatures {
			return nil, fmt.Errorf("%w: list %d has %d values, want %d",
				ErrCorruptPartial, i, list.Len(), nFeatures)
		}
		*values = make([]float64, list.Len())
		for j := range *values {
			(*values)[j] = list.At(j)
		}
	}
	return p, nil
}
