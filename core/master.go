package core

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Master is the combining step of a distributed computation: local steps
// hand it their partial results, keyed by node ID, and it merges them in
// node order and finalizes. Put and PutBytes are safe for concurrent use.
type Master struct {
	jobID  int64
	store  *BackingStore
	mu     sync.Mutex
	logger *zap.Logger
}

func NewMaster(jobID int64, store *BackingStore) *Master {
	return &Master{
		jobID:  jobID,
		store:  store,
		mu:     sync.Mutex{},
		logger: zap.NewNop(),
	}
}

func (m *Master) SetLogger(logger *zap.Logger) *Master {
	if logger == nil {
		logger = zap.NewNop()
	}
	m.logger = logger
	return m
}

func (m *Master) JobID() int64 {
	return m.jobID
}

// Put registers the partial result of one node, replacing any earlier one.
func (m *Master) Put(nodeID int64, p *PartialResult) error {
	if p == nil {
		return fmt.Errorf("node %d: %w", nodeID, ErrEmptyInput)
	}
	if err := p.validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Put(m.jobID, nodeID, p)
}

// PutBytes registers a serialized partial result, as produced by
// PartialResultToBytes on a local node.
func (m *Master) PutBytes(nodeID int64, buf []byte) error {
	p, err := BytesToPartialResult(buf)
	if err != nil {
		return fmt.Errorf("node %d: %w", nodeID, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.PutBytes(m.jobID, nodeID, buf, p)
}

// Partial merges every registered partial result in ascending node order.
func (m *Master) Partial(ctx context.Context) (*PartialResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	nodeIDs, err := m.store.NodeIDs(m.jobID)
	if err != nil {
		return nil, err
	}
	if len(nodeIDs) == 0 {
		return nil, ErrEmptyInput
	}

	var merged *PartialResult
	for _, nodeID := range nodeIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := m.store.Get(m.jobID, nodeID)
		if err != nil {
			return nil, err
		}
		if merged == nil {
			merged = p
			continue
		}
		if err := merged.Merge(p); err != nil {
			return nil, fmt.Errorf("node %d: %w", nodeID, err)
		}
	}

	m.logger.Debug("merged partial results",
		zap.Int64("job", m.jobID),
		zap.Int("nodes", len(nodeIDs)),
		zap.Uint64("observations", merged.NObservations))
	return merged, nil
}

// Finalize merges all registered partial results and derives the
// statistics. Registered partials are kept, so more nodes may report later.
func (m *Master) Finalize(ctx context.Context) (*Result, error) {
	merged, err := m.Partial(ctx)
	if err != nil {
		return nil, err
	}
	return merged.Finalize()
}

// Clear removes every partial result of the job. All deletions are
// attempted; their errors are combined.
func (m *Master) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	nodeIDs, err := m.store.NodeIDs(m.jobID)
	if err != nil {
		return err
	}
	for _, nodeID := range nodeIDs {
		err = multierr.Append(err, m.store.Delete(m.jobID, nodeID))
	}
	return err
}
