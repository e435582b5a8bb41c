package storage

import (
	"encoding/binary"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get for a key that was never put or was deleted.
var ErrNotFound = errors.New("storage: key not found")

const (
	keyPrefixLen = 8
	keyLen       = 16
)

// GetKeyPrefix returns the prefix shared by every key of a job.
func GetKeyPrefix(jobID int64) []byte {
	buf := make([]byte, keyPrefixLen)
	binary.LittleEndian.PutUint64(buf, uint64(jobID))
	return buf
}

// GetKey lays out <8 bytes job ID> <8 bytes node ID>.
func GetKey(jobID, nodeID int64) []byte {
	buf := make([]byte, keyLen)
	binary.LittleEndian.PutUint64(buf[:keyPrefixLen], uint64(jobID))
	binary.LittleEndian.PutUint64(buf[keyPrefixLen:], uint64(nodeID))
	return buf
}

func GetJobIDFromKey(buf []byte) int64 {
	return int64(binary.LittleEndian.Uint64(buf[:keyPrefixLen]))
}

func GetNodeIDFromKey(buf []byte) int64 {
	return int64(binary.LittleEndian.Uint64(buf[keyPrefixLen:]))
}

// Backend stores serialized partial results, one per (job, node).
type Backend interface {
	Get(jobID, nodeID int64) ([]byte, error)
	Put(jobID, nodeID int64, buf []byte) error
	Delete(jobID, nodeID int64) error

	// IterateIndex calls lambda with every node ID stored for jobID, in no
	// particular order, stopping at the first error.
	IterateIndex(jobID int64, lambda func(int64) error) error

	Close() error
}

type InMemoryBackend struct {
	partials map[string][]byte
	mu       sync.Mutex
}

var _ Backend = (*InMemoryBackend)(nil)

func NewInMemoryBackend() *InMemoryBackend {
	return &InMemoryBackend{
		partials: make(map[string][]byte),
	}
}

func (backend *InMemoryBackend) Get(jobID, nodeID int64) ([]byte, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	buf, ok := backend.partials[string(GetKey(jobID, nodeID))]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), buf...), nil
}

func (backend *InMemoryBackend) Put(jobID, nodeID int64, buf []byte) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.partials[string(GetKey(jobID, nodeID))] = append([]byte(nil), buf...)
	return nil
}

func (backend *InMemoryBackend) Delete(jobID, nodeID int64) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	delete(backend.partials, string(GetKey(jobID, nodeID)))
	return nil
}

func (backend *InMemoryBackend) IterateIndex(jobID int64, lambda func(int64) error) error {
	backend.mu.Lock()
	var nodeIDs []int64
	for k := range backend.partials {
		buf := []byte(k)
		if GetJobIDFromKey(buf) != jobID {
			continue
		}
		nodeIDs = append(nodeIDs, GetNodeIDFromKey(buf))
	}
	backend.mu.Unlock()

	for _, id := range nodeIDs {
		if err := lambda(id); err != nil {
			return err
		}
	}
	return nil
}

func (backend *InMemoryBackend) Close() error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.partials = make(map[string][]byte)
	return nil
}
