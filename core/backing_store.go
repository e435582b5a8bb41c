package core

import (
	"encoding/binary"
	"fmt"
	"momentsdb/storage"
	"sort"
	"sync"

	"github.com/dgraph-io/ristretto"
)

// BackingStore keeps partial results in a storage.Backend and, optionally,
// decoded copies in a ristretto cache. Cached entries are cloned on the way
// in and out so that callers never share state with the cache.
//
// ristretto applies writes asynchronously, so cache keys carry a per-node
// generation that every Put and Delete bumps; an entry written for an older
// generation is never read again.
type BackingStore struct {
	backend      storage.Backend
	cacheEnabled bool
	partialCache *ristretto.Cache

	mu          sync.Mutex
	generations map[nodeKey]uint64
}

type nodeKey struct {
	jobID  int64
	nodeID int64
}

func NewBackingStore(backend storage.Backend, cacheEnabled bool) (*BackingStore, error) {
	store := &BackingStore{
		backend:      backend,
		cacheEnabled: cacheEnabled,
		generations:  make(map[nodeKey]uint64),
	}
	if cacheEnabled {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: 1e4,
			MaxCost:     1 << 26,
			BufferItems: 64,
		})
		if err != nil {
			return nil, err
		}
		store.partialCache = cache
	}
	return store, nil
}

// partialCost approximates the in-memory size of p in bytes.
func partialCost(p *PartialResult) int64 {
	return int64(6*8*p.NFeatures() + 8)
}

func (store *BackingStore) cacheKey(jobID, nodeID int64, bump bool) []byte {
	store.mu.Lock()
	defer store.mu.Unlock()
	k := nodeKey{jobID, nodeID}
	if bump {
		store.generations[k]++
	}
	var gen [8]byte
	binary.LittleEndian.PutUint64(gen[:], store.generations[k])
	return append(storage.GetKey(jobID, nodeID), gen[:]...)
}

func (store *BackingStore) Get(jobID, nodeID int64) (*PartialResult, error) {
	key := store.cacheKey(jobID, nodeID, false)
	if store.cacheEnabled {
		if cached, found := store.partialCache.Get(key); found {
			return cached.(*PartialResult).Clone(), nil
		}
	}
	buf, err := store.backend.Get(jobID, nodeID)
	if err != nil {
		return nil, fmt.Errorf("partial %d/%d: %w", jobID, nodeID, err)
	}
	p, err := BytesToPartialResult(buf)
	if err != nil {
		return nil, fmt.Errorf("partial %d/%d: %w", jobID, nodeID, err)
	}
	if store.cacheEnabled {
		store.partialCache.Set(key, p.Clone(), partialCost(p))
	}
	return p, nil
}

func (store *BackingStore) Put(jobID, nodeID int64, p *PartialResult) error {
	buf, err := PartialResultToBytes(p)
	if err != nil {
		return err
	}
	return store.PutBytes(jobID, nodeID, buf, p)
}

// PutBytes stores an already serialized partial result. decoded may be nil;
// when given it must be the decoded form of buf and is used for the cache.
func (store *BackingStore) PutBytes(jobID, nodeID int64, buf []byte, decoded *PartialResult) error {
	key := store.cacheKey(jobID, nodeID, true)
	if err := store.backend.Put(jobID, nodeID, buf); err != nil {
		return err
	}
	if store.cacheEnabled && decoded != nil {
		store.partialCache.Set(key, decoded.Clone(), partialCost(decoded))
	}
	return nil
}

func (store *BackingStore) Delete(jobID, nodeID int64) error {
	store.cacheKey(jobID, nodeID, true)
	return store.backend.Delete(jobID, nodeID)
}

// NodeIDs lists the nodes with a stored partial for jobID in ascending order.
func (store *BackingStore) NodeIDs(jobID int64) ([]int64, error) {
	var ids []int64
	err := store.backend.IterateIndex(jobID, func(nodeID int64) error {
		ids = append(ids, nodeID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (store *BackingStore) Close() error {
	if store.cacheEnabled {
		store.partialCache.Close()
	}
	return store.backend.Close()
}
