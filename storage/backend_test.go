package storage

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetKey(t *testing.T) {
	a := int64(1<<32 - 1)

	key := GetKey(a, a-2)

	assert.Equal(t, a, GetJobIDFromKey(key))
	assert.Equal(t, a-2, GetNodeIDFromKey(key))
	assert.Equal(t, GetKeyPrefix(a), key[:keyPrefixLen])
}

func TestGetKeyNegative(t *testing.T) {
	key := GetKey(-7, -1)

	assert.Equal(t, int64(-7), GetJobIDFromKey(key))
	assert.Equal(t, int64(-1), GetNodeIDFromKey(key))
}

func testPutGetDelete(t *testing.T, backend Backend) {
	window := []byte{0, 1, 2, 3, 4, 5}
	require.NoError(t, backend.Put(12, 34, window))

	got, err := backend.Get(12, 34)
	require.NoError(t, err)
	assert.Equal(t, window, got)

	_, err = backend.Get(12, 35)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, backend.Delete(12, 34))
	_, err = backend.Get(12, 34)
	assert.ErrorIs(t, err, ErrNotFound)
}

func testIterateIndex(t *testing.T, backend Backend) {
	require.NoError(t, backend.Put(1, 1, nil))
	require.NoError(t, backend.Put(1, 2, nil))
	require.NoError(t, backend.Put(2, 3, nil))
	require.NoError(t, backend.Put(2, 4, nil))
	require.NoError(t, backend.Put(1, 300, []byte{1}))

	var index []int64
	lambda := func(nodeID int64) error {
		index = append(index, nodeID)
		return nil
	}

	index = nil
	require.NoError(t, backend.IterateIndex(1, lambda))
	sort.Slice(index, func(i, j int) bool { return index[i] < index[j] })
	assert.Equal(t, []int64{1, 2, 300}, index)

	index = nil
	require.NoError(t, backend.IterateIndex(2, lambda))
	assert.ElementsMatch(t, []int64{3, 4}, index)

	index = nil
	require.NoError(t, backend.IterateIndex(3, lambda))
	assert.Empty(t, index)

	stop := errors.New("stop")
	calls := 0
	err := backend.IterateIndex(1, func(int64) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestInMemoryBackend(t *testing.T) {
	testPutGetDelete(t, NewInMemoryBackend())
	testIterateIndex(t, NewInMemoryBackend())
}

func TestInMemoryBackend_CopiesValues(t *testing.T) {
	backend := NewInMemoryBackend()
	buf := []byte{1, 2, 3}
	require.NoError(t, backend.Put(1, 1, buf))
	buf[0] = 9

	got, err := backend.Get(1, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestBadgerBackend(t *testing.T) {
	backend := NewBadgerBackend(TestBadgerDB())
	defer backend.Close()
	testPutGetDelete(t, backend)

	iterBackend := NewBadgerBackend(TestBadgerDB())
	defer iterBackend.Close()
	testIterateIndex(t, iterBackend)
}

func TestBadgerBackend_OnDisk(t *testing.T) {
	dir := t.TempDir()

	db, err := OpenBadger(dir, nil)
	require.NoError(t, err)
	backend := NewBadgerBackend(db)
	require.NoError(t, backend.Put(5, 6, []byte("partial")))
	require.NoError(t, backend.Close())

	db, err = OpenBadger(dir, nil)
	require.NoError(t, err)
	backend = NewBadgerBackend(db)
	defer backend.Close()

	got, err := backend.Get(5, 6)
	require.NoError(t, err)
	assert.Equal(t, []byte("partial"), got)
}
