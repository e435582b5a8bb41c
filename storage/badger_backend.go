package storage

import (
	"errors"

	"github.com/dgraph-io/badger/v2"
	"go.uber.org/zap"
)

// OpenBadger opens a badger database at path, or an in-memory one when path
// is empty. Badger's own log lines go to logger.
func OpenBadger(path string, logger *zap.Logger) (*badger.DB, error) {
	var options badger.Options
	if path == "" {
		options = badger.DefaultOptions("").WithInMemory(true)
	} else {
		options = badger.DefaultOptions(path).WithTruncate(true)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	options = options.WithLogger(&badgerLogger{logger.Sugar().Named("badger")})
	return badger.Open(options)
}

// TestBadgerDB opens an in-memory database and panics on failure.
func TestBadgerDB() *badger.DB {
	db, err := OpenBadger("", nil)
	if err != nil {
		panic(err)
	}
	return db
}

type badgerLogger struct {
	*zap.SugaredLogger
}

var _ badger.Logger = (*badgerLogger)(nil)

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}

type BadgerBackend struct {
	db *badger.DB
}

var _ Backend = (*BadgerBackend)(nil)

func NewBadgerBackend(db *badger.DB) *BadgerBackend {
	return &BadgerBackend{db: db}
}

func (backend *BadgerBackend) Close() error {
	return backend.db.Close()
}

func (backend *BadgerBackend) txnGet(key []byte) ([]byte, error) {
	var value []byte
	err := backend.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return value, err
}

func (backend *BadgerBackend) txnPut(key, buf []byte) error {
	return backend.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, buf)
	})
}

func (backend *BadgerBackend) txnDelete(key []byte) error {
	return backend.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (backend *BadgerBackend) Get(jobID, nodeID int64) ([]byte, error) {
	return backend.txnGet(GetKey(jobID, nodeID))
}

func (backend *BadgerBackend) Put(jobID, nodeID int64, buf []byte) error {
	return backend.txnPut(GetKey(jobID, nodeID), buf)
}

func (backend *BadgerBackend) Delete(jobID, nodeID int64) error {
	return backend.txnDelete(GetKey(jobID, nodeID))
}

func (backend *BadgerBackend) IterateIndex(jobID int64, lambda func(int64) error) error {
	prefix := GetKeyPrefix(jobID)
	iterOpts := badger.DefaultIteratorOptions
	iterOpts.PrefetchValues = false
	iterOpts.Prefix = prefix
	return backend.db.View(func(txn *badger.Txn) error {
		iter := txn.NewIterator(iterOpts)
		defer iter.Close()

		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			key := iter.Item().Key()
			if len(key) != keyLen {
				continue
			}
			if err := lambda(GetNodeIDFromKey(key)); err != nil {
				return err
			}
		}
		return nil
	})
}
