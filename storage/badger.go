package storage

import (
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/emberchain/ember/config"
	"github.com/emberchain/ember/logger"
)

type BadgerStore struct {
	custom  *config.Custom
	db      *badger.DB
	closing bool
}

func NewBadgerStore(custom *config.Custom, dir string) (*BadgerStore, error) {
	db, err := openDB(dir, true, custom)
	if err != nil {
		return nil, err
	}
	store := &BadgerStore{
		custom: custom,
		db:     db,
	}
	if custom != nil && custom.Storage.ValueLogGC {
		go store.runValueLogGC()
	}
	return store, nil
}

func (s *BadgerStore) Close() error {
	s.closing = true
	return s.db.Close()
}

func (s *BadgerStore) runValueLogGC() {
	for !s.closing {
		lsm, vlog := s.db.Size()
		logger.Debugf("Badger LSM %d VLOG %d\n", lsm, vlog)
		if lsm > 1024*1024*8 || vlog > 1024*1024*32 {
			err := s.db.RunValueLogGC(0.5)
			logger.Debugf("Badger RunValueLogGC %v\n", err)
		}
		time.Sleep(5 * time.Minute)
	}
}

func openDB(dir string, sync bool, custom *config.Custom) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir)
	opts = opts.WithSyncWrites(sync)
	opts = opts.WithCompression(options.None)
	opts = opts.WithBlockCacheSize(0)
	opts = opts.WithIndexCacheSize(0)
	opts = opts.WithMetricsEnabled(false)
	opts = opts.WithLoggingLevel(badger.WARNING)
	return badger.Open(opts)
}
