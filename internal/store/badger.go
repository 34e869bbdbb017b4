package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
)

var latestKey = []byte("player:latest")

// BadgerStore persists the latest pushed record in an embedded BadgerDB,
// using its native entry TTL for the 15-minute expiry.
type BadgerStore struct {
	db *badger.DB
}

func OpenBadger(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Get(_ context.Context) (Latest, error) {
	var rec Latest
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(latestKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return Latest{}, err
	}
	return rec, nil
}

func (s *BadgerStore) Set(_ context.Context, rec Latest, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(latestKey, data).WithTTL(ttl)
		return txn.SetEntry(e)
	})
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
