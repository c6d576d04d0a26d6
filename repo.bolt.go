package main

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

type boltEventArchive struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
}

// GetBoltDBClient setup the database and the bucket then provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.BoltDB.FilePath, 0o600, &bolt.Options{Timeout: config.BoltDB.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BoltDB.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BoltDB.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltEventArchive provides an instance of bolt-based events archive.
func NewBoltEventArchive(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB) EventArchive {
	return &boltEventArchive{
		logger: logger,
		client: client,
		config: boltConfig,
	}
}

// Close shuts down the bolt-based events archive.
func (ba *boltEventArchive) Close() error {
	return ba.client.Close()
}

// Append persists an event into the archive bucket. The key is the bucket
// auto-incremented sequence so a cursor walk gives back the append order.
func (ba *boltEventArchive) Append(_ context.Context, event Event) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return ba.client.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ba.config.BucketName))
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return bucket.Put(key, eventBytes)
	})
}

// List retrieves all archived events in append order.
func (ba *boltEventArchive) List(_ context.Context) ([]Event, error) {
	tx, err := ba.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Create a cursor on the events' bucket.
	c := tx.Bucket([]byte(ba.config.BucketName)).Cursor()

	events := []Event{}
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var event Event
		if err = json.Unmarshal(v, &event); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}
