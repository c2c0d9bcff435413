// Package history persists finished summaries in a local BoltDB file.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"digestly/model"
)

var bucketName = []byte("summaries")

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = fmt.Errorf("history: record not found")

type Store struct {
	DBPath string
	db     *bolt.DB
	mu     sync.RWMutex
}

// Init opens the BoltDB database, creating the file and bucket if needed.
func (s *Store) Init() error {
	dbDir := filepath.Dir(s.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory for BoltDB: %w", err)
	}

	db, err := bolt.Open(s.DBPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to open BoltDB: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	s.db = db
	return nil
}

// Add stores a finished summary and returns its assigned id. Error results
// and blank summaries are dropped silently; they carry nothing worth
// reopening later.
func (s *Store) Add(result *model.SummaryResult) (string, error) {
	if result == nil || result.IsError || result.Summary == "" {
		return "", nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := *result
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedOn.IsZero() {
		record.CreatedOn = time.Now()
	}

	data, err := json.Marshal(&record)
	if err != nil {
		return "", fmt.Errorf("failed to encode summary: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(record.ID), data)
	})
	if err != nil {
		return "", fmt.Errorf("failed to store summary: %w", err)
	}
	return record.ID, nil
}

// List returns all stored summaries, newest first.
func (s *Store) List() ([]model.SummaryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []model.SummaryResult
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).ForEach(func(_, v []byte) error {
			var record model.SummaryResult
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("failed to decode summary: %w", err)
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedOn.After(records[j].CreatedOn)
	})
	return records, nil
}

// Get returns one stored summary by id.
func (s *Store) Get(id string) (*model.SummaryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var record model.SummaryResult
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &record)
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Delete removes one stored summary by id. Deleting a missing id is not an
// error.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(id))
	})
}

// Clear removes all stored summaries.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketName); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketName)
		return err
	})
}

// Close closes the BoltDB database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
