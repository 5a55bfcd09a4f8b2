// Package storage persists served predictions using BoltDB. Records are keyed
// by timestamp so the most recent ones can be read back efficiently for the
// history panel and the history API.
package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"co2-predictor/internal/encoding"
)

const predictionsBucket = "predictions"

// Record is one served prediction: the raw inputs and the rounded result.
type Record struct {
	Ts              time.Time      `json:"ts"`
	Input           encoding.Input `json:"input"`
	EmissionsGPerKM float64        `json:"emissions_g_per_km"`
}

// Store provides persistent prediction history backed by BoltDB.
type Store struct {
	db *bbolt.DB
}

// New opens (or creates) the history database under dataPath.
func New(dataPath string) (*Store, error) {
	dbPath := filepath.Join(dataPath, "co2-history.db")

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(predictionsBucket)); err != nil {
			return fmt.Errorf("create predictions bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Append stores one prediction record. Keys are zero-padded nanosecond
// timestamps so lexicographic bucket order matches time order.
func (s *Store) Append(rec Record) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(predictionsBucket))

		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}

		key := fmt.Sprintf("%020d", rec.Ts.UnixNano())
		return b.Put([]byte(key), data)
	})
}

// Recent returns up to n of the most recent records, newest first. Malformed
// records are skipped.
func (s *Store) Recent(n int) ([]Record, error) {
	if n <= 0 {
		return nil, nil
	}

	var records []Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(predictionsBucket)).Cursor()
		for k, v := c.Last(); k != nil && len(records) < n; k, v = c.Prev() {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				continue
			}
			records = append(records, rec)
		}
		return nil
	})
	return records, err
}
