package store

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"docpress/internal/domain"
)

var bucketManifest = []byte("manifest")

// ManifestStore records content fingerprints of governance documents in a
// bolt database, keyed by root-relative path.
type ManifestStore struct {
	db *bbolt.DB
}

func NewManifestStore(path string) (*ManifestStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketManifest)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create manifest bucket: %w", err)
	}

	return &ManifestStore{db: db}, nil
}

func (s *ManifestStore) Close() error {
	return s.db.Close()
}

// Get returns the record for a path, or ok=false when none is recorded.
func (s *ManifestStore) Get(path string) (domain.ManifestRecord, bool, error) {
	var rec domain.ManifestRecord
	found := false

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketManifest).Get([]byte(path))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("failed to decode record for %s: %w", path, err)
		}
		found = true
		return nil
	})
	return rec, found, err
}

// List returns all recorded entries keyed by path.
func (s *ManifestStore) List() (map[string]domain.ManifestRecord, error) {
	records := make(map[string]domain.ManifestRecord)

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketManifest).ForEach(func(k, v []byte) error {
			var rec domain.ManifestRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("failed to decode record for %s: %w", k, err)
			}
			records[string(k)] = rec
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Put stores or overwrites the record for a path.
func (s *ManifestStore) Put(path string, rec domain.ManifestRecord) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode record for %s: %w", path, err)
		}
		return tx.Bucket(bucketManifest).Put([]byte(path), data)
	})
}

// Replace drops every recorded entry and writes the given set in one
// transaction, so a partial update never masks deleted documents.
func (s *ManifestStore) Replace(records map[string]domain.ManifestRecord) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketManifest); err != nil {
			return fmt.Errorf("failed to reset manifest bucket: %w", err)
		}
		bucket, err := tx.CreateBucket(bucketManifest)
		if err != nil {
			return fmt.Errorf("failed to recreate manifest bucket: %w", err)
		}
		for path, rec := range records {
			data, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("failed to encode record for %s: %w", path, err)
			}
			if err := bucket.Put([]byte(path), data); err != nil {
				return err
			}
		}
		return nil
	})
}
