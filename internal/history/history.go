// Package history keeps past comparison reports in a local BadgerDB so runs can be listed and
// inspected later.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/Delete1994/PDF-Compare/internal/result"
)

const keyPrefix = "report:"

// ErrNotFound is returned by Get for an unknown report id.
var ErrNotFound = errors.New("report not found")

// Record is a stored run. Report holds the full JSON report and is only filled by Get.
type Record struct {
	ID        string          `json:"id"`
	Left      string          `json:"left"`
	Right     string          `json:"right"`
	Timestamp time.Time       `json:"timestamp"`
	Methods   []result.Method `json:"methods_used"`
	Summary   result.Summary  `json:"summary"`
	Report    json.RawMessage `json:"report,omitempty"`
}

// Store wraps BadgerDB for report history.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a history database at path.
func Open(path string) (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open history at %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Put records rep. Recording the same id twice overwrites the earlier entry.
func (s *Store) Put(rep *result.Report) error {
	body, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("failed to encode report %s: %w", rep.ID, err)
	}
	rec := Record{
		ID:        rep.ID,
		Left:      rep.Left,
		Right:     rep.Right,
		Timestamp: rep.Timestamp,
		Methods:   rep.Selected,
		Summary:   rep.Summary,
		Report:    body,
	}
	val, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record %s: %w", rep.ID, err)
	}
	val, err = compress(val)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+rep.ID), val)
	})
}

// Get returns the stored record for id, including the full report.
func (s *Store) Get(id string) (Record, error) {
	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return decode(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

// List returns every record, newest first, without the report bodies.
func (s *Store) List() ([]Record, error) {
	var out []Record
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var rec Record
			if err := it.Item().Value(func(val []byte) error {
				return decode(val, &rec)
			}); err != nil {
				return err
			}
			rec.Report = nil
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func decode(val []byte, rec *Record) error {
	raw, err := decompress(val)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, rec); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	return nil
}
