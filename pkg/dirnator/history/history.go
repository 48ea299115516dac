// Package history keeps a local record of completed dirnator runs in a
// badger database. History is informational: scans never read it.
package history

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/jamesainslie/dirnator/pkg/dirnator/diskprobe"
	"github.com/jamesainslie/dirnator/pkg/dirnator/stats"
	"github.com/jamesainslie/dirnator/pkg/dirnator/types"
)

// ErrNotFound is returned when no record matches an ID.
var ErrNotFound = errors.New("history record not found")

// ErrAmbiguous is returned when an ID prefix matches more than one record.
var ErrAmbiguous = errors.New("history id prefix is ambiguous")

// recordPrefix namespaces run records in the database.
var recordPrefix = []byte("run\x00")

// Record is one completed run.
type Record struct {
	// ID is a time-ordered UUID (version 7), so key order is run order.
	ID uuid.UUID

	Time     time.Time
	Mode     string
	Root     string
	Hardware types.Hardware

	// Stats holds the summaries the run reported, in report order.
	Stats []stats.Summary

	// Disk is set for disk runs.
	Disk *diskprobe.Result

	// Reports lists the files the run wrote.
	Reports []string
}

// NewRecord returns a record with a fresh ID stamped with the current time.
func NewRecord(mode types.Mode, root string, hw types.Hardware) (*Record, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating record id: %w", err)
	}
	return &Record{
		ID:       id,
		Time:     time.Now(),
		Mode:     mode.String(),
		Root:     root,
		Hardware: hw,
	}, nil
}

// Encode serializes the record using gob.
func (r *Record) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode deserializes bytes into the record using gob.
func (r *Record) Decode(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(r)
}

func recordKey(id uuid.UUID) []byte {
	key := make([]byte, 0, len(recordPrefix)+len(id))
	key = append(key, recordPrefix...)
	return append(key, id[:]...)
}

// DefaultPath returns $XDG_DATA_HOME/dirnator/history.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, "dirnator", "history")
}

// Store wraps Badger for history operations.
type Store struct {
	db *badger.DB
}

// Open opens or creates a history store at the given path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable badger logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening history at %s: %w", path, err)
	}

	return &Store{db: db}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores a record, replacing any record with the same ID.
func (s *Store) Put(r *Record) error {
	value, err := r.Encode()
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(r.ID), value)
	})
}

// Get retrieves a record by its full ID.
func (s *Store) Get(id uuid.UUID) (*Record, error) {
	var rec Record

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(rec.Decode)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Find resolves a full ID or a unique prefix of its string form.
func (s *Store) Find(idOrPrefix string) (*Record, error) {
	idOrPrefix = strings.ToLower(strings.TrimSpace(idOrPrefix))
	if id, err := uuid.Parse(idOrPrefix); err == nil {
		return s.Get(id)
	}
	if idOrPrefix == "" {
		return nil, ErrNotFound
	}

	var matches []*Record
	err := s.each(false, func(r *Record) bool {
		if strings.HasPrefix(r.ID.String(), idOrPrefix) {
			matches = append(matches, r)
		}
		return len(matches) < 2
	})
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguous, idOrPrefix)
	}
}

// List returns up to limit records, newest first. A limit below 1 returns
// every record.
func (s *Store) List(limit int) ([]*Record, error) {
	var records []*Record
	err := s.each(true, func(r *Record) bool {
		records = append(records, r)
		return limit < 1 || len(records) < limit
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Delete removes a record.
func (s *Store) Delete(id uuid.UUID) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(recordKey(id))
	})
}

// Clear removes every record.
func (s *Store) Clear() error {
	return s.db.DropPrefix(recordPrefix)
}

// each decodes records in key order (or reverse) until fn returns false.
func (s *Store) each(reverse bool, fn func(*Record) bool) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = reverse
		opts.Prefix = recordPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		start := recordPrefix
		if reverse {
			start = append(append([]byte{}, recordPrefix...), bytes.Repeat([]byte{0xFF}, 17)...)
		}

		for it.Seek(start); it.ValidForPrefix(recordPrefix); it.Next() {
			var rec Record
			if err := it.Item().Value(rec.Decode); err != nil {
				return fmt.Errorf("decoding record: %w", err)
			}
			if !fn(&rec) {
				return nil
			}
		}
		return nil
	})
}
