// Package store provides append-only persistence for bets, backed by a
// single CSV file, plus a full-scan iterator for the draw.
package store

import (
	"encoding/csv"
	"os"
	"strconv"
	"sync"

	"github.com/noahmasri/tp0-distribuidos/bet"
)

// BetStore is an append-only sequence of Bets persisted to path.
// Safe for concurrent use: Append and Scan serialize on the same mutex,
// so a scan never observes a half-written batch.
type BetStore struct {
	mu   sync.Mutex
	path string
	f    *os.File
}

// Open opens (creating if needed) the CSV file at path for appending.
func Open(path string) (*BetStore, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &BetStore{path: path, f: f}, nil
}

// Close closes the underlying append handle.
func (s *BetStore) Close() error {
	return s.f.Close()
}

// Append persists batch atomically with respect to other Append and Scan
// calls: the whole batch is written before the lock is released, and it
// is flushed to the OS before Append returns.
func (s *BetStore) Append(batch []bet.Bet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := csv.NewWriter(s.f)
	for _, b := range batch {
		if err := w.Write(record(b)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return s.f.Sync()
}

func record(b bet.Bet) []string {
	return []string{
		strconv.Itoa(int(b.Agency)),
		b.FirstName,
		b.LastName,
		strconv.FormatUint(uint64(b.Document), 10),
		b.Birthdate,
		strconv.Itoa(int(b.Number)),
	}
}
