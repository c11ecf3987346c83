package store

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/noahmasri/tp0-distribuidos/bet"
)

// Iterator streams every Bet persisted before the Scan that produced it
// started. It holds the store lock for its entire lifetime, so an
// in-progress Append cannot interleave with a scan; callers must Close it
// promptly (a deferred Close right after Scan is the usual shape).
type Iterator struct {
	store  *BetStore
	f      *os.File
	r      *csv.Reader
	closed bool
}

// Scan opens a fresh read handle onto the store's file and returns an
// Iterator over every row written so far. Blocks out concurrent Append
// calls until the Iterator is closed.
func (s *BetStore) Scan() (*Iterator, error) {
	s.mu.Lock()
	f, err := os.Open(s.path)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = len(record(bet.Bet{}))
	return &Iterator{store: s, f: f, r: r}, nil
}

// Next returns the next persisted Bet, or ok=false once the scan is
// exhausted. Once ok is false (or err is non-nil) the Iterator has
// already closed itself.
func (it *Iterator) Next() (b bet.Bet, ok bool, err error) {
	row, rerr := it.r.Read()
	if rerr == io.EOF {
		return bet.Bet{}, false, it.Close()
	}
	if rerr != nil {
		it.Close()
		return bet.Bet{}, false, rerr
	}

	b, err = parseRow(row)
	if err != nil {
		it.Close()
		return bet.Bet{}, false, err
	}
	return b, true, nil
}

// Close releases the underlying file and the store lock. Safe to call
// more than once.
func (it *Iterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	err := it.f.Close()
	it.store.mu.Unlock()
	return err
}

func parseRow(row []string) (bet.Bet, error) {
	agency, err := strconv.ParseUint(row[0], 10, 8)
	if err != nil {
		return bet.Bet{}, err
	}
	document, err := strconv.ParseUint(row[3], 10, 32)
	if err != nil {
		return bet.Bet{}, err
	}
	number, err := strconv.ParseUint(row[5], 10, 16)
	if err != nil {
		return bet.Bet{}, err
	}
	return bet.Bet{
		Agency:    byte(agency),
		FirstName: row[1],
		LastName:  row[2],
		Document:  uint32(document),
		Birthdate: row[4],
		Number:    uint16(number),
	}, nil
}
