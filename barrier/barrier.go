// Package barrier implements the one-shot completion barrier that every
// agency connection synchronizes on: once all expected agencies have
// announced END_BETTING, the draw runs exactly once and every blocked
// REQUEST_WINNERS unblocks with the same winners list.
package barrier

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/noahmasri/tp0-distribuidos/bet"
	"github.com/noahmasri/tp0-distribuidos/store"
)

// Scanner is the subset of *store.BetStore the barrier needs to run the
// draw; narrowed to ease testing with a fake store.
type Scanner interface {
	Scan() (*store.Iterator, error)
}

// Barrier tracks which agencies have finished and memoises the winners
// list. Safe for concurrent use from any number of goroutines.
type Barrier struct {
	mu       sync.Mutex
	cond     *sync.Cond
	finished map[byte]struct{}
	expected int
	winners  []bet.Bet // nil until done
	done     bool
	stopped  bool // shutdown requested while waiters were blocked

	store        Scanner
	winnerNumber uint16
	log          zerolog.Logger
}

// New returns a Barrier that expects `expected` distinct agencies and,
// once they have all finished, runs the draw over st filtering on
// winnerNumber.
func New(expected int, st Scanner, winnerNumber uint16, log zerolog.Logger) *Barrier {
	b := &Barrier{
		finished:     make(map[byte]struct{}, expected),
		expected:     expected,
		store:        st,
		winnerNumber: winnerNumber,
		log:          log,
	}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// MarkDone records agency as finished. Idempotent: a repeat call for the
// same agency is a no-op. If this call is the one that completes the
// expected set, it runs the draw and wakes every waiter exactly once.
func (b *Barrier) MarkDone(agency byte) error {
	b.mu.Lock()
	if _, ok := b.finished[agency]; ok {
		b.mu.Unlock()
		return nil
	}
	b.finished[agency] = struct{}{}
	flip := len(b.finished) == b.expected
	b.mu.Unlock()

	if !flip {
		return nil
	}
	return b.draw()
}

// draw scans the store exactly once, computes the winners list, and
// broadcasts it to every blocked WaitAndGet call. Called at most once
// per process lifetime.
func (b *Barrier) draw() error {
	var winners []bet.Bet
	it, err := b.store.Scan()
	if err != nil {
		return err
	}
	for {
		bt, ok, nerr := it.Next()
		if nerr != nil {
			return nerr
		}
		if !ok {
			break
		}
		if bt.Won(b.winnerNumber) {
			winners = append(winners, bt)
		}
	}

	b.mu.Lock()
	b.winners = winners
	b.done = true
	b.mu.Unlock()
	b.log.Info().Str("action", "sorteo").Str("result", "success").Msg("")
	b.cond.Broadcast()
	return nil
}

// IsOpen reports whether agency may still submit bets: it has not
// announced END_BETTING and the draw has not run yet.
func (b *Barrier) IsOpen(agency byte) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done {
		return false
	}
	_, finished := b.finished[agency]
	return !finished
}

// WaitAndGet blocks until the draw has run, then returns the winners
// belonging to agency. Returns ErrStopped if shutdown was requested
// before the draw ran.
func (b *Barrier) WaitAndGet(agency byte) ([]bet.Bet, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for !b.done && !b.stopped {
		b.cond.Wait()
	}
	if !b.done {
		return nil, ErrStopped
	}

	var mine []bet.Bet
	for _, w := range b.winners {
		if w.Agency == agency {
			mine = append(mine, w)
		}
	}
	return mine, nil
}

// Stop releases every blocked WaitAndGet call without running the draw,
// used by the shutdown controller: a condition variable, unlike a
// socket, is not unblocked by closing a file descriptor.
func (b *Barrier) Stop() {
	b.mu.Lock()
	b.stopped = true
	b.mu.Unlock()
	b.cond.Broadcast()
}
