// Package lottery wires the Acceptor/Worker Pool and Shutdown Controller:
// it accepts TCP connections, dispatches each to a bounded pool of
// handler goroutines, and drains them cleanly on shutdown.
package lottery

import (
	"context"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/noahmasri/tp0-distribuidos/barrier"
	"github.com/noahmasri/tp0-distribuidos/config"
	"github.com/noahmasri/tp0-distribuidos/handler"
	"github.com/noahmasri/tp0-distribuidos/store"
)

// MaxWorkers bounds the number of connections served concurrently: five
// agencies are expected, so a small cap both bounds store contention and
// prevents a pathological client count from exhausting descriptors.
const MaxWorkers = 5

// maxConsecutiveAcceptErrs and acceptErrBackoff bound how long the
// acceptor tolerates a run of non-shutdown Accept failures (e.g. the
// process running out of file descriptors) before giving up and
// returning an error, per the "unrecoverable accept error" exit case.
const (
	maxConsecutiveAcceptErrs = 10
	acceptErrBackoff         = 50 * time.Millisecond
)

// Server accepts agency connections and serves them against a shared
// BetStore and Barrier.
type Server struct {
	log zerolog.Logger
	cfg config.Settings

	store   *store.BetStore
	barrier *barrier.Barrier

	listener net.Listener
	limiter  *rate.Limiter

	shouldStop atomic.Bool
	sem        chan struct{}
	wg         sync.WaitGroup
	conns      *xsync.MapOf[uint64, net.Conn]
	nextConn   atomic.Uint64

	ready chan struct{} // closed once Serve has bound the listener
}

// New opens the bet store and builds a Server ready to Serve.
func New(cfg config.Settings, log zerolog.Logger) (*Server, error) {
	st, err := store.Open(cfg.BetsFile)
	if err != nil {
		return nil, err
	}

	limit := rate.Inf
	if cfg.AcceptRate > 0 {
		limit = rate.Limit(cfg.AcceptRate)
	}

	return &Server{
		log:     log,
		cfg:     cfg,
		store:   st,
		barrier: barrier.New(cfg.ExpectedAgencies, st, cfg.WinnerNumber, log),
		limiter: rate.NewLimiter(limit, MaxWorkers),
		sem:     make(chan struct{}, MaxWorkers),
		conns:   xsync.NewMapOf[uint64, net.Conn](),
		ready:   make(chan struct{}),
	}, nil
}

// Addr blocks until the listener is bound and returns its address. Used
// by tests that ask for an ephemeral port (cfg.Port == 0).
func (s *Server) Addr() net.Addr {
	<-s.ready
	return s.listener.Addr()
}

// Serve listens on cfg.Port and accepts connections until ctx is
// cancelled, at which point it closes the listener, releases every
// blocked barrier waiter, closes in-flight sockets, and waits for all
// workers to drain before returning.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", net.JoinHostPort("", strconv.Itoa(s.cfg.Port)))
	if err != nil {
		return err
	}
	s.listener = ln
	close(s.ready)
	s.log.Info().
		Int("port", s.cfg.Port).
		Int("agencies", s.cfg.ExpectedAgencies).
		Int("listen_backlog", s.cfg.ListenBacklog).
		Msg("listening")

	go func() {
		<-ctx.Done()
		s.shutdown()
	}()

	var acceptErr error
	consecutiveErrs := 0
	for {
		if err := s.limiter.Wait(ctx); err != nil {
			break
		}

		conn, err := ln.Accept()
		if err != nil {
			if s.shouldStop.Load() {
				break // listener closed by shutdown(): expected, not an error
			}
			consecutiveErrs++
			s.log.Error().Err(err).Int("consecutive", consecutiveErrs).Msg("accept failed")
			if consecutiveErrs >= maxConsecutiveAcceptErrs {
				acceptErr = err
				break
			}
			time.Sleep(acceptErrBackoff)
			continue
		}
		consecutiveErrs = 0
		s.dispatch(conn)
	}

	s.wg.Wait()
	if err := s.store.Close(); err != nil && acceptErr == nil {
		acceptErr = err
	}
	return acceptErr
}

// dispatch hands conn to a worker, backpressuring the acceptor once
// MaxWorkers connections are already in flight.
func (s *Server) dispatch(conn net.Conn) {
	s.sem <- struct{}{}

	id := s.nextConn.Add(1)
	s.conns.Store(id, conn)
	s.wg.Add(1)

	go func() {
		defer func() {
			s.conns.Delete(id)
			<-s.sem
			s.wg.Done()
		}()

		clog := s.log.With().Uint64("conn", id).Str("remote", conn.RemoteAddr().String()).Logger()
		h := handler.New(conn, s.store, s.barrier, clog, s.shouldStop.Load)
		h.Serve()
	}()
}

// shutdown is the one-way latch at the heart of the Shutdown Controller:
// it stops the accept loop, wakes any barrier waiter, and closes every
// in-flight socket so blocked reads/writes fail and handlers exit.
func (s *Server) shutdown() {
	if !s.shouldStop.CompareAndSwap(false, true) {
		return
	}
	s.log.Info().Msg("shutting down")

	s.listener.Close()
	s.barrier.Stop()

	s.conns.Range(func(_ uint64, c net.Conn) bool {
		c.Close()
		return true
	})
}
