// Package handler implements the per-connection protocol state machine:
// READ_HEADER -> DISPATCH -> {WRITE_RESPONSE} -> READ_HEADER, looping
// until the connection closes or a terminal error is hit.
package handler

import (
	"errors"
	"io"
	"net"

	"github.com/rs/zerolog"

	"github.com/noahmasri/tp0-distribuidos/barrier"
	"github.com/noahmasri/tp0-distribuidos/bet"
	"github.com/noahmasri/tp0-distribuidos/frame"
	"github.com/noahmasri/tp0-distribuidos/proto"
	"github.com/noahmasri/tp0-distribuidos/store"
)

// Store is the subset of *store.BetStore the handler needs.
type Store interface {
	Append(batch []bet.Bet) error
}

// Barrier is the subset of *barrier.Barrier the handler needs.
type Barrier interface {
	IsOpen(agency byte) bool
	MarkDone(agency byte) error
	WaitAndGet(agency byte) ([]bet.Bet, error)
}

var (
	_ Store   = (*store.BetStore)(nil)
	_ Barrier = (*barrier.Barrier)(nil)
)

// Handler serves one agency connection to completion. Each connection
// gets its own Handler, its own frame.Reader, and nothing is shared
// across Handlers except Store and Barrier (which are internally safe
// for concurrent use).
type Handler struct {
	conn    net.Conn
	r       *frame.Reader
	store   Store
	barrier Barrier
	log     zerolog.Logger

	// stopping reports whether the shutdown controller has asked every
	// worker to drain; checked after I/O errors so a close caused by
	// shutdown is swallowed rather than logged as a failure.
	stopping func() bool
}

// New returns a Handler for one accepted connection.
func New(conn net.Conn, st Store, b Barrier, log zerolog.Logger, stopping func() bool) *Handler {
	return &Handler{
		conn:     conn,
		r:        frame.New(conn),
		store:    st,
		barrier:  b,
		log:      log,
		stopping: stopping,
	}
}

// Serve runs the connection's state machine until it terminates, and
// always closes the connection before returning.
func (h *Handler) Serve() {
	defer h.conn.Close()

	for {
		if h.stopping() {
			return
		}

		if err := h.r.Ensure(proto.HeaderLen); err != nil {
			h.logReadError(err)
			return
		}
		hdr := proto.ParseHeader(h.r.Bytes())
		h.r.Discard(proto.HeaderLen)

		if !h.dispatch(hdr) {
			return
		}
	}
}

// dispatch handles one request and reports whether the connection
// should stay open for the next one.
func (h *Handler) dispatch(hdr proto.Header) bool {
	if !proto.ValidAgency(hdr.Agency) {
		h.reply(proto.BAD_REQUEST)
		return false
	}

	switch hdr.Code {
	case proto.BET:
		return h.handleBet(hdr.Agency)
	case proto.END_BETTING:
		return h.handleEndBetting(hdr.Agency)
	case proto.REQUEST_WINNERS:
		return h.handleRequestWinners(hdr.Agency)
	default:
		h.reply(proto.BAD_REQUEST)
		return false
	}
}

// handleBet always decodes (and discards) the full batch_num bets off the
// wire, even when the barrier has already closed for agency: the payload
// carries no outer length prefix, so the only way to stay in sync with the
// next request is to decode past every bet regardless of whether it will be
// persisted.
func (h *Handler) handleBet(agency byte) bool {
	open := h.barrier.IsOpen(agency)

	if err := h.r.Ensure(1); err != nil {
		h.logReadError(err)
		return false
	}
	batchNum := int(h.r.Bytes()[0])
	h.r.Discard(1)

	batch := make([]bet.Bet, 0, batchNum)
	for i := 0; i < batchNum; i++ {
		b, err := h.readBet(agency)
		if err != nil {
			return h.failBatch(err)
		}
		batch = append(batch, b)
	}

	if !open {
		h.reply(proto.NO_MORE_BETS_ALLOWED)
		return true
	}

	if err := h.store.Append(batch); err != nil {
		if !h.stopping() {
			h.reply(proto.ERROR)
			h.log.Error().Err(err).Msg("store append failed")
		}
		return false
	}

	for _, b := range batch {
		h.log.Info().
			Str("action", "apuesta_almacenada").
			Str("result", "success").
			Uint32("dni", b.Document).
			Uint16("numero", b.Number).
			Msg("")
	}
	h.log.Info().Str("action", "apuesta_recibida").Int("cantidad", batchNum).Msg("")
	h.reply(proto.OK)
	return true
}

// readBet decodes one bet from the buffer, refilling from the socket on
// NeedMore (io.ErrUnexpectedEOF) until the decode succeeds or fails hard.
func (h *Handler) readBet(agency byte) (bet.Bet, error) {
	for {
		b, off, err := bet.FromBytes(agency, h.r.Bytes())
		switch {
		case errors.Is(err, io.ErrUnexpectedEOF):
			if ferr := h.r.Fill(); ferr != nil {
				return bet.Bet{}, ferr
			}
		case err != nil:
			return bet.Bet{}, err
		default:
			h.r.Discard(off)
			return b, nil
		}
	}
}

// failBatch classifies a batch decode/IO failure: malformed input gets
// BAD_REQUEST, a closed peer gets silence, any other I/O error gets a
// best-effort ERROR. The connection always closes.
func (h *Handler) failBatch(err error) bool {
	switch {
	case errors.Is(err, bet.ErrMalformed):
		h.reply(proto.BAD_REQUEST)
	case errors.Is(err, frame.ErrConnectionClosed):
		// peer closed mid-request: no reply
	default:
		if !h.stopping() {
			h.reply(proto.ERROR)
			h.log.Error().Err(err).Msg("batch read failed")
		}
	}
	return false
}

func (h *Handler) handleEndBetting(agency byte) bool {
	if err := h.barrier.MarkDone(agency); err != nil {
		if !h.stopping() {
			h.reply(proto.ERROR)
			h.log.Error().Err(err).Msg("draw failed")
		}
		return false
	}
	h.reply(proto.OK)
	return true
}

func (h *Handler) handleRequestWinners(agency byte) bool {
	winners, err := h.barrier.WaitAndGet(agency)
	if err != nil {
		// barrier.Stop was called: shutdown in progress, no reply
		return false
	}
	h.replyWinners(winners)
	return true
}

// logReadError swallows shutdown-induced I/O errors silently and logs
// anything else; either way the connection closes.
func (h *Handler) logReadError(err error) {
	if h.stopping() || errors.Is(err, frame.ErrConnectionClosed) {
		return
	}
	h.log.Error().Err(err).Msg("read failed")
}
