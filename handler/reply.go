package handler

import (
	"github.com/noahmasri/tp0-distribuidos/bet"
	"github.com/noahmasri/tp0-distribuidos/proto"
	"github.com/noahmasri/tp0-distribuidos/wire"
)

// reply writes a single status byte. Best-effort: a write failure here
// almost always means the peer is already gone, and the caller is about
// to close the connection regardless.
func (h *Handler) reply(status proto.Status) {
	h.writeAll([]byte{byte(status)})
}

// replyWinners writes the SEND_WINNERS response: status, a little-endian
// u16 count, then that many little-endian u32 documents, all in one
// sendall so no partial reply is ever observable.
func (h *Handler) replyWinners(winners []bet.Bet) {
	buf := make([]byte, 0, 3+4*len(winners))
	buf = append(buf, byte(proto.SEND_WINNERS))
	buf = wire.Lsb.AppendUint16(buf, uint16(len(winners)))
	for _, w := range winners {
		buf = wire.Lsb.AppendUint32(buf, w.Document)
	}
	h.writeAll(buf)
}

// writeAll writes buf in full, looping past short writes; net.Conn.Write
// already blocks until it has written everything or hit an error, but we
// don't rely on that undocumented behavior.
func (h *Handler) writeAll(buf []byte) {
	for len(buf) > 0 {
		n, err := h.conn.Write(buf)
		if err != nil {
			if !h.stopping() {
				h.log.Debug().Err(err).Msg("write failed")
			}
			return
		}
		buf = buf[n:]
	}
}
