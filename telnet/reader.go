package telnet

import (
	"errors"
	"io"
)

// readLoop is the read worker (spec.md §4.4). It pulls raw bytes off the
// transport, decompresses them if inbound compression is active, feeds the
// framer, and turns the resulting Frames into TerminalEvents and reply
// Frames via the Engine. Two consecutive decompress errors close the
// connection (spec.md §4.3).
func (c *Connection) readLoop() {
	defer c.wg.Done()
	defer close(c.events)

	buf := make([]byte, 4096)
	consecutiveErrs := 0

	emit := func(ev TerminalEvent) bool {
		select {
		case c.events <- ev:
			return true
		case <-c.closeCh:
			return false
		}
	}

	reply := func(frames []Frame) bool {
		for _, f := range frames {
			select {
			case c.replyCh <- f:
			case <-c.closeCh:
				return false
			}
		}
		return true
	}

	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			c.metrics.BytesRead(n)
			if !c.feed(buf[:n], emit, reply, &consecutiveErrs) {
				break
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.logger.Debug("telnet read error", "err", err)
			}
			break
		}
	}

	emit(disconnectedEvent())
}

// feed pushes a chunk of raw inbound bytes through the active inbound
// compressor (if any) and the framer, dispatching each resulting Frame.
// Returns false if the caller should stop reading (close requested, or the
// transport was closed after a second consecutive decompress error).
func (c *Connection) feed(chunk []byte, emit func(TerminalEvent) bool, reply func([]Frame) bool, consecutiveErrs *int) bool {
	for len(chunk) > 0 {
		var plain []byte
		if c.inCompressor != nil {
			out, err := c.inCompressor.InflateFeed(chunk)
			if err != nil {
				*consecutiveErrs++
				c.logger.Debug("telnet decompress error", "err", err)
				if !reply(c.engine.HandleDecompressError(c.activeInboundOption)) {
					return false
				}
				c.inCompressor.Close()
				c.inCompressor = nil
				if *consecutiveErrs >= 2 {
					c.conn.Close()
					return false
				}
				return true
			}
			*consecutiveErrs = 0
			plain = out
			chunk = nil
		} else {
			plain = chunk
			chunk = nil
		}

		frames, remainder := c.decoder.Feed(plain)
		if !c.dispatch(frames, emit, reply) {
			return false
		}
		chunk = remainder
	}
	return true
}

// dispatch turns decoded Frames into TerminalEvents and reply Frames via
// the Engine, activating inbound compression immediately after an MCCP
// SubNeg frame per spec.md §4.3 / Testable Property 9.
func (c *Connection) dispatch(frames []Frame, emit func(TerminalEvent) bool, reply func([]Frame) bool) bool {
	for _, f := range frames {
		switch f.Kind {
		case FrameData:
			if !emit(dataEvent(f.Data)) {
				return false
			}

		case FrameCommand:
			if !emit(commandEvent(f.Command)) {
				return false
			}

		case FrameEndOfRecord:
			if !emit(endOfRecordEvent()) {
				return false
			}

		case FrameGoAhead:
			if !emit(commandEvent(GA)) {
				return false
			}
		case FrameInterruptProcess:
			if !emit(commandEvent(IP)) {
				return false
			}
		case FrameDataMark:
			if !emit(commandEvent(DM)) {
				return false
			}
		case FrameBreak:
			if !emit(commandEvent(BRK)) {
				return false
			}
		case FrameAbortOutput:
			if !emit(commandEvent(AO)) {
				return false
			}
		case FrameAreYouThere:
			if !emit(commandEvent(AYT)) {
				return false
			}
		case FrameEraseChar:
			if !emit(commandEvent(EC)) {
				return false
			}
		case FrameEraseLine:
			if !emit(commandEvent(EL)) {
				return false
			}
		case FrameNop:
			if !emit(commandEvent(NOP)) {
				return false
			}

		case FrameNegotiation:
			events, out := c.engine.IngestNegotiation(f.Command, f.Option)
			for _, ev := range events {
				if !emit(ev) {
					return false
				}
			}
			if !reply(out) {
				return false
			}

		case FrameSubNeg:
			events, out, sig := c.engine.IngestSubNeg(f.Option, f.Data)
			for _, ev := range events {
				if !emit(ev) {
					return false
				}
			}
			if !reply(out) {
				return false
			}
			if sig != nil && sig.Direction == Inbound && sig.Enable {
				// spec.md §3: switching compression on twice on the same
				// direction without an intervening off is a protocol error;
				// tear down the orphaned pump goroutine before replacing it.
				if c.inCompressor != nil {
					c.inCompressor.Close()
				}
				c.activeInboundOption = f.Option
				c.inCompressor = newInboundCompressor()
			}
		}
	}
	return true
}
