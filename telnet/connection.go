package telnet

import (
	"bufio"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
)

// ConnState is the connection lifecycle (spec.md §3 "Lifecycles", widened
// with a transient Connecting state per original_source/service/src/types.rs
// — see SPEC_FULL.md §8). StateConnecting holds only for the construction
// of the Connection value itself, before its workers are started; it exists
// for state-enum parity with the original implementation and for hosts that
// want to distinguish "accepted, not yet wired up" from "workers running",
// not to span any negotiation carried out by this core (the core never
// negotiates proactively — see spec.md §6 "a fresh connection starts with
// all options NO").
type ConnState int32

const (
	StateConnecting ConnState = iota
	StateConnected
	StateClosing
	StateClosed
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosing:
		return "closing"
	default:
		return "closed"
	}
}

// Connection is the split read/write runtime (L3) wrapping one accepted
// net.Conn. Hosts do not use Connection directly; NewConnection starts its
// workers and returns a cheaply cloneable Handle.
type Connection struct {
	id      ConnectionID
	conn    net.Conn
	logger  *slog.Logger
	metrics Sink
	engine  *Engine

	decoder             *Decoder
	inCompressor        *inboundCompressor // owned by the read worker only
	activeInboundOption byte               // MCCP2/MCCP3, valid while inCompressor != nil

	bw            *bufio.Writer
	outCompressor *outboundCompressor // owned by the write worker only

	events  chan TerminalEvent
	replyCh chan Frame
	sendQ   *sendQueue
	sendCh  chan sendEnvelope

	flushMu       sync.Mutex
	flushStrategy FlushStrategy

	state     atomic.Int32
	closeOnce sync.Once
	closeCh   chan struct{}

	wg sync.WaitGroup
}

// Option configures a Connection at construction time.
type Option func(*Connection)

func WithMetrics(sink Sink) Option {
	return func(c *Connection) { c.metrics = sink }
}

func WithFlushStrategy(s FlushStrategy) Option {
	return func(c *Connection) { c.flushStrategy = s }
}

func WithMSSPProvider(f func() map[string]string) Option {
	return func(c *Connection) { c.engine.SetMSSPProvider(f) }
}

func WithCharsets(names []string) Option {
	return func(c *Connection) { c.engine.SetCharsets(names) }
}

func WithEventBuffer(n int) Option {
	return func(c *Connection) { c.events = make(chan TerminalEvent, n) }
}

// NewConnection wraps conn, starts its read and write workers, and returns
// a Handle the host uses for the lifetime of the connection.
func NewConnection(conn net.Conn, logger *slog.Logger, opts ...Option) *Handle {
	if logger == nil {
		logger = slog.Default()
	}
	id := NewConnectionID()
	logger = logger.With("conn", id.String())

	c := &Connection{
		id:            id,
		conn:          conn,
		logger:        logger,
		metrics:       NoopSink(),
		engine:        NewEngine(logger, nil),
		decoder:       NewDecoder(),
		bw:            bufio.NewWriter(conn),
		events:        make(chan TerminalEvent, 64),
		replyCh:       make(chan Frame, 16),
		sendQ:         newSendQueue(),
		sendCh:        make(chan sendEnvelope, 1),
		closeCh:       make(chan struct{}),
		flushStrategy: FlushOnNewline(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.engine.metrics = c.metrics
	c.state.Store(int32(StateConnecting))
	c.metrics.ConnectionOpened()

	c.wg.Add(3)
	go c.sendPump()
	go c.readLoop()
	go c.writeLoop()

	c.state.Store(int32(StateConnected))
	return &Handle{conn: c}
}

func (c *Connection) stateValue() ConnState {
	return ConnState(c.state.Load())
}

// Handle is the cheaply cloneable value a host holds for a Connection. All
// methods are safe to call from any goroutine concurrently (spec.md §4.4).
type Handle struct {
	conn *Connection
}

// ID returns the connection's opaque identity.
func (h *Handle) ID() ConnectionID { return h.conn.id }

// Send enqueues an application item for the write worker. It never blocks
// on read progress; forceFlush requests an immediate transport flush after
// this item is written.
func (h *Handle) Send(item SendItem, forceFlush bool) error {
	c := h.conn
	if c.stateValue() == StateClosed {
		return wrapErr(c.id, "send", ErrChannelClosed)
	}
	c.sendQ.push(sendEnvelope{item: item, forceFlush: forceFlush})
	return nil
}

// Flush requests an out-of-band transport flush.
func (h *Handle) Flush() error {
	c := h.conn
	c.sendQ.push(sendEnvelope{flushOnly: true})
	return nil
}

// NextEvent blocks until a TerminalEvent is available or the handle is
// closed, returning ok=false in the latter case.
func (h *Handle) NextEvent() (TerminalEvent, bool) {
	ev, ok := <-h.conn.events
	return ev, ok
}

// Events exposes the raw event channel for host code that prefers range-over.
func (h *Handle) Events() <-chan TerminalEvent { return h.conn.events }

func (h *Handle) SetFlushStrategy(s FlushStrategy) {
	c := h.conn
	c.flushMu.Lock()
	c.flushStrategy = s
	c.flushMu.Unlock()
}

func (h *Handle) IsOptionEnabled(opt byte) bool {
	return h.conn.engine.IsEnabled(Local, opt) || h.conn.engine.IsEnabled(Remote, opt)
}

func (h *Handle) IsLocalOptionEnabled(opt byte) bool  { return h.conn.engine.IsEnabled(Local, opt) }
func (h *Handle) IsRemoteOptionEnabled(opt byte) bool { return h.conn.engine.IsEnabled(Remote, opt) }

func (h *Handle) WindowSize() (width, height uint16, ok bool) { return h.conn.engine.WindowSize() }
func (h *Handle) TerminalType() (string, bool)                { return h.conn.engine.TerminalType() }
func (h *Handle) Charset() (string, bool)                     { return h.conn.engine.Charset() }

// EnableCompression announces outbound compression (MCCP2/MCCP3) on opt and
// arranges for the write worker to wrap the transport in a zlib stream
// immediately after that announcement is flushed, per spec.md §4.3.
func (h *Handle) EnableCompression(opt byte) error {
	c := h.conn
	if c.stateValue() == StateClosed {
		return wrapErr(c.id, "enable-compression", ErrChannelClosed)
	}
	frame, _ := c.engine.BeginCompression(opt)
	c.sendQ.push(sendEnvelope{item: SendFrame(frame), forceFlush: true, activateOutbound: true})
	return nil
}

// Close signals both workers to shut down and closes the underlying
// transport. Safe to call more than once.
func (h *Handle) Close() error {
	c := h.conn
	c.closeOnce.Do(func() {
		c.state.Store(int32(StateClosing))
		close(c.closeCh)
		c.sendQ.close()
	})
	err := c.conn.Close()
	c.wg.Wait()
	c.state.Store(int32(StateClosed))
	c.metrics.ConnectionClosed()
	return err
}
