package telnet

import (
	"log/slog"
	"sync"
)

type optEntry struct {
	local  qstate
	remote qstate
}

// CompressionSignal tells the connection runtime to toggle inline zlib
// (de)compression on one direction, per spec.md §4.3.
type CompressionSignal struct {
	Direction Direction
	Enable    bool
}

// Engine is the per-connection Q-Method option state engine (L2). It owns
// no I/O; every method returns the Frames the caller must write and, for
// inbound sub-negotiations, the TerminalEvents the caller must surface to
// the host. An Engine is safe for concurrent use by the read and write
// workers — shared option state is behind a single mutex held only for a
// transition's duration (spec.md §5).
type Engine struct {
	mu    sync.Mutex
	table [256]optEntry

	cacheMu      sync.RWMutex
	hasWindow    bool
	width        uint16
	height       uint16
	hasTermType  bool
	termType     string
	hasCharset   bool
	charset      string
	environ      map[string]string

	logger   *slog.Logger
	metrics  Sink
	charsets []string
	mssp     func() map[string]string
}

// NewEngine constructs an Engine with the default supported-option set
// (spec.md §4.2). A nil logger falls back to slog.Default(); a nil metrics
// sink falls back to a no-op.
func NewEngine(logger *slog.Logger, metrics Sink) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NoopSink()
	}
	return &Engine{
		logger:   logger,
		metrics:  metrics,
		charsets: []string{"UTF-8", "US-ASCII"},
		environ:  make(map[string]string),
	}
}

// SetCharsets overrides the recognized CHARSET names, most preferred first.
func (e *Engine) SetCharsets(names []string) {
	e.charsets = names
}

// SetMSSPProvider installs the callback used to populate the MSSP reply
// sent on local enablement.
func (e *Engine) SetMSSPProvider(f func() map[string]string) {
	e.mssp = f
}

func positiveCommand(side Side) byte {
	if side == Local {
		return WILL
	}
	return DO
}

func negativeCommand(side Side) byte {
	if side == Local {
		return WONT
	}
	return DONT
}

func (e *Engine) view(opt byte, side Side) *qstate {
	entry := &e.table[opt]
	if side == Local {
		return &entry.local
	}
	return &entry.remote
}

func (e *Engine) supported(opt byte, _ Side) bool {
	return defaultSupported[opt]
}

func sideFromNegotiationCommand(cmd byte) (side Side, positive bool) {
	switch cmd {
	case DO:
		return Local, true
	case DONT:
		return Local, false
	case WILL:
		return Remote, true
	default: // WONT
		return Remote, false
	}
}

// RequestEnable asks the engine to bring side's view of opt to YES,
// returning the negotiation Frame to send, if any.
func (e *Engine) RequestEnable(side Side, opt byte) []Frame {
	return e.request(side, opt, true)
}

// RequestDisable asks the engine to bring side's view of opt to NO.
func (e *Engine) RequestDisable(side Side, opt byte) []Frame {
	return e.request(side, opt, false)
}

func (e *Engine) request(side Side, opt byte, enable bool) []Frame {
	e.mu.Lock()
	s := e.view(opt, side)
	action := qRequest(s, enable)
	e.mu.Unlock()
	return e.actionToFrames(action, side, opt)
}

func (e *Engine) actionToFrames(action qaction, side Side, opt byte) []Frame {
	switch action {
	case qaSendPositive:
		return []Frame{NegotiationFrame(positiveCommand(side), opt)}
	case qaSendNegative:
		return []Frame{NegotiationFrame(negativeCommand(side), opt)}
	default:
		return nil
	}
}

// IngestNegotiation processes a peer WILL/WONT/DO/DONT message, returning
// any TerminalEvents to surface and any Frames to send in reply.
func (e *Engine) IngestNegotiation(cmd, opt byte) (events []TerminalEvent, out []Frame) {
	side, positive := sideFromNegotiationCommand(cmd)

	e.mu.Lock()
	s := e.view(opt, side)
	result := qReceive(s, positive, e.supported(opt, side))
	e.mu.Unlock()

	if result.isError {
		e.logger.Debug("telnet option negotiation error", "option", optionName(opt), "side", side, "cmd", CommandNames[cmd])
	}

	out = append(out, e.actionToFrames(result.action, side, opt)...)

	if result.enabledNow {
		e.metrics.OptionChanged(opt, side, true)
		events = append(events, optionChangedEvent(opt, side, true))
		out = append(out, e.enableHook(side, opt)...)
	}
	if result.disabledNow {
		e.metrics.OptionChanged(opt, side, false)
		events = append(events, optionChangedEvent(opt, side, false))
	}
	return events, out
}

// enableHook returns the bootstrap Frames to send when side's view of opt
// first reaches YES, per spec.md §4.2 "Enablement signal".
func (e *Engine) enableHook(side Side, opt byte) []Frame {
	switch opt {
	case TType:
		if side == Remote {
			return []Frame{SubNegFrame(TType, encodeTTypeSend())}
		}
	case MSSP:
		if side == Local && e.mssp != nil {
			return []Frame{SubNegFrame(MSSP, encodeMSSP(e.mssp()))}
		}
	}
	return nil
}

// IngestSubNeg processes an inbound sub-negotiation payload, dispatching to
// the per-option handler named in spec.md §4.2.
func (e *Engine) IngestSubNeg(opt byte, payload []byte) (events []TerminalEvent, out []Frame, sig *CompressionSignal) {
	switch opt {
	case NAWS:
		if w, h, ok := parseNAWS(payload); ok {
			e.cacheMu.Lock()
			e.hasWindow, e.width, e.height = true, w, h
			e.cacheMu.Unlock()
			events = append(events, windowSizeEvent(w, h))
		}

	case TType:
		if name, ok := parseTType(payload); ok {
			e.cacheMu.Lock()
			e.hasTermType, e.termType = true, name
			e.cacheMu.Unlock()
			events = append(events, terminalTypeEvent(name))
		}

	case NewEnviron:
		parsed := parseNewEnviron(payload)
		e.cacheMu.Lock()
		for k, v := range parsed {
			e.environ[k] = v
		}
		merged := make(map[string]string, len(e.environ))
		for k, v := range e.environ {
			merged[k] = v
		}
		e.cacheMu.Unlock()
		events = append(events, environEvent(merged))

	case Charset:
		if names, ok := parseCharsetRequest(payload); ok {
			accepted := e.firstRecognizedCharset(names)
			if accepted != "" {
				e.cacheMu.Lock()
				e.hasCharset, e.charset = true, accepted
				e.cacheMu.Unlock()
				out = append(out, SubNegFrame(Charset, encodeCharsetAccepted(accepted)))
			} else {
				out = append(out, SubNegFrame(Charset, encodeCharsetRejected()))
			}
		} else {
			out = append(out, SubNegFrame(Charset, encodeCharsetRejected()))
		}

	case GMCP:
		pkg, data := parseGmcp(payload)
		events = append(events, gmcpEvent(pkg, data))

	case MSDP:
		events = append(events, msdpEvent(payload))

	case MCCP2, MCCP3:
		// The peer just announced it is compressing its outbound stream to
		// us starting with the byte after this sub-negotiation's SE.
		sig = &CompressionSignal{Direction: Inbound, Enable: true}
	}
	return events, out, sig
}

func (e *Engine) firstRecognizedCharset(names []string) string {
	for _, want := range names {
		for _, have := range e.charsets {
			if want == have {
				return have
			}
		}
	}
	return ""
}

// BeginCompression emits the sub-negotiation announcing that this side is
// about to start compressing its outbound stream, and the signal the
// connection must act on once that frame is flushed.
func (e *Engine) BeginCompression(opt byte) (Frame, *CompressionSignal) {
	return SubNegFrame(opt, nil), &CompressionSignal{Direction: Outbound, Enable: true}
}

// HandleDecompressError converts a zlib inflate failure on opt into the
// appropriate negative negotiation (DONT if the remote view is active,
// WONT if the local view is active — see DESIGN.md for the reasoning) and
// clears that view's state.
func (e *Engine) HandleDecompressError(opt byte) []Frame {
	e.mu.Lock()
	entry := &e.table[opt]
	var side Side
	if entry.remote == qYes {
		side = Remote
	} else {
		side = Local
	}
	s := e.view(opt, side)
	*s = qNo
	e.mu.Unlock()

	e.metrics.DecompressError()
	return []Frame{NegotiationFrame(negativeCommand(side), opt)}
}

func (e *Engine) IsEnabled(side Side, opt byte) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.view(opt, side) == qYes
}

func (e *Engine) WindowSize() (width, height uint16, ok bool) {
	e.cacheMu.RLock()
	defer e.cacheMu.RUnlock()
	return e.width, e.height, e.hasWindow
}

func (e *Engine) TerminalType() (string, bool) {
	e.cacheMu.RLock()
	defer e.cacheMu.RUnlock()
	return e.termType, e.hasTermType
}

func (e *Engine) Charset() (string, bool) {
	e.cacheMu.RLock()
	defer e.cacheMu.RUnlock()
	return e.charset, e.hasCharset
}

func (e *Engine) Environ() map[string]string {
	e.cacheMu.RLock()
	defer e.cacheMu.RUnlock()
	out := make(map[string]string, len(e.environ))
	for k, v := range e.environ {
		out[k] = v
	}
	return out
}
