package telnet

// LineEnding marks the kind of explicit line terminator a host-configured
// line-oriented reader observed. The core never infers this itself; it is
// populated by a host-level line splitter built atop Data events.
type LineEnding int

const (
	LineEndingNone LineEnding = iota
	LineEndingCR
	LineEndingLF
	LineEndingCRLF
)

// Side distinguishes the local (our own capability, toggled by WILL/WONT)
// and remote (the peer's capability, toggled by DO/DONT) Q-Method views.
type Side int

const (
	Local Side = iota
	Remote
)

func (s Side) String() string {
	if s == Local {
		return "local"
	}
	return "remote"
}

// TerminalEvent is the exhaustive, host-visible event alphabet produced by
// the read worker (spec.md §6).
type TerminalEvent struct {
	Kind terminalEventKind

	Data       []byte
	LineEnding LineEnding
	Command    byte
	Width      uint16
	Height     uint16
	TermType   string
	Option     byte
	Side       Side
	Enabled    bool
	Package    string // Gmcp
	Environ    map[string]string
	Err        error
}

type terminalEventKind int

const (
	EventData terminalEventKind = iota
	EventLineEnding
	EventCommand
	EventEndOfRecord
	EventWindowSize
	EventTerminalType
	EventOptionChanged
	EventGmcp
	EventMsdp
	EventEnviron
	EventDisconnected
)

func dataEvent(b []byte) TerminalEvent    { return TerminalEvent{Kind: EventData, Data: b} }
func commandEvent(cmd byte) TerminalEvent { return TerminalEvent{Kind: EventCommand, Command: cmd} }
func endOfRecordEvent() TerminalEvent     { return TerminalEvent{Kind: EventEndOfRecord} }
func disconnectedEvent() TerminalEvent    { return TerminalEvent{Kind: EventDisconnected} }

func windowSizeEvent(w, h uint16) TerminalEvent {
	return TerminalEvent{Kind: EventWindowSize, Width: w, Height: h}
}

func terminalTypeEvent(t string) TerminalEvent {
	return TerminalEvent{Kind: EventTerminalType, TermType: t}
}

func optionChangedEvent(opt byte, side Side, enabled bool) TerminalEvent {
	return TerminalEvent{Kind: EventOptionChanged, Option: opt, Side: side, Enabled: enabled}
}

func gmcpEvent(pkg string, data []byte) TerminalEvent {
	return TerminalEvent{Kind: EventGmcp, Package: pkg, Data: data}
}

func msdpEvent(data []byte) TerminalEvent {
	return TerminalEvent{Kind: EventMsdp, Data: data}
}

func environEvent(m map[string]string) TerminalEvent {
	return TerminalEvent{Kind: EventEnviron, Environ: m}
}

// TerminalCommand is a structured, non-data item a host may hand to
// Handle.Send: a Telnet command, including the End Of Record marker used to
// terminate prompts lacking CRLF.
type TerminalCommand struct {
	EndOfRecord bool
	GoAhead     bool
	Command     byte
}

// SendItem is anything a host can enqueue on the write worker: a UTF-8
// string, a raw byte slice, a structured TerminalCommand, or a pre-built
// Frame. Exactly one field should be non-zero.
type SendItem struct {
	Text    string
	Bytes   []byte
	Command *TerminalCommand
	Frame   *Frame
}

func SendText(s string) SendItem  { return SendItem{Text: s} }
func SendBytes(b []byte) SendItem { return SendItem{Bytes: b} }
func SendFrame(f Frame) SendItem  { return SendItem{Frame: &f} }
func SendEndOfRecord() SendItem   { return SendItem{Command: &TerminalCommand{EndOfRecord: true}} }
func SendGoAhead() SendItem       { return SendItem{Command: &TerminalCommand{GoAhead: true}} }

func (item SendItem) toFrame() Frame {
	switch {
	case item.Frame != nil:
		return *item.Frame
	case item.Command != nil:
		switch {
		case item.Command.EndOfRecord:
			return EndOfRecordFrame()
		case item.Command.GoAhead:
			return GoAheadFrame()
		default:
			return CommandFrame(item.Command.Command)
		}
	case item.Bytes != nil:
		return DataFrame(item.Bytes)
	default:
		return DataFrame([]byte(item.Text))
	}
}
