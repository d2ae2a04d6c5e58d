package telnet

import "fmt"

// FrameKind tags the variant held by a Frame.
type FrameKind int

const (
	FrameData FrameKind = iota
	FrameCommand
	FrameNegotiation
	FrameSubNeg
	FrameEndOfRecord
	FrameGoAhead
	FrameInterruptProcess
	FrameDataMark
	FrameBreak
	FrameAbortOutput
	FrameAreYouThere
	FrameEraseChar
	FrameEraseLine
	FrameNop
)

// Frame is the framer's alphabet: the decoder emits these, the encoder
// consumes them. Only the fields relevant to Kind are populated.
type Frame struct {
	Kind    FrameKind
	Command byte // Negotiation command (WILL/WONT/DO/DONT) or a raw single-byte Command
	Option  byte // Negotiation/SubNeg option id
	Data    []byte
}

func DataFrame(b []byte) Frame                   { return Frame{Kind: FrameData, Data: b} }
func CommandFrame(cmd byte) Frame                { return Frame{Kind: FrameCommand, Command: cmd} }
func NegotiationFrame(cmd, opt byte) Frame       { return Frame{Kind: FrameNegotiation, Command: cmd, Option: opt} }
func SubNegFrame(opt byte, payload []byte) Frame { return Frame{Kind: FrameSubNeg, Option: opt, Data: payload} }
func EndOfRecordFrame() Frame                    { return Frame{Kind: FrameEndOfRecord} }
func GoAheadFrame() Frame                        { return Frame{Kind: FrameGoAhead} }
func InterruptProcessFrame() Frame               { return Frame{Kind: FrameInterruptProcess} }
func DataMarkFrame() Frame                       { return Frame{Kind: FrameDataMark} }
func BreakFrame() Frame                          { return Frame{Kind: FrameBreak} }
func AbortOutputFrame() Frame                    { return Frame{Kind: FrameAbortOutput} }
func AreYouThereFrame() Frame                    { return Frame{Kind: FrameAreYouThere} }
func EraseCharFrame() Frame                      { return Frame{Kind: FrameEraseChar} }
func EraseLineFrame() Frame                      { return Frame{Kind: FrameEraseLine} }
func NopFrame() Frame                            { return Frame{Kind: FrameNop} }

func (f Frame) String() string {
	switch f.Kind {
	case FrameData:
		return fmt.Sprintf("Data(%d bytes)", len(f.Data))
	case FrameCommand:
		return fmt.Sprintf("Command(%s)", CommandNames[f.Command])
	case FrameNegotiation:
		return fmt.Sprintf("Negotiation(%s %s)", CommandNames[f.Command], optionName(f.Option))
	case FrameSubNeg:
		return fmt.Sprintf("SubNeg(%s, %d bytes)", optionName(f.Option), len(f.Data))
	case FrameEndOfRecord:
		return "EndOfRecord"
	case FrameGoAhead:
		return "GoAhead"
	case FrameInterruptProcess:
		return "InterruptProcess"
	case FrameDataMark:
		return "DataMark"
	case FrameBreak:
		return "Break"
	case FrameAbortOutput:
		return "AbortOutput"
	case FrameAreYouThere:
		return "AreYouThere"
	case FrameEraseChar:
		return "EraseChar"
	case FrameEraseLine:
		return "EraseLine"
	case FrameNop:
		return "Nop"
	default:
		return "Unknown"
	}
}

// commandFrameKind maps a single-byte Telnet command (following a lone IAC)
// to its Frame variant, for commands that carry no option byte.
func commandFrameKind(cmd byte) (FrameKind, bool) {
	switch cmd {
	case GA:
		return FrameGoAhead, true
	case IP:
		return FrameInterruptProcess, true
	case DM:
		return FrameDataMark, true
	case BRK:
		return FrameBreak, true
	case AO:
		return FrameAbortOutput, true
	case AYT:
		return FrameAreYouThere, true
	case EC:
		return FrameEraseChar, true
	case EL:
		return FrameEraseLine, true
	case NOP:
		return FrameNop, true
	default:
		return FrameCommand, false
	}
}
