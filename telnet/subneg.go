package telnet

import (
	"bytes"
	"encoding/binary"
	"sort"
)

// parseNAWS reads a NAWS sub-negotiation payload per RFC 1073: four bytes,
// big-endian width then height. A wrong-length payload is ignored, per
// spec.md §4.2.
func parseNAWS(payload []byte) (width, height uint16, ok bool) {
	if len(payload) != 4 {
		return 0, 0, false
	}
	return binary.BigEndian.Uint16(payload[0:2]), binary.BigEndian.Uint16(payload[2:4]), true
}

func encodeNAWS(width, height uint16) []byte {
	out := make([]byte, 4)
	binary.BigEndian.PutUint16(out[0:2], width)
	binary.BigEndian.PutUint16(out[2:4], height)
	return out
}

// parseTType reads a TTYPE sub-negotiation: [IS, name...] or [SEND]. Only
// the IS form carries a terminal name.
func parseTType(payload []byte) (name string, ok bool) {
	if len(payload) > 1 && payload[0] == IS {
		return string(payload[1:]), true
	}
	return "", false
}

func encodeTTypeSend() []byte {
	return []byte{SEND}
}

// parseNewEnviron decodes VAR/VALUE/USERVAR/ESC-delimited tokens into a
// plain name->value map, per RFC 1572.
func parseNewEnviron(payload []byte) map[string]string {
	out := make(map[string]string)
	var name *string
	var buf bytes.Buffer
	flushVar := func() {
		if name != nil {
			out[*name] = buf.String()
		}
		buf.Reset()
		name = nil
	}
	i := 0
	for i < len(payload) {
		b := payload[i]
		switch b {
		case VAR, USERVAR:
			flushVar()
			i++
			var raw []byte
			for i < len(payload) && payload[i] != VALUE && payload[i] != VAR && payload[i] != USERVAR {
				if payload[i] == ESC && i+1 < len(payload) {
					i++
				}
				raw = append(raw, payload[i])
				i++
			}
			n := string(raw)
			name = &n
		case VALUE:
			i++
			for i < len(payload) && payload[i] != VAR && payload[i] != USERVAR {
				if payload[i] == ESC && i+1 < len(payload) {
					i++
				}
				buf.WriteByte(payload[i])
				i++
			}
		default:
			i++
		}
	}
	flushVar()
	return out
}

// parseCharsetRequest parses CHARSET REQUEST <sep> <name>[<sep><name>...]
// per RFC 2066 and returns the candidate names in order.
func parseCharsetRequest(payload []byte) (names []string, ok bool) {
	if len(payload) < 2 || payload[0] != CharsetRequest {
		return nil, false
	}
	sep := payload[1]
	rest := payload[2:]
	if len(rest) == 0 {
		return nil, true
	}
	for _, part := range bytes.Split(rest, []byte{sep}) {
		if len(part) > 0 {
			names = append(names, string(part))
		}
	}
	return names, true
}

func encodeCharsetAccepted(name string) []byte {
	return append([]byte{CharsetAccepted}, []byte(name)...)
}

func encodeCharsetRejected() []byte {
	return []byte{CharsetRejected}
}

// parseGmcp splits a GMCP payload into its "package.subpackage" identifier
// and raw JSON body, per spec.md §4.2. The JSON itself is never parsed.
func parseGmcp(payload []byte) (pkg string, data []byte) {
	idx := bytes.IndexByte(payload, ' ')
	if idx < 0 {
		return string(payload), nil
	}
	return string(payload[:idx]), payload[idx+1:]
}

func encodeGmcp(pkg string, data []byte) []byte {
	if len(data) == 0 {
		return []byte(pkg)
	}
	out := make([]byte, 0, len(pkg)+1+len(data))
	out = append(out, []byte(pkg)...)
	out = append(out, ' ')
	out = append(out, data...)
	return out
}

// encodeMSSP renders a set of MSSP variable/value pairs as the repeated
// VAR/VAL groups RFC-adjacent MUD clients expect. Names are sorted so the
// wire output is deterministic.
func encodeMSSP(vars map[string]string) []byte {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	for _, name := range names {
		buf.WriteByte(MSSPVAR)
		buf.WriteString(name)
		buf.WriteByte(MSSPVAL)
		buf.WriteString(vars[name])
	}
	return buf.Bytes()
}
