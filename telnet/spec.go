// Package telnet implements the Telnet wire protocol (RFC 854/855), Q-Method
// option negotiation (RFC 1143), MUD sub-negotiations (NAWS, TTYPE,
// NEW-ENVIRON, CHARSET, MSSP, GMCP, MSDP, EOR) and inline MCCP2/MCCP3 zlib
// compression, fronted by a split read/write connection runtime.
//
// This was adapted from https://github.com/NuSkooler/telnet-socket
// Copyright (c) 2019-2022, Bryan D. Ashby
// All rights reserved.
//
// RFCs of particular interest:
//   - RFC 854  : Telnet Protocol Specification
//   - RFC 855  : Telnet Option Specifications
//   - RFC 857  : Telnet Echo Option
//   - RFC 858  : Telnet Suppress Go Ahead Option
//   - RFC 859  : Telnet Status Option
//   - RFC 885  : Telnet End of Record Option
//   - RFC 1073 : Telnet Window Size Option
//   - RFC 1091 : Telnet Terminal Type Option
//   - RFC 1143 : The Q Method of Implementing TELNET Option Negotiation
//   - RFC 1572 : Telnet Environment Option
//   - RFC 1950 : ZLIB Compressed Data Format Specification
//   - RFC 2066 : Telnet Charset Option
package telnet

const (
	// RFC 854: Telnet Protocol Specification
	SE   byte = 240 // Sub negotiation End
	NOP  byte = 241 // No Operation
	DM   byte = 242 // Data Mark
	BRK  byte = 243 // Break
	IP   byte = 244 // Interrupt Process
	AO   byte = 245 // Abort Output
	AYT  byte = 246 // Are You There?
	EC   byte = 247 // Erase Character
	EL   byte = 248 // Erase Line
	GA   byte = 249 // Go Ahead
	SB   byte = 250 // Sub negotiation Begin
	WILL byte = 251
	WONT byte = 252
	DO   byte = 253
	DONT byte = 254
	IAC  byte = 255 // Interpret As Command
	EOR  byte = 239 // End Of Record (RFC 885)

	// Sub-negotiation command bytes, meaning depends on the enclosing option.
	IS      byte = 0
	SEND    byte = 1
	INFO    byte = 2
	VAR     byte = 0
	VALUE   byte = 1
	ESC     byte = 2
	USERVAR byte = 3
	MSSPVAR byte = 1
	MSSPVAL byte = 2

	CharsetRequest  byte = 1
	CharsetAccepted byte = 2
	CharsetRejected byte = 3

	// Telnet options recognized by this implementation.
	TransmitBinary byte = 0   // RFC 856
	Echo           byte = 1   // RFC 857
	SGA            byte = 3   // RFC 858 - Suppress Go Ahead
	Status         byte = 5   // RFC 859
	TimingMark     byte = 6   // RFC 860
	TType          byte = 24  // RFC 1091 - Terminal Type
	EndOfRecord    byte = 25  // RFC 885
	NAWS           byte = 31  // RFC 1073
	TerminalSpeed  byte = 32  // RFC 1079
	Linemode       byte = 34  // RFC 1184
	NewEnviron     byte = 39  // RFC 1572
	Charset        byte = 42  // RFC 2066
	MSDP           byte = 69  // MUD Server Data Protocol
	MSSP           byte = 70  // MUD Server Status Protocol
	MCCP2          byte = 86  // MUD Client Compression Protocol v2
	MCCP3          byte = 87  // MUD Client Compression Protocol v3
	MSP            byte = 90  // MUD Sound Protocol
	MXP            byte = 91  // MUD eXtension Protocol
	GMCP           byte = 201 // Generic MUD Communication Protocol
)

// CommandNames maps Telnet command bytes to their string representation, for
// logging.
var CommandNames = map[byte]string{
	SE:   "SE",
	NOP:  "NOP",
	DM:   "DM",
	BRK:  "BRK",
	IP:   "IP",
	AO:   "AO",
	AYT:  "AYT",
	EC:   "EC",
	EL:   "EL",
	GA:   "GA",
	SB:   "SB",
	WILL: "WILL",
	WONT: "WONT",
	DO:   "DO",
	DONT: "DONT",
	IAC:  "IAC",
	EOR:  "EOR",
}

// OptionNames maps Telnet option bytes to their string representation, for
// logging.
var OptionNames = map[byte]string{
	TransmitBinary: "TransmitBinary",
	Echo:           "Echo",
	SGA:            "SGA",
	Status:         "Status",
	TimingMark:     "TimingMark",
	TType:          "TType",
	EndOfRecord:    "EndOfRecord",
	NAWS:           "NAWS",
	TerminalSpeed:  "TerminalSpeed",
	Linemode:       "Linemode",
	NewEnviron:     "NewEnviron",
	Charset:        "Charset",
	MSDP:           "MSDP",
	MSSP:           "MSSP",
	MCCP2:          "MCCP2",
	MCCP3:          "MCCP3",
	MSP:            "MSP",
	MXP:            "MXP",
	GMCP:           "GMCP",
}

// defaultSupported lists the options this core will negotiate to YES on
// either side. Anything else replies WONT/DONT immediately from NO.
var defaultSupported = map[byte]bool{
	Echo:        true,
	SGA:         true,
	TType:       true,
	EndOfRecord: true,
	NAWS:        true,
	NewEnviron:  true,
	Charset:     true,
	MSDP:        true,
	MSSP:        true,
	MCCP2:       true,
	MCCP3:       true,
	GMCP:        true,
}

func optionName(opt byte) string {
	if name, ok := OptionNames[opt]; ok {
		return name
	}
	return "Unknown"
}
