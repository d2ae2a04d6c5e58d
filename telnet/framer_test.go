package telnet_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/huhlig/termionix/telnet"
)

var _ = Describe("Decoder", func() {
	var d *telnet.Decoder

	BeforeEach(func() {
		d = telnet.NewDecoder()
	})

	It("passes plain data through untouched", func() {
		frames, remainder := d.Feed([]byte("hello\r\n"))
		Expect(remainder).To(BeEmpty())
		Expect(frames).To(HaveLen(1))
		Expect(frames[0].Kind).To(Equal(telnet.FrameData))
		Expect(frames[0].Data).To(Equal([]byte("hello\r\n")))
	})

	It("unescapes a doubled IAC as one literal 0xFF byte", func() {
		frames, _ := d.Feed([]byte{'a', telnet.IAC, telnet.IAC, 'b'})
		Expect(frames).To(HaveLen(1))
		Expect(frames[0].Data).To(Equal([]byte{'a', 0xFF, 'b'}))
	})

	It("decodes a negotiation command split across two Feed calls", func() {
		frames1, _ := d.Feed([]byte{telnet.IAC, telnet.DO})
		Expect(frames1).To(BeEmpty())

		frames2, _ := d.Feed([]byte{telnet.Echo})
		Expect(frames2).To(HaveLen(1))
		Expect(frames2[0].Kind).To(Equal(telnet.FrameNegotiation))
		Expect(frames2[0].Command).To(Equal(telnet.DO))
		Expect(frames2[0].Option).To(Equal(telnet.Echo))
	})

	It("decodes a sub-negotiation carrying an escaped IAC byte", func() {
		in := []byte{
			telnet.IAC, telnet.SB, telnet.NAWS,
			0, 80, telnet.IAC, telnet.IAC, 0, 24,
			telnet.IAC, telnet.SE,
		}
		frames, remainder := d.Feed(in)
		Expect(remainder).To(BeEmpty())
		Expect(frames).To(HaveLen(1))
		Expect(frames[0].Kind).To(Equal(telnet.FrameSubNeg))
		Expect(frames[0].Option).To(Equal(telnet.NAWS))
		Expect(frames[0].Data).To(Equal([]byte{0, 80, 0xFF, 0, 24}))
	})

	It("recovers from a stray SE outside any sub-negotiation", func() {
		frames, _ := d.Feed([]byte{'x', telnet.IAC, telnet.SE, 'y'})
		Expect(frames).To(HaveLen(1))
		Expect(frames[0].Data).To(Equal([]byte{'x', 'y'}))
	})

	It("recognizes every single-byte command", func() {
		cmds := []byte{telnet.GA, telnet.IP, telnet.DM, telnet.BRK, telnet.AO, telnet.AYT, telnet.EC, telnet.EL, telnet.NOP}
		kinds := []telnet.FrameKind{
			telnet.FrameGoAhead, telnet.FrameInterruptProcess, telnet.FrameDataMark, telnet.FrameBreak,
			telnet.FrameAbortOutput, telnet.FrameAreYouThere, telnet.FrameEraseChar, telnet.FrameEraseLine, telnet.FrameNop,
		}
		for i, cmd := range cmds {
			frames, _ := telnet.NewDecoder().Feed([]byte{telnet.IAC, cmd})
			Expect(frames).To(HaveLen(1))
			Expect(frames[0].Kind).To(Equal(kinds[i]))
		}
	})

	It("recognizes EOR as its own frame kind", func() {
		frames, _ := d.Feed([]byte{telnet.IAC, telnet.EOR})
		Expect(frames).To(HaveLen(1))
		Expect(frames[0].Kind).To(Equal(telnet.FrameEndOfRecord))
	})

	It("stops immediately after an MCCP2 SubNeg and returns the tail as remainder", func() {
		in := []byte{
			telnet.IAC, telnet.SB, telnet.MCCP2, telnet.IAC, telnet.SE,
			0xDE, 0xAD, 0xBE, 0xEF,
		}
		frames, remainder := d.Feed(in)
		Expect(frames).To(HaveLen(1))
		Expect(frames[0].Kind).To(Equal(telnet.FrameSubNeg))
		Expect(frames[0].Option).To(Equal(telnet.MCCP2))
		Expect(remainder).To(Equal([]byte{0xDE, 0xAD, 0xBE, 0xEF}))
	})

	It("encodes each listed Frame kind to non-empty wire bytes", func() {
		cases := []telnet.Frame{
			telnet.DataFrame([]byte("hi")),
			telnet.CommandFrame(telnet.NOP),
			telnet.NegotiationFrame(telnet.WILL, telnet.Echo),
			telnet.SubNegFrame(telnet.NAWS, []byte{0, 80, 0, 24}),
			telnet.EndOfRecordFrame(),
			telnet.GoAheadFrame(),
		}
		for _, f := range cases {
			out := telnet.Encode(f)
			Expect(out).NotTo(BeEmpty())
		}
	})

	It("escapes IAC bytes in outbound data", func() {
		out := telnet.Encode(telnet.DataFrame([]byte{0xFF, 'x'}))
		Expect(out).To(Equal([]byte{telnet.IAC, telnet.IAC, 'x'}))
	})
})
