package telnet_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/huhlig/termionix/telnet"
)

var _ = Describe("Engine", func() {
	var e *telnet.Engine

	BeforeEach(func() {
		e = telnet.NewEngine(nil, nil)
	})

	Context("Q-Method negotiation", func() {
		It("answers a supported DO with WILL and enables the local view", func() {
			events, out := e.IngestNegotiation(telnet.DO, telnet.Echo)
			Expect(out).To(Equal([]telnet.Frame{telnet.NegotiationFrame(telnet.WILL, telnet.Echo)}))
			Expect(events).To(HaveLen(1))
			Expect(events[0].Kind).To(Equal(telnet.EventOptionChanged))
			Expect(events[0].Enabled).To(BeTrue())
			Expect(e.IsEnabled(telnet.Local, telnet.Echo)).To(BeTrue())
		})

		It("answers an unsupported DO with WONT and stays disabled", func() {
			_, out := e.IngestNegotiation(telnet.DO, telnet.Linemode)
			Expect(out).To(Equal([]telnet.Frame{telnet.NegotiationFrame(telnet.WONT, telnet.Linemode)}))
			Expect(e.IsEnabled(telnet.Local, telnet.Linemode)).To(BeFalse())
		})

		It("answers a peer WILL with DO and enables the remote view", func() {
			events, out := e.IngestNegotiation(telnet.WILL, telnet.NAWS)
			Expect(out).To(Equal([]telnet.Frame{telnet.NegotiationFrame(telnet.DO, telnet.NAWS)}))
			Expect(events[0].Side).To(Equal(telnet.Remote))
			Expect(e.IsEnabled(telnet.Remote, telnet.NAWS)).To(BeTrue())
		})

		It("is idempotent: a second identical WILL produces no reply or event", func() {
			e.IngestNegotiation(telnet.WILL, telnet.NAWS)
			events, out := e.IngestNegotiation(telnet.WILL, telnet.NAWS)
			Expect(events).To(BeEmpty())
			Expect(out).To(BeEmpty())
		})

		It("disables on WONT after being enabled", func() {
			e.IngestNegotiation(telnet.WILL, telnet.NAWS)
			events, out := e.IngestNegotiation(telnet.WONT, telnet.NAWS)
			Expect(out).To(BeEmpty())
			Expect(events).To(HaveLen(1))
			Expect(events[0].Enabled).To(BeFalse())
			Expect(e.IsEnabled(telnet.Remote, telnet.NAWS)).To(BeFalse())
		})

		It("sends a single request when asked to enable locally and suppresses a concurrent duplicate", func() {
			frames := e.RequestEnable(telnet.Local, telnet.SGA)
			Expect(frames).To(Equal([]telnet.Frame{telnet.NegotiationFrame(telnet.WILL, telnet.SGA)}))

			again := e.RequestEnable(telnet.Local, telnet.SGA)
			Expect(again).To(BeEmpty())
		})
	})

	Context("Sub-negotiations", func() {
		It("parses NAWS and caches the window size", func() {
			events, _, sig := e.IngestSubNeg(telnet.NAWS, []byte{0, 80, 0, 24})
			Expect(sig).To(BeNil())
			Expect(events).To(HaveLen(1))
			Expect(events[0].Width).To(Equal(uint16(80)))
			Expect(events[0].Height).To(Equal(uint16(24)))

			w, h, ok := e.WindowSize()
			Expect(ok).To(BeTrue())
			Expect(w).To(Equal(uint16(80)))
			Expect(h).To(Equal(uint16(24)))
		})

		It("ignores a malformed NAWS payload", func() {
			events, _, _ := e.IngestSubNeg(telnet.NAWS, []byte{0, 80})
			Expect(events).To(BeEmpty())
			_, _, ok := e.WindowSize()
			Expect(ok).To(BeFalse())
		})

		It("caches a TTYPE IS reply", func() {
			events, _, _ := e.IngestSubNeg(telnet.TType, append([]byte{telnet.IS}, []byte("xterm-256color")...))
			Expect(events).To(HaveLen(1))
			Expect(events[0].TermType).To(Equal("xterm-256color"))
		})

		It("accepts the first recognized CHARSET name and rejects an unrecognized list", func() {
			e.SetCharsets([]string{"UTF-8"})

			_, out, _ := e.IngestSubNeg(telnet.Charset, append([]byte{telnet.CharsetRequest, ';'}, []byte("ASCII;UTF-8")...))
			Expect(out).To(HaveLen(1))
			Expect(out[0].Data[0]).To(Equal(telnet.CharsetAccepted))

			_, out2, _ := e.IngestSubNeg(telnet.Charset, append([]byte{telnet.CharsetRequest, ';'}, []byte("KOI8-R")...))
			Expect(out2[0].Data[0]).To(Equal(telnet.CharsetRejected))
		})

		It("splits a GMCP package identifier from its JSON payload", func() {
			events, _, _ := e.IngestSubNeg(telnet.GMCP, []byte(`Core.Hello {"client":"x"}`))
			Expect(events[0].Package).To(Equal("Core.Hello"))
			Expect(events[0].Data).To(Equal([]byte(`{"client":"x"}`)))
		})

		It("merges successive NEW-ENVIRON updates", func() {
			e.IngestSubNeg(telnet.NewEnviron, []byte{telnet.VAR, 'A', telnet.VALUE, '1'})
			events, _, _ := e.IngestSubNeg(telnet.NewEnviron, []byte{telnet.VAR, 'B', telnet.VALUE, '2'})
			Expect(events[0].Environ).To(Equal(map[string]string{"A": "1", "B": "2"}))
		})

		It("signals inbound compression activation on MCCP2", func() {
			_, _, sig := e.IngestSubNeg(telnet.MCCP2, nil)
			Expect(sig).NotTo(BeNil())
			Expect(sig.Direction).To(Equal(telnet.Inbound))
			Expect(sig.Enable).To(BeTrue())
		})
	})

	Context("Decompress error handling", func() {
		It("sends DONT when the remote view is the active compressor", func() {
			e.IngestNegotiation(telnet.WILL, telnet.MCCP3)
			frames := e.HandleDecompressError(telnet.MCCP3)
			Expect(frames).To(Equal([]telnet.Frame{telnet.NegotiationFrame(telnet.DONT, telnet.MCCP3)}))
			Expect(e.IsEnabled(telnet.Remote, telnet.MCCP3)).To(BeFalse())
		})

		It("sends WONT when the local view is the active compressor", func() {
			e.IngestNegotiation(telnet.DO, telnet.MCCP2)
			frames := e.HandleDecompressError(telnet.MCCP2)
			Expect(frames).To(Equal([]telnet.Frame{telnet.NegotiationFrame(telnet.WONT, telnet.MCCP2)}))
		})
	})
})
