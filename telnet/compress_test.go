package telnet_test

import (
	"io"
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/huhlig/termionix/telnet"
)

var _ = Describe("Outbound compression activation", func() {
	It("wraps everything written after EnableCompression in a valid zlib stream", func() {
		serverConn, clientConn := net.Pipe()
		serverConn.SetDeadline(time.Now().Add(2 * time.Second))
		clientConn.SetDeadline(time.Now().Add(2 * time.Second))

		h := telnet.NewConnection(serverConn, nil)
		defer h.Close()
		defer clientConn.Close()

		Expect(h.EnableCompression(telnet.MCCP2)).To(Succeed())
		Expect(h.Send(telnet.SendText("hello"), true)).To(Succeed())

		// The announcement is flushed on its own before compression starts,
		// and a net.Pipe Read never spans two writes, so read until at least
		// one byte past the announcement has arrived.
		announcement := []byte{telnet.IAC, telnet.SB, telnet.MCCP2, telnet.IAC, telnet.SE}
		buf := make([]byte, 4096)
		n, err := io.ReadAtLeast(clientConn, buf, len(announcement)+1)
		Expect(err).NotTo(HaveOccurred())

		Expect(buf[:len(announcement)]).To(Equal(announcement))
		Expect(n).To(BeNumerically(">", len(announcement)))

		// Everything after the announcement is zlib (RFC 1950): it must open
		// with the standard CMF/FLG header rather than plaintext "hello".
		Expect(buf[len(announcement)]).To(Equal(byte(0x78)))
	})
})
