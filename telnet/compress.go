package telnet

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// Direction names one half of a duplex connection for compression purposes.
type Direction int

const (
	Inbound Direction = iota
	Outbound
)

// outboundCompressor wraps the write path in an RFC 1950 zlib stream once
// activated. zlib writers are already incremental, so no extra buffering is
// needed beyond what bufio.Writer already provides upstream.
type outboundCompressor struct {
	w *zlib.Writer
}

func newOutboundCompressor(dst io.Writer) *outboundCompressor {
	return &outboundCompressor{w: zlib.NewWriter(dst)}
}

func (c *outboundCompressor) Write(p []byte) (int, error) {
	return c.w.Write(p)
}

func (c *outboundCompressor) Flush() error {
	return c.w.Flush()
}

// Close finalizes the stream with Z_FINISH per spec.md §4.3 tear-down.
func (c *outboundCompressor) Close() error {
	return c.w.Close()
}

// feeder is a byte sink a background goroutine can block-read from via
// sync.Cond, used to drive klauspost/compress/zlib.Reader incrementally as
// raw compressed bytes arrive at arbitrary chunk boundaries — including the
// remainder bytes immediately following the IAC SE that activated
// compression (spec.md §4.3, Testable Property 9).
type feeder struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    bytes.Buffer
	closed bool
}

func newFeeder() *feeder {
	f := &feeder{}
	f.cond = sync.NewCond(&f.mu)
	return f
}

func (f *feeder) push(b []byte) {
	f.mu.Lock()
	f.buf.Write(b)
	f.cond.Signal()
	f.mu.Unlock()
}

func (f *feeder) close() {
	f.mu.Lock()
	f.closed = true
	f.cond.Signal()
	f.mu.Unlock()
}

func (f *feeder) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for f.buf.Len() == 0 && !f.closed {
		f.cond.Wait()
	}
	if f.buf.Len() == 0 {
		return 0, io.EOF
	}
	return f.buf.Read(p)
}

// inboundCompressor decompresses bytes fed to it incrementally, in arbitrary
// chunk sizes, producing decompressed output on demand via InflateFeed.
type inboundCompressor struct {
	feed   *feeder
	out    chan []byte
	errc   chan error
	done   chan struct{}
}

func newInboundCompressor() *inboundCompressor {
	c := &inboundCompressor{
		feed: newFeeder(),
		out:  make(chan []byte, 16),
		errc: make(chan error, 1),
		done: make(chan struct{}),
	}
	go c.pump()
	return c
}

func (c *inboundCompressor) pump() {
	defer close(c.done)
	zr, err := zlib.NewReader(c.feed)
	if err != nil {
		select {
		case c.errc <- err:
		default:
		}
		return
	}
	buf := make([]byte, 4096)
	for {
		n, err := zr.Read(buf)
		if n > 0 {
			out := make([]byte, n)
			copy(out, buf[:n])
			c.out <- out
		}
		if err != nil {
			if err != io.EOF {
				select {
				case c.errc <- err:
				default:
				}
			}
			return
		}
	}
}

// InflateFeed pushes raw bytes into the decompressor and returns whatever
// decompressed output is ready without blocking further than necessary for
// the push itself.
func (c *inboundCompressor) InflateFeed(raw []byte) ([]byte, error) {
	c.feed.push(raw)

	var out []byte
	for {
		select {
		case chunk := <-c.out:
			out = append(out, chunk...)
		case err := <-c.errc:
			return out, err
		default:
			return out, nil
		}
	}
}

// Close tears the decompressor down; any bytes already produced remain
// valid framer input per spec.md §4.3.
func (c *inboundCompressor) Close() {
	c.feed.close()
	<-c.done
}
