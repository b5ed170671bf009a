package ingest

import (
	"bytes"
	"context"
	"sync"

	"github.com/panjf2000/gnet/v2"
	"github.com/panjf2000/gnet/v2/pkg/logging"
	"github.com/valyala/bytebufferpool"
)

const defaultMaxLineBytes = 4096

// TCPServer reads newline terminated "<beacon> <rssi>" lines and answers each with OK or ERR
type TCPServer struct {
	gnet.BuiltinEventEngine

	rec       Recorder
	addr      string
	multicore bool
	maxLine   int
	logger    logging.Logger

	mu      sync.Mutex
	eng     gnet.Engine
	running bool
	stopped bool // Stop was called, a later boot shuts down immediately
}

// TCPOption customizes a TCPServer
type TCPOption func(*TCPServer)

// WithMulticore runs one event loop per CPU
func WithMulticore(enabled bool) TCPOption {
	return func(s *TCPServer) {
		s.multicore = enabled
	}
}

// WithMaxLineBytes bounds the bytes buffered for an unterminated line
func WithMaxLineBytes(n int) TCPOption {
	return func(s *TCPServer) {
		if n > 0 {
			s.maxLine = n
		}
	}
}

// WithTCPLogger sets the logger gnet reports engine events to
func WithTCPLogger(l logging.Logger) TCPOption {
	return func(s *TCPServer) {
		s.logger = l
	}
}

// connState holds the unterminated tail of a connection's input
type connState struct {
	pending []byte
}

// NewTCPServer creates a server bound to addr, "host:port"
func NewTCPServer(rec Recorder, addr string, opts ...TCPOption) *TCPServer {
	s := &TCPServer{
		rec:     rec,
		addr:    addr,
		maxLine: defaultMaxLineBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run blocks serving until Stop
func (s *TCPServer) Run() error {
	opts := []gnet.Option{gnet.WithMulticore(s.multicore)}
	if s.logger != nil {
		opts = append(opts, gnet.WithLogger(s.logger))
	}
	return gnet.Run(s, "tcp://"+s.addr, opts...)
}

// Stop shuts the engine down. Called before boot, it makes Run return as soon as the engine boots.
func (s *TCPServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	eng, running := s.eng, s.running
	s.running = false
	s.stopped = true
	s.mu.Unlock()

	if !running {
		return nil
	}
	return eng.Stop(ctx)
}

func (s *TCPServer) OnBoot(eng gnet.Engine) gnet.Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return gnet.Shutdown
	}
	s.eng = eng
	s.running = true
	return gnet.None
}

func (s *TCPServer) OnOpen(c gnet.Conn) ([]byte, gnet.Action) {
	c.SetContext(&connState{})
	return nil, gnet.None
}

func (s *TCPServer) OnTraffic(c gnet.Conn) gnet.Action {
	data, err := c.Next(-1)
	if err != nil {
		return gnet.Close
	}

	st, ok := c.Context().(*connState)
	if !ok {
		st = &connState{}
		c.SetContext(st)
	}

	reply := bytebufferpool.Get()
	defer bytebufferpool.Put(reply)

	overflow := s.process(st, data, reply)
	if reply.Len() > 0 {
		if _, err := c.Write(reply.B); err != nil {
			return gnet.Close
		}
	}
	if overflow {
		return gnet.Close
	}
	return gnet.None
}

// process consumes data, records every complete line in order and appends one reply per line.
// It returns true when the unterminated remainder exceeds the line limit.
func (s *TCPServer) process(st *connState, data []byte, reply *bytebufferpool.ByteBuffer) bool {
	st.pending = append(st.pending, data...)

	consumed := 0
	for {
		i := bytes.IndexByte(st.pending[consumed:], '\n')
		if i < 0 {
			break
		}
		line := st.pending[consumed : consumed+i]
		consumed += i + 1

		line = bytes.TrimSuffix(line, []byte{'\r'})
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		s.handleLine(string(line), reply)
	}

	// Keep the tail at the front of the buffer, the backing array is reused
	n := copy(st.pending, st.pending[consumed:])
	st.pending = st.pending[:n]

	if len(st.pending) > s.maxLine {
		st.pending = st.pending[:0]
		_, _ = reply.WriteString("ERR line too long\n")
		return true
	}
	return false
}

func (s *TCPServer) handleLine(line string, reply *bytebufferpool.ByteBuffer) {
	beaconID, rssi, err := parseLine(line)
	if err != nil {
		_, _ = reply.WriteString(replyError(err))
		return
	}
	if err := s.rec.Record(beaconID, rssi); err != nil {
		_, _ = reply.WriteString(replyError(err))
		return
	}
	_, _ = reply.WriteString("OK\n")
}
