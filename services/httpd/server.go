package httpd

import (
	"bytes"
	"errors"
	"net"
	"time"

	"envnode-go/errcode"
)

// Handler builds the HTML body for one request.
type Handler func(Request) []byte

const (
	DefaultBufSize     = 1024
	DefaultReadTimeout = 2 * time.Second
)

var header = []byte("HTTP/1.1 200 OK\r\nContent-Type: text/html\r\n\r\n")

// Server owns the listener. It is used from a single goroutine.
type Server struct {
	ln          net.Listener
	buf         []byte
	readTimeout time.Duration
}

// New wraps ln. bufSize <= 0 selects DefaultBufSize.
func New(ln net.Listener, bufSize int, readTimeout time.Duration) *Server {
	if bufSize <= 0 {
		bufSize = DefaultBufSize
	}
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}
	return &Server{ln: ln, buf: make([]byte, bufSize), readTimeout: readTimeout}
}

// Addr returns the listening address.
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

// Close unblocks a pending AcceptAndServe.
func (s *Server) Close() error { return s.ln.Close() }

// AcceptAndServe blocks for one client, reads up to one buffer, calls h and
// writes the response. The connection is always closed. A malformed request
// line is still answered with h's page; the call then reports
// errcode.MalformedRequest.
func (s *Server) AcceptAndServe(h Handler) error {
	conn, err := s.ln.Accept()
	if err != nil {
		return &errcode.E{C: errcode.AcceptFailed, Op: "httpd.accept", Err: err}
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	n, err := s.readLine(conn)
	if err != nil && n == 0 {
		return &errcode.E{C: errcode.IOFailed, Op: "httpd.read", Err: err}
	}

	req, perr := ParseRequestLine(s.buf[:n])
	if conn.RemoteAddr() != nil {
		req.Peer = conn.RemoteAddr().String()
	}
	body := h(req)

	_ = conn.SetWriteDeadline(time.Now().Add(s.readTimeout))
	if _, err := conn.Write(header); err != nil {
		return &errcode.E{C: errcode.IOFailed, Op: "httpd.write", Err: err}
	}
	if _, err := conn.Write(body); err != nil {
		return &errcode.E{C: errcode.IOFailed, Op: "httpd.write", Err: err}
	}
	return perr
}

// readLine fills the buffer until it holds a newline, is full, or the read
// deadline passes. Only the request line is needed.
func (s *Server) readLine(conn net.Conn) (int, error) {
	n := 0
	for n < len(s.buf) {
		m, err := conn.Read(s.buf[n:])
		n += m
		if bytes.IndexByte(s.buf[:n], '\n') >= 0 {
			return n, nil
		}
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// Closed reports whether err came from a listener that was closed.
func Closed(err error) bool { return errors.Is(err, net.ErrClosed) }
