// Package irdatest provides a scripted irda.Socket for testing device drivers without
// hardware.
package irdatest

import (
	"slices"
	"sync"

	"github.com/arloliu/go-divelog/irda"
)

// Responder computes the bytes a simulated device sends back after receiving cmd.
// The returned bytes are appended to the receive buffer of the socket.
type Responder func(cmd []byte) []byte

// Socket is an in-memory irda.Socket driven by a Responder.
//
// Every write is recorded and passed to the Responder; reads are served from the bytes the
// Responder produced. A read asking for more bytes than buffered returns what is there
// together with irda.ErrTimeout, which is how a silent device behaves on a real link.
type Socket struct {
	// Peers are reported by Discover.
	Peers []irda.Peer
	// Respond produces the answer to each write. Nil means the device never answers.
	Respond Responder
	// AvailableFunc overrides Available. Nil reports the buffered byte count.
	AvailableFunc func() int

	// Error injection.
	DiscoverErr error
	ConnectErr  error
	WriteErr    error
	ReadErr     error
	CloseErr    error
	// ShortWrite makes every write report one byte less than requested.
	ShortWrite bool

	mu        sync.Mutex
	rx        []byte
	writes    [][]byte
	readSizes []int
	address   uint32
	lsap      uint
	connected bool
	closed    bool
}

var _ irda.Socket = (*Socket)(nil)

// Opener returns an irda.Opener handing out s.
func (s *Socket) Opener() irda.Opener {
	return func() (irda.Socket, error) { return s, nil }
}

// Feed appends data to the receive buffer, as if the device had sent it unprompted.
func (s *Socket) Feed(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rx = append(s.rx, data...)
}

func (s *Socket) Discover(fn irda.DiscoveryFunc) error {
	if s.DiscoverErr != nil {
		return s.DiscoverErr
	}
	for _, p := range s.Peers {
		fn(p.Address, p.Name, p.Charset, p.Hints)
	}

	return nil
}

func (s *Socket) Connect(address uint32, lsap uint) error {
	if s.ConnectErr != nil {
		return s.ConnectErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.address, s.lsap, s.connected = address, lsap, true

	return nil
}

func (s *Socket) Write(p []byte) (int, error) {
	s.mu.Lock()
	s.writes = append(s.writes, slices.Clone(p))
	s.mu.Unlock()

	if s.WriteErr != nil {
		return 0, s.WriteErr
	}
	if s.ShortWrite && len(p) > 0 {
		return len(p) - 1, nil
	}

	if s.Respond != nil {
		s.Feed(s.Respond(p))
	}

	return len(p), nil
}

func (s *Socket) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.readSizes = append(s.readSizes, len(p))
	if s.ReadErr != nil {
		return 0, s.ReadErr
	}

	n := copy(p, s.rx)
	s.rx = s.rx[n:]
	if n < len(p) {
		return n, irda.ErrTimeout
	}

	return n, nil
}

func (s *Socket) Available() int {
	if s.AvailableFunc != nil {
		return s.AvailableFunc()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.rx)
}

func (s *Socket) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	return s.CloseErr
}

// Writes returns a copy of every buffer passed to Write.
func (s *Socket) Writes() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.writes)
}

// ReadSizes returns the length of every buffer passed to Read, in call order.
func (s *Socket) ReadSizes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.readSizes)
}

// Connection returns the address and LSAP of the last successful Connect.
func (s *Socket) Connection() (address uint32, lsap uint, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.address, s.lsap, s.connected
}

// Closed reports whether Close was called.
func (s *Socket) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}
