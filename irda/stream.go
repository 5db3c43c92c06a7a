package irda

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/arloliu/go-divelog/internal/pool"
)

// DefaultReadTimeout is the read timeout of a StreamSocket.
const DefaultReadTimeout = 3 * time.Second

// streamBufferSize is the size of the buffer used by the receive pump.
const streamBufferSize = 4096

// StreamSocket adapts a byte stream, such as a serial IrDA dongle or a TCP bridge, to the
// Socket interface.
//
// The stream has exactly one peer, which is reported by Discover. A background goroutine
// moves received bytes into a buffer so Available can report them without blocking.
type StreamSocket struct {
	rwc         io.ReadWriteCloser
	peer        Peer
	readTimeout time.Duration

	mu        sync.Mutex
	rx        []byte
	rxErr     error
	connected bool
	closed    bool

	notify chan struct{}
	done   chan struct{}
	once   sync.Once
}

var _ Socket = (*StreamSocket)(nil)

// StreamOption configures a StreamSocket.
type StreamOption interface {
	apply(*StreamSocket) error
}

type streamOptFunc func(*StreamSocket) error

func (f streamOptFunc) apply(s *StreamSocket) error { return f(s) }

// WithReadTimeout sets how long Read waits for the requested bytes.
func WithReadTimeout(d time.Duration) StreamOption {
	return streamOptFunc(func(s *StreamSocket) error {
		if d <= 0 {
			return errors.New("irda: read timeout must be positive")
		}
		s.readTimeout = d

		return nil
	})
}

// NewStreamSocket wraps rwc. The returned socket owns rwc and closes it on Close.
func NewStreamSocket(rwc io.ReadWriteCloser, peer Peer, opts ...StreamOption) (*StreamSocket, error) {
	if rwc == nil {
		return nil, errors.New("irda: stream is nil")
	}

	s := &StreamSocket{
		rwc:         rwc,
		peer:        peer,
		readTimeout: DefaultReadTimeout,
		notify:      make(chan struct{}, 1),
		done:        make(chan struct{}),
	}

	for _, opt := range opts {
		if err := opt.apply(s); err != nil {
			return nil, err
		}
	}

	go s.pump()

	return s, nil
}

func (s *StreamSocket) pump() {
	buf := make([]byte, streamBufferSize)
	for {
		n, err := s.rwc.Read(buf)

		s.mu.Lock()
		s.rx = append(s.rx, buf[:n]...)
		if err != nil {
			s.rxErr = err
		}
		s.mu.Unlock()

		select {
		case s.notify <- struct{}{}:
		default:
		}

		if err != nil {
			return
		}
	}
}

// Discover reports the configured peer.
func (s *StreamSocket) Discover(fn DiscoveryFunc) error {
	if s.isClosed() {
		return ErrClosed
	}
	if fn != nil {
		fn(s.peer.Address, s.peer.Name, s.peer.Charset, s.peer.Hints)
	}

	return nil
}

// Connect accepts the address of the configured peer only. The stream has no service
// access points, so lsap is ignored.
func (s *StreamSocket) Connect(address uint32, _ uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if address != s.peer.Address {
		return fmt.Errorf("%w: 0x%08X", ErrUnknownPeer, address)
	}
	s.connected = true

	return nil
}

// Write sends p over the stream.
func (s *StreamSocket) Write(p []byte) (int, error) {
	s.mu.Lock()
	connected, closed := s.connected, s.closed
	s.mu.Unlock()

	if closed {
		return 0, ErrClosed
	}
	if !connected {
		return 0, ErrNotConnected
	}

	written := 0
	for written < len(p) {
		n, err := s.rwc.Write(p[written:])
		written += n
		if err != nil {
			return written, err
		}
	}

	return written, nil
}

// Read fills p from the receive buffer, waiting up to the read timeout for missing bytes.
func (s *StreamSocket) Read(p []byte) (int, error) {
	timer := pool.GetTimer(s.readTimeout)
	defer pool.PutTimer(timer)

	read := 0
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return read, ErrClosed
		}
		if !s.connected {
			s.mu.Unlock()
			return read, ErrNotConnected
		}
		n := copy(p[read:], s.rx)
		s.rx = s.rx[n:]
		read += n
		rxErr := s.rxErr
		s.mu.Unlock()

		if read == len(p) {
			return read, nil
		}
		if rxErr != nil {
			if errors.Is(rxErr, io.EOF) {
				return read, fmt.Errorf("irda: stream ended: %w", io.ErrUnexpectedEOF)
			}
			return read, rxErr
		}

		select {
		case <-s.notify:
		case <-timer.C:
			return s.drain(p, read)
		case <-s.done:
			return read, ErrClosed
		}
	}
}

// drain picks up bytes that raced with the timer before reporting the timeout.
func (s *StreamSocket) drain(p []byte, read int) (int, error) {
	s.mu.Lock()
	n := copy(p[read:], s.rx)
	s.rx = s.rx[n:]
	s.mu.Unlock()

	read += n
	if read == len(p) {
		return read, nil
	}

	return read, ErrTimeout
}

// Available returns the number of buffered bytes.
func (s *StreamSocket) Available() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.rx)
}

// Close closes the underlying stream and unblocks a pending Read.
func (s *StreamSocket) Close() error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		close(s.done)
		err = s.rwc.Close()
	})

	return err
}

func (s *StreamSocket) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}
