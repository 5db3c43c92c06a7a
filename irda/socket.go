package irda

import "errors"

var (
	// ErrTimeout indicates that the peer did not deliver the requested bytes in time.
	ErrTimeout = errors.New("irda: timeout")
	// ErrClosed indicates an operation on a closed socket.
	ErrClosed = errors.New("irda: socket closed")
	// ErrNotConnected indicates a transfer on a socket that has not been connected.
	ErrNotConnected = errors.New("irda: socket not connected")
	// ErrUnknownPeer indicates a connect to an address no discovery reported.
	ErrUnknownPeer = errors.New("irda: unknown peer address")
)

// DiscoveryFunc is invoked once per device found during discovery.
type DiscoveryFunc func(address uint32, name string, charset uint, hints uint)

// Socket is a connection-oriented link to a single peer.
//
// A Socket is not safe for concurrent use, except that Close may be called to unblock a
// pending Read.
type Socket interface {
	// Discover reports the devices in range to fn.
	Discover(fn DiscoveryFunc) error
	// Connect connects to the service access point lsap of the device at address.
	Connect(address uint32, lsap uint) error
	// Write sends p and returns the number of bytes written.
	Write(p []byte) (int, error)
	// Read blocks until len(p) bytes are received or the read timeout expires.
	Read(p []byte) (int, error)
	// Available returns the number of bytes that can be read without blocking.
	Available() int
	// Close releases the socket.
	Close() error
}

// Opener opens a new, unconnected socket.
type Opener func() (Socket, error)

// Peer describes the single device reachable through a point-to-point adapter.
type Peer struct {
	Address uint32
	Name    string
	Charset uint
	Hints   uint
}
