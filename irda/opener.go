package irda

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/tarm/serial"
)

// TCPOpener returns an Opener dialing addr, e.g. an IrDA bridge daemon or a device
// simulator. The bridge is expected to forward bytes transparently to peer.
func TCPOpener(addr string, peer Peer, dialTimeout time.Duration, opts ...StreamOption) Opener {
	return func() (Socket, error) {
		conn, err := net.DialTimeout("tcp", addr, dialTimeout)
		if err != nil {
			return nil, fmt.Errorf("irda: dial %s: %w", addr, err)
		}

		s, err := NewStreamSocket(conn, peer, opts...)
		if err != nil {
			_ = conn.Close()
			return nil, err
		}

		return s, nil
	}
}

// SerialConfig describes a serial IrDA dongle operating in transparent mode.
type SerialConfig struct {
	// Port is the device name, e.g. "/dev/ttyUSB0" or "COM3".
	Port string
	// Baud is the line speed.
	Baud int
	// Peer is reported by discovery.
	Peer Peer
	// ReadTimeout bounds each blocking Read on the socket.
	ReadTimeout time.Duration
}

// serialPollTimeout bounds a single read of the serial port so the receive pump
// notices a Close.
const serialPollTimeout = 100 * time.Millisecond

// SerialOpener returns an Opener for the serial port described by cfg.
func SerialOpener(cfg SerialConfig) Opener {
	return func() (Socket, error) {
		if cfg.Port == "" {
			return nil, errors.New("irda: serial port name is empty")
		}

		port, err := serial.OpenPort(&serial.Config{
			Name:        cfg.Port,
			Baud:        cfg.Baud,
			ReadTimeout: serialPollTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("irda: open serial port %s: %w", cfg.Port, err)
		}

		var opts []StreamOption
		if cfg.ReadTimeout > 0 {
			opts = append(opts, WithReadTimeout(cfg.ReadTimeout))
		}

		s, err := NewStreamSocket(&serialStream{port: port}, cfg.Peer, opts...)
		if err != nil {
			_ = port.Close()
			return nil, err
		}

		return s, nil
	}
}

// serialStream turns the empty result of a serial read timeout into a retry, so the pump
// only stops on real errors. Depending on the platform a timed out read reports either
// (0, nil) or (0, io.EOF).
type serialStream struct {
	port *serial.Port
}

func (s *serialStream) Read(p []byte) (int, error) {
	for {
		n, err := s.port.Read(p)
		if n > 0 {
			return n, nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, err
		}
	}
}

func (s *serialStream) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

func (s *serialStream) Close() error {
	return s.port.Close()
}
