// Package smarttest simulates a Uwatec Smart dive computer, either behind an
// irdatest.Socket or on a TCP listener speaking the transparent bridge protocol.
package smarttest

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"slices"
	"sync"

	"github.com/arloliu/go-divelog/dc"
	"github.com/arloliu/go-divelog/irda"
	"github.com/arloliu/go-divelog/irda/irdatest"
	"github.com/arloliu/go-divelog/logger"
	"github.com/arloliu/go-divelog/uwatec/smart"
)

// commandSizes maps each opcode to the length of the full command.
var commandSizes = map[byte]int{
	0x1B: 1,
	0x1C: 5,
	0x10: 1,
	0x14: 1,
	0x1A: 1,
	0xC6: 9,
	0xC4: 9,
}

// Simulator answers the Uwatec Smart command set from an in-memory image.
type Simulator struct {
	// Name is reported by discovery.
	Name    string
	Address uint32
	Model   byte
	Serial  uint32
	DevTime uint32
	// Memory is the full memory image, oldest dive first. Data commands return the dives
	// whose fingerprint timestamp is newer than the requested one.
	Memory []byte

	Logger logger.Logger

	mu       sync.Mutex
	sessions int
}

// NewSimulator returns a simulator holding memory.
func NewSimulator(memory []byte) *Simulator {
	return &Simulator{
		Name:    "UWATEC Galileo Sol",
		Address: 0x2A2B2C2D,
		Model:   0x11,
		Serial:  12345678,
		DevTime: 0x0F0E0D0C,
		Memory:  memory,
		Logger:  logger.GetLogger(),
	}
}

// Peer returns the discovery record of the simulated device.
func (s *Simulator) Peer() irda.Peer {
	return irda.Peer{Address: s.Address, Name: s.Name}
}

// Socket returns a scripted socket served by s.
func (s *Simulator) Socket() *irdatest.Socket {
	return &irdatest.Socket{
		Peers:   []irda.Peer{s.Peer()},
		Respond: s.Respond,
	}
}

// Sessions returns how many TCP connections Serve has handled.
func (s *Simulator) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions
}

// Respond returns the answer to one complete command, or nil for unknown commands.
func (s *Simulator) Respond(cmd []byte) []byte {
	if len(cmd) == 0 || len(cmd) != commandSizes[cmd[0]] {
		return nil
	}

	switch cmd[0] {
	case 0x1B, 0x1C:
		return []byte{0x01}
	case 0x10:
		return []byte{s.Model}
	case 0x14:
		return binary.LittleEndian.AppendUint32(nil, s.Serial)
	case 0x1A:
		return binary.LittleEndian.AppendUint32(nil, s.DevTime)
	case 0xC6:
		data := s.newerThan(binary.LittleEndian.Uint32(cmd[1:5]))
		return binary.LittleEndian.AppendUint32(nil, uint32(len(data))) //nolint:gosec
	case 0xC4:
		data := s.newerThan(binary.LittleEndian.Uint32(cmd[1:5]))
		if len(data) == 0 {
			return nil
		}
		answer := binary.LittleEndian.AppendUint32(nil, uint32(len(data)+4)) //nolint:gosec

		return append(answer, data...)
	}

	return nil
}

// newerThan returns the dives recorded after timestamp, oldest first.
func (s *Simulator) newerThan(timestamp uint32) []byte {
	var dives [][]byte
	for d, err := range smart.Dives(s.Memory) {
		if err != nil {
			s.Logger.Warn("smarttest: memory image is malformed, serving it whole", "error", err)
			return s.Memory
		}
		if binary.LittleEndian.Uint32(d.Fingerprint) <= timestamp {
			break
		}
		dives = append(dives, d.Data)
	}
	slices.Reverse(dives)

	return slices.Concat(dives...)
}

// Serve accepts bridge connections on ln until ln is closed.
func (s *Simulator) Serve(ln net.Listener) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}

			return fmt.Errorf("smarttest: accept: %w", err)
		}

		s.mu.Lock()
		s.sessions++
		s.mu.Unlock()

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.serveConn(conn); err != nil {
				s.Logger.Warn("smarttest: session ended", "remote", conn.RemoteAddr().String(), "error", err)
			}
		}()
	}
}

func (s *Simulator) serveConn(conn net.Conn) error {
	defer conn.Close()

	opcode := make([]byte, 1)
	for {
		if _, err := io.ReadFull(conn, opcode); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return err
		}

		size, ok := commandSizes[opcode[0]]
		if !ok {
			return fmt.Errorf("%w: unknown opcode 0x%02X", dc.ErrProtocol, opcode[0])
		}

		cmd := make([]byte, size)
		cmd[0] = opcode[0]
		if _, err := io.ReadFull(conn, cmd[1:]); err != nil {
			return err
		}

		s.Logger.Debug("smarttest: command received", "command", cmd[0], "size", size)
		if answer := s.Respond(cmd); len(answer) > 0 {
			if _, err := conn.Write(answer); err != nil {
				return err
			}
		}
	}
}
