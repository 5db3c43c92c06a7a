package smart

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/arloliu/go-divelog/dc"
	"github.com/arloliu/go-divelog/irda"
	"github.com/arloliu/go-divelog/irda/irdatest"
	"github.com/stretchr/testify/require"
)

const testAddress = 0x2A2B2C2D

// simDevice answers the Uwatec Smart command set.
type simDevice struct {
	model   byte
	serial  uint32
	devTime uint32

	// memory holds the bytes returned for any timestamp.
	memory []byte

	ack1, ack2 byte
	// totalDelta corrupts the size announced by the data command.
	totalDelta int
	// dataCut drops bytes from the end of the streamed data.
	dataCut int
	// announced overrides the length answered to the length command when non-zero.
	announced uint32

	timestamps []uint32
}

func newSimDevice(memory []byte) *simDevice {
	return &simDevice{
		model:   0x11,
		serial:  0x00BC614E, // 12345678
		devTime: 0x0F0E0D0C,
		memory:  memory,
		ack1:    ackByte,
		ack2:    ackByte,
	}
}

func le32(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

func (s *simDevice) respond(cmd []byte) []byte {
	switch cmd[0] {
	case cmdHandshake1:
		return []byte{s.ack1}
	case cmdHandshake2:
		return []byte{s.ack2}
	case cmdModel:
		return []byte{s.model}
	case cmdSerial:
		return le32(s.serial)
	case cmdDevTime:
		return le32(s.devTime)
	case cmdDataLength:
		s.timestamps = append(s.timestamps, binary.LittleEndian.Uint32(cmd[1:5]))
		if s.announced != 0 {
			return le32(s.announced)
		}
		return le32(uint32(len(s.memory)))
	case cmdData:
		total := uint32(len(s.memory) + 4 + s.totalDelta)
		return append(le32(total), s.memory[:len(s.memory)-s.dataCut]...)
	}

	return nil
}

// newSimSocket creates a socket with one Uwatec peer served by sim.
func newSimSocket(sim *simDevice) *irdatest.Socket {
	return &irdatest.Socket{
		Peers:   []irda.Peer{{Address: testAddress, Name: "UWATEC Galileo Sol"}},
		Respond: sim.respond,
	}
}

// eventRecorder collects device events.
type eventRecorder struct {
	events []dc.Event
}

func (r *eventRecorder) OnEvent(ev dc.Event) {
	r.events = append(r.events, ev)
}

func (r *eventRecorder) progress() []dc.ProgressEvent {
	var out []dc.ProgressEvent
	for _, ev := range r.events {
		if p, ok := ev.(dc.ProgressEvent); ok {
			out = append(out, p)
		}
	}

	return out
}

var testNow = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

// openTestDevice opens a device on sock with a fixed clock and the given extra options.
func openTestDevice(t *testing.T, sock *irdatest.Socket, opts ...Option) (*Device, *eventRecorder) {
	t.Helper()

	rec := &eventRecorder{}
	defaults := []Option{
		WithEventHandler(rec),
		WithClock(func() time.Time { return testNow }),
	}

	dev, err := Open(sock.Opener(), append(defaults, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dev.Close() })

	return dev, rec
}

// makeDive builds a dive: marker, LE32 length, LE32 timestamp, body.
func makeDive(timestamp uint32, body []byte) []byte {
	dive := append([]byte{}, diveMarker...)
	dive = append(dive, le32(uint32(12+len(body)))...)
	dive = append(dive, le32(timestamp)...)

	return append(dive, body...)
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}
