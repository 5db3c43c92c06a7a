package smart_test

import (
	"bytes"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-divelog/dc"
	"github.com/arloliu/go-divelog/irda"
	"github.com/arloliu/go-divelog/logger"
	"github.com/arloliu/go-divelog/uwatec/smart"
	"github.com/arloliu/go-divelog/uwatec/smart/smarttest"
)

func dive(timestamp uint32, size int) []byte {
	d := []byte{0xA5, 0xA5, 0x5A, 0x5A}
	d = binary.LittleEndian.AppendUint32(d, uint32(size)) //nolint:gosec
	d = binary.LittleEndian.AppendUint32(d, timestamp)

	return append(d, bytes.Repeat([]byte{byte(timestamp)}, size-12)...)
}

// startBridge serves sim on a local TCP listener and returns an opener for it.
func startBridge(t *testing.T, sim *smarttest.Simulator) irda.Opener {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- sim.Serve(ln) }()
	t.Cleanup(func() {
		_ = ln.Close()
		require.NoError(t, <-done)
	})

	return irda.TCPOpener(ln.Addr().String(), sim.Peer(), time.Second, irda.WithReadTimeout(2*time.Second))
}

func TestTCPBridge_Download(t *testing.T) {
	memory := bytes.Join([][]byte{dive(1000, 700), dive(2000, 3000), dive(3000, 1500)}, nil)
	sim := smarttest.NewSimulator(memory)
	opener := startBridge(t, sim)

	var progress []dc.ProgressEvent
	var info dc.DevInfoEvent
	dev, err := smart.Open(opener,
		smart.WithLogger(logger.NewSlogWriter(&bytes.Buffer{}, logger.DebugLevel, false)),
		smart.WithEventHandler(dc.EventHandlerFunc(func(ev dc.Event) {
			switch ev := ev.(type) {
			case dc.ProgressEvent:
				progress = append(progress, ev)
			case dc.DevInfoEvent:
				info = ev
			}
		})),
	)
	require.NoError(t, err)
	require.NoError(t, dev.HandshakeErr())

	image, err := dev.Dump()
	require.NoError(t, err)
	assert.Equal(t, memory, image)
	require.NoError(t, dev.Close())

	assert.Equal(t, uint32(0x11), info.Model)
	assert.Equal(t, uint32(12345678), info.Serial)

	last := progress[len(progress)-1]
	assert.Equal(t, last.Maximum, last.Current)
	assert.Equal(t, uint32(len(memory)+4+4+smart.VersionSize), last.Maximum) //nolint:gosec
	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i].Current, progress[i-1].Current)
	}

	var fingerprints []uint32
	for d, err := range smart.Dives(image) {
		require.NoError(t, err)
		fingerprints = append(fingerprints, binary.LittleEndian.Uint32(d.Fingerprint))
	}
	assert.Equal(t, []uint32{3000, 2000, 1000}, fingerprints)
	assert.Equal(t, 1, sim.Sessions())
}

func TestTCPBridge_IncrementalDownload(t *testing.T) {
	memory := bytes.Join([][]byte{dive(1000, 64), dive(2000, 128)}, nil)
	opener := startBridge(t, smarttest.NewSimulator(memory))

	dev, err := smart.Open(opener)
	require.NoError(t, err)
	defer dev.Close()

	require.NoError(t, dev.SetFingerprint(binary.LittleEndian.AppendUint32(nil, 1000)))

	var dives []dc.Dive
	require.NoError(t, dev.Foreach(func(d dc.Dive) bool {
		dives = append(dives, d)
		return true
	}))
	require.Len(t, dives, 1)
	assert.Equal(t, dive(2000, 128), dives[0].Data)

	require.NoError(t, dev.SetFingerprint(dives[0].Fingerprint))
	image, err := dev.Dump()
	require.NoError(t, err)
	assert.Empty(t, image)
}

func TestTCPBridge_Unreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = smart.Open(irda.TCPOpener(addr, irda.Peer{Address: 1, Name: "Aladin"}, 200*time.Millisecond))
	require.ErrorIs(t, err, dc.ErrIO)
}
