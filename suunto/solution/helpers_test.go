package solution

import (
	"math/rand/v2"
	"testing"

	"github.com/arloliu/go-divelog/dc"
	"github.com/stretchr/testify/require"
)

// dive prefixes body with an empty header.
func dive(body ...byte) []byte {
	return append([]byte{0x00, 0x00, 0x00}, body...)
}

func newTestParser(t *testing.T, data []byte, opts ...Option) *Parser {
	t.Helper()

	p, err := NewParser(opts...)
	require.NoError(t, err)
	require.NoError(t, p.SetData(data))

	return p
}

func depthSample(feet int) dc.Sample {
	return dc.Sample{Type: dc.SampleDepth, Depth: float64(feet) * dc.Feet}
}

func timeSample(seconds uint32) dc.Sample {
	return dc.Sample{Type: dc.SampleTime, Time: seconds}
}

func eventSample(typ dc.EventType) dc.Sample {
	return dc.Sample{Type: dc.SampleEvent, Event: dc.SampleEventInfo{Type: typ}}
}

// randomDive builds a well formed dive and returns the number of depth records and the
// deepest point in feet it encodes.
func randomDive(r *rand.Rand, records int) (data []byte, nsamples int, maxdepth int) {
	data = dive()
	depth := 0
	for range records {
		b := byte(r.IntN(256))
		if b == endMarker {
			continue
		}
		data = append(data, b)
		if isEvent(b) {
			continue
		}

		delta := int(int8(b))
		if b == escapeDescent || b == escapeAscent {
			ext := byte(r.IntN(256))
			data = append(data, ext)
			delta += int(int8(ext))
		}
		depth += delta
		maxdepth = max(maxdepth, depth)
		nsamples++
	}
	data = append(data, endMarker, byte(r.IntN(3)))

	return data, nsamples, maxdepth
}
