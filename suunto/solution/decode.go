package solution

import (
	"fmt"

	"github.com/arloliu/go-divelog/dc"
)

const (
	// headerSize is the number of bytes preceding the sample stream.
	headerSize = 3
	// minDiveSize is the smallest buffer that can hold a dive.
	minDiveSize = 4

	eventDecoStop   byte = 0x7E
	eventCeiling    byte = 0x7F
	endMarker       byte = 0x80
	eventSlowAscent byte = 0x81
	eventReserved   byte = 0x82

	escapeAscent  byte = 0x83
	escapeDescent byte = 0x7D

	// sampleInterval is the time covered by one depth record, in seconds.
	sampleInterval = 3 * 60
)

func isEvent(b byte) bool {
	return b >= eventDecoStop && b <= eventReserved
}

func eventType(b byte) (dc.EventType, bool) {
	switch b {
	case eventDecoStop:
		return dc.EventDecoStop, true
	case eventCeiling:
		return dc.EventCeiling, true
	case eventSlowAscent:
		return dc.EventAscent, true
	default:
		return dc.EventUnknown, false
	}
}

// record is one decoded entry of the stream.
type record struct {
	event bool
	code  byte
	// delta is the depth change in feet.
	delta int
}

// reader walks the sample stream of one dive with bounds checks on every byte.
type reader struct {
	data   []byte
	offset int
}

func newReader(data []byte) (*reader, error) {
	if len(data) < minDiveSize {
		return nil, fmt.Errorf("%w: dive has %d bytes, want at least %d", dc.ErrDataFormat, len(data), minDiveSize)
	}

	return &reader{data: data, offset: headerSize}, nil
}

// next decodes the record at the current offset. ok is false once the end marker or the
// end of the buffer is reached.
func (r *reader) next() (rec record, ok bool, err error) {
	if r.offset >= len(r.data) || r.data[r.offset] == endMarker {
		return record{}, false, nil
	}

	value := r.data[r.offset]
	r.offset++

	if isEvent(value) {
		return record{event: true, code: value}, true, nil
	}

	delta := int(int8(value))
	if value == escapeDescent || value == escapeAscent {
		if r.offset >= len(r.data) {
			return record{}, false, fmt.Errorf("%w: depth escape at offset %d is truncated", dc.ErrDataFormat, r.offset-1)
		}
		delta += int(int8(r.data[r.offset]))
		r.offset++
	}

	return record{delta: delta}, true, nil
}

// end checks that the walk stopped on the end marker and returns its offset.
func (r *reader) end() (int, error) {
	if r.offset >= len(r.data) || r.data[r.offset] != endMarker {
		return 0, fmt.Errorf("%w: end marker missing", dc.ErrDataFormat)
	}

	return r.offset, nil
}

// summary holds the cached dive totals.
type summary struct {
	valid    bool
	divetime uint32
	// maxdepth in feet.
	maxdepth int
}

// computeSummary walks the stream counting depth records and tracking the deepest point.
func computeSummary(data []byte) (summary, error) {
	r, err := newReader(data)
	if err != nil {
		return summary{}, err
	}

	nsamples, depth, maxdepth := 0, 0, 0
	for {
		rec, ok, err := r.next()
		if err != nil {
			return summary{}, err
		}
		if !ok {
			break
		}
		if rec.event {
			continue
		}

		depth += rec.delta
		maxdepth = max(maxdepth, depth)
		nsamples++
	}

	marker, err := r.end()
	if err != nil {
		return summary{}, err
	}
	if marker+1 >= len(data) {
		return summary{}, fmt.Errorf("%w: remainder after end marker missing", dc.ErrDataFormat)
	}

	return summary{
		valid:    true,
		divetime: uint32((nsamples*3 + int(data[marker+1])) * 60), //nolint:gosec
		maxdepth: maxdepth,
	}, nil
}
