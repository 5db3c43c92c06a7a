package smart

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"iter"

	"github.com/arloliu/go-divelog/dc"
)

// diveMarker starts every dive in the memory image.
var diveMarker = []byte{0xA5, 0xA5, 0x5A, 0x5A}

const (
	// lengthOffset is the offset of the LE32 dive length from the dive start.
	lengthOffset = 4
	// fingerprintOffset is the offset of the dive fingerprint from the dive start.
	fingerprintOffset = 8
)

// ExtractDives reports the dives in image to fn, newest first. fn may stop the scan by
// returning false, which is not an error.
//
// dev may be nil. A device of another family is rejected with dc.ErrInvalidArgs.
func ExtractDives(dev dc.Device, image []byte, fn dc.DiveFunc) error {
	if dev != nil && dev.Family() != dc.FamilyUwatecSmart {
		return fmt.Errorf("%w: device family %s is not %s", dc.ErrInvalidArgs, dev.Family(), dc.FamilyUwatecSmart)
	}

	return scanDives(image, fn)
}

// Dives returns an iterator over the dives in image, newest first. A malformed image
// yields a single error as the last element.
func Dives(image []byte) iter.Seq2[dc.Dive, error] {
	return func(yield func(dc.Dive, error) bool) {
		err := scanDives(image, func(d dc.Dive) bool {
			return yield(d, nil)
		})
		if err != nil {
			yield(dc.Dive{}, err)
		}
	}
}

// scanDives walks image backwards looking for dive markers. previous is the start of the
// dive found last, so a dive must end at or before it.
func scanDives(image []byte, fn dc.DiveFunc) error {
	size := len(image)
	previous := size

	current := 0
	if size >= len(diveMarker) {
		current = size - len(diveMarker)
	}

	for current > 0 {
		current--
		if !bytes.Equal(image[current:current+len(diveMarker)], diveMarker) {
			continue
		}

		if current+fingerprintOffset+FingerprintSize > size {
			return fmt.Errorf("%w: dive header at offset %d is truncated", dc.ErrDataFormat, current)
		}

		length := uint64(binary.LittleEndian.Uint32(image[current+lengthOffset:]))
		if uint64(current)+length > uint64(previous) {
			return fmt.Errorf("%w: dive at offset %d with length %d overlaps the next dive at %d",
				dc.ErrDataFormat, current, length, previous)
		}

		end := current + int(length)
		fp := current + fingerprintOffset
		dive := dc.Dive{
			Offset:      current,
			Data:        image[current:end:end],
			Fingerprint: image[fp : fp+FingerprintSize : fp+FingerprintSize],
		}
		if fn != nil && !fn(dive) {
			return nil
		}

		previous = current
		if current >= len(diveMarker) {
			current -= len(diveMarker)
		} else {
			current = 0
		}
	}

	return nil
}

func init() {
	dc.Register(dc.Backend{
		Family: dc.FamilyUwatecSmart,
		ExtractDives: func(image []byte, fn dc.DiveFunc) error {
			return scanDives(image, fn)
		},
	})
}
