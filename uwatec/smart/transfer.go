package smart

import (
	"errors"
	"fmt"
	"os"

	"github.com/arloliu/go-divelog/dc"
	"github.com/arloliu/go-divelog/irda"
)

// Command opcodes.
const (
	cmdHandshake1 byte = 0x1B
	cmdHandshake2 byte = 0x1C
	cmdModel      byte = 0x10
	cmdSerial     byte = 0x14
	cmdDevTime    byte = 0x1A
	cmdDataLength byte = 0xC6
	cmdData       byte = 0xC4
)

// ackByte confirms both handshake stages.
const ackByte byte = 0x01

// minChunkSize is the smallest read issued while streaming a dump.
const minChunkSize = 32

// linkError classifies the outcome of a short or failed transfer.
//
// A socket timeout, or a short count without an error, means the device stopped talking
// and is reported as dc.ErrTimeout. Any other socket error is dc.ErrIO.
func linkError(op string, n, want int, err error) error {
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s: transferred %d of %d bytes", dc.ErrTimeout, op, n, want)
	case errors.Is(err, irda.ErrTimeout), errors.Is(err, os.ErrDeadlineExceeded):
		return fmt.Errorf("%w: %s: transferred %d of %d bytes: %w", dc.ErrTimeout, op, n, want, err)
	default:
		return fmt.Errorf("%w: %s: %w", dc.ErrIO, op, err)
	}
}

// transfer writes command and reads exactly len(answer) bytes back.
func (d *Device) transfer(command []byte, answer []byte) error {
	d.metrics.incCommandCount(len(command))

	n, err := d.socket.Write(command)
	if err != nil || n != len(command) {
		d.metrics.incErrorCount()
		d.logger.Error("uwatec: failed to send the command", "command", command[0], "written", n, "error", err)

		return linkError("send command", n, len(command), err)
	}

	n, err = d.socket.Read(answer)
	d.metrics.addBytesReceived(n)
	if err != nil || n != len(answer) {
		d.metrics.incErrorCount()
		d.logger.Error("uwatec: failed to receive the answer", "command", command[0], "read", n, "error", err)

		return linkError("receive answer", n, len(answer), err)
	}

	d.logger.Debug("uwatec: command completed", "command", command[0], "size", len(command), "answer", len(answer))

	return nil
}

// handshake runs both handshake stages. The trailing bytes of the second stage match
// the fixed trailer of the data commands.
func (d *Device) handshake() error {
	answer := make([]byte, 1)
	command := []byte{cmdHandshake1, 0x10, 0x27, 0, 0}

	if err := d.transfer(command[:1], answer); err != nil {
		return err
	}
	if answer[0] != ackByte {
		d.logger.Error("uwatec: unexpected handshake answer", "stage", 1, "answer", answer[0])
		return fmt.Errorf("%w: handshake stage 1: unexpected answer 0x%02X", dc.ErrProtocol, answer[0])
	}

	command[0] = cmdHandshake2
	if err := d.transfer(command, answer); err != nil {
		return err
	}
	if answer[0] != ackByte {
		d.logger.Error("uwatec: unexpected handshake answer", "stage", 2, "answer", answer[0])
		return fmt.Errorf("%w: handshake stage 2: unexpected answer 0x%02X", dc.ErrProtocol, answer[0])
	}

	return nil
}

// dataCommand builds a 9-byte data request: [opcode][timestamp LE32][0x10][0x27][0][0].
func dataCommand(opcode byte, timestamp uint32) []byte {
	return []byte{
		opcode,
		byte(timestamp),
		byte(timestamp >> 8),
		byte(timestamp >> 16),
		byte(timestamp >> 24),
		0x10,
		0x27,
		0,
		0,
	}
}

// readChunks fills data from the link. Each read asks for at least minChunkSize bytes,
// or for everything the link already buffered, without passing the end of data.
// progress is advanced and emitted after every chunk.
func (d *Device) readChunks(data []byte, progress *dc.ProgressEvent) error {
	for nbytes := 0; nbytes < len(data); {
		size := minChunkSize
		if available := d.socket.Available(); available > size {
			size = available
		}
		if nbytes+size > len(data) {
			size = len(data) - nbytes
		}

		n, err := d.socket.Read(data[nbytes : nbytes+size])
		d.metrics.addBytesReceived(n)
		if err != nil || n != size {
			d.metrics.incErrorCount()
			d.logger.Error("uwatec: failed to receive the data", "offset", nbytes, "size", size, "read", n, "error", err)

			return linkError("receive data", n, size, err)
		}

		d.metrics.incChunkCount()
		d.logger.Debug("uwatec: chunk received", "offset", nbytes, "size", n)

		nbytes += n
		progress.Current += uint32(n) //nolint:gosec
		d.emit(*progress)
	}

	return nil
}
