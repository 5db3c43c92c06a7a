package smart

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/arloliu/go-divelog/dc"
	"github.com/arloliu/go-divelog/irda"
	"github.com/arloliu/go-divelog/logger"
)

// VersionSize is the size of the version record returned by Device.Version.
const VersionSize = 9

// FingerprintSize is the size of a dive fingerprint.
const FingerprintSize = 4

// Version is the decoded version record of a device.
type Version struct {
	Model   uint8
	Serial  uint32
	DevTime uint32
}

// ParseVersion decodes a version record: [model][serial LE32][device time LE32].
func ParseVersion(data []byte) (Version, error) {
	if len(data) < VersionSize {
		return Version{}, fmt.Errorf("%w: version record has %d bytes, want %d", dc.ErrDataFormat, len(data), VersionSize)
	}

	return Version{
		Model:   data[0],
		Serial:  binary.LittleEndian.Uint32(data[1:5]),
		DevTime: binary.LittleEndian.Uint32(data[5:9]),
	}, nil
}

// Device is an open session with a Uwatec Smart dive computer.
//
// A Device is not safe for concurrent use.
type Device struct {
	socket irda.Socket
	cfg    *config
	logger logger.Logger

	address      uint32
	timestamp    uint32
	handshakeErr error

	// Clock calibration, refreshed by every dump.
	sysTime time.Time
	devTime uint32

	closed  bool
	metrics DeviceMetrics
}

var _ dc.Device = (*Device)(nil)

// Open opens a socket with opener, finds a Uwatec Smart device and connects to it.
//
// The handshake result does not decide whether Open succeeds unless WithStrictHandshake
// is set; check HandshakeErr or the result of the next operation.
func Open(opener irda.Opener, opts ...Option) (*Device, error) {
	if opener == nil {
		return nil, fmt.Errorf("%w: opener is nil", dc.ErrInvalidArgs)
	}

	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	d := &Device{
		cfg:    cfg,
		logger: cfg.logger,
	}

	d.socket, err = opener()
	if err != nil {
		d.logger.Error("uwatec: failed to open the irda socket", "error", err)
		return nil, fmt.Errorf("%w: open socket: %w", dc.ErrIO, err)
	}

	if err := d.socket.Discover(d.discovered); err != nil {
		d.logger.Error("uwatec: failed to discover the device", "error", err)
		_ = d.socket.Close()

		return nil, fmt.Errorf("%w: discover: %w", dc.ErrIO, err)
	}

	if d.address == 0 {
		d.logger.Error("uwatec: no dive computer found")
		_ = d.socket.Close()

		return nil, fmt.Errorf("%w: no dive computer found", dc.ErrIO)
	}

	if err := d.socket.Connect(d.address, cfg.lsap); err != nil {
		d.logger.Error("uwatec: failed to connect the device", "address", d.address, "error", err)
		_ = d.socket.Close()

		return nil, fmt.Errorf("%w: connect: %w", dc.ErrIO, err)
	}

	d.handshakeErr = d.handshake()
	if d.handshakeErr != nil {
		if cfg.strictHandshake {
			_ = d.socket.Close()
			return nil, d.handshakeErr
		}
		d.logger.Warn("uwatec: handshake failed, continuing with the device", "error", d.handshakeErr)
	}

	d.logger.Info("uwatec: device opened", "address", d.address)

	return d, nil
}

// discovered records the address of every peer whose name contains a known token.
// The last matching peer wins.
func (d *Device) discovered(address uint32, name string, _ uint, _ uint) {
	for _, token := range d.cfg.deviceNames {
		if strings.Contains(name, token) {
			d.logger.Debug("uwatec: device discovered", "address", address, "name", name)
			d.address = address

			return
		}
	}
}

func (d *Device) check() error {
	if d == nil {
		return fmt.Errorf("%w: device is nil", dc.ErrInvalidArgs)
	}
	if d.closed {
		return fmt.Errorf("%w: device is closed", dc.ErrInvalidArgs)
	}

	return nil
}

// Family returns dc.FamilyUwatecSmart.
func (d *Device) Family() dc.Family {
	return dc.FamilyUwatecSmart
}

// Address returns the IrDA address of the connected device.
func (d *Device) Address() uint32 {
	return d.address
}

// HandshakeErr returns the error of the handshake performed by Open, if any.
func (d *Device) HandshakeErr() error {
	return d.handshakeErr
}

// Clock returns the clock calibration pair of the last successful dump. sysTime is zero
// before the first dump.
func (d *Device) Clock() (sysTime time.Time, devTime uint32) {
	return d.sysTime, d.devTime
}

// Metrics returns the metrics of the device.
func (d *Device) Metrics() *DeviceMetrics {
	return &d.metrics
}

// Close closes the socket. The device cannot be used afterwards, even if closing the
// socket fails.
func (d *Device) Close() error {
	if err := d.check(); err != nil {
		return err
	}

	d.closed = true
	if err := d.socket.Close(); err != nil {
		d.logger.Error("uwatec: failed to close the irda socket", "error", err)
		return fmt.Errorf("%w: close socket: %w", dc.ErrIO, err)
	}

	return nil
}

// SetTimestamp sets the device timestamp after which dives are downloaded.
func (d *Device) SetTimestamp(timestamp uint32) error {
	if err := d.check(); err != nil {
		return err
	}
	d.timestamp = timestamp

	return nil
}

// SetFingerprint sets the fingerprint of the newest dive already downloaded.
// An empty fingerprint downloads everything.
func (d *Device) SetFingerprint(fingerprint []byte) error {
	if err := d.check(); err != nil {
		return err
	}

	switch len(fingerprint) {
	case 0:
		d.timestamp = 0
	case FingerprintSize:
		d.timestamp = binary.LittleEndian.Uint32(fingerprint)
	default:
		return fmt.Errorf("%w: fingerprint has %d bytes, want %d", dc.ErrInvalidArgs, len(fingerprint), FingerprintSize)
	}

	return nil
}

// Version queries the model number, serial number and current device time and returns
// them as a 9-byte record.
func (d *Device) Version() ([]byte, error) {
	if err := d.check(); err != nil {
		return nil, err
	}

	data := make([]byte, VersionSize)

	if err := d.transfer([]byte{cmdModel}, data[0:1]); err != nil {
		return nil, err
	}
	if err := d.transfer([]byte{cmdSerial}, data[1:5]); err != nil {
		return nil, err
	}
	if err := d.transfer([]byte{cmdDevTime}, data[5:9]); err != nil {
		return nil, err
	}

	return data, nil
}

func (d *Device) emit(ev dc.Event) {
	d.cfg.events.OnEvent(ev)
}

// Dump downloads the memory image holding every dive recorded after the configured
// fingerprint. An empty image is not an error.
func (d *Device) Dump() ([]byte, error) {
	if err := d.check(); err != nil {
		return nil, err
	}

	progress := dc.ProgressEvent{Current: 0, Maximum: dc.ProgressUnknown}
	d.emit(progress)

	version, err := d.Version()
	if err != nil {
		return nil, err
	}
	info, _ := ParseVersion(version)

	d.sysTime = d.cfg.clock()
	d.devTime = info.DevTime

	progress.Current += VersionSize
	d.emit(progress)
	d.emit(dc.ClockEvent{SysTime: d.sysTime, DevTime: d.devTime})
	d.emit(dc.DevInfoEvent{Model: uint32(info.Model), Firmware: 0, Serial: info.Serial})

	answer := make([]byte, 4)
	if err := d.transfer(dataCommand(cmdDataLength, d.timestamp), answer); err != nil {
		return nil, err
	}
	length := binary.LittleEndian.Uint32(answer)

	// Checked before the maximum is computed so it cannot wrap.
	if uint64(length) > uint64(d.cfg.maxDumpSize) {
		d.logger.Error("uwatec: insufficient buffer space available", "length", length, "max", d.cfg.maxDumpSize)
		return nil, fmt.Errorf("%w: device announced %d bytes, limit is %d", dc.ErrNoMemory, length, d.cfg.maxDumpSize)
	}

	progress.Maximum = 4 + VersionSize
	if length != 0 {
		progress.Maximum += length + 4
	}
	progress.Current += 4
	d.emit(progress)

	if length == 0 {
		d.metrics.incDumpCount()
		d.logger.Info("uwatec: no new dives", "timestamp", d.timestamp)

		return []byte{}, nil
	}

	data := make([]byte, length)

	if err := d.transfer(dataCommand(cmdData, d.timestamp), answer); err != nil {
		return nil, err
	}
	total := binary.LittleEndian.Uint32(answer)

	progress.Current += 4
	d.emit(progress)

	if uint64(total) != uint64(length)+4 {
		d.logger.Error("uwatec: received an unexpected size", "total", total, "length", length)
		return nil, fmt.Errorf("%w: data size %d does not match length %d", dc.ErrProtocol, total, length)
	}

	if err := d.readChunks(data, &progress); err != nil {
		return nil, err
	}

	d.metrics.incDumpCount()
	d.logger.Info("uwatec: dump completed", "bytes", len(data), "timestamp", d.timestamp)

	return data, nil
}

// Foreach dumps the device and reports every dive to fn, newest first.
func (d *Device) Foreach(fn dc.DiveFunc) error {
	if err := d.check(); err != nil {
		return err
	}

	data, err := d.Dump()
	if err != nil {
		return err
	}

	return ExtractDives(d, data, fn)
}
