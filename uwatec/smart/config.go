package smart

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/arloliu/go-divelog/dc"
	"github.com/arloliu/go-divelog/logger"
)

const (
	// DefaultLSAP is the IrDA service access point of the download service.
	DefaultLSAP = 1
	// DefaultMaxDumpSize bounds the memory image a device may announce.
	DefaultMaxDumpSize = 16 << 20
)

// DefaultDeviceNames are the IrDA name tokens identifying a Uwatec Smart device.
// A discovered peer matches when its name contains any of them.
var DefaultDeviceNames = []string{
	"UWATEC Galileo Sol",
	"Uwatec Smart",
	"Uwatec",
	"UWATEC",
	"Aladin",
	"ALADIN",
	"Smart",
	"SMART",
	"Galileo",
	"GALILEO",
}

type config struct {
	logger          logger.Logger
	events          dc.EventHandler
	clock           func() time.Time
	deviceNames     []string
	lsap            uint
	strictHandshake bool
	maxDumpSize     int
}

func newConfig(opts ...Option) (*config, error) {
	cfg := &config{
		logger:      logger.GetLogger(),
		events:      dc.NopEventHandler(),
		clock:       time.Now,
		deviceNames: DefaultDeviceNames,
		lsap:        DefaultLSAP,
		maxDumpSize: DefaultMaxDumpSize,
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, fmt.Errorf("%w: %w", dc.ErrInvalidArgs, err)
		}
	}

	return cfg, nil
}

// Option configures a Device.
type Option interface {
	apply(*config) error
}

type optFunc func(*config) error

func (f optFunc) apply(cfg *config) error { return f(cfg) }

// WithLogger sets the logger of the device.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *config) error {
		if l == nil {
			return errors.New("uwatec: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}

// WithEventHandler sets the receiver of progress, device info and clock events.
func WithEventHandler(h dc.EventHandler) Option {
	return optFunc(func(cfg *config) error {
		if h == nil {
			return errors.New("uwatec: event handler must not be nil")
		}
		cfg.events = h

		return nil
	})
}

// WithClock sets the host clock sampled for clock calibration. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return optFunc(func(cfg *config) error {
		if now == nil {
			return errors.New("uwatec: clock must not be nil")
		}
		cfg.clock = now

		return nil
	})
}

// WithDeviceNames replaces the IrDA name tokens used to recognize a device.
func WithDeviceNames(names ...string) Option {
	return optFunc(func(cfg *config) error {
		if len(names) == 0 {
			return errors.New("uwatec: at least one device name is required")
		}
		for _, n := range names {
			if n == "" {
				return errors.New("uwatec: device name must not be empty")
			}
		}
		cfg.deviceNames = names

		return nil
	})
}

// WithLSAP sets the IrDA service access point to connect to.
func WithLSAP(lsap uint) Option {
	return optFunc(func(cfg *config) error {
		if lsap == 0 || lsap > 0x6F {
			return fmt.Errorf("uwatec: LSAP %d out of range [1, 111]", lsap)
		}
		cfg.lsap = lsap

		return nil
	})
}

// WithStrictHandshake makes Open fail when the handshake fails, instead of returning a
// device whose HandshakeErr is set.
func WithStrictHandshake(strict bool) Option {
	return optFunc(func(cfg *config) error {
		cfg.strictHandshake = strict

		return nil
	})
}

// maxDumpSizeLimit keeps the progress maximum of a dump within uint32.
const maxDumpSizeLimit = math.MaxUint32 - 4 - 4 - VersionSize

// WithMaxDumpSize bounds the number of bytes a device may announce for a dump.
// Larger announcements fail with dc.ErrNoMemory.
func WithMaxDumpSize(n int) Option {
	return optFunc(func(cfg *config) error {
		if n <= 0 {
			return errors.New("uwatec: max dump size must be positive")
		}
		if uint64(n) > maxDumpSizeLimit {
			return fmt.Errorf("uwatec: max dump size must not exceed %d", uint64(maxDumpSizeLimit))
		}
		cfg.maxDumpSize = n

		return nil
	})
}
