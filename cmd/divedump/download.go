package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arloliu/go-divelog/dc"
	"github.com/arloliu/go-divelog/internal/config"
	"github.com/arloliu/go-divelog/irda"
	"github.com/arloliu/go-divelog/logger"
	"github.com/arloliu/go-divelog/uwatec/smart"
)

type downloadOptions struct {
	transport   string
	port        string
	address     string
	fingerprint string
	image       string
}

func newDownloadCmd(a *app) *cobra.Command {
	var opts downloadOptions

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download new dives from a Uwatec Smart dive computer",
		Long: `Download the memory image of a Uwatec Smart dive computer and list its dives.

Only dives newer than the fingerprint are transferred. Pass the fingerprint of
the newest dive of the previous download to fetch just the new ones.

Examples:
  divedump download -o image.bin
  divedump download --transport tcp --address 127.0.0.1:4200 --fingerprint 0a0b0c0d -o image.bin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDownload(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.transport, "transport", "", "link transport: serial or tcp")
	flags.StringVar(&opts.port, "port", "", "serial port of the IrDA dongle")
	flags.StringVar(&opts.address, "address", "", "host:port of the IrDA bridge")
	flags.StringVar(&opts.fingerprint, "fingerprint", "", "hex fingerprint of the newest known dive")
	flags.StringVarP(&opts.image, "output", "o", "", "file receiving the memory image (required)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (a *app) runDownload(cmd *cobra.Command, opts downloadOptions) (err error) {
	link := a.cfg.Link
	if opts.transport != "" {
		link.Transport = opts.transport
	}
	if opts.port != "" {
		link.Port = opts.port
	}
	if opts.address != "" {
		link.Address = opts.address
	}

	fpHex := a.cfg.Download.Fingerprint
	if opts.fingerprint != "" {
		fpHex = opts.fingerprint
	}
	fingerprint, err := hex.DecodeString(fpHex)
	if err != nil {
		return fmt.Errorf("invalid fingerprint %q: %w", fpHex, err)
	}

	opener, err := a.newOpener(link)
	if err != nil {
		return err
	}

	devOpts := []smart.Option{
		smart.WithLogger(a.log),
		smart.WithEventHandler(progressLogger(a.log)),
		smart.WithLSAP(link.LSAP),
		smart.WithStrictHandshake(a.cfg.Download.StrictHandshake),
		smart.WithMaxDumpSize(a.cfg.Download.MaxDumpSize),
	}
	if len(link.DeviceNames) > 0 {
		devOpts = append(devOpts, smart.WithDeviceNames(link.DeviceNames...))
	}

	dev, err := smart.Open(opener, devOpts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := dev.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	if err := dev.SetFingerprint(fingerprint); err != nil {
		return err
	}

	image, err := dev.Dump()
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.image, image, 0o600); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	listing := diveListing{
		Family: dev.Family().String(),
		Image:  opts.image,
		Bytes:  len(image),
		Dives:  []diveEntry{},
	}
	err = smart.ExtractDives(dev, image, func(d dc.Dive) bool {
		listing.Dives = append(listing.Dives, newDiveEntry(len(listing.Dives), d))
		return true
	})
	if err != nil {
		return err
	}

	m := dev.Metrics()
	a.log.Info("download completed",
		"bytes", len(image),
		"dives", len(listing.Dives),
		"commands", m.CommandCount.Load(),
		"chunks", m.ChunkCount.Load(),
	)

	return writeOutput(cmd.OutOrStdout(), a.cfg.Output.Format, listing)
}

// linkOpener builds the irda opener described by cfg.
func linkOpener(cfg config.LinkConfig) (irda.Opener, error) {
	peer := irda.Peer{Address: cfg.PeerAddress, Name: cfg.PeerName}

	switch cfg.Transport {
	case "serial":
		return irda.SerialOpener(irda.SerialConfig{
			Port:        cfg.Port,
			Baud:        cfg.Baud,
			Peer:        peer,
			ReadTimeout: cfg.ReadTimeout,
		}), nil
	case "tcp":
		var opts []irda.StreamOption
		if cfg.ReadTimeout > 0 {
			opts = append(opts, irda.WithReadTimeout(cfg.ReadTimeout))
		}

		return irda.TCPOpener(cfg.Address, peer, cfg.DialTimeout, opts...), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}

// progressLogger reports download events to l.
func progressLogger(l logger.Logger) dc.EventHandler {
	return dc.EventHandlerFunc(func(ev dc.Event) {
		switch ev := ev.(type) {
		case dc.ProgressEvent:
			if ev.Maximum == dc.ProgressUnknown {
				l.Debug("download progress", "current", ev.Current)
				return
			}
			l.Debug("download progress", "current", ev.Current, "maximum", ev.Maximum)
		case dc.DevInfoEvent:
			l.Info("device info", "model", ev.Model, "firmware", ev.Firmware, "serial", ev.Serial)
		case dc.ClockEvent:
			l.Info("device clock", "systime", ev.SysTime, "devtime", ev.DevTime)
		}
	})
}
