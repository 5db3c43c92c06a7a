package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arloliu/go-divelog/dc"
)

type extractOptions struct {
	family string
	dir    string
}

func newExtractCmd(a *app) *cobra.Command {
	var opts extractOptions

	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Split a memory image into dives",
		Long: `Split a downloaded memory image into dives, newest first.

With --dir every dive is also written to its own file, ready for parse.

Examples:
  divedump extract image.bin
  divedump extract --dir dives image.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.family, "family", dc.FamilyUwatecSmart.String(), "device family of the image")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "directory receiving one file per dive")

	return cmd
}

func (a *app) runExtract(cmd *cobra.Command, path string, opts extractOptions) error {
	family, err := dc.ParseFamily(opts.family)
	if err != nil {
		return err
	}

	image, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	if opts.dir != "" {
		if err := os.MkdirAll(opts.dir, 0o755); err != nil {
			return fmt.Errorf("create dive directory: %w", err)
		}
	}

	listing := diveListing{
		Family: family.String(),
		Image:  path,
		Bytes:  len(image),
		Dives:  []diveEntry{},
	}

	var writeErr error
	err = dc.ExtractDives(family, image, func(d dc.Dive) bool {
		entry := newDiveEntry(len(listing.Dives), d)
		if opts.dir != "" {
			entry.File = filepath.Join(opts.dir, fmt.Sprintf("dive-%03d.bin", entry.Index))
			if writeErr = os.WriteFile(entry.File, d.Data, 0o600); writeErr != nil {
				return false
			}
		}
		listing.Dives = append(listing.Dives, entry)

		return true
	})
	if err != nil {
		return err
	}
	if writeErr != nil {
		return fmt.Errorf("write dive: %w", writeErr)
	}

	a.log.Debug("image extracted", "image", path, "dives", len(listing.Dives))

	return writeOutput(cmd.OutOrStdout(), a.cfg.Output.Format, listing)
}
