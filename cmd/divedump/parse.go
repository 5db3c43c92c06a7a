package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arloliu/go-divelog/dc"
)

type parseOptions struct {
	family  string
	samples bool
}

// sampleRow is one sample in a parse report. Only the field matching Type is set.
type sampleRow struct {
	Type  string   `json:"type" yaml:"type"`
	Time  *uint32  `json:"time,omitempty" yaml:"time,omitempty"`
	Depth *float64 `json:"depth,omitempty" yaml:"depth,omitempty"`
	Event string   `json:"event,omitempty" yaml:"event,omitempty"`
}

func newSampleRow(s dc.Sample) sampleRow {
	row := sampleRow{Type: s.Type.String()}
	switch s.Type {
	case dc.SampleTime:
		row.Time = &s.Time
	case dc.SampleDepth:
		row.Depth = &s.Depth
	case dc.SampleEvent:
		row.Event = s.Event.Type.String()
	}

	return row
}

// diveReport is written by parse.
type diveReport struct {
	Family      string      `json:"family" yaml:"family"`
	File        string      `json:"file" yaml:"file"`
	DiveTime    *uint32     `json:"divetime,omitempty" yaml:"divetime,omitempty"`
	MaxDepth    *float64    `json:"maxdepth,omitempty" yaml:"maxdepth,omitempty"`
	GasMixes    []dc.GasMix `json:"gasmixes,omitempty" yaml:"gasmixes,omitempty"`
	SampleCount int         `json:"sample_count" yaml:"sample_count"`
	Samples     []sampleRow `json:"samples,omitempty" yaml:"samples,omitempty"`
}

func newParseCmd(a *app) *cobra.Command {
	var opts parseOptions

	cmd := &cobra.Command{
		Use:   "parse <dive>",
		Short: "Decode the summary and profile of one dive",
		Long: `Decode one dive file and report its summary fields and samples.

Examples:
  divedump parse dive.bin
  divedump parse --samples=false --format json dive.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runParse(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.family, "family", dc.FamilySuuntoSolution.String(), "device family of the dive")
	cmd.Flags().BoolVar(&opts.samples, "samples", true, "include the sample profile")

	return cmd
}

func (a *app) runParse(cmd *cobra.Command, path string, opts parseOptions) error {
	family, err := dc.ParseFamily(opts.family)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read dive: %w", err)
	}

	parser, err := dc.NewParser(family)
	if err != nil {
		return err
	}
	if err := parser.SetData(data); err != nil {
		return err
	}

	report := diveReport{Family: family.String(), File: path}

	if report.DiveTime, err = field[uint32](parser, dc.FieldDiveTime); err != nil {
		return err
	}
	if report.MaxDepth, err = field[float64](parser, dc.FieldMaxDepth); err != nil {
		return err
	}

	count, err := field[int](parser, dc.FieldGasMixCount)
	if err != nil {
		return err
	}
	if count != nil {
		for range *count {
			mix, err := field[dc.GasMix](parser, dc.FieldGasMix)
			if err != nil {
				return err
			}
			if mix != nil {
				report.GasMixes = append(report.GasMixes, *mix)
			}
		}
	}

	err = parser.SamplesForeach(func(s dc.Sample) {
		report.SampleCount++
		if opts.samples {
			report.Samples = append(report.Samples, newSampleRow(s))
		}
	})
	if err != nil {
		return err
	}

	return writeOutput(cmd.OutOrStdout(), a.cfg.Output.Format, report)
}

// field reads a summary field of type T. Fields the family does not provide yield nil.
func field[T any](p dc.Parser, t dc.FieldType) (*T, error) {
	v, err := p.Field(t)
	if errors.Is(err, dc.ErrUnsupported) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	typed, ok := v.(T)
	if !ok {
		return nil, fmt.Errorf("field %s has type %T", t, v)
	}

	return &typed, nil
}
