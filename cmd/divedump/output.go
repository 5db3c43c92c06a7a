package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/go-divelog/dc"
)

// diveEntry is one row of a dive listing.
type diveEntry struct {
	Index       int    `json:"index" yaml:"index"`
	Offset      int    `json:"offset" yaml:"offset"`
	Size        int    `json:"size" yaml:"size"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
	File        string `json:"file,omitempty" yaml:"file,omitempty"`
}

func newDiveEntry(index int, d dc.Dive) diveEntry {
	return diveEntry{
		Index:       index,
		Offset:      d.Offset,
		Size:        len(d.Data),
		Fingerprint: hex.EncodeToString(d.Fingerprint),
	}
}

// diveListing is written by download and extract.
type diveListing struct {
	Family string      `json:"family" yaml:"family"`
	Image  string      `json:"image,omitempty" yaml:"image,omitempty"`
	Bytes  int         `json:"bytes" yaml:"bytes"`
	Dives  []diveEntry `json:"dives" yaml:"dives"`
}

// writeOutput encodes v to w in the given format.
func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}

		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
