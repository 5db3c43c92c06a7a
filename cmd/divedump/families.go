package main

import (
	"github.com/spf13/cobra"

	"github.com/arloliu/go-divelog/dc"
)

type familyEntry struct {
	Name    string `json:"name" yaml:"name"`
	Parse   bool   `json:"parse" yaml:"parse"`
	Extract bool   `json:"extract" yaml:"extract"`
}

func newFamiliesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "families",
		Short: "List the supported device families",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := []familyEntry{}
			for _, f := range dc.Families() {
				b, _ := dc.Lookup(f)
				entries = append(entries, familyEntry{
					Name:    f.String(),
					Parse:   b.NewParser != nil,
					Extract: b.ExtractDives != nil,
				})
			}

			return writeOutput(cmd.OutOrStdout(), a.cfg.Output.Format, entries)
		},
	}
}
