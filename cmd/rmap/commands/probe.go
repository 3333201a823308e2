package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"rmap/internal/transport"
)

// probeCmd is the interactive diagnostic: no keys needed, short timeout.
func probeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Check that the peer is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			tc := transport.New(transport.Config{
				Base:         cfg.ServerBase,
				HTTP:         cfg.HTTP,
				ProbeTimeout: cfg.ProbeTimeout,
			})
			if err := tc.Probe(cmd.Context()); err != nil {
				return fmt.Errorf("peer %s not reachable: %w", cfg.ServerBase, err)
			}
			fmt.Printf("Peer %s is reachable\n", cfg.ServerBase)
			return nil
		},
	}
}
