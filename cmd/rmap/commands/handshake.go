package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"rmap/internal/app"
)

func handshakeCmd() *cobra.Command {
	var withProbe bool
	cmd := &cobra.Command{
		Use:   "handshake",
		Short: "Run the handshake only and print the link token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			wire, err := app.NewWire(cfg)
			if err != nil {
				return err
			}
			defer wire.Keys.Close()
			ctx := cmd.Context()

			if withProbe {
				if err := wire.Transport.Probe(ctx); err != nil {
					return fmt.Errorf("peer %s not reachable: %w", cfg.ServerBase, err)
				}
			}

			res, err := wire.Handshake.Run(ctx)
			if err != nil {
				return err
			}
			rememberToken(wire, res)

			fmt.Printf("Link token: %s\n", res.Token)
			if res.Identity != "" {
				fmt.Printf("Peer resolved identity: %s\n", res.Identity)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withProbe, "probe", false, "probe connectivity before the handshake")
	return cmd
}
