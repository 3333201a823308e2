package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"rmap/internal/app"
	"rmap/internal/domain"
)

// fetchCmd exchanges an existing token for the document, defaulting to the
// newest stored token for the configured identity.
func fetchCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "fetch [token]",
		Short: "Download the document for an existing link token",
		Args:  cobra.MaximumNArgs(1),
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

			var token domain.LinkToken
			if len(args) == 1 {
				token = domain.LinkToken(args[0])
			} else {
				if cfg.Passphrase == "" {
					return fmt.Errorf("no token given and no passphrase to open the token store")
				}
				rec, ok, err := wire.Tokens.Latest(cfg.Passphrase, cfg.Identity)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no stored token for identity %q; run handshake first", cfg.Identity)
				}
				token = rec.Token
			}

			art, err := wire.Artifact.Retrieve(ctx, token)
			if err != nil {
				return err
			}
			if output == "" {
				output = fmt.Sprintf("watermarked_%s.pdf", cfg.Identity)
			}
			if err := saveArtifact(output, art); err != nil {
				return err
			}
			fmt.Printf("Saved %s (%d bytes, %s)\n", output, art.Size(), art.ContentType)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination file (default watermarked_<identity>.pdf)")
	return cmd
}
