package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"rmap/internal/app"
	"rmap/internal/domain"
)

// getCmd runs the whole flow: probe, handshake, artifact download, save.
func getCmd() *cobra.Command {
	var (
		output    string
		skipProbe bool
	)
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Run the handshake and download the watermarked document",
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

			if !skipProbe {
				if err := wire.Transport.Probe(ctx); err != nil {
					return fmt.Errorf("peer %s not reachable: %w", cfg.ServerBase, err)
				}
			}

			res, err := wire.Handshake.Run(ctx)
			if err != nil {
				return err
			}
			rememberToken(wire, res)

			art, err := wire.Artifact.Retrieve(ctx, res.Token)
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
	cmd.Flags().BoolVar(&skipProbe, "skip-probe", false, "skip the connectivity probe")
	return cmd
}

// saveArtifact writes the complete bytes via a temp file then rename, so a
// partial artifact never lands at the destination path.
func saveArtifact(path string, art domain.Artifact) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, art.Bytes, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// rememberToken stores the token record if a passphrase is available to seal
// it; failure to persist never fails the run.
func rememberToken(wire *app.Wire, res domain.HandshakeResult) {
	if cfg.Passphrase == "" {
		logrus.Warn("no passphrase set, link token not stored")
		return
	}
	rec := domain.TokenRecord{
		Identity:    cfg.Identity,
		Token:       res.Token,
		Server:      cfg.ServerBase,
		AttemptID:   res.AttemptID,
		ObtainedUTC: time.Now().UTC().Unix(),
	}
	if err := wire.Tokens.Append(cfg.Passphrase, rec); err != nil {
		logrus.Errorf("storing link token: %v", err)
	}
}
