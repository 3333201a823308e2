package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"rmap/internal/app"
)

var (
	cfg     app.Config
	cfgFile string

	flagServer     string
	flagIdentity   string
	flagPeerKey    string
	flagKey        string
	flagPassphrase string
	flagHome       string
)

func Execute() error {
	root := &cobra.Command{
		Use:           "rmap",
		Short:         "RMAP handshake client for retrieving watermarked documents",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Load(cfgFile)
			if err != nil {
				return err
			}
			// Flags win over environment.
			if flagServer != "" {
				c.ServerBase = flagServer
			}
			if flagIdentity != "" {
				c.Identity = flagIdentity
			}
			if flagPeerKey != "" {
				c.PeerKeyPath = flagPeerKey
			}
			if flagKey != "" {
				c.PrivateKeyPath = flagKey
			}
			if flagPassphrase != "" {
				c.Passphrase = flagPassphrase
			}
			if flagHome != "" {
				c.Home = flagHome
			}
			if c.Home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				c.Home = filepath.Join(dir, ".rmap")
			}
			if err := os.MkdirAll(c.Home, 0o700); err != nil {
				return err
			}
			cfg = c
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a .env config file")
	root.PersistentFlags().StringVar(&flagServer, "server", "", "peer base URL (e.g. http://127.0.0.1:5000)")
	root.PersistentFlags().StringVar(&flagIdentity, "identity", "", "identity the peer resolves to our public key")
	root.PersistentFlags().StringVar(&flagPeerKey, "peer-key", "", "path to the peer's armored public key")
	root.PersistentFlags().StringVar(&flagKey, "key", "", "path to our armored private key")
	root.PersistentFlags().StringVarP(&flagPassphrase, "passphrase", "p", "", "passphrase for the private key")
	root.PersistentFlags().StringVar(&flagHome, "home", "", "state dir (default ~/.rmap)")

	root.AddCommand(getCmd(), handshakeCmd(), fetchCmd(), probeCmd(), tokensCmd())
	return root.Execute()
}
