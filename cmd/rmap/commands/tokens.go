package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rmap/internal/domain"
	"rmap/internal/store"
)

// tokensCmd lists stored link tokens. Tokens are capability-bearing, so they
// print redacted unless --reveal is set.
func tokensCmd() *cobra.Command {
	var reveal bool
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "List stored link tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Passphrase == "" {
				return fmt.Errorf("passphrase required to open the token store (-p)")
			}
			recs, err := store.NewFileTokenStore(cfg.Home).List(cfg.Passphrase)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Println("No stored tokens.")
				return nil
			}
			for _, rec := range recs {
				fmt.Printf("%s  %-12s  %s  %s\n",
					time.Unix(rec.ObtainedUTC, 0).UTC().Format(time.RFC3339),
					rec.Identity,
					display(rec.Token, reveal),
					rec.Server,
				)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "print tokens in full")
	return cmd
}

func display(t domain.LinkToken, reveal bool) string {
	if reveal {
		return string(t)
	}
	s := string(t)
	if len(s) <= 6 {
		return "******"
	}
	return s[:6] + "..."
}
