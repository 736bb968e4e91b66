package cmd

import (
	"github.com/campus-events/api/services/cron"
	"github.com/spf13/cobra"
)

var cleanupTokensCmd = &cobra.Command{
	Use:   "cleanup-tokens",
	Short: "Remove expired entries from the token blacklist",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		manager := cron.NewCronManager(store.GetDB())
		return manager.Run(cmd.Context(), cron.JobPurgeExpiredTokens, manager.PurgeExpiredTokens)
	},
}
