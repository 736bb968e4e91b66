package cmd

import (
	"github.com/campus-events/api/database"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default admin from ADMIN_EMAIL and ADMIN_PASSWORD",
	Long: `Creates the default admin account when the admins table is empty.
If ADMIN_EMAIL or ADMIN_PASSWORD is not set, admin creation is skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Init(); err != nil {
			return err
		}

		return database.NewSeeder(store.GetDB()).SeedAdmin(database.AdminSeed{
			Email:    env.ADMIN_EMAIL,
			Password: env.ADMIN_PASSWORD,
			Name:     env.ADMIN_NAME,
			College:  env.ADMIN_COLLEGE,
		})
	},
}
