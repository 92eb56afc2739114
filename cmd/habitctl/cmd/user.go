package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/habitkit/internal/db"
	"github.com/templui/habitkit/internal/repository"
	"github.com/templui/habitkit/internal/service"
)

func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User administration",
	}

	cmd.AddCommand(setAdminCmd("promote", "Grant the admin role to a user", true))
	cmd.AddCommand(setAdminCmd("demote", "Revoke the admin role from a user", false))
	return cmd
}

func setAdminCmd(use, short string, isAdmin bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <email>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, database, err := open()
			if err != nil {
				return err
			}
			defer db.Close(database)

			err = db.RunMigrations(database.DB, cfg.DBDriver)
			if err != nil {
				return err
			}

			emailService := service.NewEmailService(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppURL, cfg.AppName, cfg.IsDevelopment())
			userService := service.NewUserService(repository.NewUserRepository(database), emailService)

			user, err := userService.SetAdmin(args[0], isAdmin)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s is_admin=%t\n", user.Email, user.IsAdmin)
			return nil
		},
	}
}
