package main

import (
	"errors"
	"fmt"

	"anoa.com/weddingsalon/internal/bootstrap"
	adminService "anoa.com/weddingsalon/internal/modules/admin/service"
	userRepo "anoa.com/weddingsalon/internal/modules/user/repository"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type dbOpener func() (*gorm.DB, error)

func newRootCmd(openDB dbOpener) *cobra.Command {
	root := &cobra.Command{
		Use:           "salonctl",
		Short:         "Wedding salon maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMigrateCmd(openDB),
		newSeedAdminCmd(openDB),
		newAssignRoleCmd(openDB),
	)
	return root
}

func newMigrateCmd(openDB dbOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the users, designers and dresses tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			if err := bootstrap.Migrate(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newSeedAdminCmd(openDB dbOpener) *cobra.Command {
	var seed bootstrap.AdminSeed

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create an ADMIN account if the username and email are free",
		Long: `Create an ADMIN account if the username and email are free.

Example:
  salonctl seed-admin --username admin --email admin@salon.local --password secret`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}

			created, err := bootstrap.SeedAdminUser(cmd.Context(), db, seed)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "admin %q created\n", seed.Username)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "admin %q already exists\n", seed.Username)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&seed.Username, "username", "", "admin username")
	cmd.Flags().StringVar(&seed.Email, "email", "", "admin email")
	cmd.Flags().StringVar(&seed.Password, "password", "", "admin password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newAssignRoleCmd(openDB dbOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "assign-role <username> <role>",
		Short: "Set the role (USER, MANAGER or ADMIN) of an existing user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}

			users := userRepo.NewUserRepository(db)
			user, err := users.FindByUsername(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("user %q not found", args[0])
				}
				return err
			}

			if err := adminService.NewAdminService(users).AssignRole(cmd.Context(), user.ID, args[1]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Username, args[1])
			return nil
		},
	}
}
