package main

import (
	"fmt"

	"hubplus/internal/app"
	"hubplus/internal/repo"
	"hubplus/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var hashCost int

var genhashCmd = &cobra.Command{
	Use:         "genhash [password]",
	Short:       "Print a bcrypt hash for a password",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{"offline": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := bcrypt.GenerateFromPassword([]byte(args[0]), hashCost)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(h))
		return nil
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin <username> <password>",
	Short: "Create an administrator account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		users, closeDB, err := userService(cmd)
		if err != nil {
			return err
		}
		defer closeDB()
		u, err := users.CreateAdmin(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		log.Info("admin created", zap.Int64("id", u.ID), zap.String("username", u.Username))
		return nil
	},
}

var promoteCmd = &cobra.Command{
	Use:   "promote <username>",
	Short: "Grant the admin role to an existing user",
	Long:  "The new role applies from the user's next login; existing sessions keep their role.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		users, closeDB, err := userService(cmd)
		if err != nil {
			return err
		}
		defer closeDB()
		u, err := users.Promote(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("promote %s: %w", args[0], err)
		}
		log.Info("user promoted", zap.Int64("id", u.ID), zap.String("role", u.Role))
		return nil
	},
}

func init() {
	genhashCmd.Flags().IntVar(&hashCost, "cost", bcrypt.DefaultCost, "bcrypt cost")
}

func userService(cmd *cobra.Command) (*service.UserService, func(), error) {
	db, err := app.NewPostgres(cmd.Context(), cfg.PG)
	if err != nil {
		return nil, nil, err
	}
	return service.NewUserService(repo.NewPGUserRepo(db)), db.Close, nil
}
