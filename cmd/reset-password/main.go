package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	gormlogger "gorm.io/gorm/logger"

	"umkm-pos/internal/config"
	"umkm-pos/internal/logger"
	"umkm-pos/internal/model"
	"umkm-pos/internal/repository"
	"umkm-pos/pkg/database"
)

const (
	emailFlag    = "email"
	passwordFlag = "password"
)

var flags = map[string]cobraflags.Flag{
	emailFlag: &cobraflags.StringFlag{
		Name:  emailFlag,
		Value: "",
		Usage: "Email of the account to reset (required)",
	},
	passwordFlag: &cobraflags.StringFlag{
		Name:  passwordFlag,
		Value: "",
		Usage: "New password, at least 6 characters (required)",
	},
}

func main() {
	cmd := &cobra.Command{
		Use:          "reset-password",
		Short:        "Reset a user's password and sign out all of their sessions",
		Example:      `  reset-password --email pemilik@demo.id --password rahasia123`,
		SilenceUsage: true,
		RunE:         run,
	}
	cobraflags.RegisterMap(cmd, flags)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	email := flags[emailFlag].GetString()
	password := flags[passwordFlag].GetString()
	if email == "" || len(password) < 6 {
		return fmt.Errorf("--%s and a --%s of at least 6 characters are required", emailFlag, passwordFlag)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.Init(cfg.Log.Level, cfg.Log.Pretty)

	db, err := database.ConnectDB(cfg.Database.DSN(), log, gormlogger.Silent)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	users := repository.NewUserRepo(db)
	user, err := users.FindByEmail(ctx, email)
	if err != nil {
		if database.IsNotFound(err) {
			return fmt.Errorf("user %s not found", email)
		}
		return err
	}

	var hashed model.User
	if err := hashed.SetPassword(password); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := users.UpdatePassword(ctx, user.ID, hashed.Password); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := repository.NewSessionRepo(db).RevokeAllForUser(ctx, user.ID, time.Now()); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	log.Info().Str("email", user.Email).Msg("Password reset, all sessions signed out")
	return nil
}
