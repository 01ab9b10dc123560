package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"umkm-pos/internal/client"
	"umkm-pos/internal/model"
	"umkm-pos/internal/session"
)

const (
	emailFlag    = "email"
	passwordFlag = "password"
)

var loginFlags = map[string]cobraflags.Flag{
	emailFlag: &cobraflags.StringFlag{
		Name:  emailFlag,
		Value: "",
		Usage: "Account email",
	},
	passwordFlag: &cobraflags.StringFlag{
		Name:  passwordFlag,
		Value: "",
		Usage: "Account password (defaults to $POSCTL_PASSWORD)",
	},
}

func newLoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the credential",
		RunE: func(cmd *cobra.Command, _ []string) error {
			email := loginFlags[emailFlag].GetString()
			password := loginFlags[passwordFlag].GetString()
			if password == "" {
				password = os.Getenv("POSCTL_PASSWORD")
			}
			if email == "" || password == "" {
				return fmt.Errorf("--%s and --%s are required", emailFlag, passwordFlag)
			}

			e, err := newEnv()
			if err != nil {
				return err
			}
			res, err := e.client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Masuk sebagai %s\n", res.Session.User.Email)
			if res.Profile != nil {
				printProfile(cmd, res.Profile.Role.Label(), companyName(res.Profile.Company), res.Profile.Privileges())
			}
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, loginFlags)
	return cmd
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored credential",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			if err := e.manager.Bootstrap(cmd.Context()); err != nil {
				return err
			}
			if !e.manager.SignOut(cmd.Context()) {
				return fmt.Errorf("sign out did not complete on the server; local credential removed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Keluar")
			return nil
		},
	}
}

func newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user, role and company",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			snap, err := e.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), snap.User.Email)
			if snap.UserProfile == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Profil tidak tersedia, semua fitur dikunci")
				return nil
			}
			printProfile(cmd, snap.UserProfile.Role.Label(), companyName(snap.UserProfile.Company), snap.UserProfile.Privileges())
			return nil
		},
	}
}

func printProfile(cmd *cobra.Command, role, company string, privileges []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Peran:      %s\n", role)
	fmt.Fprintf(out, "Toko:       %s\n", company)
	fmt.Fprintf(out, "Hak akses:  %s\n", strings.Join(privileges, ", "))
}

func companyName(ref *model.CompanyRef) string {
	if ref == nil {
		return "-"
	}
	return ref.Name
}

var _ session.CredentialStore = (*client.FileStore)(nil)
