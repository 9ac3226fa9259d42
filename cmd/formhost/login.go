package main

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var (
		email    string
		password string
		admin    bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the form service and print the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.client()
			if err != nil {
				return err
			}

			if email == "" {
				email = a.cfg.AdminEmail
			}
			if email == "" {
				if err := survey.AskOne(&survey.Input{Message: "Email:"}, &email); err != nil {
					return err
				}
			}
			if password == "" {
				password = a.cfg.AdminPassword
			}
			if password == "" {
				if err := survey.AskOne(&survey.Password{Message: "Password:"}, &password); err != nil {
					return err
				}
			}
			if email == "" || password == "" {
				return errors.New("email and password are required")
			}

			login := svc.Login
			if admin {
				login = svc.AdminLogin
			}
			result, err := login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			pterm.Success.Printfln("logged in as %s", email)
			fmt.Fprintln(cmd.OutOrStdout(), result.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (defaults to config)")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	cmd.Flags().BoolVar(&admin, "admin", false, "authenticate against the admin login endpoint")
	return cmd
}
