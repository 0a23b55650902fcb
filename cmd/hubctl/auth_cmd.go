package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func (a *app) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("NEIGHBORHUB_PASSWORD")
			}
			if email == "" || password == "" {
				return errors.New("--email y --password son requeridos")
			}
			user, err := a.sess.SignIn(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Sesión iniciada: %s %s <%s> (%s)\n", user.FirstName, user.LastName, user.Email, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email")
	cmd.Flags().StringVar(&password, "password", "", "password (or NEIGHBORHUB_PASSWORD)")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if all {
				if err := a.client.LogoutAll(cmd.Context()); err != nil {
					return err
				}
			}
			if err := a.sess.SignOut(cmd.Context()); err != nil {
				a.log.Warn().Err(err).Msg("logout")
			}
			fmt.Fprintln(a.out, "Sesión cerrada")
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "sign out every device")
	return cmd
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "#%d %s %s <%s> rol=%s\n", u.ID, u.FirstName, u.LastName, u.Email, u.Role)
			return nil
		},
	}
}
