package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/fenix-admin/internal/domain"
	"github.com/jhoicas/fenix-admin/pkg/jwt"
)

func (c *cli) loginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Inicia sesión y guarda el token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("FENIX_PASSWORD")
			}
			if _, err := c.gw.Auth.Login(cmd.Context(), username, password); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Sesión iniciada como %s\n", username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "usuario o correo")
	cmd.Flags().StringVarP(&password, "password", "p", "", "contraseña (o FENIX_PASSWORD)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Borra el token guardado",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.gw.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Sesión cerrada")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Muestra los datos del token guardado",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := c.session.Token(cmd.Context())
			if err != nil {
				return err
			}
			if token == "" {
				return &domain.APIError{
					Kind:    domain.KindAuth,
					Message: "No hay sesión iniciada",
					Err:     domain.ErrUnauthorized,
				}
			}
			claims, err := jwt.Inspect(token)
			if err != nil {
				// tokens opacos (DRF Token) no llevan datos
				fmt.Fprintln(c.out, "Sesión iniciada (token opaco)")
				return nil
			}
			fmt.Fprintf(c.out, "usuario: %s\nrol: %s\nid: %s\n", claims.Username, claims.Role, claims.UserID)
			if claims.ExpiresAt != nil {
				exp := claims.ExpiresAt.Time
				state := "vigente"
				if time.Now().After(exp) {
					state = "expirado"
				}
				fmt.Fprintf(c.out, "expira: %s (%s)\n", exp.Local().Format(time.DateTime), state)
			}
			return nil
		},
	}
}
