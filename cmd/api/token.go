package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Restobar-api/pkg/config"
	"github.com/jhoicas/Restobar-api/pkg/jwt"
)

// newTokenCmd emite un token firmado con JWT_SECRET. La autenticación de usuarios vive fuera
// de este servicio; el comando sirve para desarrollo y pruebas manuales.
func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Genera un JWT de desarrollo para un rol (admin, bodeguero, cajero).",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			role, _ := cmd.Flags().GetString("role")
			userID, _ := cmd.Flags().GetString("user")
			switch role {
			case jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleCajero:
			default:
				return fmt.Errorf("rol desconocido %q", role)
			}
			if userID == "" {
				userID = uuid.New().String()
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, userID, role, cfg.JWT.Issuer, cfg.JWT.Expiration)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().String("role", jwt.RoleAdmin, "Rol del token")
	cmd.Flags().String("user", "", "ID de usuario (por defecto uno aleatorio)")
	return cmd
}
