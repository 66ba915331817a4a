package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"frieren/internal/auth"
	"frieren/internal/config"
	"frieren/internal/services"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin accounts",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		role, _ := cmd.Flags().GetString("role")

		cfg := config.Load()
		st, err := openStores(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		svc := &services.AuthService{Admins: st.Admins, Sessions: auth.NewSessions(cfg.JWTSecret), Now: time.Now}
		a, err := svc.CreateAdmin(cmd.Context(), username, password, role)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", a.Role, a.Username, a.ID)
		return nil
	},
}

func init() {
	adminCreateCmd.Flags().String("username", "", "admin username (3-50 characters)")
	adminCreateCmd.Flags().String("password", "", "admin password (6-72 characters)")
	adminCreateCmd.Flags().String("role", "admin", "admin or super-admin")
	_ = adminCreateCmd.MarkFlagRequired("username")
	_ = adminCreateCmd.MarkFlagRequired("password")
	adminCmd.AddCommand(adminCreateCmd)
}
