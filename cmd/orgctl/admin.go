package main

import (
	"context"
	"fmt"

	"orgmanager/internal/model"
	"orgmanager/internal/server"

	"github.com/spf13/cobra"
)

func (b *cmdBuilder) cmdCreateAdmin() *cobra.Command {
	var email, password, org string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Replace the admins with an email by one new admin of an organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return b.withServices(cmd, func(ctx context.Context, s *server.Services) error {
				admin, err := s.Auth.ProvisionAdmin(ctx, email, password, org)
				if err != nil {
					return err
				}
				if b.json {
					return b.printJSON(admin.Identity())
				}
				return b.printAdmin(admin.Identity())
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Admin email")
	cmd.Flags().StringVar(&password, "password", "", "Admin password")
	cmd.Flags().StringVar(&org, "org", "", "Name of the organization the admin manages")
	for _, f := range []string{"email", "password", "org"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func (b *cmdBuilder) cmdResetPassword() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password on an admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return b.withServices(cmd, func(ctx context.Context, s *server.Services) error {
				if err := s.Auth.ResetPassword(ctx, email, password); err != nil {
					return err
				}
				_, err := fmt.Fprintln(b.out, "Password updated")
				return err
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Admin email")
	cmd.Flags().StringVar(&password, "password", "", "New password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (b *cmdBuilder) printAdmin(id model.AdminIdentity) error {
	w := b.table("ID", "Email", "Organization ID")
	fmt.Fprintf(w, "%s\t%s\t%s\n", id.ID, id.Email, id.OrganizationID)
	return w.Flush()
}
