package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orgmanager/internal/model"
	"orgmanager/internal/server"

	"github.com/spf13/cobra"
)

func (b *cmdBuilder) cmdList() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List organizations",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return b.withServices(cmd, func(ctx context.Context, s *server.Services) error {
				orgs, err := s.Org.List(ctx)
				if err != nil {
					return err
				}
				return b.printOrgs(orgs...)
			})
		},
	}
}

func (b *cmdBuilder) printOrgs(orgs ...*model.Organization) error {
	if b.json {
		out := make([]model.OrganizationResponse, 0, len(orgs))
		for _, o := range orgs {
			out = append(out, o.ToResponse())
		}
		return b.printJSON(out)
	}

	w := b.table("ID", "Name", "Collection", "Created")
	for _, o := range orgs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", o.ID.Hex(), o.OrganizationName, o.CollectionName, o.CreatedAt.UTC().Format(time.RFC3339))
	}
	return w.Flush()
}

func (b *cmdBuilder) cmdCreate() *cobra.Command {
	var in model.OrgCreateInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an organization, optionally with its admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return b.withServices(cmd, func(ctx context.Context, s *server.Services) error {
				org, err := s.Org.Create(ctx, in)
				if err != nil {
					return err
				}
				return b.printOrgs(org)
			})
		},
	}
	cmd.Flags().StringVarP(&in.OrganizationName, "name", "n", "", "Organization name")
	cmd.Flags().StringVar(&in.CollectionName, "collection", "", "Collection name (derived from the name when empty)")
	cmd.Flags().StringVar(&in.AdminEmail, "admin-email", "", "Email of the admin to create")
	cmd.Flags().StringVar(&in.AdminPassword, "admin-password", "", "Password of the admin to create")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (b *cmdBuilder) cmdDelete() *cobra.Command {
	var name, collection string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an organization by name or collection name",
		Long: "Delete an organization record. Its admins and tenant collection " +
			"are left in place.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (name == "") == (collection == "") {
				return errors.New("exactly one of --name or --collection is required")
			}
			return b.withServices(cmd, func(ctx context.Context, s *server.Services) error {
				var (
					deleted bool
					err     error
				)
				if name != "" {
					deleted, err = s.Org.DeleteByName(ctx, name)
				} else {
					deleted, err = s.Org.DeleteByCollectionName(ctx, collection)
				}
				if err != nil {
					return err
				}
				if b.json {
					return b.printJSON(model.DeleteResult{Deleted: deleted})
				}
				if !deleted {
					_, err = fmt.Fprintln(b.out, "No organization found")
					return err
				}
				_, err = fmt.Fprintln(b.out, "Organization deleted")
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Organization name")
	cmd.Flags().StringVar(&collection, "collection", "", "Collection name")
	return cmd
}

func (b *cmdBuilder) cmdCopyCollection() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "copy-collection",
		Short: "Copy every document of one tenant collection into another",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return b.withServices(cmd, func(ctx context.Context, s *server.Services) error {
				n, err := s.Migrate.CopyCollection(ctx, from, to)
				if err != nil {
					return fmt.Errorf("copied %d documents before failing: %w", n, err)
				}
				if b.json {
					return b.printJSON(map[string]int64{"copied": n})
				}
				_, err = fmt.Fprintf(b.out, "Copied %d documents from %s to %s\n", n, from, to)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Source collection")
	cmd.Flags().StringVar(&to, "to", "", "Target collection")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
