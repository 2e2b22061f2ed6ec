// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
	"github.com/mesh-research/group-collections-service/internal/service"
)

func newGroupsCmd(opts *options, openGroups groupRepositoryOpener) *cobra.Command {
	groups := &cobra.Command{
		Use:   "groups",
		Short: "Manage rows of the legacy groups table",
	}

	groups.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, closeRepo, err := openGroups(cmd.Context(), opts.databaseURL)
			if err != nil {
				return err
			}
			defer closeRepo()

			rows, err := repo.List(cmd.Context())
			if err != nil {
				return err
			}

			if handled, err := opts.render(cmd.OutOrStdout(), rows); handled || err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSLUG\tNAME\tROLE")
			for _, g := range rows {
				role := ""
				if g.InvenioRole != nil {
					role = *g.InvenioRole
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", g.ID, g.Slug, g.GroupName, role)
			}
			return tw.Flush()
		},
	})

	var (
		slug        string
		description string
		role        string
	)
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a group, deriving the slug from its name unless --slug is given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group := &model.Group{
				GroupName: args[0],
				Slug:      slug,
			}
			if group.Slug == "" {
				group.Slug = service.MakeBaseGroupSlug(group.GroupName)
			}
			if description != "" {
				group.Description = &description
			}
			if role != "" {
				group.InvenioRole = &role
			}
			if err := group.Validate(); err != nil {
				return err
			}

			repo, closeRepo, err := openGroups(cmd.Context(), opts.databaseURL)
			if err != nil {
				return err
			}
			defer closeRepo()

			created, err := repo.Create(cmd.Context(), group)
			if err != nil {
				return err
			}

			if handled, err := opts.render(cmd.OutOrStdout(), created); handled || err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created group %d (%s)\n", created.ID, created.Slug)
			return nil
		},
	}
	add.Flags().StringVar(&slug, "slug", "", "Slug of the group")
	add.Flags().StringVar(&description, "description", "", "Description of the group")
	add.Flags().StringVar(&role, "role", "", "Invenio role granted to members")
	groups.AddCommand(add)

	groups.AddCommand(&cobra.Command{
		Use:   "get SLUG",
		Short: "Show one group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeRepo, err := openGroups(cmd.Context(), opts.databaseURL)
			if err != nil {
				return err
			}
			defer closeRepo()

			group, err := repo.GetBySlug(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if handled, err := opts.render(cmd.OutOrStdout(), group); handled || err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", group.ID, group.Slug, group.GroupName)
			return nil
		},
	})

	return groups
}
