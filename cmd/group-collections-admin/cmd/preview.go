// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-research/group-collections-service/internal/service"
)

func newSlugCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "slug NAME",
		Short: "Print the base collection slug for a group name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := service.MakeBaseGroupSlug(args[0])

			if handled, err := opts.render(cmd.OutOrStdout(), map[string]string{"name": args[0], "slug": slug}); handled || err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), slug)
			return nil
		},
	}
}

func newRolesCmd(opts *options) *cobra.Command {
	var (
		idp     string
		groupID string
	)

	roles := &cobra.Command{
		Use:   "roles ROLE...",
		Short: "Print the permission levels and role names remote roles map to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			mapping, err := service.MapRemoteRolesToPermissions(cfg, service.GroupRoleSlug(idp, groupID), args)
			if err != nil {
				return err
			}

			if handled, err := opts.render(cmd.OutOrStdout(), mapping); handled || err != nil {
				return err
			}

			permissions := make([]string, 0, len(mapping))
			for permission := range mapping {
				permissions = append(permissions, permission)
			}
			sort.Strings(permissions)

			for _, permission := range permissions {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", permission, strings.Join(mapping[permission], ", "))
			}
			return nil
		},
	}
	roles.Flags().StringVar(&idp, "idp", "knowledgeCommons", "Identity provider of the group")
	roles.Flags().StringVar(&groupID, "group-id", "", "Remote group id")
	_ = roles.MarkFlagRequired("group-id")

	return roles
}
