// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package cmd holds the commands of the group collections admin CLI.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-research/group-collections-service/internal/config"
	"github.com/mesh-research/group-collections-service/internal/domain/port"
	"github.com/mesh-research/group-collections-service/internal/infrastructure/postgres"
	"github.com/mesh-research/group-collections-service/pkg/constants"
	"github.com/mesh-research/group-collections-service/pkg/log"
)

// Output formats accepted by --output
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// options are the global flags shared by every command.
type options struct {
	databaseURL string
	configFile  string
	output      string
}

// groupRepositoryOpener connects to the groups table. Tests replace it.
type groupRepositoryOpener func(ctx context.Context, dsn string) (port.GroupRepository, func(), error)

// openPostgresGroups opens the Postgres backed repository.
func openPostgresGroups(ctx context.Context, dsn string) (port.GroupRepository, func(), error) {
	db, err := postgres.New(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewGroupRepository(db.DB), func() { _ = db.Close() }, nil
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd(openPostgresGroups).Execute()
}

func newRootCmd(openGroups groupRepositoryOpener) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "group-collections-admin",
		Short: "Group collections administration CLI",
		Long: `group-collections-admin manages the legacy groups table and previews how
Commons group names and roles resolve to collection slugs and role names.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			log.InitStructureLogConfig()
			if opts.databaseURL == "" {
				opts.databaseURL = os.Getenv(constants.EnvDatabaseURL)
			}
			if opts.configFile == "" {
				opts.configFile = os.Getenv(constants.EnvConfigFile)
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.databaseURL, "database-url", "", "Postgres DSN (env: DATABASE_URL)")
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "IdP configuration file (env: GROUP_COLLECTIONS_CONFIG)")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", outputTable, "Output format: table, json, yaml")

	root.AddCommand(newMigrateCmd(opts))
	root.AddCommand(newGroupsCmd(opts, openGroups))
	root.AddCommand(newSlugCmd(opts))
	root.AddCommand(newRolesCmd(opts))

	return root
}

// loadConfig reads --config when given, else the built in defaults.
func (o *options) loadConfig() (*config.Config, error) {
	if o.configFile == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(o.configFile)
}

// render writes v in the selected structured format. It reports false for
// table output so the caller prints its own table.
func (o *options) render(w io.Writer, v any) (bool, error) {
	switch o.output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return true, enc.Encode(v)
	case outputTable, "":
		return false, nil
	default:
		return false, fmt.Errorf("unsupported output format %q", o.output)
	}
}
