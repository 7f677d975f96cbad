package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nucleus/starwars-api/internal/config"
	"github.com/nucleus/starwars-api/internal/logging"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "starwars-api",
		Short: "GraphQL API over the Star Wars dataset",
		Long: `
starwars-api serves the Star Wars characters, starships and planets over
GraphQL. Credit balances are read from PostgreSQL, batched per request.
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().String("config", "",
		"Configuration file. Takes precedence over default values, but is "+
			"overridden by environment variables and flags.")
	config.Flags(root.PersistentFlags())

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	v, err := config.NewViper(cmd.Flags())
	if err != nil {
		return err
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return errors.Wrap(err, "reading --config")
	}
	if err := config.ReadFile(v, path); err != nil {
		return err
	}
	a.cfg = config.Load(v)

	logger, err := logging.New(a.cfg.LogLevel, a.cfg.LogFormat)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "starwars-api", version)
		},
	}
}
