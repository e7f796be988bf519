package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-view-cache/pkg/di"
	"github.com/goliatone/go-view-cache/viewcache"
)

// app holds what the subcommands share once the configuration is loaded.
type app struct {
	configFile  string
	fixturePath string

	container *di.Container
	fixture   fixture
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "viewcache",
		Short: "Explore paged views over a JSON fixture",
		Long: `viewcache loads rows from a JSON fixture into a view cache and prints
the windows a paged view would request, under sorting, filtering and
quick matching.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (yaml, json or toml)")
	flags.StringVar(&a.fixturePath, "fixture", "", "JSON fixture with rows and links")
	flags.Bool("allow-sorting", true, "allow in-memory sorting")
	flags.String("logic", "OR", "quick-match operator: OR, AND, NOT_OR, NOT_AND")
	flags.Int("page-size", 50, "default page size")
	flags.String("log-level", "error", "log level: debug, info, error, silent")
	_ = root.MarkPersistentFlagRequired("fixture")

	root.AddCommand(newQueryCmd(a), newTreeCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command, args []string) error {
	v, cfg, err := loadConfig(a.configFile, cmd.Flags())
	if err != nil {
		return err
	}
	level, err := parseLevel(v.GetString(cfgKeyLogLevel))
	if err != nil {
		return err
	}
	logger := viewcache.NewStdLogger(cmd.ErrOrStderr(), level)

	f, err := readFixture(a.fixturePath)
	if err != nil {
		return err
	}
	container, err := di.NewContainer(cfg, di.WithLogger(logger))
	if err != nil {
		return err
	}
	f.register(container.Registry())

	a.container = container
	a.fixture = f
	return nil
}
