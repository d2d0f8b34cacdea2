package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	commandService "CommandCore/internal/api/command/service"
	"CommandCore/internal/catalog"
	"CommandCore/internal/config"
	"CommandCore/pkg/datatype"
	"CommandCore/pkg/history"
	"CommandCore/pkg/intent"
	"CommandCore/pkg/resolver"
)

type options struct {
	catalogDir string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "commandctl",
		Short:         "Inspect and exercise the command catalog",
		Long:          "Resolve utterances against a catalog directory, expand templates and run an interactive session.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.catalogDir, "catalog", config.DefaultEngineConfig().CatalogDir, "directory of app catalog YAML files")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log catalog loading and resolution")

	root.AddCommand(
		newResolveCmd(opts),
		newExpandCmd(),
		newReplCmd(opts),
		newTokenCmd(),
	)
	return root
}

// session is one loaded catalog with everything needed to resolve and execute against it.
type session struct {
	log     *logrus.Logger
	service commandService.ICommandService
}

func openSession(opts *options, stderr io.Writer) (*session, error) {
	log := logrus.New()
	log.SetOutput(stderr)
	log.SetLevel(logrus.ErrorLevel)
	if opts.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.LoadEngineConfig()
	if err != nil {
		return nil, err
	}

	registry := datatype.NewRegistry(cfg.DataTypes, cfg.Location)
	dispatcher := intent.NewDispatcher(log)
	engine := resolver.New(cfg.Resolver, resolver.WithLogger(log))

	apps, _, err := catalog.New(registry, dispatcher, config.NewValidator(), log).LoadDir(opts.catalogDir)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if len(apps) == 0 {
		return nil, fmt.Errorf("no apps found in %s", opts.catalogDir)
	}
	for _, app := range apps {
		if _, err := engine.Register(app); err != nil {
			return nil, err
		}
	}

	h := history.New(history.WithRetention(cfg.Retention), history.WithLogger(log))
	return &session{
		log:     log,
		service: commandService.New(log, engine, registry, dispatcher, h),
	}, nil
}
