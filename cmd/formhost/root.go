package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formhost/internal/config"
	"github.com/goliatone/go-formhost/internal/importer"
	"github.com/goliatone/go-formhost/internal/logging"
	"github.com/goliatone/go-formhost/pkg/client"
)

// app carries the state shared by every subcommand, resolved once in the root
// command's PersistentPreRunE.
type app struct {
	cfg config.Config
	log *slog.Logger

	configPath string
	urlFlag    string
	levelFlag  string
	jsonLogs   bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "formhost",
		Short:         "Client tooling for a form service",
		Long:          "formhost renders, lists and imports forms against a Form.io compatible service.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if a.urlFlag != "" {
				cfg.URL = a.urlFlag
			}
			if a.levelFlag != "" {
				cfg.LogLevel = a.levelFlag
			}
			a.cfg = cfg

			level := logging.ParseLevel(cfg.LogLevel)
			if a.jsonLogs {
				a.log = logging.NewJSON(os.Stderr, level)
			} else {
				a.log = logging.New(os.Stderr, level)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&a.urlFlag, "url", "", "form service base URL (overrides config)")
	root.PersistentFlags().StringVar(&a.levelFlag, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&a.jsonLogs, "json-logs", false, "emit logs as JSON")

	root.AddCommand(
		newHealthCmd(a),
		newLoginCmd(a),
		newListCmd(a),
		newRenderCmd(a),
		newImportCmd(a),
	)
	return root
}

// client builds an API client from the resolved config.
func (a *app) client() (*client.Client, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	return client.New(a.cfg.URL,
		client.WithTimeout(a.cfg.Timeout),
		client.WithLogger(a.log),
	), nil
}

// exitCode distinguishes setup failures from partial ones so scripts can tell
// "nothing happened" apart from "some forms failed".
func exitCode(err error) int {
	if errors.Is(err, importer.ErrSetup) {
		return 2
	}
	return 1
}
