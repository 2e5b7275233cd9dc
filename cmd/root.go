// Package cmd implements the spigen command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/olehluchkiv/spigen/internal/config"
	"github.com/olehluchkiv/spigen/internal/logging"
)

var version = "dev"

// app carries the state shared by all subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *slog.Logger
	cleanup func()
	// stderrLog routes the JSON log stream; tests point it at a buffer.
	stderrLog io.Writer
}

// NewRootCmd builds the command tree. Each call returns independent
// commands and configuration.
func NewRootCmd() *cobra.Command {
	return newRootCmd(os.Stderr)
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), cleanup: func() {}, stderrLog: logOut}

	root := &cobra.Command{
		Use:   "spigen [manifest.yaml | module-dir]",
		Short: "Generate META-INF/services provider descriptors",
		Long: `spigen resolves the service contract of every marked implementation type
and writes one META-INF/services/<contract> descriptor per contract.

The input is either a YAML/JSON type manifest or a directory inside a Go
module whose types carry a //spi:provide directive.`,
		Version:           version,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.runGenerate,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (default: "+config.DefaultFile+" when present)")
	pf.StringP("output", "o", "", "output directory for descriptors")
	pf.String("no-contract", "", "policy for types without a contract: skip or fail")
	pf.String("class-candidates", "", "superclasses eligible as contracts: none, direct or all")
	pf.String("root-type", "", "universal root type excluded from contracts")
	pf.Bool("atomic", true, "write descriptors through a temporary file and rename")
	pf.String("marker", "", "directive marking provider types in Go sources")
	pf.String("log-file", "", "also append JSON logs to this file")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("diagram", "", "write a Mermaid diagram of the registrations to this file")

	for key, flag := range map[string]string{
		"output":           "output",
		"no_contract":      "no-contract",
		"class_candidates": "class-candidates",
		"root_type":        "root-type",
		"atomic":           "atomic",
		"marker":           "marker",
		"log_file":         "log-file",
		"log_level":        "log-level",
		"diagram":          "diagram",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(a.generateCmd(), a.checkCmd(), a.watchCmd())
	return root
}

// Execute runs the root command with a context cancelled on SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger, cleanup, err := logging.SetupWriter(a.stderrLog, cfg.LogFile, level)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	a.logger = logging.WithRun(logger)
	a.cleanup = cleanup
	a.logger.Debug("configuration loaded", "config_file", a.v.ConfigFileUsed(), "command", cmd.Name())
	return nil
}

func inputArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}
