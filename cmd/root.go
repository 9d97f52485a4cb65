package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/appuio/symbiont-demo/pkg/config"
	"github.com/appuio/symbiont-demo/pkg/log"
	"github.com/appuio/symbiont-demo/pkg/script"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	config.Config

	logger  *zap.Logger
	catalog *script.Catalog
}

var root = &rootOptions{}

var RootCmd = &cobra.Command{
	Use:   "symbiont-demo",
	Short: "Plays the scripted Project Symbiont CLI demos.",
	Long: "Plays the scripted Project Symbiont CLI demos in an interactive terminal, " +
		"prints them to stdout or renders them as documentation.\n\n" +
		"Defaults can be set with SYMBIONT_DEMO_SPEED, SYMBIONT_DEMO_LOG_FILE, SYMBIONT_DEMO_SCRIPTS, " +
		"SYMBIONT_DEMO_AUTOPLAY and SYMBIONT_DEMO_VERBOSE.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return root.setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if root.logger != nil {
			_ = root.logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return (&tuiOptions{}).Run(cmd, args)
	},
}

func init() {
	f := RootCmd.PersistentFlags()
	f.StringVar(&root.ScriptsFile, "scripts", "", "YAML file with additional scripts")
	f.Float64Var(&root.Speed, "speed", 1, "Playback speed factor, 2 plays twice as fast")
	f.StringVar(&root.LogFile, "log-file", "", "Write structured logs to this file")
	f.BoolVarP(&root.Verbose, "verbose", "v", false, "Log debug messages")
}

// setup applies environment defaults for flags not given on the command line,
// then builds the logger and the script catalog.
func (ro *rootOptions) setup(cmd *cobra.Command) error {
	envCfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if !f.Changed("scripts") {
		ro.ScriptsFile = envCfg.ScriptsFile
	}
	if !f.Changed("speed") {
		ro.Speed = envCfg.Speed
	}
	if !f.Changed("log-file") {
		ro.LogFile = envCfg.LogFile
	}
	if !f.Changed("verbose") {
		ro.Verbose = envCfg.Verbose
	}
	ro.Autoplay = envCfg.Autoplay
	if err := ro.Validate(); err != nil {
		return err
	}

	ro.logger, err = log.NewLogger(ro.LogFile, ro.Verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ro.catalog, err = ro.Catalog()
	if err != nil {
		return fmt.Errorf("failed to load scripts: %w", err)
	}
	ro.logger.Debug("scripts loaded", zap.Strings("keys", ro.catalog.Keys()), zap.String("scripts_file", ro.ScriptsFile))
	return nil
}

func Execute() {
	lifetimeCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := RootCmd.ExecuteContext(lifetimeCtx); err != nil {
		os.Exit(1)
	}
}
