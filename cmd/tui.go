package cmd

import (
	"fmt"
	"strings"

	"github.com/appuio/symbiont-demo/ui"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(NewTUICommand())
}

type tuiOptions struct {
	Script     string
	NoAutoplay bool
}

func NewTUICommand() *cobra.Command {
	to := &tuiOptions{}
	c := &cobra.Command{
		Use:     "tui",
		Example: "symbiont-demo tui --script debug",
		Short:   "Plays the demos in an interactive terminal.",
		Long: strings.Join([]string{
			"Shows one tab per demo script.",
			"Switching tabs stops the running demo, r replays the active one and c copies the last symbiont command.",
		}, " "),
		Args: cobra.NoArgs,
		RunE: to.Run,
	}
	c.Flags().StringVar(&to.Script, "script", "", "Key of the script shown on start, defaults to the first one")
	c.Flags().BoolVar(&to.NoAutoplay, "no-autoplay", false, "Wait for r instead of playing a demo when it is selected")
	return c
}

func (to *tuiOptions) Run(cmd *cobra.Command, args []string) error {
	p, cleanup, err := ui.NewUI(cmd.Context(), root.catalog, ui.Options{
		Script:   to.Script,
		Autoplay: root.Autoplay && !to.NoAutoplay,
		Speed:    root.Speed,
		Logger:   root.logger,
	})
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to start UI: %w", err)
	}
	return nil
}
