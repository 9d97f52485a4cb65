package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/appuio/symbiont-demo/pkg/player"
	"github.com/appuio/symbiont-demo/pkg/script"
	"github.com/appuio/symbiont-demo/pkg/sequencer"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(NewPlayCommand())
}

type playOptions struct {
	Playlist string
	Typing   time.Duration
}

func NewPlayCommand() *cobra.Command {
	po := &playOptions{}
	c := &cobra.Command{
		Use:     "play [SCRIPT...]",
		Example: "symbiont-demo play init debug --typing 30ms",
		Short:   "Prints the demos to stdout as they play.",
		Long: strings.Join([]string{
			"Plays the given scripts in order, or all scripts if none are given.",
			"A playlist file lists one script key per line, lines starting with # are ignored.",
		}, " "),
		RunE: po.Run,
	}
	c.Flags().StringVar(&po.Playlist, "playlist", "", "File with script keys to play after the ones given as arguments")
	c.Flags().DurationVar(&po.Typing, "typing", 0, "Pause between characters of a command, 0 prints commands at once")
	return c
}

func (po *playOptions) Run(cmd *cobra.Command, args []string) error {
	keys := args
	if po.Playlist != "" {
		raw, err := os.ReadFile(po.Playlist)
		if err != nil {
			return fmt.Errorf("failed to read playlist file: %w", err)
		}
		keys = append(keys, script.UnmarshalPlaylist(raw)...)
	}
	if len(keys) == 0 {
		keys = root.catalog.Keys()
	}

	p := player.New(root.catalog, cmd.OutOrStdout(),
		sequencer.WithSpeed(root.Speed),
		sequencer.WithLogger(root.logger),
	)
	defer p.Close()
	p.Typing = po.Typing

	if err := p.Play(cmd.Context(), keys...); err != nil {
		return fmt.Errorf("failed to play scripts: %w", err)
	}
	return nil
}
