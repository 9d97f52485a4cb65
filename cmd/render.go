package cmd

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/appuio/symbiont-demo/pkg/renderer"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(NewRenderCommand())
}

type renderOptions struct {
	Format string
	Title  string
	Pretty bool
}

var formatters = map[string]renderer.Formatter{
	"asciidoc": renderer.ASCIIDocFormatter{},
	"markdown": renderer.MarkdownFormatter{},
}

func NewRenderCommand() *cobra.Command {
	ro := &renderOptions{}
	c := &cobra.Command{
		Use:     "render",
		Example: "symbiont-demo render --format markdown --pretty",
		Short:   "Renders the demo scripts as a document.",
		Long:    "Writes every script's transcript and the command reference.",
		Args:    cobra.NoArgs,
		RunE:    ro.Run,
	}
	c.Flags().StringVar(&ro.Format, "format", "asciidoc", "The output format. Supported formats are: "+strings.Join(slices.Sorted(maps.Keys(formatters)), ", "))
	c.Flags().StringVar(&ro.Title, "title", "", "Document title")
	c.Flags().BoolVar(&ro.Pretty, "pretty", false, "Render markdown for the terminal instead of printing the source")
	return c
}

func (ro *renderOptions) Run(cmd *cobra.Command, args []string) error {
	if ro.Pretty && !cmd.Flags().Changed("format") {
		ro.Format = "markdown"
	}
	formatter, ok := formatters[strings.ToLower(ro.Format)]
	if !ok {
		return fmt.Errorf("unknown format %q, supported formats are: %s", ro.Format, strings.Join(slices.Sorted(maps.Keys(formatters)), ", "))
	}
	if ro.Pretty {
		if _, isMarkdown := formatter.(renderer.MarkdownFormatter); !isMarkdown {
			return fmt.Errorf("--pretty requires the markdown format")
		}
	}

	out := new(strings.Builder)
	ren := &renderer.Renderer{
		Catalog:       root.catalog,
		Formatter:     formatter,
		DocumentTitle: ro.Title,

		Out: out,
	}

	if err := ren.Render(); err != nil {
		return fmt.Errorf("failed to render scripts: %w", err)
	}

	doc := out.String()
	if ro.Pretty {
		tr, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err != nil {
			return fmt.Errorf("failed to create terminal renderer: %w", err)
		}
		doc, err = tr.Render(doc)
		if err != nil {
			return fmt.Errorf("failed to render markdown: %w", err)
		}
	}
	_, err := io.WriteString(cmd.OutOrStdout(), doc)
	return err
}
