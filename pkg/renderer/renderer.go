package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/appuio/symbiont-demo/pkg/script"
)

type Renderer struct {
	Catalog       *script.Catalog
	Formatter     Formatter
	DocumentTitle string
	Out           io.Writer
}

const commandReferenceID = "command-reference"

func (r *Renderer) Render() error {
	if r.Catalog == nil {
		return fmt.Errorf("no catalog to render")
	}
	scripts := r.Catalog.Scripts()
	commands := r.Catalog.Commands()

	title := r.DocumentTitle
	if title == "" {
		title = "Project Symbiont CLI Demo"
	}
	r.write(r.Formatter.H1(title))

	for _, sc := range scripts {
		r.write(r.Formatter.ListItem(r.Formatter.SectionLink(sc.Title, sectionID(sc))))
	}
	if len(commands) > 0 {
		r.write(r.Formatter.ListItem(r.Formatter.SectionLink("Command reference", commandReferenceID)))
	}
	r.write("\n")

	for _, sc := range scripts {
		r.write(r.Formatter.AddSectionID(r.Formatter.H2(sc.Title), sectionID(sc)))
		if sc.Description != "" {
			r.write(r.Formatter.Text(sc.Description))
		}

		for _, step := range sc.Steps {
			if step.Command != "" {
				r.write(r.Formatter.CodeBlock(strings.TrimPrefix(step.Command, "$ ")))
			}
			if step.Output != "" {
				r.write(r.Formatter.OutputBlock(step.Output))
			}
		}
		r.write(r.Formatter.Text(fmt.Sprintf("Playback time: %s", sc.TotalDelay())))
	}

	if len(commands) > 0 {
		r.write(r.Formatter.AddSectionID(r.Formatter.H2("Command reference"), commandReferenceID))
		for _, ref := range commands {
			t := r.Formatter.InlineCode(ref.Command)
			if ref.Badge != "" {
				t += " (" + ref.Badge + ")"
			}
			if ref.Description != "" {
				t += ": " + ref.Description
			}
			r.write(r.Formatter.ListItem(t))
		}
	}

	return nil
}

func sectionID(sc script.Script) string {
	return "script-" + sc.Key
}

func (r *Renderer) write(text string) {
	io.WriteString(r.Out, text)
}

type Formatter interface {
	H1(text string) string
	H2(text string) string
	ListItem(text string) string
	Text(text string) string
	InlineCode(code string) string
	CodeBlock(code string) string
	OutputBlock(text string) string
	AddSectionID(title, id string) string
	SectionLink(title, id string) string
}

type ASCIIDocFormatter struct{}

func (ASCIIDocFormatter) H1(text string) string {
	return fmt.Sprintf("= %s\n\n", text)
}

func (ASCIIDocFormatter) H2(text string) string {
	return fmt.Sprintf("== %s\n\n", text)
}

func (ASCIIDocFormatter) ListItem(text string) string {
	return fmt.Sprintf("* %s\n", text)
}

func (f ASCIIDocFormatter) Text(text string) string {
	return fmt.Sprintf("%s\n\n", f.separateListsInText(text))
}

func (ASCIIDocFormatter) InlineCode(code string) string {
	return fmt.Sprintf("`%s`", code)
}

func (ASCIIDocFormatter) CodeBlock(code string) string {
	return fmt.Sprintf("[source,bash]\n----\n%s\n----\n\n", code)
}

func (ASCIIDocFormatter) OutputBlock(text string) string {
	return fmt.Sprintf("....\n%s\n....\n\n", text)
}

func (ASCIIDocFormatter) AddSectionID(title, id string) string {
	return fmt.Sprintf("[[%s]]\n%s", id, title)
}

func (ASCIIDocFormatter) SectionLink(title, id string) string {
	return fmt.Sprintf("<<%s,%s>>", id, title)
}

// separateListsInText adds newlines before and after lists in the given text.
func (ASCIIDocFormatter) separateListsInText(text string) string {
	inList := false
	result := new(strings.Builder)

	for line := range strings.Lines(text) {
		curInList := strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") || (strings.HasPrefix(line, " ") && inList)
		if curInList != inList {
			result.WriteString("\n")
			inList = curInList
		}
		result.WriteString(line)
	}
	return result.String()
}

type MarkdownFormatter struct{}

func (MarkdownFormatter) H1(text string) string {
	return fmt.Sprintf("# %s\n\n", text)
}

func (MarkdownFormatter) H2(text string) string {
	return fmt.Sprintf("## %s\n\n", text)
}

func (MarkdownFormatter) ListItem(text string) string {
	return fmt.Sprintf("- %s\n", text)
}

func (MarkdownFormatter) Text(text string) string {
	return fmt.Sprintf("%s\n\n", text)
}

func (MarkdownFormatter) InlineCode(code string) string {
	return fmt.Sprintf("`%s`", code)
}

func (MarkdownFormatter) CodeBlock(code string) string {
	return fmt.Sprintf("```bash\n%s\n```\n\n", code)
}

func (MarkdownFormatter) OutputBlock(text string) string {
	return fmt.Sprintf("```text\n%s\n```\n\n", text)
}

func (MarkdownFormatter) AddSectionID(title, id string) string {
	return fmt.Sprintf("<a name=\"%s\"></a>\n%s", id, title)
}

func (MarkdownFormatter) SectionLink(title, id string) string {
	return fmt.Sprintf("[%s](#%s)", title, id)
}
