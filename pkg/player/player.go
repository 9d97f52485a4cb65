// Package player plays scripts without a terminal UI, writing each step to a
// writer as the sequencer reveals it.
package player

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/appuio/symbiont-demo/pkg/sequencer"
	"go.uber.org/multierr"
)

type Player struct {
	// Typing is the pause between characters of a command. Zero prints commands at once.
	Typing time.Duration

	catalog sequencer.Catalog
	seq     *sequencer.Sequencer
	out     io.Writer

	mu      sync.Mutex
	ctx     context.Context
	script  string
	written int
	err     error
}

// New returns a player writing to out. The options are passed to the
// underlying sequencer.
func New(catalog sequencer.Catalog, out io.Writer, opts ...sequencer.Option) *Player {
	p := &Player{
		catalog: catalog,
		out:     out,
		written: -1,
	}
	p.seq = sequencer.New(catalog, append(opts, sequencer.WithObserver(p.observe))...)
	return p
}

// Play plays the scripts with the given keys in order.
// All keys are checked before playback starts.
func (p *Player) Play(ctx context.Context, keys ...string) error {
	var errs []error
	for _, k := range keys {
		if _, ok := p.catalog.Get(k); !ok {
			errs = append(errs, fmt.Errorf("%w %q", sequencer.ErrUnknownScript, k))
		}
	}
	if err := multierr.Combine(errs...); err != nil {
		return err
	}

	p.mu.Lock()
	p.ctx = ctx
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.ctx = nil
		p.mu.Unlock()
	}()

	for i, k := range keys {
		sc, _ := p.catalog.Get(k)
		p.mu.Lock()
		if i > 0 {
			p.write("\n")
		}
		p.write(fmt.Sprintf("== %s ==\n%s\n\n", sc.Title, sc.Description))
		p.mu.Unlock()

		if err := p.seq.SelectScript(k); err != nil {
			return fmt.Errorf("failed to select script %q: %w", k, err)
		}
		if err := p.seq.Play(ctx); err != nil {
			return fmt.Errorf("failed to play script %q: %w", k, err)
		}
		if err := p.writeErr(); err != nil {
			return fmt.Errorf("failed to write script %q: %w", k, err)
		}
	}
	return nil
}

// Close stops any playback in progress.
func (p *Player) Close() {
	p.seq.Close()
}

func (p *Player) writeErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *Player) observe(st sequencer.State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if st.ScriptID != p.script || st.Cursor < p.written {
		p.script = st.ScriptID
		p.written = -1
	}
	for i := p.written + 1; i <= st.Cursor && i < len(st.Visible); i++ {
		p.writeStep(i, st)
		p.written = i
	}
}

func (p *Player) writeStep(i int, st sequencer.State) {
	step := st.Visible[i]
	if step.Command != "" {
		p.typeLine(step.Command)
	}
	if step.Output != "" {
		for line := range strings.Lines(step.Output) {
			p.write("  " + strings.TrimRight(line, "\n") + "\n")
		}
	}
	p.write("\n")
}

func (p *Player) typeLine(line string) {
	if p.Typing <= 0 || p.ctx == nil {
		p.write(line + "\n")
		return
	}
	for i, r := range line {
		p.write(string(r))
		select {
		case <-time.After(p.Typing):
		case <-p.ctx.Done():
			p.write(line[i+utf8.RuneLen(r):] + "\n")
			return
		}
	}
	p.write("\n")
}

// write must be called with mu held.
func (p *Player) write(text string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.out, text)
}
