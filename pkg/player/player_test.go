package player_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/appuio/symbiont-demo/pkg/player"
	"github.com/appuio/symbiont-demo/pkg/script"
	"github.com/appuio/symbiont-demo/pkg/sequencer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type instantClock struct{}

func (instantClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

var testCatalog = script.NewCatalog(
	script.Script{
		Key:         "hello",
		Title:       "Hello",
		Description: "Says hello",
		Steps: []script.Step{
			{Command: "$ symbiont hello", DelayMs: 100},
			{Output: "👋 hello\nworld", DelayMs: 200},
		},
	},
	script.Script{
		Key:         "bye",
		Title:       "Bye",
		Description: "Says bye",
		Steps: []script.Step{
			{Command: "$ exit", Output: "bye", DelayMs: 0},
		},
	},
	script.Script{Key: "empty", Title: "Empty"},
)

const helloBye = `== Hello ==
Says hello

$ symbiont hello

  👋 hello
  world


== Bye ==
Says bye

$ exit
  bye

`

func Test_Player_Play(t *testing.T) {
	out := new(strings.Builder)
	p := player.New(testCatalog, out, sequencer.WithClock(instantClock{}))
	require.NoError(t, p.Play(context.Background(), "hello", "bye"))
	assert.Equal(t, helloBye, out.String())
}

func Test_Player_Play_typing(t *testing.T) {
	out := new(strings.Builder)
	p := player.New(testCatalog, out, sequencer.WithClock(instantClock{}))
	p.Typing = time.Microsecond
	require.NoError(t, p.Play(context.Background(), "hello", "bye"))
	assert.Equal(t, helloBye, out.String())
}

func Test_Player_Play_sameScriptTwice(t *testing.T) {
	out := new(strings.Builder)
	p := player.New(testCatalog, out, sequencer.WithClock(instantClock{}))
	require.NoError(t, p.Play(context.Background(), "bye", "bye"))
	assert.Equal(t, 2, strings.Count(out.String(), "$ exit\n"))
}

func Test_Player_Play_emptyScript(t *testing.T) {
	out := new(strings.Builder)
	p := player.New(testCatalog, out, sequencer.WithClock(instantClock{}))
	require.NoError(t, p.Play(context.Background(), "empty"))
	assert.Equal(t, "== Empty ==\n\n\n", out.String())
}

func Test_Player_Play_builtin(t *testing.T) {
	out := new(strings.Builder)
	catalog := script.Builtin()
	p := player.New(catalog, out, sequencer.WithClock(instantClock{}))
	require.NoError(t, p.Play(context.Background(), catalog.Keys()...))

	text := out.String()
	last := -1
	for _, marker := range []string{
		"== Project Initialization ==",
		"$ symbiont init",
		"== Co-Coding Assistant ==",
		"$ cat src/components/UserCard/UserCard.tsx",
		"== Contextual Learning ==",
		"== Intelligent Debugging ==",
		"$ npm run build",
		`$ symbiont debug "Cannot find module ./UserCard"`,
		"  **Auto-fix available**",
	} {
		idx := strings.Index(text, marker)
		require.NotEqual(t, -1, idx, marker)
		assert.Greater(t, idx, last, marker)
		last = idx
	}
}

func Test_Player_Play_unknownKeys(t *testing.T) {
	out := new(strings.Builder)
	p := player.New(testCatalog, out)
	err := p.Play(context.Background(), "hello", "nope", "nada")
	require.Error(t, err)
	assert.ErrorIs(t, err, sequencer.ErrUnknownScript)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Empty(t, out.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func Test_Player_Play_writeError(t *testing.T) {
	p := player.New(testCatalog, failingWriter{}, sequencer.WithClock(instantClock{}))
	err := p.Play(context.Background(), "hello")
	assert.ErrorContains(t, err, "disk full")
}

func Test_Player_Play_cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := player.New(testCatalog, new(strings.Builder), sequencer.WithSpeed(0.001))
	err := p.Play(ctx, "hello")
	assert.ErrorIs(t, err, context.Canceled)
}
