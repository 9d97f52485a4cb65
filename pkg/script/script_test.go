package script_test

import (
	"testing"
	"time"

	"github.com/appuio/symbiont-demo/pkg/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func Test_Builtin(t *testing.T) {
	c := script.Builtin()
	require.NoError(t, c.Validate())

	assert.Equal(t, []string{"init", "do", "learn", "debug"}, c.Keys())
	assert.Len(t, c.Commands(), 4)

	debug, ok := c.Get("debug")
	require.True(t, ok)
	require.Len(t, debug.Steps, 4)
	var delays []int
	for _, s := range debug.Steps {
		delays = append(delays, s.DelayMs)
	}
	assert.Equal(t, []int{500, 800, 600, 2000}, delays)
	assert.Equal(t, 3900*time.Millisecond, debug.TotalDelay())
	assert.Equal(t, "$ npm run build", debug.Steps[0].Command)
	assert.Empty(t, debug.Steps[1].Command)
	assert.Contains(t, debug.Steps[3].Output, "`./UserCard`")

	for _, s := range c.Scripts() {
		assert.NotEmpty(t, s.Steps, s.Key)
		assert.NotEmpty(t, s.Title, s.Key)
	}
}

func Test_Builtin_returnsIndependentCatalogs(t *testing.T) {
	a := script.Builtin()
	a.Add(script.Script{Key: "extra"})

	assert.Equal(t, 4, script.Builtin().Len())
	assert.Equal(t, 5, a.Len())
}

func Test_Step_IsSymbiontCommand(t *testing.T) {
	assert.True(t, script.Step{Command: `$ symbiont do "x"`}.IsSymbiontCommand())
	assert.False(t, script.Step{Command: "$ npm run build"}.IsSymbiontCommand())
	assert.False(t, script.Step{Output: "$ symbiont init"}.IsSymbiontCommand())
}

func Test_Catalog_Add_replacesInPlace(t *testing.T) {
	c := script.NewCatalog(
		script.Script{Key: "a", Title: "A"},
		script.Script{Key: "b", Title: "B"},
	)
	c.Add(script.Script{Key: "a", Title: "A2"}, script.Script{Key: "c"})

	assert.Equal(t, []string{"a", "b", "c"}, c.Keys())
	a, _ := c.Get("a")
	assert.Equal(t, "A2", a.Title)
	_, ok := c.Get("missing")
	assert.False(t, ok)
}

func Test_Unmarshal(t *testing.T) {
	raw := []byte(`
scripts:
  - key: hello
    title: Hello
    steps:
      - command: $ echo hello
        output: hello
        delayMs: 10
      - output: bye
  - key: empty
    title: Nothing to see
commands:
  - badge: Core
    command: echo
`)
	f, err := script.Unmarshal(raw)
	require.NoError(t, err)
	require.Len(t, f.Scripts, 2)
	assert.Equal(t, script.Step{Command: "$ echo hello", Output: "hello", DelayMs: 10}, f.Scripts[0].Steps[0])
	assert.Equal(t, 0, f.Scripts[0].Steps[1].DelayMs)
	assert.Empty(t, f.Scripts[1].Steps)

	c := script.Builtin()
	c.Merge(f)
	assert.Equal(t, []string{"init", "do", "learn", "debug", "hello", "empty"}, c.Keys())
	assert.Equal(t, []script.CommandRef{{Badge: "Core", Command: "echo"}}, c.Commands())
}

func Test_Unmarshal_aggregatesProblems(t *testing.T) {
	raw := []byte(`
scripts:
  - key: a
    steps:
      - delayMs: -1
  - key: a
  - title: no key
`)
	_, err := script.Unmarshal(raw)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(unwrapAll(err)), 3)
	assert.ErrorContains(t, err, "negative delay -1ms")
	assert.ErrorContains(t, err, `duplicate script key "a"`)
	assert.ErrorContains(t, err, "script has no key")
}

func Test_Unmarshal_invalidYAML(t *testing.T) {
	_, err := script.Unmarshal([]byte("scripts: [\n"))
	assert.Error(t, err)
}

func Test_UnmarshalPlaylist(t *testing.T) {
	raw := []byte("# intro first\ninit\n\n  do  \n# skipped\ndebug\n")
	assert.Equal(t, []string{"init", "do", "debug"}, script.UnmarshalPlaylist(raw))
	assert.Empty(t, script.UnmarshalPlaylist([]byte("\n# only comments\n")))
}

// unwrapAll strips fmt.Errorf wrapping down to the combined multierr error.
func unwrapAll(err error) error {
	for {
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		next := u.Unwrap()
		if next == nil {
			return err
		}
		err = next
	}
}
