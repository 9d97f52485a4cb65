package script

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
)

// SymbiontPrompt prefixes commands that invoke the symbiont CLI itself.
const SymbiontPrompt = "$ symbiont"

// ScriptsFile is the on-disk format of user supplied scripts.
type ScriptsFile struct {
	Scripts  []Script     `json:"scripts"`
	Commands []CommandRef `json:"commands"`
}

// Step is one unit of scripted terminal output.
type Step struct {
	// Command is displayed as a typed command line. May be empty.
	Command string `json:"command"`
	// Output is shown below the command. May be empty.
	Output string `json:"output"`
	// DelayMs is the pause after revealing this step before advancing.
	DelayMs int `json:"delayMs"`
}

func (s Step) Delay() time.Duration {
	return time.Duration(s.DelayMs) * time.Millisecond
}

// IsSymbiontCommand reports whether the step's command can be copied.
func (s Step) IsSymbiontCommand() bool {
	return strings.HasPrefix(s.Command, SymbiontPrompt)
}

type Script struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Steps       []Step `json:"steps"`
}

// TotalDelay is the time a full playback of the script takes at authored speed.
func (s Script) TotalDelay() time.Duration {
	var d time.Duration
	for _, step := range s.Steps {
		d += step.Delay()
	}
	return d
}

func (s Script) validate() error {
	var errs []error
	if strings.TrimSpace(s.Key) == "" {
		errs = append(errs, errors.New("script has no key"))
	}
	for i, step := range s.Steps {
		if step.DelayMs < 0 {
			errs = append(errs, fmt.Errorf("script %q step %d: negative delay %dms", s.Key, i+1, step.DelayMs))
		}
	}
	return multierr.Combine(errs...)
}

// CommandRef is one entry of the command reference.
type CommandRef struct {
	Badge       string `json:"badge"`
	Command     string `json:"command"`
	Description string `json:"description"`
}
