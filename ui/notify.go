package ui

import (
	"context"
	"errors"

	"github.com/appuio/symbiont-demo/pkg/sequencer"
	tea "github.com/charmbracelet/bubbletea"
)

// stateNotifier forwards sequencer state changes to the running program.
type stateNotifier struct {
	notifyProg *tea.Program
}

// observe is registered as sequencer observer. It may be called from the
// program's own event loop, so sending must not block the caller.
func (sn *stateNotifier) observe(st sequencer.State) {
	if sn.notifyProg == nil {
		return
	}
	go sn.notifyProg.Send(stateChanged{state: st})
}

func playCmd(ctx context.Context, seq *sequencer.Sequencer) tea.Cmd {
	return func() tea.Msg {
		err := seq.Play(ctx)
		if errors.Is(err, sequencer.ErrAbandoned) || errors.Is(err, sequencer.ErrClosed) {
			err = nil
		}
		return playFinished{err: err}
	}
}

type stateChanged struct {
	state sequencer.State
}
type playFinished struct {
	err error
}
type copyExpired struct {
	command string
}
