package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/appuio/symbiont-demo/pkg/script"
	"github.com/appuio/symbiont-demo/pkg/sequencer"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"
	"go.uber.org/zap"
)

var (
	infoStyleLeft = func() lipgloss.Style {
		b := lipgloss.RoundedBorder()
		b.Right = "├"
		return lipgloss.NewStyle().BorderStyle(b).Padding(0, 1)
	}()

	infoStyleRight = func() lipgloss.Style {
		b := lipgloss.RoundedBorder()
		b.Left = "┤"
		return infoStyleLeft.BorderStyle(b)
	}()

	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("7"))
	activeTabStyle = tabStyle.Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("5"))

	infoBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)

	commandStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	outputStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	outputBarStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	processingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	badgeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("5")).Padding(0, 1)

	padding1 = lipgloss.NewStyle().Padding(0, 1)
)

// copiedFor is how long the copy confirmation stays visible.
const copiedFor = 2 * time.Second

type uiState string

const (
	uiStateInitializing uiState = ""
	uiStateDemo         uiState = "demo"
)

type model struct {
	uiState uiState

	ctx      context.Context
	catalog  *script.Catalog
	keys     []string
	seq      *sequencer.Sequencer
	state    sequencer.State
	autoplay bool
	logger   *zap.Logger

	copied    string
	copyErr   error
	copyToClp func(string) error

	playErr error

	viewport viewport.Model

	height int
	width  int

	spinner spinner.Model
}

// Options configure the terminal UI.
type Options struct {
	// Script is the key selected on start. Defaults to the first script.
	Script string
	// Autoplay starts playback on start and whenever a script is selected.
	Autoplay bool
	Speed    float64
	Logger   *zap.Logger
}

func newModel(ctx context.Context, catalog *script.Catalog, seq *sequencer.Sequencer, opts Options) *model {
	m := &model{
		ctx:       ctx,
		catalog:   catalog,
		keys:      catalog.Keys(),
		seq:       seq,
		autoplay:  opts.Autoplay,
		logger:    opts.Logger,
		copyToClp: clipboard.WriteAll,
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	return m
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.autoplay {
		cmds = append(cmds, playCmd(m.ctx, m.seq))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch m.uiState {
	case uiStateInitializing:
		switch msg := msg.(type) {
		case tea.WindowSizeMsg:
			m.height = msg.Height
			m.width = msg.Width

			// The viewport needs the window dimensions, which arrive
			// asynchronously shortly after start.
			m.viewport = viewport.New(msg.Width, m.calculateViewportHeight())
			m.uiState = uiStateDemo

			// Autoplay may have finished a run before the window size arrived.
			if st := m.seq.Snapshot(); st.Version > m.state.Version {
				m.state = st
			}
			m.viewport.SetContent(m.transcriptView())
			m.viewport.GotoBottom()
		case tea.KeyMsg:
			if k := msg.String(); k == "ctrl+c" || k == "q" {
				m.seq.Close()
				return m, tea.Quit
			}
		case stateChanged, playFinished:
			m.applyPlayback(msg)
		}
	default:
		follow := false
		switch msg := msg.(type) {
		case tea.KeyMsg:
			k := msg.String()

			switch k {
			case "ctrl+c", "q":
				m.seq.Close()
				return m, tea.Quit
			case "left", "h", "shift+tab":
				cmds = append(cmds, m.selectIndex(m.activeIndex()-1))
			case "right", "l", "tab":
				cmds = append(cmds, m.selectIndex(m.activeIndex()+1))
			case "r", "enter", " ":
				if !m.state.IsPlaying {
					m.playErr = nil
					cmds = append(cmds, playCmd(m.ctx, m.seq))
				}
			case "c":
				cmds = append(cmds, m.copyLatestCommand())
			default:
				if n, err := strconv.Atoi(k); err == nil && n >= 1 && n <= len(m.keys) {
					cmds = append(cmds, m.selectIndex(n-1))
				}
			}
		case stateChanged, playFinished:
			follow = m.applyPlayback(msg)
		case copyExpired:
			if m.copied == msg.command {
				m.copied = ""
			}
		case tea.WindowSizeMsg:
			m.height = msg.Height
			m.width = msg.Width

			m.viewport.Width = msg.Width
			m.viewport.Height = m.calculateViewportHeight()
		}

		m.viewport.SetContent(m.transcriptView())
		if follow {
			m.viewport.GotoBottom()
		}

		{
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	{
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// applyPlayback takes over a state change or the end of a run. It reports
// whether newer steps may have been revealed.
func (m *model) applyPlayback(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case stateChanged:
		if msg.state.Version > m.state.Version {
			m.state = msg.state
			return true
		}
	case playFinished:
		m.playErr = msg.err
		if msg.err != nil {
			m.logger.Warn("playback failed", zap.Error(msg.err))
		}
		m.state = m.seq.Snapshot()
	}
	return false
}

// activeIndex returns the tab index of the active script.
func (m *model) activeIndex() int {
	for i, k := range m.keys {
		if k == m.state.ScriptID {
			return i
		}
	}
	return 0
}

// selectIndex activates the script at tab i, wrapping around at both ends.
func (m *model) selectIndex(i int) tea.Cmd {
	if len(m.keys) == 0 {
		return nil
	}
	i = ((i % len(m.keys)) + len(m.keys)) % len(m.keys)
	key := m.keys[i]
	if key == m.state.ScriptID {
		return nil
	}
	if err := m.seq.SelectScript(key); err != nil {
		m.logger.Warn("failed to select script", zap.String("script", key), zap.Error(err))
		return nil
	}
	m.state = m.seq.Snapshot()
	m.playErr = nil
	m.viewport.GotoTop()
	if m.autoplay {
		return playCmd(m.ctx, m.seq)
	}
	return nil
}

// copyLatestCommand copies the last revealed symbiont command to the clipboard.
func (m *model) copyLatestCommand() tea.Cmd {
	command := latestSymbiontCommand(m.state.Visible)
	if command == "" {
		return nil
	}
	if err := m.copyToClp(command); err != nil {
		m.copyErr = err
		m.logger.Warn("failed to copy command", zap.Error(err))
		return nil
	}
	m.copyErr = nil
	m.copied = command
	return tea.Tick(copiedFor, func(time.Time) tea.Msg {
		return copyExpired{command: command}
	})
}

func latestSymbiontCommand(steps []script.Step) string {
	for i := len(steps) - 1; i >= 0; i-- {
		if steps[i].IsSymbiontCommand() {
			return steps[i].Command
		}
	}
	return ""
}

func (m model) View() string {
	switch m.uiState {
	case uiStateInitializing:
		return "\n  Initializing..."
	default:
		views := []string{m.headerView(), m.tabsView(), m.infoView(), m.terminalBarView(), m.viewport.View()}
		if refs := m.commandsView(); refs != "" {
			views = append(views, refs)
		}
		return lipgloss.JoinVertical(lipgloss.Left, append(views, m.footerView())...)
	}
}

func (m model) calculateViewportHeight() int {
	headerHeight := lipgloss.Height(m.headerView() + "\n" + m.tabsView() + "\n" + m.infoView() + "\n" + m.terminalBarView())
	footerHeight := lipgloss.Height(m.footerView())
	if refs := m.commandsView(); refs != "" {
		footerHeight += lipgloss.Height(refs)
	}
	verticalMarginHeight := headerHeight + footerHeight
	return max(3, m.height-verticalMarginHeight)
}

func (m model) headerView() string {
	title := infoStyleLeft.Render("Interactive CLI Demo")
	steps := infoStyleRight.Render(fmt.Sprintf("(%d/%d)", m.state.Cursor+1, m.state.Total))
	line := strings.Repeat("─", max(0, m.width-(lipgloss.Width(title)+lipgloss.Width(steps))))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, line, steps)
}

func (m model) tabsView() string {
	tabs := make([]string, 0, len(m.keys))
	for i, k := range m.keys {
		sc, _ := m.catalog.Get(k)
		label := fmt.Sprintf("%d %s", i+1, sc.Title)
		if k == m.state.ScriptID {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return padding1.Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m model) infoView() string {
	sc, _ := m.catalog.Get(m.state.ScriptID)
	description := sc.Description
	if description == "" {
		description = "(no description provided)"
	}
	return infoBoxStyle.Width(max(0, m.width-2)).Render(lipgloss.NewStyle().Bold(true).Render(sc.Title) + "\n" + description)
}

func (m model) terminalBarView() string {
	dots := lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render("●") + " " +
		lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render("●") + " " +
		lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render("●")
	title := hintStyle.Render("symbiont@terminal")
	button := "▶ Replay"
	if m.state.IsPlaying {
		button = "▶ Playing..."
	}
	button = infoStyleRight.Render(button)
	left := padding1.Render(dots + "  " + title)
	line := strings.Repeat(" ", max(0, m.width-(lipgloss.Width(left)+lipgloss.Width(button))))
	return lipgloss.JoinHorizontal(lipgloss.Center, left, line, button)
}

// transcriptView renders the revealed steps the way a terminal would show them.
func (m model) transcriptView() string {
	b := new(strings.Builder)
	for _, step := range m.state.Visible {
		if step.Command != "" {
			b.WriteString(commandStyle.Render(step.Command))
			if step.IsSymbiontCommand() {
				if m.copied == step.Command {
					b.WriteString(" " + commandStyle.Render("✓ copied"))
				} else {
					b.WriteString(" " + hintStyle.Render("(c: copy)"))
				}
			}
			b.WriteString("\n")
		}
		if step.Output != "" {
			for line := range strings.Lines(step.Output) {
				b.WriteString(outputBarStyle.Render("│ ") + outputStyle.Render(strings.TrimRight(line, "\n")) + "\n")
			}
		}
		b.WriteString("\n")
	}
	if m.state.StepRunning() {
		b.WriteString(m.spinner.View() + processingStyle.Render("Processing...") + "\n")
	}
	return padding1.Render(strings.TrimRight(b.String(), "\n"))
}

// commandsView lists the command reference below the terminal.
func (m model) commandsView() string {
	refs := m.catalog.Commands()
	if len(refs) == 0 {
		return ""
	}
	items := make([]string, 0, len(refs))
	for _, ref := range refs {
		item := commandStyle.Render(ref.Command)
		if ref.Badge != "" {
			item = badgeStyle.Render(ref.Badge) + " " + item
		}
		items = append(items, item)
	}
	return padding1.Width(max(0, m.width)).Render(strings.Join(items, "   "))
}

func (m model) footerView() string {
	help := infoStyleLeft.Render("←/→ 1-9: select demo • r: replay • c: copy command • q: quit")
	var info string
	switch {
	case m.copyErr != nil:
		info = infoStyleRight.Render("❌ copy failed")
	case m.playErr != nil:
		info = infoStyleRight.Render("❌ " + m.playErr.Error())
	case m.state.IsPlaying:
		info = infoStyleRight.Render(m.spinner.View())
	case m.state.Total > 0 && m.state.Cursor == m.state.Total-1:
		info = infoStyleRight.Render("✅")
	default:
		info = infoStyleRight.Render("⏸")
	}
	line := strings.Repeat("─", max(0, m.width-(lipgloss.Width(help)+lipgloss.Width(info))))
	return lipgloss.JoinHorizontal(lipgloss.Center, help, line, info)
}

// NewUI returns the interactive demo program. The returned cleanup func must
// be called once the program ended; it stops any playback still running.
func NewUI(ctx context.Context, catalog *script.Catalog, opts Options) (*tea.Program, func(), error) {
	notifier := &stateNotifier{}
	seqOpts := []sequencer.Option{
		sequencer.WithObserver(notifier.observe),
		sequencer.WithLogger(opts.Logger),
	}
	if opts.Speed > 0 {
		seqOpts = append(seqOpts, sequencer.WithSpeed(opts.Speed))
	}
	seq := sequencer.New(catalog, seqOpts...)

	initial := opts.Script
	if initial == "" && catalog.Len() > 0 {
		initial = catalog.Keys()[0]
	}
	if err := seq.SelectScript(initial); err != nil {
		return nil, nil, fmt.Errorf("failed to select script: %w", err)
	}

	m := newModel(ctx, catalog, seq, opts)
	m.state = seq.Snapshot()
	p := tea.NewProgram(
		m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),       // use the full size of the terminal in its "alternate screen buffer"
		tea.WithMouseCellMotion(), // turn on mouse support so we can track the mouse wheel
	)
	// Store a reference to the program in the notifier, we use it for async state updates
	notifier.notifyProg = p

	return p, seq.Close, nil
}
