// Package tui provides the Bubble Tea prompts and progress display for
// vocal-isolator.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/vocal-isolator/internal/ffmpeg"
	"github.com/handiism/vocal-isolator/internal/isolate"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	questionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3")).
			Bold(true)

	answerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))
)

const (
	defaultWidth     = 60
	maxDefaultHeight = 20
)

// RenderEvent styles a progress event for the terminal.
// Successes are green, warnings and errors red.
func RenderEvent(event isolate.ProgressEvent) string {
	switch event.Level {
	case isolate.LevelSuccess:
		return successStyle.Render(event.Message)
	case isolate.LevelWarning, isolate.LevelError:
		return errorStyle.Render(event.Message)
	case isolate.LevelVerbose:
		return dimStyle.Render(event.Message)
	default:
		return infoStyle.Render(event.Message)
	}
}

// item adapts a choice to the list's default delegate.
type item struct {
	choice isolate.Choice
}

func (i item) Title() string       { return i.choice.Value }
func (i item) Description() string { return i.choice.Detail }
func (i item) FilterValue() string { return i.choice.Value }

// chooserModel is a single-choice list prompt.
type chooserModel struct {
	list   list.Model
	choice string
	err    error
	done   bool
}

func newChooser(title string, choices []isolate.Choice) chooserModel {
	items := make([]list.Item, len(choices))
	details := false
	for i, c := range choices {
		items[i] = item{choice: c}
		if c.Detail != "" {
			details = true
		}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = details
	if !details {
		delegate.SetHeight(1)
		delegate.SetSpacing(0)
	}

	height := len(choices)*(delegate.Height()+delegate.Spacing()) + 6
	if height > maxDefaultHeight {
		height = maxDefaultHeight
	}

	l := list.New(items, delegate, defaultWidth, height)
	l.Title = title
	l.Styles.Title = titleStyle
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()

	return chooserModel{list: l}
}

// Init initializes the model.
func (m chooserModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m chooserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.err = isolate.ErrAborted
			m.done = true
			return m, tea.Quit

		case "enter":
			if selected, ok := m.list.SelectedItem().(item); ok {
				m.choice = selected.choice.Value
				m.done = true
				return m, tea.Quit
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the UI.
func (m chooserModel) View() string {
	if m.done {
		return ""
	}
	return m.list.View()
}

// Message types
type (
	// jobDoneMsg is sent when the awaited job finishes.
	jobDoneMsg struct {
		err error
	}
)

// waitModel shows a spinner until a job finishes or the user aborts.
type waitModel struct {
	spinner spinner.Model
	label   string
	job     *ffmpeg.Job
	err     error
	aborted bool
	done    bool
}

func newWaitModel(label string, job *ffmpeg.Job) waitModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	return waitModel{spinner: sp, label: label, job: job}
}

// Init initializes the model.
func (m waitModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.await())
}

func (m waitModel) await() tea.Cmd {
	job := m.job
	return func() tea.Msg {
		return jobDoneMsg{err: job.Wait()}
	}
}

// Update handles messages and updates the model.
func (m waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			m.done = true
			return m, tea.Quit
		}

	case jobDoneMsg:
		m.err = msg.err
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI.
func (m waitModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s %s\n",
		m.spinner.View(),
		infoStyle.Render("Removing silence from "+m.label),
		dimStyle.Render("(esc to cancel)"))
}

// Prompter asks questions with Bubble Tea list prompts.
// It implements isolate.Prompter.
type Prompter struct {
	in  io.Reader
	out io.Writer
}

// NewPrompter creates a prompter on the given terminal streams.
// Nil streams mean os.Stdin and os.Stdout.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{in: in, out: out}
}

// Choose shows choices under title and returns the picked value.
// Escape or ctrl+c returns isolate.ErrAborted.
func (p *Prompter) Choose(ctx context.Context, title string, choices []isolate.Choice) (string, error) {
	if len(choices) == 0 {
		return "", fmt.Errorf("%s: nothing to choose from", title)
	}

	final, err := p.run(ctx, newChooser(title, choices))
	if err != nil {
		return "", err
	}

	m := final.(chooserModel)
	if m.err != nil {
		return "", m.err
	}

	fmt.Fprintf(p.out, "%s %s\n", questionStyle.Render("? "+title), answerStyle.Render(m.choice))
	return m.choice, nil
}

// Wait shows a spinner labelled label until job finishes.
// Escape or ctrl+c returns isolate.ErrAborted without waiting for the job.
func (p *Prompter) Wait(ctx context.Context, label string, job *ffmpeg.Job) error {
	final, err := p.run(ctx, newWaitModel(label, job))
	if err != nil {
		return err
	}

	m := final.(waitModel)
	if m.aborted {
		return isolate.ErrAborted
	}
	return m.err
}

func (p *Prompter) run(ctx context.Context, model tea.Model) (tea.Model, error) {
	prog := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	final, err := prog.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return final, nil
}
