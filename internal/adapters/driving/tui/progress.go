package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/oss-atlas/ghcensus-cli/internal/core/ports/driving"
)

// ProgressMsg updates the running counters.
type ProgressMsg driving.Progress

// DoneMsg ends the display. A nil Err means the run completed.
type DoneMsg struct {
	Err error
}

// ProgressModel renders a collection run as a spinner with running
// user and repository counts.
type ProgressModel struct {
	styles  *Styles
	spinner spinner.Model
	region  string

	progress driving.Progress
	done     bool
	quit     bool
	err      error
}

// NewProgressModel creates a progress display for a region collection.
func NewProgressModel(region string) ProgressModel {
	styles := DefaultStyles()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(styles.Title),
	)

	return ProgressModel{
		styles:  styles,
		spinner: sp,
		region:  region,
	}
}

// Init starts the spinner.
func (m ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles progress, completion and key messages.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quit = true
			return m, tea.Quit
		}
		return m, nil

	case ProgressMsg:
		m.progress = driving.Progress(msg)
		return m, nil

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current state of the run.
func (m ProgressModel) View() string {
	counts := fmt.Sprintf("%d users, %d repositories",
		m.progress.Users, m.progress.Repositories)

	if m.done {
		if m.err != nil {
			return m.styles.Error.Render(
				fmt.Sprintf("Collection stopped: %v", m.err)) + "\n" +
				m.styles.Normal.Render("Collected "+counts) + "\n"
		}
		return m.styles.Success.Render("Collection complete: "+counts) + "\n"
	}

	line := m.spinner.View() +
		m.styles.Title.Render("Collecting "+m.region) + " " +
		m.styles.Normal.Render(counts)
	if m.progress.CurrentUser != "" {
		line += m.styles.Muted.Render("  (" + m.progress.CurrentUser + ")")
	}
	return line + "\n" + m.styles.Muted.Render("q or ctrl+c to stop") + "\n"
}

// Quit reports whether the user quit the display before the run finished.
func (m ProgressModel) Quit() bool {
	return m.quit
}

// Done reports whether the run finished.
func (m ProgressModel) Done() bool {
	return m.done
}

// Err returns the terminal error of the run, if any.
func (m ProgressModel) Err() error {
	return m.err
}
