package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProgressModel(t *testing.T) {
	m := NewProgressModel("Singapore")

	assert.Equal(t, "Singapore", m.region)
	assert.False(t, m.Done())
	assert.False(t, m.Quit())
	assert.NoError(t, m.Err())
}

func TestProgressModel_Init_StartsSpinner(t *testing.T) {
	m := NewProgressModel("Singapore")

	cmd := m.Init()

	assert.NotNil(t, cmd)
}

func TestProgressModel_Update_Progress(t *testing.T) {
	m := NewProgressModel("Singapore")

	updated, cmd := m.Update(ProgressMsg{
		Users:        42,
		Repositories: 310,
		CurrentUser:  "octocat",
	})

	assert.Nil(t, cmd)
	model, ok := updated.(ProgressModel)
	require.True(t, ok)
	assert.Equal(t, 42, model.progress.Users)
	assert.Equal(t, 310, model.progress.Repositories)
	assert.Equal(t, "octocat", model.progress.CurrentUser)
}

func TestProgressModel_Update_Done(t *testing.T) {
	m := NewProgressModel("Singapore")

	updated, cmd := m.Update(DoneMsg{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	model := updated.(ProgressModel)
	assert.True(t, model.Done())
	assert.NoError(t, model.Err())
}

func TestProgressModel_Update_DoneWithError(t *testing.T) {
	m := NewProgressModel("Singapore")
	failure := errors.New("rate limited")

	updated, _ := m.Update(DoneMsg{Err: failure})

	model := updated.(ProgressModel)
	assert.True(t, model.Done())
	assert.Equal(t, failure, model.Err())
}

func TestProgressModel_Update_QuitKeys(t *testing.T) {
	for _, k := range []string{"ctrl+c", "q", "esc"} {
		t.Run(k, func(t *testing.T) {
			m := NewProgressModel("Singapore")

			var msg tea.KeyMsg
			switch k {
			case "ctrl+c":
				msg = tea.KeyMsg{Type: tea.KeyCtrlC}
			case "esc":
				msg = tea.KeyMsg{Type: tea.KeyEsc}
			default:
				msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
			}

			updated, cmd := m.Update(msg)

			require.NotNil(t, cmd)
			assert.Equal(t, tea.Quit(), cmd())
			assert.True(t, updated.(ProgressModel).Quit())
		})
	}
}

func TestProgressModel_Update_OtherKeysIgnored(t *testing.T) {
	m := NewProgressModel("Singapore")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	assert.Nil(t, cmd)
	assert.False(t, updated.(ProgressModel).Quit())
}

func TestProgressModel_View_Running(t *testing.T) {
	m := NewProgressModel("Singapore")
	updated, _ := m.Update(ProgressMsg{Users: 5, Repositories: 30, CurrentUser: "octocat"})

	view := updated.View()

	assert.Contains(t, view, "Collecting Singapore")
	assert.Contains(t, view, "5 users, 30 repositories")
	assert.Contains(t, view, "octocat")
}

func TestProgressModel_View_Complete(t *testing.T) {
	m := NewProgressModel("Singapore")
	updated, _ := m.Update(ProgressMsg{Users: 690, Repositories: 59455})
	updated, _ = updated.(ProgressModel).Update(DoneMsg{})

	view := updated.View()

	assert.Contains(t, view, "Collection complete")
	assert.Contains(t, view, "690 users, 59455 repositories")
}

func TestProgressModel_View_Error(t *testing.T) {
	m := NewProgressModel("Singapore")
	updated, _ := m.Update(ProgressMsg{Users: 8, Repositories: 40})
	updated, _ = updated.(ProgressModel).Update(DoneMsg{Err: errors.New("rate limited")})

	view := updated.View()

	assert.Contains(t, view, "Collection stopped")
	assert.Contains(t, view, "rate limited")
	assert.Contains(t, view, "8 users, 40 repositories")
}

func TestDefaultStyles(t *testing.T) {
	s := DefaultStyles()

	require.NotNil(t, s)
	assert.Equal(t, DefaultTheme().Primary, s.Theme().Primary)
}

func TestNewStyles_NilThemeUsesDefault(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s.Theme())
	assert.Equal(t, DefaultTheme().Error, s.Theme().Error)
}
