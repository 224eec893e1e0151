package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/wanjiru/soma/internal/ui/theme"
)

// FilterInput wraps bubbles/textinput as a list filter field.
type FilterInput struct {
	Model  textinput.Model
	active bool
}

// NewFilterInput creates a new filter input with the given placeholder.
func NewFilterInput(placeholder string) FilterInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 64
	return FilterInput{Model: ti}
}

// Focus activates the input for typing.
func (f *FilterInput) Focus() tea.Cmd {
	f.active = true
	return f.Model.Focus()
}

// Blur deactivates the input, keeping its current value.
func (f *FilterInput) Blur() {
	f.active = false
	f.Model.Blur()
}

// Active reports whether the input currently captures keystrokes.
func (f FilterInput) Active() bool {
	return f.active
}

// Clear empties the input value.
func (f *FilterInput) Clear() {
	f.Model.SetValue("")
}

// Update forwards messages to the underlying input when active.
func (f FilterInput) Update(msg tea.Msg) (FilterInput, tea.Cmd) {
	if !f.active {
		return f, nil
	}
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

// View renders the filter field with a search prefix.
func (f FilterInput) View() string {
	prefix := lipgloss.NewStyle().Foreground(theme.TextDim).Render("/ ")
	if f.active {
		prefix = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("/ ")
	}
	return prefix + f.Model.View()
}

// Value returns the current filter text.
func (f FilterInput) Value() string {
	return f.Model.Value()
}
