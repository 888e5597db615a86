// Package status provides the dashboard footer bar.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/orbitalworks/scenefetch/internal/adapters/driving/tui/keymap"
	"github.com/orbitalworks/scenefetch/internal/adapters/driving/tui/styles"
)

// State represents the current retrieval state for display.
type State string

const (
	StateRunning State = "running"
	StateDone    State = "done"
	StateFailed  State = "failed"
)

// Bar displays retrieval state and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	width   int
}

// NewBar creates a new footer bar.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateRunning,
		width:  80,
	}
}

// View renders the footer bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	// Pad the middle so the hints sit flush right.
	padding := b.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the state and message.
func (b *Bar) renderLeft() string {
	switch b.state {
	case StateDone:
		if b.message != "" {
			return b.styles.Success.Render(b.message)
		}
		return b.styles.Success.Render("Done")
	case StateFailed:
		if b.message != "" {
			return b.styles.Error.Render(fmt.Sprintf("Failed: %s", b.message))
		}
		return b.styles.Error.Render("Failed")
	default:
		if b.message != "" {
			return b.styles.Muted.Render(b.message)
		}
		return b.styles.Muted.Render("Running...")
	}
}

// renderRight renders keybinding hints.
func (b *Bar) renderRight() string {
	bindings := b.keymap.ShortHelp()

	hints := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		h := binding.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (b *Bar) SetState(state State) {
	b.state = state
}

// State returns the current state.
func (b *Bar) State() State {
	return b.state
}

// SetMessage sets the message shown next to the state.
func (b *Bar) SetMessage(message string) {
	b.message = message
}

// Message returns the current message.
func (b *Bar) Message() string {
	return b.message
}

// SetWidth sets the footer width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Width returns the current width.
func (b *Bar) Width() int {
	return b.width
}
