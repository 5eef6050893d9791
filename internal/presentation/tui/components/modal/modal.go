// Package modal provides modal dialog components.
package modal

import (
	"github.com/charmbracelet/lipgloss"
)

// Kind represents the type of modal.
type Kind int

const (
	// None indicates no modal.
	None Kind = iota
	// AddFeed shows the add feed dialog.
	AddFeed
	// Quit asks for confirmation before leaving.
	Quit
)

// Props defines the properties for the modal component.
type Props struct {
	Visible bool
	Kind    Kind
	Body    string
	Width   int
	Height  int
}

var titleStyle = lipgloss.NewStyle().Bold(true)

// Title is the heading shown above the modal body.
func (k Kind) Title() string {
	switch k {
	case AddFeed:
		return "Add feed"
	case Quit:
		return "Quit"
	}
	return ""
}

// Render renders the modal component centered in the given area.
func Render(p Props) string {
	if !p.Visible {
		return ""
	}

	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
	accent := lipgloss.Color("63")
	switch p.Kind {
	case AddFeed:
		box = box.Width(60)
		accent = lipgloss.Color("205")
	case Quit:
		accent = lipgloss.Color("196")
	}
	box = box.BorderForeground(accent)

	content := p.Body
	if title := p.Kind.Title(); title != "" {
		content = titleStyle.Foreground(accent).Render(title) + "\n\n" + content
	}
	return lipgloss.Place(p.Width, p.Height, lipgloss.Center, lipgloss.Center, box.Render(content))
}
