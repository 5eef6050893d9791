// Package view orchestrates the composition of UI components.
package view

import (
	"github.com/tesso57/headlines/internal/presentation/tui/components/header"
	"github.com/tesso57/headlines/internal/presentation/tui/components/modal"
)

// Props aggregates properties for all UI components.
type Props struct {
	Header header.Props
	Body   string
	Modal  modal.Props
	Footer string
}

// Render renders the complete UI view based on the provided props.
func Render(p Props) string {
	if p.Modal.Visible {
		return modal.Render(p.Modal)
	}
	return header.Render(p.Header) + "\n\n" + p.Body + "\n" + p.Footer
}
