// Package header provides the timeline header component.
package header

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tesso57/headlines/internal/presentation/textutil"
)

// Props defines the properties for the header component.
type Props struct {
	Width     int
	Stories   int
	Feeds     int
	Grouped   bool
	UpdatedAt time.Time
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Render renders the header component.
func Render(p Props) string {
	mode := "flat"
	if p.Grouped {
		mode = "grouped"
	}
	info := fmt.Sprintf("%d stories · %d feeds · %s", p.Stories, p.Feeds, mode)
	if !p.UpdatedAt.IsZero() {
		info += " · updated " + p.UpdatedAt.Format("15:04")
	}
	line := titleStyle.Render("Headlines") + "  " + infoStyle.Render(info)
	if p.Width > 0 {
		line = textutil.Truncate(line, p.Width)
	}
	return line
}
