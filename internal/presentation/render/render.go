// Package render turns timelines and subscriptions into styled terminal text.
package render

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tesso57/headlines/internal/application/usecase"
	"github.com/tesso57/headlines/internal/domain/reading"
	"github.com/tesso57/headlines/internal/domain/subscription"
	"github.com/tesso57/headlines/internal/presentation/textutil"
)

// DateLayout is how publication times are printed on a card.
const DateLayout = "Mon, 2 Jan 2006, 3:04 PM"

var (
	headingStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	paywallStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Options controls timeline rendering.
type Options struct {
	Width   int
	Grouped bool
	Now     time.Time
	// Selected is the index into the ordered cards to highlight; -1 for none.
	Selected int
}

// Output is rendered text plus the first line of every card.
type Output struct {
	Text      string
	CardLines []int
}

// Ordered returns cards in display order: grouped by bucket precedence when
// grouped, otherwise unchanged.
func Ordered(cards []reading.Card, grouped bool) []reading.Card {
	if !grouped {
		return cards
	}
	out := make([]reading.Card, 0, len(cards))
	for _, g := range reading.Partition(cards) {
		out = append(out, g.Cards...)
	}
	return out
}

// Timeline renders cards in the order Ordered returns.
func Timeline(cards []reading.Card, opt Options) Output {
	ordered := Ordered(cards, opt.Grouped)
	if len(ordered) == 0 {
		return Output{Text: dimStyle.Render("No stories yet.")}
	}

	width := opt.Width
	if width <= 0 {
		width = 80
	}

	var lines []string
	cardLines := make([]int, 0, len(ordered))
	for i, c := range ordered {
		if opt.Grouped && (i == 0 || ordered[i-1].Bucket != c.Bucket) {
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, headingStyle.Render(c.Bucket.String()), "")
		}
		cardLines = append(cardLines, len(lines))
		lines = append(lines, cardLinesFor(c, opt, width, i == opt.Selected)...)
		lines = append(lines, "")
	}

	return Output{Text: strings.Join(lines[:len(lines)-1], "\n"), CardLines: cardLines}
}

func cardLinesFor(c reading.Card, opt Options, width int, selected bool) []string {
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(accent(c.Color))).Render("▌")

	title := textutil.SingleLine(c.Title)
	if title == "" {
		title = c.Link
	}
	suffix := ""
	if c.Paywall {
		suffix = " " + paywallStyle.Render("$")
	}
	title = textutil.Truncate(title, width-2-textutil.Width(suffix))
	if selected {
		title = selectedStyle.Render(title)
	} else {
		title = titleStyle.Render(title)
	}

	meta := Badge(c.FeedTitle, c.Color) + " " + dimStyle.Render(When(c.PublishedAt, opt.Now))
	if !opt.Grouped {
		meta += dimStyle.Render(" · " + c.Bucket.String())
	}

	lines := []string{
		bar + " " + title + suffix,
		bar + " " + textutil.Truncate(meta, width-2),
	}
	if selected {
		lines = append(lines, bar+" "+dimStyle.Render(textutil.Truncate(c.Link, width-2)))
	}
	return lines
}

// Badge renders a feed name on its accent color.
func Badge(text, color string) string {
	bg := accent(color)
	return lipgloss.NewStyle().
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(TextColor(bg))).
		Padding(0, 1).
		Render(textutil.SingleLine(text))
}

// When formats a publication time with its distance from now.
func When(t, now time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	if now.IsZero() {
		now = time.Now()
	}
	local := t.In(now.Location())
	return local.Format(DateLayout) + " · " + humanize.RelTime(t, now, "ago", "from now")
}

// Status summarizes a pass report in one line; empty when nothing failed.
func Status(report usecase.FeedFetchReport) string {
	var parts []string
	if report.TimedOut == 1 {
		parts = append(parts, "1 feed timed out")
	} else if report.TimedOut > 1 {
		parts = append(parts, fmt.Sprintf("%d feeds timed out", report.TimedOut))
	}
	if report.Failed == 1 {
		parts = append(parts, "1 feed failed to load")
	} else if report.Failed > 1 {
		parts = append(parts, fmt.Sprintf("%d feeds failed to load", report.Failed))
	}
	return strings.Join(parts, ", ")
}

// Failures lists every failed feed with its error.
func Failures(failures []usecase.FeedFailure, width int) string {
	if len(failures) == 0 {
		return ""
	}
	lines := make([]string, 0, len(failures))
	for _, f := range failures {
		name := f.Title
		if name == "" {
			name = f.URL
		}
		line := fmt.Sprintf("✗ %s: %v", name, f.Err)
		if width > 0 {
			line = textutil.Truncate(line, width)
		}
		lines = append(lines, dimStyle.Render(line))
	}
	return strings.Join(lines, "\n")
}

// Subscriptions renders subs grouped by category. Named categories come first
// in alphabetical order; uncategorised feeds are listed last. Order inside a
// category is preserved.
func Subscriptions(subs []subscription.Subscription, width int) string {
	if len(subs) == 0 {
		return dimStyle.Render("No subscriptions. Add one with `headlines add <url>`.")
	}
	if width <= 0 {
		width = 80
	}

	byCategory := map[string][]subscription.Subscription{}
	var categories []string
	for _, s := range subs {
		label := strings.TrimSpace(s.Category)
		if _, ok := byCategory[label]; !ok {
			categories = append(categories, label)
		}
		byCategory[label] = append(byCategory[label], s)
	}
	slices.SortFunc(categories, func(a, b string) int {
		switch {
		case a == b:
			return 0
		case a == "":
			return 1
		case b == "":
			return -1
		}
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})

	var blocks []string
	for _, cat := range categories {
		group := byCategory[cat]
		lines := []string{headingStyle.Render(group[0].CategoryLabel())}
		for _, s := range group {
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Accent())).Render("●")
			line := swatch + " " + s.Title
			if s.Paywall {
				line += " " + paywallStyle.Render("$")
			}
			line += "  " + dimStyle.Render(s.URL)
			lines = append(lines, textutil.Truncate(line, width))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

func accent(color string) string {
	if subscription.ValidColor(color) {
		return color
	}
	return subscription.DefaultColor
}
