package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/tesso57/headlines/internal/application/usecase"
	"github.com/tesso57/headlines/internal/domain/subscription"
	"github.com/tesso57/headlines/internal/infrastructure/opml"
	"github.com/tesso57/headlines/internal/presentation/render"
	"github.com/tesso57/headlines/internal/presentation/tui"
)

const defaultWidth = 100

// TUICmd starts the interactive viewer.
type TUICmd struct{}

func (c *TUICmd) Run(ctx context.Context, app *App) error {
	model := tui.NewModel(ctx, app.Settings, app.Subscriptions, app.Aggregation)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// ListCmd prints subscriptions.
type ListCmd struct {
	Width int `help:"Line width." default:"100"`
}

func (c *ListCmd) Run(ctx context.Context, app *App) error {
	subs, err := app.Subscriptions.Sorted(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(app.Stdout, render.Subscriptions(subs, c.Width))
	return err
}

// AddCmd subscribes to a feed URL.
type AddCmd struct {
	URL string `arg:"" help:"Feed URL (http or https)."`
}

func (c *AddCmd) Run(ctx context.Context, app *App) error {
	return reportAdded(app, func() (subscription.Subscription, error) {
		return app.Subscriptions.Add(ctx, c.URL)
	})
}

// AddNewsCmd subscribes to a Google News search.
type AddNewsCmd struct {
	Keyword string `arg:"" help:"Search keyword."`
}

func (c *AddNewsCmd) Run(ctx context.Context, app *App) error {
	return reportAdded(app, func() (subscription.Subscription, error) {
		return app.Subscriptions.AddNews(ctx, c.Keyword)
	})
}

// AddRedditCmd subscribes to a subreddit.
type AddRedditCmd struct {
	Community string `arg:"" help:"Subreddit name, with or without the r/ prefix."`
}

func (c *AddRedditCmd) Run(ctx context.Context, app *App) error {
	return reportAdded(app, func() (subscription.Subscription, error) {
		return app.Subscriptions.AddReddit(ctx, c.Community)
	})
}

func reportAdded(app *App, add func() (subscription.Subscription, error)) error {
	sub, err := add()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(app.Stdout, "Added %s (%s)\n", sub.Title, sub.URL)
	return err
}

// EditCmd changes stored fields of one subscription.
type EditCmd struct {
	URL      string  `arg:"" help:"URL of the subscription to edit."`
	Title    *string `help:"New title."`
	Category *string `help:"New category; empty clears it."`
	Color    *string `help:"Accent colour as #rgb or #rrggbb."`
	Paywall  string  `help:"Mark the feed as paywalled (on or off)." enum:",on,off" default:""`
}

func (c *EditCmd) Run(ctx context.Context, app *App) error {
	patch := usecase.Patch{Title: c.Title, Category: c.Category, Color: c.Color}
	switch c.Paywall {
	case "on":
		patch.Paywall = new(true)
	case "off":
		patch.Paywall = new(false)
	}
	if patch == (usecase.Patch{}) {
		return usageError{msg: "nothing to change; pass --title, --category, --color or --paywall"}
	}

	sub, err := app.Subscriptions.Edit(ctx, c.URL, patch)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(app.Stdout, "Updated %s\n", sub.Title)
	return err
}

// RemoveCmd unsubscribes from a feed.
type RemoveCmd struct {
	URL string `arg:"" help:"URL of the subscription to remove."`
}

func (c *RemoveCmd) Run(ctx context.Context, app *App) error {
	if err := app.Subscriptions.Remove(ctx, c.URL); err != nil {
		return err
	}
	_, err := fmt.Fprintf(app.Stdout, "Removed %s\n", c.URL)
	return err
}

// RefreshCmd runs one pass and prints the timeline.
type RefreshCmd struct {
	Flat  bool `help:"List stories newest first without bucket headings."`
	Width int  `help:"Line width." default:"100"`
}

func (c *RefreshCmd) Run(ctx context.Context, app *App, g *Globals) error {
	subs, err := app.Subscriptions.List(ctx)
	if err != nil {
		return err
	}

	var session usecase.Session
	tl := app.Aggregation.Aggregate(ctx, session.Begin(), subs)
	session.Apply(tl)

	width := c.Width
	if width <= 0 {
		width = defaultWidth
	}
	out := render.Timeline(tl.Cards, render.Options{
		Width:    width,
		Grouped:  app.Settings.Display.Grouped && !c.Flat,
		Now:      tl.Now,
		Selected: -1,
	})
	if _, err := io.WriteString(app.Stdout, out.Text); err != nil {
		return err
	}
	if status := render.Status(tl.Report); status != "" {
		_, _ = fmt.Fprintln(app.Stderr, status)
		_, _ = fmt.Fprintln(app.Stderr, render.Failures(tl.Failures, width))
	}

	if g.MetricsTextfile != "" {
		if err := app.Metrics.WriteTextfile(g.MetricsTextfile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		app.Logger.Debug("metrics written", zap.String("path", g.MetricsTextfile))
	}
	return nil
}

// ExportCmd writes subscriptions as OPML.
type ExportCmd struct {
	Output string `help:"Destination file (default subscriptions.opml); - writes to stdout." short:"o"`
}

func (c *ExportCmd) Run(ctx context.Context, app *App) error {
	subs, err := app.Subscriptions.List(ctx)
	if err != nil {
		return err
	}
	if c.Output == "-" {
		return opml.Write(app.Stdout, subs)
	}
	path := c.Output
	if path == "" {
		path = opml.DefaultFilename
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := opml.Write(f, subs); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(app.Stdout, "Exported %d subscriptions to %s\n", len(subs), path)
	return err
}
