// Package cli defines the headlines command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alecthomas/kong"
)

// Globals are flags shared by every command.
type Globals struct {
	Config          string `help:"Path to the config file." short:"c" type:"path"`
	LogLevel        string `help:"Override the configured log level (debug, info, warn, error)." name:"log-level" enum:",debug,info,warn,error" default:""`
	MetricsTextfile string `help:"Write fetch metrics in Prometheus text format to this file after a refresh." name:"metrics-textfile" type:"path"`
}

// CLI is the root of the command tree.
type CLI struct {
	Globals

	TUI       TUICmd       `cmd:"" name:"tui" default:"1" help:"Browse the timeline interactively."`
	List      ListCmd      `cmd:"" help:"List subscriptions by category."`
	Add       AddCmd       `cmd:"" help:"Subscribe to a feed URL."`
	AddNews   AddNewsCmd   `cmd:"" name:"add-news" help:"Subscribe to Google News results for a keyword."`
	AddReddit AddRedditCmd `cmd:"" name:"add-reddit" help:"Subscribe to hot posts of a subreddit."`
	Edit      EditCmd      `cmd:"" help:"Change a subscription's title, category, colour or paywall flag."`
	Remove    RemoveCmd    `cmd:"" aliases:"rm" help:"Unsubscribe from a feed."`
	Refresh   RefreshCmd   `cmd:"" help:"Fetch every subscription once and print the timeline."`
	Export    ExportCmd    `cmd:"" help:"Export subscriptions as OPML."`
}

// Run parses args, executes the selected command and returns the exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var (
		root     CLI
		exited   bool
		exitCode int
	)
	parser, err := kong.New(&root,
		kong.Name("headlines"),
		kong.Description("A terminal feed reader that merges your subscriptions into one timeline."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) {
			exited = true
			exitCode = code
		}),
	)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	kctx, err := parser.Parse(args)
	if exited {
		return exitCode
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "headlines: %v\n", err)
		return 2
	}

	// Interactive sessions keep the terminal for themselves.
	var console io.Writer = stderr
	if kctx.Command() == "tui" || root.LogLevel == "" {
		console = nil
	}

	app, err := NewApp(root.Globals, stdout, stderr, console)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "headlines: %v\n", err)
		return 1
	}
	defer func() { _ = app.Close() }()

	kctx.BindTo(ctx, (*context.Context)(nil))
	if err := kctx.Run(app, &root.Globals); err != nil {
		_, _ = fmt.Fprintf(stderr, "headlines: %v\n", err)
		var usage usageError
		if errors.As(err, &usage) {
			return 2
		}
		return 1
	}
	return 0
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }
