// Package cli implements linkctl, a terminal front end for the LinkShelf API.
package cli

import (
	"io"
	"os"
	"time"

	"github.com/sifan077/LinkShelf/internal/client"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Options carries the defaults and collaborators for the command tree.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Out     io.Writer
	Err     io.Writer
	Logger  *zap.Logger
	// Opener overrides how `open` shows a url; nil prints it, or launches a
	// browser with --browser.
	Opener client.Opener
}

type app struct {
	opts    Options
	apiURL  string
	timeout time.Duration
	browser bool

	api   *client.API
	store *client.Store
}

// NewRootCommand builds the linkctl command tree.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = client.DefaultBaseURL
	}

	a := &app{opts: opts}

	root := &cobra.Command{
		Use:   "linkctl",
		Short: "Save, browse and open links on your LinkShelf.",
		Long: `linkctl talks to a LinkShelf API and renders its views in the terminal.

Examples:
  linkctl home
  linkctl share --url go.dev --title "Go" --tag Technology
  linkctl favourites --search go`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)

	root.PersistentFlags().StringVar(&a.apiURL, "api", opts.BaseURL, "LinkShelf API base url")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", opts.Timeout, "request timeout")

	root.AddCommand(
		a.homeCommand(),
		a.favouritesCommand(),
		a.shareCommand(),
		a.editCommand(),
		a.deleteCommand(),
		a.favCommand(),
		a.unfavCommand(),
		a.openCommand(),
		a.tagsCommand(),
		a.healthCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.api = client.NewAPI(a.apiURL, a.timeout)
	a.store = client.NewStore(a.api, client.NewWriterNotifier(cmd.OutOrStdout()), a.opener(cmd))
	a.opts.Logger.Debug("linkctl ready",
		zap.String("command", cmd.Name()),
		zap.String("api", a.api.BaseURL()),
	)
	return nil
}

// refresh loads both caches before a command reads them.
func (a *app) refresh(cmd *cobra.Command) error {
	if err := a.store.Refresh(cmd.Context()); err != nil {
		a.opts.Logger.Debug("refresh failed", zap.Error(err), zap.Int("status", client.StatusOf(err)))
		return err
	}
	return nil
}

func (a *app) logFailure(cmd *cobra.Command, err error) error {
	if err != nil {
		a.opts.Logger.Debug("command failed",
			zap.String("command", cmd.Name()),
			zap.Int("status", client.StatusOf(err)),
			zap.Error(err),
		)
	}
	return err
}
