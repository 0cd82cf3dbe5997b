package cli

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/sifan077/LinkShelf/internal/client"
	"github.com/spf13/cobra"
)

var (
	errNothingToEdit = errors.New("nothing to change: pass --url, --title, --tag, --add-tag or --remove-tag")
	errMixedTagEdit  = errors.New("--tag replaces all tags and cannot be combined with --add-tag or --remove-tag")
)

func (a *app) homeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show the newest link and the ones shared just before it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.store.Navigate(client.ViewHome.ID())
			if err := a.refresh(cmd); err != nil {
				return err
			}
			return renderHome(cmd.OutOrStdout(), a.store.Links())
		},
	}
}

func (a *app) favouritesCommand() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:     "favourites",
		Aliases: []string{"favs"},
		Short:   "List favourite links, optionally filtered.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.store.Navigate(client.ViewFavourites.ID())
			if err := a.refresh(cmd); err != nil {
				return err
			}
			return renderFavourites(cmd.OutOrStdout(), a.store.Favourites(), search)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "match title, url or tags (case-insensitive)")
	return cmd
}

func (a *app) shareCommand() *cobra.Command {
	var (
		url   string
		title string
		tags  []string
	)

	cmd := &cobra.Command{
		Use:   "share",
		Short: "Save a new link.",
		Long: `Save a new link. A url without a scheme is stored with https://.

Example:
  linkctl share --url go.dev --title "Go" --tag Technology --tag Work`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.store.Navigate(client.ViewShare.ID())

			link, err := a.store.Share(cmd.Context(), client.LinkInput{
				URL:   url,
				Title: title,
				Tags:  collectTags(tags),
			})
			if link != nil {
				if renderErr := renderLink(cmd.OutOrStdout(), link); renderErr != nil {
					return renderErr
				}
			}
			return a.logFailure(cmd, err)
		},
	}
	cmd.Flags().StringVarP(&url, "url", "u", "", "link url")
	cmd.Flags().StringVarP(&title, "title", "t", "", "optional title")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "tag to attach (repeatable)")
	return cmd
}

func (a *app) editCommand() *cobra.Command {
	var (
		url       string
		title     string
		tags      []string
		addTags   []string
		removeTag []string
	)

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a link's url, title or tags.",
		Long: `Change a link's url, title or tags.

--url, --title and --tag overwrite the matching field and keep the others.
--add-tag and --remove-tag adjust the current tags.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			flags := cmd.Flags()

			replace := flags.Changed("url") || flags.Changed("title") || flags.Changed("tag")
			patchTags := len(addTags) > 0 || len(removeTag) > 0
			switch {
			case !replace && !patchTags:
				return errNothingToEdit
			case flags.Changed("tag") && patchTags:
				return errMixedTagEdit
			}

			if err := a.refresh(cmd); err != nil {
				return err
			}

			var (
				link *client.Link
				err  error
			)
			if replace {
				link, err = a.replaceFields(cmd, id, url, title, tags, addTags, removeTag)
			} else {
				link, err = a.store.EditTags(cmd.Context(), id, addTags, removeTag)
			}
			if link != nil {
				if renderErr := renderLink(cmd.OutOrStdout(), link); renderErr != nil {
					return renderErr
				}
			}
			return a.logFailure(cmd, err)
		},
	}
	cmd.Flags().StringVarP(&url, "url", "u", "", "new url")
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "replace all tags (repeatable)")
	cmd.Flags().StringArrayVar(&addTags, "add-tag", nil, "tag to add (repeatable)")
	cmd.Flags().StringArrayVar(&removeTag, "remove-tag", nil, "tag to remove (repeatable)")
	return cmd
}

// replaceFields overlays the changed flags on the cached link and sends a full update.
func (a *app) replaceFields(cmd *cobra.Command, id, url, title string, tags, addTags, removeTags []string) (*client.Link, error) {
	current, ok := a.store.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", client.ErrLinkNotCached, id)
	}

	flags := cmd.Flags()
	input := client.LinkInput{URL: current.URL, Title: current.Title, Tags: current.Tags}
	if flags.Changed("url") {
		input.URL = url
	}
	if flags.Changed("title") {
		input.Title = title
	}
	if flags.Changed("tag") {
		input.Tags = collectTags(tags)
	}
	for _, tag := range removeTags {
		input.Tags = client.RemoveTag(input.Tags, tag)
	}
	for _, tag := range addTags {
		input.Tags = client.AddTag(input.Tags, tag)
	}
	return a.store.Edit(cmd.Context(), id, input)
}

func (a *app) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a link.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.logFailure(cmd, a.store.Delete(cmd.Context(), args[0]))
		},
	}
}

func (a *app) favCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fav ID",
		Short: "Add a link to favourites.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.store.AddFavourite(cmd.Context(), args[0])
			return a.logFailure(cmd, err)
		},
	}
}

func (a *app) unfavCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unfav ID",
		Short: "Remove a link from favourites.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.store.RemoveFavourite(cmd.Context(), args[0])
			return a.logFailure(cmd, err)
		},
	}
}

func (a *app) openCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open ID",
		Short: "Open a link and count the click.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.refresh(cmd); err != nil {
				return err
			}
			link, err := a.store.Open(cmd.Context(), args[0])
			if link != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Clicks: %d\n", link.ClickCount)
			}
			return a.logFailure(cmd, err)
		},
	}
	cmd.Flags().BoolVar(&a.browser, "browser", false, "launch the system browser instead of printing the url")
	return cmd
}

func (a *app) tagsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List the predefined tags.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, tag := range client.PredefinedTags {
				fmt.Fprintln(cmd.OutOrStdout(), tag)
			}
			return nil
		},
	}
}

func (a *app) healthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API and its database are up.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			health, err := a.api.Health(cmd.Context())
			if err != nil {
				return a.logFailure(cmd, err)
			}
			return renderHealth(cmd.OutOrStdout(), health)
		},
	}
}

func (a *app) opener(cmd *cobra.Command) client.Opener {
	if a.opts.Opener != nil {
		return a.opts.Opener
	}
	if a.browser {
		return client.OpenerFunc(openBrowser)
	}
	return client.OpenerFunc(func(url string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Opening %s\n", url)
		return err
	})
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// collectTags applies the same trimming and de-duplication as the tag picker.
func collectTags(tags []string) []string {
	out := []string{}
	for _, tag := range tags {
		out = client.AddTag(out, tag)
	}
	return out
}
