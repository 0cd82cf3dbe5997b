package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sifan077/LinkShelf/internal/client"
)

const dateLayout = "2006-01-02 15:04"

func renderLinks(w io.Writer, links []client.Link) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tURL\tTAGS\tFAV\tCLICKS\tCREATED")
	for _, link := range links {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			link.ID,
			orDash(link.Title),
			link.URL,
			orDash(strings.Join(link.Tags, ", ")),
			favouriteMark(link.IsFavourite),
			link.ClickCount,
			formatTime(link.CreatedAt),
		)
	}
	return tw.Flush()
}

func renderLink(w io.Writer, link *client.Link) error {
	if link == nil {
		return nil
	}
	return renderLinks(w, []client.Link{*link})
}

func renderHome(w io.Writer, links []client.Link) error {
	featured, recent := client.Featured(links)
	if featured == nil {
		fmt.Fprintln(w, "No links yet. Share one with: linkctl share --url <url>")
		return nil
	}

	fmt.Fprintln(w, "Featured")
	if err := renderLink(w, featured); err != nil {
		return err
	}
	if len(recent) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recent")
	return renderLinks(w, recent)
}

func renderFavourites(w io.Writer, favourites []client.Link, search string) error {
	filtered := client.Filter(favourites, search)
	if len(filtered) > 0 {
		return renderLinks(w, filtered)
	}

	if strings.TrimSpace(search) != "" {
		fmt.Fprintf(w, "No favourites match %q. Try adjusting your search terms.\n", search)
		return nil
	}
	fmt.Fprintln(w, "No favourites yet. Mark one with: linkctl fav <id>")
	return nil
}

func renderHealth(w io.Writer, health *client.Health) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "status\t%s\n", health.Message)
	fmt.Fprintf(tw, "database\t%s\n", health.Database)
	fmt.Fprintf(tw, "timestamp\t%s\n", health.Timestamp)
	return tw.Flush()
}

func favouriteMark(favourite bool) string {
	if favourite {
		return "★"
	}
	return ""
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}
