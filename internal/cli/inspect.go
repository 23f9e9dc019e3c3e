package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// Inspect prints the newest users and search queries plus table totals.
// Password hashes are never printed.
func Inspect(ctx context.Context, w io.Writer, users UserStore, queries SearchQueryStore) error {
	userCount, err := users.Count(ctx)
	if err != nil {
		return err
	}
	recentUsers, err := users.ListRecent(ctx, InspectLimit)
	if err != nil {
		return err
	}
	queryCount, err := queries.Count(ctx)
	if err != nil {
		return err
	}
	recentQueries, err := queries.ListRecent(ctx, InspectLimit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Users (%d total, newest %d)\n", userCount, len(recentUsers))
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tCREATED")
	for _, u := range recentUsers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.CreatedAt.UTC().Format(time.RFC3339))
	}

	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Search queries (%d total, newest %d)\n", queryCount, len(recentQueries))
	fmt.Fprintln(tw, "ID\tUSER\tTERM\tURL\tCREATED")
	for _, q := range recentQueries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", q.ID, q.UserID, q.SearchTerm, q.WebsiteURL, q.CreatedAt.UTC().Format(time.RFC3339))
	}

	return tw.Flush()
}
