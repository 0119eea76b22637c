package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	router "github.com/goliatone/go-navrouter"
	"github.com/spf13/cobra"
)

func resolveCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <url>",
		Short: "Show which route a URL resolves to",
		Long: `Navigate a fresh router to the URL and print the resulting route.

Nested routers are followed, so a URL handled by a child router prints one
row per level. Unresolved URLs land on the not-found route when the table
names one.

Examples:
  navctl resolve /user/42
  navctl resolve "/settings/devices/ab12?tab=info#top"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, r, err := flags.load()
			if err != nil {
				return err
			}

			res := r.NavigateToPath(args[0])
			if !res.Changed {
				return res.Err()
			}

			printResolved(cmd.OutOrStdout(), r)
			return nil
		},
	}

	return cmd
}

func printResolved(w io.Writer, r *router.Router) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "level\troute\tpattern\tparams\tquery\thash")

	level := 0
	for cur := r; cur != nil; level++ {
		route, ok := cur.Current()
		if !ok {
			break
		}
		pattern := "-"
		if route.Pattern != nil {
			pattern = route.Pattern.String()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			level, route.ID, pattern, formatParams(route.Params), orDash(router.BuildQueryString(route.Query)), orDash(route.Hash))

		child, ok := cur.Child(route.ID)
		if !ok {
			break
		}
		cur = child
	}
	tw.Flush()

	fmt.Fprintf(w, "path: %s\n", r.CurrentPath())
	if override := r.URLPathOverride(); override != "" {
		fmt.Fprintf(w, "not found: %s\n", override)
	}
}

func formatParams(p router.RouteParams) string {
	if p.IsEmpty() {
		return "-"
	}
	parts := make([]string, 0, p.Len())
	p.Each(func(key, value string) {
		parts = append(parts, key+"="+value)
	})
	return strings.Join(parts, ",")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
