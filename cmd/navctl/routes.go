package main

import (
	"fmt"
	"io"

	goerrors "github.com/goliatone/go-errors"
	router "github.com/goliatone/go-navrouter"
	"github.com/goliatone/go-navrouter/routetable"
	"github.com/spf13/cobra"
)

func routesCmd(flags *globalFlags) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List registered routes",
		Long: `List the routes of the table by match priority.

Child routers are printed below their parent, labelled with the path of
route ids leading to them. Overlapping patterns are reported as warnings,
or as an error with --strict.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, r, err := flags.load()
			if err != nil {
				return err
			}
			conflicts := printRouter(cmd.OutOrStdout(), r, table.Routes, "")
			if strict && conflicts > 0 {
				return goerrors.New(fmt.Sprintf("%d route conflicts", conflicts), goerrors.CategoryConflict).
					WithTextCode("ROUTE_CONFLICT")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when patterns overlap")

	return cmd
}

// printRouter prints r and its mounted children. It returns the number of
// conflicts found.
func printRouter(w io.Writer, r *router.Router, entries []routetable.Entry, label string) int {
	if label != "" {
		fmt.Fprintf(w, "\n[%s]\n", label)
	}
	r.Registry().PrintRoutes(w)

	errs := r.Registry().Validate()
	for _, err := range errs {
		fmt.Fprintf(w, "warning: %s\n", err)
	}

	conflicts := len(errs)
	for _, e := range entries {
		if len(e.Children) == 0 {
			continue
		}
		child, ok := r.Child(router.RouteID(e.ID))
		if !ok {
			continue
		}
		childLabel := e.ID
		if label != "" {
			childLabel = label + " > " + e.ID
		}
		conflicts += printRouter(w, child, e.Children, childLabel)
	}
	return conflicts
}
