package main

import (
	"fmt"
	"os"

	router "github.com/goliatone/go-navrouter"
	"github.com/goliatone/go-navrouter/routetable"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	table   string
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "navctl",
		Short: "Inspect and exercise navigation route tables",
		Long: `navctl loads a route table (YAML or TOML) into a navigation router.

Use it to list registered patterns, check which route a URL resolves to,
or replay a script of navigation commands against the router history.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.table, "table", "t", "routes.yaml", "Route table file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log router decisions to stderr")

	rootCmd.AddCommand(
		routesCmd(flags),
		resolveCmd(flags),
		simulateCmd(flags),
		versionCmd(),
	)

	return rootCmd
}

func (f *globalFlags) logger() *zap.Logger {
	if !f.verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// load reads the table and builds its router. Extra options apply to child
// routers as well.
func (f *globalFlags) load(extra ...router.Option) (*routetable.Table, *router.Router, error) {
	table, err := routetable.Load(f.table)
	if err != nil {
		return nil, nil, err
	}

	opts := append([]router.Option{router.WithLogger(router.NewZapLogger(f.logger()))}, extra...)
	r, err := table.Build(opts...)
	if err != nil {
		return nil, nil, err
	}
	return table, r, nil
}
