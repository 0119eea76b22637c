package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	goerrors "github.com/goliatone/go-errors"
	router "github.com/goliatone/go-navrouter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

const TextCodeInvalidScript = "SCRIPT_INVALID"

func simulateCmd(flags *globalFlags) *cobra.Command {
	var (
		stateIn  string
		stateOut string
	)

	cmd := &cobra.Command{
		Use:   "simulate [script]",
		Short: "Replay navigation commands",
		Long: `Replay a script of navigation commands, one per line, and print the
outcome of each. The script is read from stdin when no file is given.
Blank lines and lines starting with # are ignored.

Commands:
  navigate <id>            push the route registered as id
  path <url>               push the route resolved from url
  replace <id>             replace the current entry
  replace-path <url> [keep]
                           replace by url, keep leaves a not-found path in place
  push <id> | pop | pop-to <id> | pop-to-root
  back | forward
  reset <id> [key=value...]

History starts at the default route unless --state-in restores a snapshot.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return goerrors.Wrap(err, goerrors.CategoryValidation, "failed to open script").
						WithTextCode(TextCodeInvalidScript)
				}
				defer f.Close()
				in = f
			}

			steps, err := parseScript(in)
			if err != nil {
				return err
			}

			var extra []router.Option
			if stateIn != "" || stateOut != "" {
				extra = append(extra, router.WithPersistence())
			}
			_, r, err := flags.load(extra...)
			if err != nil {
				return err
			}

			if stateIn != "" {
				if err := restoreState(r, stateIn); err != nil {
					return err
				}
			} else if res := r.Start(); !res.Changed {
				return res.Err()
			}

			runSteps(cmd.OutOrStdout(), r, steps)

			if stateOut != "" {
				return saveState(r, stateOut)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&stateIn, "state-in", "", "Restore history from a YAML snapshot")
	cmd.Flags().StringVar(&stateOut, "state-out", "", "Write the final history as a YAML snapshot")

	return cmd
}

type step struct {
	line int
	cmd  router.Command
}

func parseScript(in io.Reader) ([]step, error) {
	var steps []step
	scanner := bufio.NewScanner(in)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cmd, err := parseStep(line)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryValidation, fmt.Sprintf("script line %d", n)).
				WithTextCode(TextCodeInvalidScript).
				WithMetadata(map[string]any{"line": n, "text": line})
		}
		steps = append(steps, step{line: n, cmd: cmd})
	}
	if err := scanner.Err(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "failed to read script").
			WithTextCode(TextCodeInvalidScript)
	}
	return steps, nil
}

func parseStep(line string) (router.Command, error) {
	fields := strings.Fields(line)
	verb, args := strings.ToLower(fields[0]), fields[1:]

	want := func(lo, hi int) error {
		if len(args) < lo || len(args) > hi {
			return fmt.Errorf("%s: expected %d to %d arguments, got %d", verb, lo, hi, len(args))
		}
		return nil
	}

	switch verb {
	case "navigate":
		if err := want(1, 1); err != nil {
			return router.Command{}, err
		}
		return router.GoToRoute(router.RouteID(args[0])), nil
	case "path":
		if err := want(1, 1); err != nil {
			return router.Command{}, err
		}
		return router.GoToPath(args[0]), nil
	case "replace":
		if err := want(1, 1); err != nil {
			return router.Command{}, err
		}
		return router.ReplaceRoute(router.RouteID(args[0])), nil
	case "replace-path":
		if err := want(1, 2); err != nil {
			return router.Command{}, err
		}
		if len(args) == 2 && args[1] != "keep" {
			return router.Command{}, fmt.Errorf("replace-path: unknown flag %q", args[1])
		}
		return router.ReplacePath(args[0], len(args) == 1), nil
	case "push":
		if err := want(1, 1); err != nil {
			return router.Command{}, err
		}
		return router.Push(router.RouteID(args[0])), nil
	case "pop-to":
		if err := want(1, 1); err != nil {
			return router.Command{}, err
		}
		return router.PopTo(router.RouteID(args[0])), nil
	case "reset":
		if err := want(1, len(args)); err != nil {
			return router.Command{}, err
		}
		route := router.NewRoute(router.RouteID(args[0]))
		for _, kv := range args[1:] {
			key, value, ok := strings.Cut(kv, "=")
			if !ok || key == "" {
				return router.Command{}, fmt.Errorf("reset: malformed param %q", kv)
			}
			route = route.WithParam(key, value)
		}
		return router.Reset(route), nil
	case "back", "forward", "pop", "pop-to-root":
		if err := want(0, 0); err != nil {
			return router.Command{}, err
		}
		switch verb {
		case "back":
			return router.Back(), nil
		case "forward":
			return router.Forward(), nil
		case "pop":
			return router.Pop(), nil
		default:
			return router.PopToRoot(), nil
		}
	}
	return router.Command{}, fmt.Errorf("unknown command %q", verb)
}

func runSteps(w io.Writer, r *router.Router, steps []step) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "line\tcommand\toutcome\turl")
	for _, s := range steps {
		res := r.Dispatch(s.cmd)
		outcome := res.Outcome()
		if res.Reason != router.BlockNone {
			outcome += " (" + res.Reason.String() + ")"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.line, s.cmd.String(), outcome, r.CurrentURL())
	}
	tw.Flush()

	stack, current := r.Stack()
	fmt.Fprintln(w, "stack:")
	for i, route := range stack {
		marker := " "
		if i == current {
			marker = ">"
		}
		fmt.Fprintf(w, "%s %d %s\n", marker, i, route)
	}
}

func restoreState(r *router.Router, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "failed to read state").
			WithMetadata(map[string]any{"path": path})
	}
	var st router.State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "failed to decode state").
			WithMetadata(map[string]any{"path": path})
	}
	if res := r.Restore(st); !res.Changed {
		return res.Err()
	}
	return nil
}

func saveState(r *router.Router, path string) error {
	st, err := r.State()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(st)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode state")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to write state").
			WithMetadata(map[string]any{"path": path})
	}
	return nil
}
