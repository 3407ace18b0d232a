// es-profile: render Elasticsearch search profile output as an indented,
// threshold-highlighted report.
//
// Usage:
//
//	es-profile [flags] [file]
//	es-profile hot [flags] [file]
//
// Input is the JSON response of a search sent with "profile": true. It is
// read from file (gzip when the name ends in .gz) or from stdin when no file
// or "-" is given.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type app struct {
	opts       options
	configPath string
	log        zerolog.Logger
}

// ---------------------------------------------------------------------------
// CLI
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	a := &app{opts: defaultOptions(), log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "es-profile [file]",
		Short: "Show where an Elasticsearch query spent its time",
		Long: `es-profile renders the "profile" section of an Elasticsearch search response
as a depth-indented tree per shard: query clauses, rewrite time, collectors and
aggregations, each with its elapsed time in milliseconds.

Operations at or above --millis are highlighted. With -v their description and
timing breakdown are shown too; -vv shows them for every operation.

Settings may also come from a YAML file (default: .es-profile.yaml in the
current directory). Command-line flags win over the file.

Examples:
  es-profile profile.json
  curl -s 'localhost:9200/idx/_search' -d @query.json | es-profile --millis 50
  es-profile profile.json --exclude-below-millis 5 --depth 4 -v
  es-profile hot profile.json --top 20`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.load(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			st, err := newReportStyle(out, a.opts.color)
			if err != nil {
				return err
			}
			return cmdReport(out, doc, a.opts.renderOptions(), st)
		},
	}

	pf := root.PersistentFlags()
	pf.IntVar(&a.opts.excludeBelowMillis, "exclude-below-millis", a.opts.excludeBelowMillis, "Drop operations that took this many milliseconds or less (0 keeps everything)")
	pf.StringVar(&a.configPath, "config", "", "Config file (default "+defaultConfigFile+" if present)")
	pf.StringVar(&a.opts.logLevel, "log-level", a.opts.logLevel, "Diagnostics level on stderr: debug, info, warn, error")

	f := root.Flags()
	f.IntVar(&a.opts.millis, "millis", a.opts.millis, "Highlight operations taking at least this many milliseconds")
	f.IntVar(&a.opts.depth, "depth", a.opts.depth, "Maximum depth of children to display (0 = unlimited)")
	f.CountVarP(&a.opts.verbose, "verbose", "v", "Once: details for operations over --millis. Twice: details for everything")
	f.StringVar(&a.opts.color, "color", a.opts.color, "Highlight with colors: auto, always, never")

	root.AddCommand(a.newHotCmd())
	return root
}

func (a *app) newHotCmd() *cobra.Command {
	var (
		top         int
		assertBelow float64
	)
	cmd := &cobra.Command{
		Use:   "hot [file]",
		Short: "Rank profiled operations by self and total time",
		Long: `hot lists the most expensive operations across all shards, once ranked by
self time (time not spent in children) and once by total time.

With --assert-below the command fails when the slowest operation took at
least that many milliseconds, which makes it usable as a CI gate.

Examples:
  es-profile hot profile.json
  es-profile hot profile.json --top 5 --assert-below 200`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.load(args)
			if err != nil {
				return err
			}
			return cmdHot(cmd.OutOrStdout(), doc, top, assertBelow)
		},
	}
	cmd.Flags().IntVar(&top, "top", 10, "Limit output rows (0 = unlimited)")
	cmd.Flags().Float64Var(&assertBelow, "assert-below", 0, "Fail if the slowest operation took at least this many milliseconds")
	return cmd
}

// setup merges the config file under the flags and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	path, optional := a.configPath, false
	if path == "" {
		path, optional = defaultConfigFile, true
	}
	cfg, err := readConfigFile(path, optional)
	if err != nil {
		return err
	}
	a.opts.merge(cfg, cmd.Flags().Changed)
	if err := a.opts.validate(); err != nil {
		return err
	}

	a.log, err = newLogger(a.opts.logLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if cfg != nil {
		a.log.Debug().Str("path", path).Msg("loaded config file")
	}
	return nil
}

// load reads and decodes the input, pruning it when --exclude-below-millis
// is set.
func (a *app) load(args []string) (*profileDocument, error) {
	path := "-"
	if len(args) > 0 {
		path = args[0]
	}
	doc, err := openDocument(path, a.log)
	if err != nil {
		return nil, err
	}
	if a.opts.excludeBelowMillis != 0 && doc.hasProfile {
		before := len(doc.shards)
		doc = pruneDocument(doc, a.opts.excludeBelowMillis)
		a.log.Debug().
			Int("threshold_ms", a.opts.excludeBelowMillis).
			Int("shards_before", before).
			Int("shards_after", len(doc.shards)).
			Msg("pruned fast operations")
	}
	return doc, nil
}

// ---------------------------------------------------------------------------
// main
// ---------------------------------------------------------------------------

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
