package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zephyrtronium/exeval"
	"github.com/zephyrtronium/exeval/internal/config"
	"github.com/zephyrtronium/exeval/internal/logging"
	"github.com/zephyrtronium/exeval/preset"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	inname, verb string
	cfgname      string
	logLevel     string
	logFile      string
	given        []string
	presets      []string
	echo         bool
}

// presets are the function sets available to --preset.
var presets = map[string]func() map[string]exeval.Function{
	"math": preset.Math,
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "exeval [expression...]",
		Short: "Evaluate arithmetic expressions",
		Long: `Evaluate arithmetic expressions given as arguments, or else one per line
of the input file or standard input.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &opts, args)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.inname, "in", "", "input file (default stdin if no args given)")
	f.StringVar(&opts.verb, "fmt", "%g", "result formatting string")
	f.StringArrayVar(&opts.given, "given", nil, "name=value variable definition (any number of times)")
	f.StringSliceVar(&opts.presets, "preset", nil, "function set to connect (math)")
	f.BoolVar(&opts.echo, "echo", false, "print parse trees")
	f.StringVar(&opts.cfgname, "config", "", "configuration file")
	f.StringVar(&opts.logLevel, "log-level", "", "minimum log level (overrides config)")
	f.StringVar(&opts.logFile, "log-file", "", "log file (overrides config)")
	return cmd
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	cfg, err := config.Load(opts.cfgname)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	e := exeval.New(
		exeval.WithSettings(cfg.Settings),
		exeval.WithLogger(logger),
		exeval.WithCompileCache(cfg.CacheSize),
	)
	if err := connectPresets(e, append(cfg.Presets, opts.presets...)); err != nil {
		return err
	}
	for _, d := range opts.given {
		if err := declare(e, d); err != nil {
			return err
		}
	}

	exprs := args
	in, err := infile(cmd, opts.inname, len(args) == 0)
	if err != nil {
		return err
	}
	if in != nil {
		defer in.Close()
		lines, err := readLines(in)
		if err != nil {
			return err
		}
		exprs = append(lines, exprs...)
	}

	out := cmd.OutOrStdout()
	verb := opts.verb + "\n"
	for _, expr := range exprs {
		if opts.echo {
			m, err := exeval.Markup(expr, e.Settings())
			if err == nil {
				fmt.Fprintln(out, m)
			}
		}
		r, err := e.Eval(expr)
		if err != nil {
			logger.Debug("evaluation failed", zap.String("expr", expr), zap.Error(err))
			fmt.Fprintln(out, err)
			continue
		}
		fmt.Fprintf(out, verb, r)
	}
	return nil
}

// connectPresets connects each named preset once.
func connectPresets(e *exeval.Engine, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if seen[name] {
			continue
		}
		seen[name] = true
		fns, ok := presets[name]
		if !ok {
			return fmt.Errorf("unknown preset %q", name)
		}
		if err := preset.Connect(e, fns()); err != nil {
			return fmt.Errorf("connecting preset %s: %w", name, err)
		}
	}
	return nil
}

// declare handles a name=value definition. The value is itself an expression
// and may use earlier definitions.
func declare(e *exeval.Engine, def string) error {
	d := strings.SplitN(def, "=", 2)
	if len(d) != 2 {
		return fmt.Errorf(`variable definitions must be "name=value", not %q`, def)
	}
	nm, vl := strings.TrimSpace(d[0]), strings.TrimSpace(d[1])
	r, err := e.Eval(vl)
	if err != nil {
		return fmt.Errorf("setting %s: %w", nm, err)
	}
	addr, err := e.DeclareVariable(nm)
	if err != nil {
		return fmt.Errorf("setting %s: %w", nm, err)
	}
	return e.WriteVariableAt(addr, r)
}

// infile opens the input named by inname. "-" and, if std is true, the empty
// name mean standard input. The result is nil if there is no input.
func infile(cmd *cobra.Command, inname string, std bool) (io.ReadCloser, error) {
	switch {
	case inname != "" && inname != "-":
		return os.Open(inname)
	case inname == "-", std:
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return nil, nil
}

// readLines reads the non-blank lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	s := bufio.NewScanner(r)
	for s.Scan() {
		if strings.TrimSpace(s.Text()) == "" {
			continue
		}
		lines = append(lines, s.Text())
	}
	return lines, s.Err()
}
