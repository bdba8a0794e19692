package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"calc/builtins"
	"calc/conformance"
	"calc/eval"
	"calc/trace"
	"calc/types"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// options shared by every subcommand
type options struct {
	bundles     string
	ticks       int64
	depth       int
	traceOn     bool
	traceFilter string
	color       string
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("calc: ")

	if err := newRootCommand().Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func newRootCommand() *cobra.Command {
	var opts options
	root := &cobra.Command{
		Use:           "calc",
		Short:         "Embeddable expression runtime host",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initTracer(opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.bundles, "bundles", "all", "comma separated bundles to install (number,logical,container,math,system)")
	flags.Int64Var(&opts.ticks, "ticks", eval.DefaultTicks, "instruction budget per evaluation")
	flags.IntVar(&opts.depth, "depth", types.DefaultDepth, "stringify depth budget")
	flags.BoolVar(&opts.traceOn, "trace", false, "enable call tracing on stderr")
	flags.StringVar(&opts.traceFilter, "trace-filter", "", "trace filter patterns (glob, e.g. 'pow,s*')")
	flags.StringVar(&opts.color, "color", "auto", "colorize output: auto, always or never")

	root.AddCommand(
		evalCommand(&opts),
		runCommand(&opts),
		checkCommand(&opts),
		bundlesCommand(),
	)
	return root
}

func initTracer(opts options) {
	if !opts.traceOn {
		trace.Init(false, nil, nil)
		return
	}
	var filters []string
	if opts.traceFilter != "" {
		for _, f := range strings.Split(opts.traceFilter, ",") {
			if f = strings.TrimSpace(f); f != "" {
				filters = append(filters, f)
			}
		}
	}
	trace.Init(true, filters, os.Stderr)
	log.Printf("Tracing enabled (filters: %v)", filters)
}

func (o options) registry() (*builtins.Registry, error) {
	b, err := builtins.ParseBundles(o.bundles)
	if err != nil {
		return nil, err
	}
	return builtins.New(b), nil
}

func (o options) evalOptions() eval.Options {
	return eval.Options{Ticks: o.ticks, Depth: o.depth}
}

// useColor reports whether w should receive ANSI colors
func (o options) useColor(w io.Writer) bool {
	switch o.color {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func paint(on bool, code, s string) string {
	if !on {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

// execute runs prog and prints its result the way the registry renders it
func execute(cmd *cobra.Command, opts options, reg *builtins.Registry, prog *eval.Program) error {
	reg.SetOutput(cmd.OutOrStdout())
	e := eval.NewEvaluator(reg, opts.evalOptions())
	val, err := e.Run(prog, nil)
	if err != nil {
		return err
	}
	s, err := e.Stringify(val)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), s)
	return nil
}

func evalCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <postfix source>...",
		Short: "Evaluate postfix source given on the command line",
		Example: `  calc eval pow 2 10 @2
  calc eval 'l list @0 = ; l .push 1 @1 ; l .len @0'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}
			prog, err := eval.Assemble(strings.Join(args, " "), reg)
			if err != nil {
				return fmt.Errorf("assemble: %w", err)
			}
			return execute(cmd, *opts, reg, prog)
		},
	}
}

func runCommand(opts *options) *cobra.Command {
	var listing bool
	cmd := &cobra.Command{
		Use:   "run <program.yaml | ->",
		Short: "Run a YAML instruction listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			prog, err := eval.ParseProgram(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if listing {
				for i, in := range prog.Code {
					fmt.Fprintf(cmd.ErrOrStderr(), "%4d: %s\n", i, in)
				}
			}
			reg, err := opts.registry()
			if err != nil {
				return err
			}
			return execute(cmd, *opts, reg, prog)
		},
	}
	cmd.Flags().BoolVar(&listing, "list", false, "print the decoded instructions to stderr first")
	return cmd
}

func checkCommand(opts *options) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "check <suite-dir>...",
		Short: "Run YAML conformance suites",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			color := opts.useColor(out)

			runner := conformance.NewRunner()
			var all []conformance.TestResult
			for _, dir := range args {
				tests, err := conformance.LoadAllTests(dir)
				if err != nil {
					return err
				}
				all = append(all, runner.RunAll(tests)...)
			}

			for _, r := range all {
				name := r.Test.File + "/" + r.Test.Test.Name
				switch {
				case r.Skipped:
					if verbose {
						fmt.Fprintf(out, "%s %s (%s)\n", paint(color, "33", "SKIP"), name, r.SkipReason)
					}
				case r.Passed:
					if verbose {
						fmt.Fprintf(out, "%s %s\n", paint(color, "32", "PASS"), name)
					}
				default:
					fmt.Fprintf(out, "%s %s: %v\n", paint(color, "31", "FAIL"), name, r.Error)
				}
			}

			stats := conformance.ComputeStats(all)
			fmt.Fprintln(out, conformance.FormatStats(stats))
			if stats.Failed > 0 {
				return fmt.Errorf("%d conformance test(s) failed", stats.Failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also report passing and skipped tests")
	return cmd
}

var allBundles = []builtins.Bundle{
	builtins.NumberOperators,
	builtins.LogicalOperators,
	builtins.ContainerOperators,
	builtins.MathFunctions,
	builtins.SystemFunctions,
}

func bundlesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bundles",
		Short: "List the capability bundles and what each installs",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			core := builtins.New(0)
			fmt.Fprintf(out, "%-10s functions: %s\n", "core", strings.Join(core.Functions(), " "))
			fmt.Fprintf(out, "%-10s operators: %s\n", "", strings.Join(core.Operators().Symbols(), " "))

			for _, b := range allBundles {
				reg := builtins.New(b)
				fns := difference(reg.Functions(), core.Functions())
				ops := difference(reg.Operators().Symbols(), core.Operators().Symbols())
				words := reg.Parsers().Words()

				fmt.Fprintf(out, "%-10s", b)
				if len(fns) > 0 {
					fmt.Fprintf(out, " functions: %s", strings.Join(fns, " "))
				}
				if len(ops) > 0 {
					fmt.Fprintf(out, " operators: %s", strings.Join(ops, " "))
				}
				if len(words) > 0 {
					fmt.Fprintf(out, " words: %s", strings.Join(words, " "))
				}
				fmt.Fprintln(out)
			}
		},
	}
}

// difference returns the sorted entries of a that are not in b
func difference(a, b []string) []string {
	seen := make(map[string]bool, len(b))
	for _, s := range b {
		seen[s] = true
	}
	var out []string
	for _, s := range a {
		if !seen[s] {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
