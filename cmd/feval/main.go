package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vito/feval/pkg/ast"
	"github.com/vito/feval/pkg/feval"
	"github.com/vito/feval/pkg/hm"
	"github.com/vito/feval/pkg/ioctx"
)

// Config holds the application configuration
type Config struct {
	Debug    bool
	NoCheck  bool
	MaxDepth int
	Explain  bool
	Color    string
	// TracePath receives OTLP spans and logs as JSON lines when set.
	TracePath string

	// File is the loaded feval.toml, or the defaults.
	File *feval.Config
	// FilePath is where File was loaded from, if anywhere.
	FilePath string

	telemetry *telemetry
	traceFile *os.File
}

// Options returns the run options after flags override the config file.
func (cfg *Config) Options() feval.Options {
	return feval.Options{
		SkipCheck: cfg.NoCheck,
		MaxDepth:  cfg.MaxDepth,
		Debug:     cfg.Debug,
	}
}

func main() {
	cfg := &Config{}

	rootCmd := &cobra.Command{
		Use:   "feval [flags] [file]",
		Short: "Feval language interpreter",
		Long: `Feval is a small statically typed functional language. Programs are
type checked by solving equations between types, then evaluated by folding
over the expression tree.`,
		Example: `  # Type check and run a program
  feval sort.fv

  # Start interactive REPL
  feval

  # Run with debug logging enabled
  feval --debug sort.fv`,
		Args: cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runFile(cmd.Context(), cfg, args[0])
			}
			return runREPL(cmd.Context(), cfg)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")
	flags.BoolVar(&cfg.NoCheck, "no-check", false, "Evaluate without type checking")
	flags.IntVar(&cfg.MaxDepth, "max-depth", 0, "Limit evaluation depth (0 = unlimited; defaults to feval.toml)")
	flags.BoolVar(&cfg.Explain, "explain", false, "Print the closed type equations when type checking fails")
	flags.StringVar(&cfg.Color, "color", "", "Colorize output: auto, always or never")
	flags.StringVar(&cfg.TracePath, "trace", "", "Write OTLP spans and logs as JSON lines to this file")

	rootCmd.AddCommand(evalCmd(cfg), checkCmd(cfg), dumpCmd())

	ctx := context.Background()
	ctx = ioctx.StdoutToContext(ctx, os.Stdout)
	ctx = ioctx.StderrToContext(ctx, os.Stderr)
	err := fang.Execute(ctx, rootCmd,
		fang.WithVersion("v0.1.0"),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, cfg.paint(strings.TrimRight(err.Error(), "\n")))
		}),
	)
	if cerr := cfg.close(ctx); cerr != nil {
		fmt.Fprintln(os.Stderr, "writing trace:", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}

// load reads feval.toml and lets explicitly set flags override it.
func (cfg *Config) load(cmd *cobra.Command) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	path, file, err := feval.FindConfig(cwd)
	if err != nil {
		return err
	}
	cfg.File = file
	cfg.FilePath = path

	flags := cmd.Flags()
	if !flags.Changed("max-depth") {
		cfg.MaxDepth = file.Eval.MaxDepth
	}
	if !flags.Changed("no-check") {
		cfg.NoCheck = file.Check.Skip
	}
	if !flags.Changed("explain") {
		cfg.Explain = file.Check.Explain
	}
	if !flags.Changed("color") {
		cfg.Color = file.REPL.Color
	}

	if cfg.TracePath != "" {
		f, err := os.Create(cfg.TracePath)
		if err != nil {
			return errors.Wrap(err, "creating trace file")
		}
		cfg.traceFile = f
		cfg.telemetry = newTelemetry(f)
		cfg.telemetry.Install()
	}

	logger := setupLogging(os.Stderr, cfg.Debug, cfg.telemetry)
	cmd.SetContext(ioctx.LoggerToContext(cmd.Context(), logger))

	for _, warning := range file.Warnings {
		logger.Warn("ignoring config", "path", path, "problem", warning)
	}
	if path != "" {
		logger.Debug("loaded config", "path", path)
	}
	return nil
}

// close flushes and closes the trace file, if one was opened.
func (cfg *Config) close(ctx context.Context) error {
	if cfg.telemetry == nil {
		return nil
	}
	err := cfg.telemetry.Shutdown(ctx)
	if cerr := cfg.traceFile.Close(); err == nil {
		err = cerr
	}
	return err
}

func setupLogging(w io.Writer, debug bool, tel *telemetry) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler = slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	if tel != nil {
		handler = tel.Handler(handler)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// colorEnabled reports whether output to f should keep its styling.
func (cfg *Config) colorEnabled(f *os.File) bool {
	switch cfg.Color {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// paint passes styled text through unless stderr should be plain.
func (cfg *Config) paint(s string) string {
	if cfg.colorEnabled(os.Stderr) {
		return s
	}
	return ansi.Strip(s)
}

func runFile(ctx context.Context, cfg *Config, path string) error {
	outcome, err := feval.RunFile(ctx, path, cfg.Options())
	if err != nil {
		return cfg.explain(ctx, err)
	}
	_, err = fmt.Fprintln(ioctx.StdoutFromContext(ctx), outcome)
	return err
}

// explain prints the equations behind a type error when asked to.
func (cfg *Config) explain(ctx context.Context, err error) error {
	var typeErr *feval.TypeError
	if cfg.Explain && errors.As(err, &typeErr) {
		stderr := ioctx.StderrFromContext(ctx)
		fmt.Fprintln(stderr, "closed equations:")
		fmt.Fprint(stderr, typeErr.Explain())
	}
	return err
}

func evalCmd(cfg *Config) *cobra.Command {
	var expr string

	cmd := &cobra.Command{
		Use:   "eval -e EXPR",
		Short: "Type check and evaluate an inline expression",
		Example: `  feval eval -e '(fn x -> x + 5) 10'
  feval eval -e 'let f x = x * 2 in f 21'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			outcome, err := feval.Run(ctx, "<eval>", expr, cfg.Options())
			if err != nil {
				return cfg.explain(ctx, err)
			}
			_, err = fmt.Fprintln(ioctx.StdoutFromContext(ctx), outcome)
			return err
		},
	}

	cmd.Flags().StringVarP(&expr, "expr", "e", "", "Expression to evaluate")
	_ = cmd.MarkFlagRequired("expr")

	return cmd
}

func checkCmd(cfg *Config) *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "check [flags] file...",
		Short: "Type check files without running them",
		Example: `  # Print the principal type of each file
  feval check sort.fv examples/*.fv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkFiles(cmd.Context(), cfg, args, jobs)
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.GOMAXPROCS(0), "Number of files to check at once")

	return cmd
}

func checkFiles(ctx context.Context, cfg *Config, paths []string, jobs int) error {
	types := make([]hm.Type, len(paths))
	errs := make([]error, len(paths))

	var eg errgroup.Group
	eg.SetLimit(max(1, jobs))
	for i, path := range paths {
		eg.Go(func() error {
			types[i], errs[i] = feval.CheckFile(ctx, path)
			return nil
		})
	}
	_ = eg.Wait()

	stdout := ioctx.StdoutFromContext(ctx)
	stderr := ioctx.StderrFromContext(ctx)
	failed := 0
	for i, path := range paths {
		if errs[i] != nil {
			failed++
			fmt.Fprintln(stderr, cfg.paint(strings.TrimRight(errs[i].Error(), "\n")))
			_ = cfg.explain(ctx, errs[i])
			continue
		}
		fmt.Fprintf(stdout, "%s: %s\n", path, hm.Display(types[i]))
	}
	if failed > 0 {
		return errors.Errorf("%d of %d files failed to type check", failed, len(paths))
	}
	return nil
}

func dumpCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dump [flags] file",
		Short: "Print the translated expression tree of a file",
		Example: `  feval dump --format yaml sort.fv`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrapf(err, "reading %s", args[0])
			}
			expr, err := feval.Load(args[0], string(src))
			if err != nil {
				return err
			}
			out, err := dump(expr, format)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(ioctx.StdoutFromContext(cmd.Context()), out)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "source", "Output format: source, pretty or yaml")

	return cmd
}

func dump(expr *ast.Expr, format string) (string, error) {
	switch format {
	case "source":
		return expr.String() + "\n", nil
	case "pretty":
		return feval.DumpPretty(expr) + "\n", nil
	case "yaml":
		out, err := feval.DumpYAML(expr)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	return "", errors.Errorf("unknown format %q (want source, pretty or yaml)", format)
}
