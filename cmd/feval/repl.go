package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"github.com/vito/feval/pkg/feval"
	"github.com/vito/feval/pkg/hm"
	"github.com/vito/feval/pkg/ioctx"
	"github.com/vito/feval/pkg/syntax"
)

const (
	promptMain = "feval> "
	promptCont = "  ...> "
)

var (
	resultStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	typeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	welcomeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type replCommand struct {
	name string
	args string
	desc string
}

var replCommandDefs = []replCommand{
	{"help", "", "Show this help"},
	{"quit", "", "Leave the REPL"},
	{"type", "EXPR", "Show the type of an expression without evaluating it"},
	{"dump", "EXPR", "Show the translated tree of an expression"},
	{"debug", "", "Toggle debug output"},
}

type repl struct {
	cfg    *Config
	opts   feval.Options
	stdout io.Writer
	color  bool
	logger *slog.Logger
}

func runREPL(ctx context.Context, cfg *Config) error {
	r := &repl{
		cfg:    cfg,
		opts:   cfg.Options(),
		stdout: ioctx.StdoutFromContext(ctx),
		color:  cfg.colorEnabled(os.Stdout),
		logger: ioctx.LoggerFromContext(ctx),
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := cfg.File.HistoryPath()
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if err := os.MkdirAll(filepath.Dir(histPath), 0o755); err != nil {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	r.println(welcomeStyle.Render("Feval") + " " + dimStyle.Render("Type :help for commands, Ctrl+D to exit."))

	for {
		src, ok := r.read(ln)
		if !ok {
			r.println("")
			return nil
		}

		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		// :debug swaps the logger, so it is attached per entry.
		lineCtx := ioctx.LoggerToContext(ctx, r.logger)

		if strings.HasPrefix(trimmed, ":") {
			if quit := r.command(lineCtx, trimmed[1:]); quit {
				return nil
			}
			continue
		}

		outcome, err := feval.Run(lineCtx, "<repl>", src, r.opts)
		if err != nil {
			r.error(err)
			continue
		}
		r.printOutcome(outcome.Value.String(), outcome.Type)
	}
}

// read collects lines until they parse or fail to parse for a reason other
// than ending early.
func (r *repl) read(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, err := syntax.Parse("<repl>", src); syntax.IsIncomplete(err) {
			continue
		}
		return src, true
	}
}

// command runs a :command, reporting whether the REPL should exit.
func (r *repl) command(ctx context.Context, line string) bool {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "help":
		r.println("Available commands:")
		width := 0
		for _, cmd := range replCommandDefs {
			width = max(width, len(cmd.name)+len(cmd.args)+1)
		}
		for _, cmd := range replCommandDefs {
			usage := strings.TrimSpace(cmd.name + " " + cmd.args)
			r.println(dimStyle.Render(fmt.Sprintf("  :%-*s  %s", width, usage, cmd.desc)))
		}
		r.println("")
		r.println(dimStyle.Render("Type expressions to check and evaluate them."))

	case "quit", "exit", "q":
		return true

	case "type", "t":
		if arg == "" {
			r.error(errors.New("usage: :type EXPR"))
			break
		}
		_, t, err := feval.Check(ctx, "<repl>", arg)
		if err != nil {
			r.error(err)
			break
		}
		r.println(typeStyle.Render(hm.Display(t)))

	case "dump":
		if arg == "" {
			r.error(errors.New("usage: :dump EXPR"))
			break
		}
		expr, err := feval.Load("<repl>", arg)
		if err != nil {
			r.error(err)
			break
		}
		out, err := feval.DumpYAML(expr)
		if err != nil {
			r.error(err)
			break
		}
		r.println(dimStyle.Render(expr.String()))
		r.println(strings.TrimRight(string(out), "\n"))

	case "debug":
		r.opts.Debug = !r.opts.Debug
		r.logger = setupLogging(os.Stderr, r.opts.Debug, r.cfg.telemetry)
		status := "disabled"
		if r.opts.Debug {
			status = "enabled"
		}
		r.println(resultStyle.Render(fmt.Sprintf("Debug mode %s.", status)))

	default:
		r.error(errors.Errorf("unknown command :%s (try :help)", name))
	}
	return false
}

func (r *repl) printOutcome(value string, t hm.Type) {
	if t == nil {
		r.println(resultStyle.Render(value))
		return
	}
	r.println(resultStyle.Render(value) + dimStyle.Render(" : ") + typeStyle.Render(hm.Display(t)))
}

func (r *repl) error(err error) {
	r.println(errorStyle.Render(strings.TrimRight(err.Error(), "\n")))

	var typeErr *feval.TypeError
	if r.cfg.Explain && errors.As(err, &typeErr) {
		r.println(dimStyle.Render(strings.TrimRight(typeErr.Explain(), "\n")))
	}
}

func (r *repl) println(s string) {
	if !r.color {
		s = ansi.Strip(s)
	}
	_, _ = fmt.Fprintln(r.stdout, s)
}
