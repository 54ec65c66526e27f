package feval

import (
	"context"
	"os"

	"github.com/kr/pretty"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vito/feval/pkg/ast"
	"github.com/vito/feval/pkg/hm"
	"github.com/vito/feval/pkg/ioctx"
	"github.com/vito/feval/pkg/syntax"
)

// Options controls a run.
type Options struct {
	// SkipCheck evaluates without type checking first.
	SkipCheck bool
	// MaxDepth is passed to the Evaluator.
	MaxDepth int
	// Debug dumps the translated tree to stderr.
	Debug bool
}

// OptionsFromConfig returns the options a config file asks for.
func OptionsFromConfig(config *Config) Options {
	return Options{
		SkipCheck: config.Check.Skip,
		MaxDepth:  config.Eval.MaxDepth,
	}
}

// Outcome is the result of a successful run.
type Outcome struct {
	Expr  *ast.Expr
	Type  hm.Type // nil when checking was skipped
	Value Value
}

func (o *Outcome) String() string {
	if o.Type == nil {
		return o.Value.String()
	}
	return o.Value.String() + " : " + hm.Display(o.Type)
}

// InstrumentationName names the tracer runs report their spans under.
const InstrumentationName = "github.com/vito/feval"

func tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// endSpan ends span with err recorded as its status.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// typecheck is TypecheckContext inside a "check" span.
func typecheck(ctx context.Context, expr *ast.Expr) (t hm.Type, rerr error) {
	ctx, span := tracer().Start(ctx, "check")
	defer func() { endSpan(span, rerr) }()

	t, err := TypecheckContext(ctx, expr)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("feval.type", hm.Display(t)))
	return t, nil
}

// evaluate runs the Evaluator inside an "eval" span.
func evaluate(ctx context.Context, expr *ast.Expr, maxDepth int) (v Value, rerr error) {
	ctx, span := tracer().Start(ctx, "eval", trace.WithAttributes(
		attribute.Int("feval.max_depth", maxDepth),
		attribute.Int("feval.size", Size(expr)),
	))
	defer func() { endSpan(span, rerr) }()

	return Evaluator{MaxDepth: maxDepth}.Eval(ctx, expr)
}

// Load parses and translates src.
func Load(filename, src string) (*ast.Expr, error) {
	source, err := syntax.Parse(filename, src)
	if err != nil {
		return nil, WithSource(err, filename, src)
	}
	return Translate(source), nil
}

// Check loads src and computes its principal type.
func Check(ctx context.Context, filename, src string) (*ast.Expr, hm.Type, error) {
	expr, err := Load(filename, src)
	if err != nil {
		return nil, nil, err
	}
	t, err := typecheck(ctx, expr)
	if err != nil {
		return expr, nil, WithSource(err, filename, src)
	}
	return expr, t, nil
}

// Run type checks src and, if that succeeds, evaluates it.
func Run(ctx context.Context, filename, src string, opts Options) (_ *Outcome, rerr error) {
	ctx, span := tracer().Start(ctx, "run", trace.WithAttributes(
		attribute.String("feval.file", filename),
		attribute.Bool("feval.skip_check", opts.SkipCheck),
	))
	defer func() { endSpan(span, rerr) }()

	expr, err := Load(filename, src)
	if err != nil {
		return nil, err
	}

	if opts.Debug {
		_, _ = pretty.Fprintf(ioctx.StderrFromContext(ctx), "%# v\n", expr.Unwrap())
	}

	outcome := &Outcome{Expr: expr}
	if !opts.SkipCheck {
		outcome.Type, err = typecheck(ctx, expr)
		if err != nil {
			return nil, WithSource(err, filename, src)
		}
	}

	outcome.Value, err = evaluate(ctx, expr, opts.MaxDepth)
	if err != nil {
		return nil, WithSource(err, filename, src)
	}
	return outcome, nil
}

// RunFile reads and runs the file at path.
func RunFile(ctx context.Context, path string, opts Options) (*Outcome, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return Run(ctx, path, string(src), opts)
}

// CheckFile reads and type checks the file at path.
func CheckFile(ctx context.Context, path string) (hm.Type, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	_, t, err := Check(ctx, path, string(src))
	return t, err
}
