package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/chazu/pcgrid/pkg/cache"
	"github.com/chazu/pcgrid/pkg/config"
	"github.com/chazu/pcgrid/pkg/engine"
	"github.com/chazu/pcgrid/pkg/function"
	"github.com/chazu/pcgrid/pkg/graph"
	"github.com/chazu/pcgrid/pkg/matrix"
	"github.com/chazu/pcgrid/pkg/observability"
	"github.com/chazu/pcgrid/pkg/render"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
)

// UnboundMarker is the result stored for a program that binds no node.
const UnboundMarker = "ERROR!!"

// App owns the interactive preview loop: compile, consult the result cache,
// evaluate on a miss and render the result.
type App struct {
	engine  *engine.Engine
	cache   *cache.Cache
	keyMode string
	logger  hclog.Logger
}

// EvalErrorData is a JSON-serializable compile or evaluation error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// Result is the outcome of one preview request.
type Result struct {
	Signature string `json:"signature"`
	CacheHit  bool   `json:"cacheHit"`

	// Text is set for non-grid results: the unbound marker or a constant.
	Text string `json:"text,omitempty"`

	Size int    `json:"size,omitempty"`
	Min  int    `json:"min,omitempty"`
	Max  int    `json:"max,omitempty"`
	PNG  []byte `json:"png,omitempty"`

	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`

	// Value is the raw evaluated output.
	Value any `json:"-"`

	// Root is the compiled graph, nil when compilation failed or the
	// program binds no node.
	Root function.Function `json:"-"`
}

// Matrix returns the grid result. A result of any other type yields a
// *function.TypeError.
func (r Result) Matrix() (*matrix.Matrix, error) {
	return function.AsMatrix(r.Value)
}

// NewApp creates an App from cfg. A nil cfg uses config.Default and a nil
// logger discards output.
func NewApp(cfg *config.Config, logger hclog.Logger) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	keyMode := cfg.Cache.Key
	if keyMode != config.KeyStructural {
		keyMode = config.KeyText
	}
	return &App{
		engine: engine.NewEngine(
			engine.WithTimeout(cfg.Engine.Timeout),
			engine.WithMaxSize(cfg.Engine.MaxSize),
		),
		cache:   cache.New(cfg.Cache.Capacity),
		keyMode: keyMode,
		logger:  logger.Named("app"),
	}
}

// Cache exposes the result cache for inspection.
func (a *App) Cache() *cache.Cache { return a.cache }

// Preview compiles source and returns its evaluated result, answering from
// the cache when the signature was seen before. Compile, validation and
// evaluation failures are reported in Result.Errors and never cached.
func (a *App) Preview(ctx context.Context, source string) Result {
	result := Result{
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	ctx, span := observability.StartPreviewSpan(ctx, a.keyMode)
	defer span.End()

	root, ok := a.compile(ctx, source, &result)
	if !ok {
		return result
	}

	sig := a.signature(source, root)
	result.Signature = sig
	result.Root = root

	if v, hit := a.cache.Lookup(sig); hit {
		a.logger.Debug("cache hit", "signature", short(sig))
		result.CacheHit = true
		a.fill(&result, v)
		observability.RecordPreviewResult(span, sig, true, result.Size)
		return result
	}

	if root == nil {
		a.cache.Store(sig, UnboundMarker)
		a.fill(&result, UnboundMarker)
		observability.RecordPreviewResult(span, sig, false, 0)
		return result
	}

	if err := checkGraph(root, &result); err != nil {
		observability.RecordError(span, err)
		return result
	}

	start := time.Now()
	v, err := evaluate(root)
	a.logger.Debug("evaluation finished", "kind", root.Kind(), "took", time.Since(start))
	if err != nil {
		a.logger.Warn("evaluation failed", "kind", root.Kind(), "error", err)
		observability.RecordError(span, err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	a.cache.Store(sig, v)
	a.fill(&result, v)
	observability.RecordPreviewResult(span, sig, false, result.Size)
	return result
}

// Recalculate drops every cached result for source so the next Preview
// evaluates again. It returns the number of entries removed.
func (a *App) Recalculate(source string) int {
	sig := source
	if a.keyMode == config.KeyStructural {
		root, evalErrs, err := a.engine.Compile(source)
		if err != nil || len(evalErrs) > 0 {
			return 0
		}
		sig = graph.Signature(root)
	}
	n := a.cache.Invalidate(sig)
	a.logger.Debug("recalculate", "signature", short(sig), "removed", n)
	return n
}

func (a *App) compile(ctx context.Context, source string, result *Result) (function.Function, bool) {
	_, span := observability.StartCompileSpan(ctx, len(source))
	defer span.End()

	root, evalErrs, err := a.engine.Compile(source)
	if err != nil {
		a.logger.Error("compile failed", "error", err)
		observability.RecordError(span, err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return nil, false
	}
	observability.RecordCompileResult(span, root != nil, len(evalErrs))
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return nil, false
	}
	return root, true
}

// checkGraph records validation warnings on result and returns the
// aggregated graph.Check error, one Errors entry per blocking finding.
func checkGraph(root function.Function, result *Result) error {
	for _, ve := range graph.Validate(root) {
		if ve.Severity == graph.SeverityWarning {
			result.Warnings = append(result.Warnings, EvalErrorData{Message: ve.Error()})
		}
	}
	err := graph.Check(root)
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, e := range merr.Errors {
			result.Errors = append(result.Errors, EvalErrorData{Message: e.Error()})
		}
	} else {
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
	}
	return err
}

// evaluate runs root.Evaluate, turning a panic in a node into an error so a
// single bad graph cannot take the host down.
func evaluate(root function.Function) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("panic during evaluation of %s: %v", root.Kind(), r)
		}
	}()
	return root.Evaluate()
}

func (a *App) signature(source string, root function.Function) string {
	if a.keyMode == config.KeyStructural {
		return graph.Signature(root)
	}
	return source
}

func (a *App) fill(result *Result, v any) {
	result.Value = v
	typ, ok := function.TypeOf(v)
	if !ok {
		a.logger.Warn("unexpected result", "type", fmt.Sprintf("%T", v))
		return
	}
	switch typ {
	case function.TypeMatrix:
		m, err := function.AsMatrix(v)
		if err != nil {
			a.logger.Warn("unexpected result", "error", err)
			return
		}
		result.Size, result.Min, result.Max = m.Size(), m.Min(), m.Max()
		png, err := render.PNG(m)
		if err != nil {
			a.logger.Warn("render failed", "error", err)
			return
		}
		result.PNG = png
	case function.TypeText:
		result.Text, _ = function.AsText(v)
	case function.TypeInt:
		n, _ := function.AsInt(v)
		result.Text = strconv.Itoa(n)
	}
}

// short trims a signature for log lines.
func short(sig string) string {
	if len(sig) > 48 {
		return sig[:48] + "..."
	}
	return sig
}
