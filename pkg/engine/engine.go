// Package engine compiles pcgrid graph source into a node graph.
// It wraps zygomys in a sandboxed environment whose builtins construct
// nodes; the value of the last expression is the root of the graph.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/pcgrid/pkg/function"
	"github.com/chazu/pcgrid/pkg/nodes"
	zygo "github.com/glycerine/zygomys/zygo"
)

// DefaultMaxSize bounds the :size argument of every grid builtin.
const DefaultMaxSize = 1024

// EvalError represents a non-fatal error encountered during compilation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter for pcgrid compilation.
// It is safe for concurrent use; each call to Compile creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	timeout time.Duration
	maxSize int
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the hard limit for a single compilation.
// Non-positive values keep EvalTimeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithMaxSize sets the largest grid size a program may request.
// Non-positive values keep DefaultMaxSize.
func WithMaxSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxSize = n
		}
	}
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: EvalTimeout, maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxSize returns the largest grid size the engine accepts.
func (e *Engine) MaxSize() int { return e.maxSize }

// Compile turns source into a node graph and returns its root.
// Each call creates a fresh zygomys sandbox for deterministic compilation.
// Nodes are constructed but never evaluated here.
//
// Return semantics:
//   - On success: returns root + nil errors + nil error
//   - Empty program: returns nil root + nil errors + nil error
//   - On parse/eval failure: returns nil root + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Compile(source string) (function.Function, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan compileResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- compileResult{err: fmt.Errorf("panic during compilation: %v", r)}
			}
		}()

		root, evalErrs, err := e.compile(source)
		ch <- compileResult{root: root, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, e.timeout, &e.mu, &e.generation)
}

// compile performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) compile(source string) (function.Function, []EvalError, error) {
	// Empty source is a valid program that binds no node.
	if strings.TrimSpace(source) == "" {
		return nil, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	b := &builder{maxSize: e.maxSize}
	b.registerBuiltins(env)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	last, err := env.Run()
	if err != nil {
		evalErrs := parseZygomysError(err)
		if b.err != nil {
			// zygomys reformats errors raised by builtins; keep ours.
			evalErrs[0].Message = b.err.Error()
		}
		return nil, evalErrs, nil
	}

	root, err := toRoot(last)
	if err != nil {
		return nil, []EvalError{{Message: err.Error()}}, nil
	}
	return root, nil, nil
}

// toRoot converts the program's final value into the graph root. A bare
// integer becomes a constant node; nothing at all binds no node.
func toRoot(s zygo.Sexp) (function.Function, error) {
	switch v := s.(type) {
	case *sexpNode:
		return v.fn, nil
	case *zygo.SexpInt:
		return nodes.NewConstant(int(v.Val)), nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("program result must be a node or an integer, got %s", s.SexpString(nil))
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
