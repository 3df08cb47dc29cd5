package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/chazu/pcgrid/pkg/function"
	"github.com/chazu/pcgrid/pkg/nodes"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp type for passing nodes through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNode wraps a node so builtins can pass it to one another.
type sexpNode struct {
	fn function.Function
}

func (n *sexpNode) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(node %q)", n.fn.String())
}
func (n *sexpNode) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// only rejects keywords outside allowed and a positional count other than
// want.
func (a kwArgs) only(want int, allowed ...string) error {
	if len(a.positional) != want {
		return fmt.Errorf("expected %d positional argument(s), got %d", want, len(a.positional))
	}
	var unknown []string
	for k := range a.kw {
		found := false
		for _, ok := range allowed {
			if k == ok {
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, ":"+k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown keyword(s) %s", strings.Join(unknown, " "))
	}
	return nil
}

// intKW returns the int keyword argument name, or def when absent.
func (a kwArgs) intKW(name string, def int) (int, error) {
	v, ok := a.kw[name]
	if !ok {
		return def, nil
	}
	n, err := toInt(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toInt extracts an int from a SexpInt. Floats are rejected because grid
// cells and parameters are integers.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %s", s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_circle) and plain strings ("circle").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %s", s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toNode extracts a node from a sexpNode. A bare integer is accepted as a
// constant node.
func toNode(s zygo.Sexp) (function.Function, error) {
	switch v := s.(type) {
	case *sexpNode:
		return v.fn, nil
	case *zygo.SexpInt:
		return nodes.NewConstant(int(v.Val)), nil
	}
	return nil, fmt.Errorf("expected node, got %s", s.SexpString(nil))
}

// toGrid is toNode restricted to grid-producing nodes.
func toGrid(s zygo.Sexp) (function.Function, error) {
	fn, err := toNode(s)
	if err != nil {
		return nil, err
	}
	if fn.Output().Type != function.TypeMatrix {
		return nil, fmt.Errorf("expected grid node, got %s", fn.String())
	}
	return fn, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// shape holds the size and range keywords every leaf grid builtin accepts.
type shape struct {
	size, min, max int
}

func parseShape(a kwArgs, maxSize int) (shape, error) {
	var s shape
	var err error
	if s.size, err = a.intKW("size", nodes.DefaultSize); err != nil {
		return s, err
	}
	if s.min, err = a.intKW("min", nodes.DefaultMin); err != nil {
		return s, err
	}
	if s.max, err = a.intKW("max", nodes.DefaultMax); err != nil {
		return s, err
	}
	switch {
	case s.size <= 0:
		return s, fmt.Errorf("size must be positive, got %d", s.size)
	case s.size > maxSize:
		return s, fmt.Errorf("size %d exceeds the limit of %d", s.size, maxSize)
	case s.min > s.max:
		return s, fmt.Errorf("min %d is greater than max %d", s.min, s.max)
	}
	return s, nil
}

// builder carries per-compilation state shared by the builtins.
type builder struct {
	maxSize int
	err     error // first builtin failure, reported verbatim
}

// builtin adapts a node constructor to the zygomys calling convention and
// prefixes its errors with the user-facing builtin name.
func (b *builder) builtin(kind string, build func(a kwArgs) (function.Function, error)) zygo.ZlispUserFunction {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		fn, err := build(parseArgs(args))
		if err != nil {
			if !fromNode(err) {
				err = fmt.Errorf("%s: %w", kind, err)
			}
			if b.err == nil {
				b.err = err
			}
			return zygo.SexpNull, err
		}
		return &sexpNode{fn: fn}, nil
	}
}

// fromNode reports whether err came from a node and already names its kind.
func fromNode(err error) bool {
	return errors.Is(err, function.ErrConfiguration) ||
		errors.Is(err, function.ErrUnsupportedOutput) ||
		errors.Is(err, function.ErrCycle)
}

// builtinName maps a node kind to the identifier preprocessSource produces.
func builtinName(kind string) string {
	return strings.ReplaceAll(kind, "-", "_")
}

// registerBuiltins installs the grid builtins into a zygomys environment.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func (b *builder) registerBuiltins(env *zygo.Zlisp) {

	// -----------------------------------------------------------------------
	// (random-matrix :size 4 :seed 42 :min 0 :max 9)
	// -----------------------------------------------------------------------
	env.AddFunction(builtinName(nodes.KindRandomMatrix), b.builtin(nodes.KindRandomMatrix, func(a kwArgs) (function.Function, error) {
		if err := a.only(0, "size", "seed", "min", "max"); err != nil {
			return nil, err
		}
		s, err := parseShape(a, b.maxSize)
		if err != nil {
			return nil, err
		}
		seed, err := a.intKW("seed", 0)
		if err != nil {
			return nil, err
		}
		return nodes.NewRandomMatrix(s.size, seed, s.min, s.max), nil
	}))

	// -----------------------------------------------------------------------
	// (shape-mask :size 64 :shape :circle :radius 20 :falloff 6)
	// -----------------------------------------------------------------------
	env.AddFunction(builtinName(nodes.KindShapeMask), b.builtin(nodes.KindShapeMask, func(a kwArgs) (function.Function, error) {
		if err := a.only(0, "size", "min", "max", "shape", "radius", "falloff"); err != nil {
			return nil, err
		}
		s, err := parseShape(a, b.maxSize)
		if err != nil {
			return nil, err
		}
		m := nodes.NewShapeMask(s.size, s.min, s.max)

		if v, ok := a.kw["shape"]; ok {
			name, err := toKeywordString(v)
			if err != nil {
				return nil, fmt.Errorf("shape: %w", err)
			}
			if name != nodes.ShapeCircle && name != nodes.ShapeBox {
				return nil, fmt.Errorf("shape: unknown shape %q, expected :%s or :%s",
					name, nodes.ShapeCircle, nodes.ShapeBox)
			}
			if err := m.Set("shape", name); err != nil {
				return nil, err
			}
		}
		for _, slot := range []string{"radius", "falloff"} {
			if v, ok := a.kw[slot]; ok {
				n, err := toInt(v)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", slot, err)
				}
				if err := m.Set(slot, n); err != nil {
					return nil, err
				}
			}
		}
		return m, nil
	}))

	// -----------------------------------------------------------------------
	// (matrix-add a b)
	// -----------------------------------------------------------------------
	env.AddFunction(builtinName(nodes.KindAdd), b.builtin(nodes.KindAdd, func(a kwArgs) (function.Function, error) {
		if err := a.only(2); err != nil {
			return nil, err
		}
		x, err := toGrid(a.positional[0])
		if err != nil {
			return nil, err
		}
		y, err := toGrid(a.positional[1])
		if err != nil {
			return nil, err
		}
		return nodes.AddOf(x, y)
	}))

	// -----------------------------------------------------------------------
	// (threshold m :level 128)
	// -----------------------------------------------------------------------
	env.AddFunction(builtinName(nodes.KindThreshold), b.builtin(nodes.KindThreshold, func(a kwArgs) (function.Function, error) {
		if err := a.only(1, "level"); err != nil {
			return nil, err
		}
		src, err := toGrid(a.positional[0])
		if err != nil {
			return nil, err
		}
		t, err := nodes.ThresholdOf(src)
		if err != nil {
			return nil, err
		}
		if v, ok := a.kw["level"]; ok {
			// A node in :level is bound upstream, an integer is set directly.
			if lvl, ok := v.(*sexpNode); ok {
				if err := t.Bind("level", lvl.fn); err != nil {
					return nil, err
				}
			} else {
				n, err := toInt(v)
				if err != nil {
					return nil, fmt.Errorf("level: %w", err)
				}
				if err := t.Set("level", n); err != nil {
					return nil, err
				}
			}
		}
		return t, nil
	}))

	// -----------------------------------------------------------------------
	// (invert m)
	// -----------------------------------------------------------------------
	env.AddFunction(builtinName(nodes.KindInvert), b.builtin(nodes.KindInvert, func(a kwArgs) (function.Function, error) {
		if err := a.only(1); err != nil {
			return nil, err
		}
		src, err := toGrid(a.positional[0])
		if err != nil {
			return nil, err
		}
		return nodes.InvertOf(src)
	}))
}
