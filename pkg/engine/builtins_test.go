package engine

import (
	"strings"
	"testing"

	"github.com/chazu/pcgrid/pkg/function"
	"github.com/chazu/pcgrid/pkg/graph"
	"github.com/chazu/pcgrid/pkg/nodes"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(threshold m :level 128)`,
			expect: `(threshold m "__kw_level" 128)`,
		},
		{
			name:   "multiple keywords",
			input:  `(random-matrix :size 4 :seed 42)`,
			expect: `(random_matrix "__kw_size" 4 "__kw_seed" 42)`,
		},
		{
			name:   "keyword as value",
			input:  `(shape-mask :shape :box)`,
			expect: `(shape_mask "__kw_shape" "__kw_box")`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "escaped quote in string",
			input:  `"a \" :b" :c`,
			expect: `"a \" :b" "__kw_c"`,
		},
		{
			name:   "backtick string preserved",
			input:  "`raw-text :x`",
			expect: "`raw-text :x`",
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative literal preserved",
			input:  `:min -5`,
			expect: `"__kw_min" -5`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  "; simple comment\n(invert m)",
			expect: "// simple comment\n(invert m)",
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:part-a`,
			expect: `"__kw_part-a"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// compileOK compiles source and fails the test on any error.
func compileOK(t *testing.T, source string) function.Function {
	t.Helper()
	root, evalErrs, err := NewEngine().Compile(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if root == nil {
		t.Fatal("expected a root node")
	}
	return root
}

// compileErr compiles source and returns the joined eval error messages.
func compileErr(t *testing.T, eng *Engine, source string) string {
	t.Helper()
	root, evalErrs, err := eng.Compile(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if root != nil {
		t.Fatalf("expected nil root, got %s", root)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors")
	}
	var msgs []string
	for _, e := range evalErrs {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

func values(t *testing.T, f function.Function) []int {
	t.Helper()
	out, err := f.Evaluate()
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	m, err := function.AsMatrix(out)
	if err != nil {
		t.Fatalf("as matrix: %v", err)
	}
	return m.Values()
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// random-matrix
// ---------------------------------------------------------------------------

func TestRandomMatrix(t *testing.T) {
	root := compileOK(t, `(random-matrix :size 4 :seed 42 :min 0 :max 9)`)

	if root.Kind() != nodes.KindRandomMatrix {
		t.Fatalf("kind = %s, want %s", root.Kind(), nodes.KindRandomMatrix)
	}
	want := []int{1, 2, 0, 9, 4, 0, 0, 6, 5, 6, 0, 8, 1, 3, 8, 2}
	if got := values(t, root); !equalInts(got, want) {
		t.Errorf("values = %v, want %v", got, want)
	}
}

func TestRandomMatrixDefaults(t *testing.T) {
	root := compileOK(t, `(random-matrix)`)
	if got := root.String(); got != "random-matrix 256x256 -> [0..255]" {
		t.Errorf("String() = %q", got)
	}
}

func TestVariableReference(t *testing.T) {
	root := compileOK(t, `
(def s 43)
(random-matrix :size 4 :seed s :max 9)
`)
	want := []int{1, 0, 4, 1, 6, 0, 5, 4, 5, 1, 4, 4, 8, 3, 9, 0}
	if got := values(t, root); !equalInts(got, want) {
		t.Errorf("values = %v, want %v", got, want)
	}
}

func TestSameSourceSameSignature(t *testing.T) {
	a := compileOK(t, `(random-matrix :size 4 :seed 42 :max 9)`)
	b := compileOK(t, `(random-matrix :max 9   :seed 42
	                                   :size 4)`)
	if graph.Signature(a) != graph.Signature(b) {
		t.Error("reformatted source should produce the same structural signature")
	}
}

func TestSizeLimits(t *testing.T) {
	eng := NewEngine(WithMaxSize(64))

	if msg := compileErr(t, eng, `(random-matrix :size 65)`); !strings.Contains(msg, "exceeds the limit of 64") {
		t.Errorf("unexpected message: %s", msg)
	}
	if msg := compileErr(t, eng, `(shape-mask :size 0)`); !strings.Contains(msg, "size must be positive") {
		t.Errorf("unexpected message: %s", msg)
	}
	if msg := compileErr(t, eng, `(random-matrix :size 4 :min 9 :max 0)`); !strings.Contains(msg, "greater than max") {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestArgumentErrors(t *testing.T) {
	eng := NewEngine()
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"unknown keyword", `(random-matrix :colour 3)`, "unknown keyword(s) :colour"},
		{"float size", `(random-matrix :size 4.5)`, "expected integer"},
		{"positional to leaf", `(random-matrix 4)`, "positional"},
		{"invert arity", `(invert)`, "expected 1 positional"},
		{"add non-node", `(matrix-add "a" (random-matrix))`, "expected node"},
		{"threshold of int", `(threshold 4)`, "expected grid node"},
		{"bad shape", `(shape-mask :shape :hexagon)`, "unknown shape"},
		{"add size mismatch", `(matrix-add (random-matrix :size 4) (random-matrix :size 8))`, "input is 8x8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if msg := compileErr(t, eng, tt.source); !strings.Contains(msg, tt.want) {
				t.Errorf("message %q does not contain %q", msg, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Combinators
// ---------------------------------------------------------------------------

func TestCombinators(t *testing.T) {
	root := compileOK(t, `
;; a noisy disc
(def noise (random-matrix :size 16 :seed 7))
(def disc  (shape-mask :size 16 :shape :circle :radius 5 :falloff 3))
(threshold (matrix-add (invert noise) disc) :level 300)
`)
	if root.Kind() != nodes.KindThreshold {
		t.Fatalf("root kind = %s", root.Kind())
	}
	if err := graph.Check(root); err != nil {
		t.Fatalf("check: %v", err)
	}

	var kinds []string
	for _, n := range graph.Nodes(root) {
		kinds = append(kinds, n.Kind())
	}
	want := "threshold matrix-add invert random-matrix shape-mask"
	if got := strings.Join(kinds, " "); got != want {
		t.Errorf("walk order = %q, want %q", got, want)
	}

	out := root.Output()
	if out.Size != 16 || out.Min != 0 || out.Max != 510 {
		t.Errorf("output = %s", out)
	}
	for _, v := range values(t, root) {
		if v != 0 && v != 510 {
			t.Fatalf("threshold produced %d", v)
		}
	}
}

func TestThresholdLevelFromNode(t *testing.T) {
	root := compileOK(t, `(threshold (random-matrix :size 4 :max 9) :level (+ 2 3))`)
	b, ok := root.Binding("level")
	if !ok || b.Value != 5 {
		t.Errorf("level binding = %+v", b)
	}
}

func TestSharedNode(t *testing.T) {
	root := compileOK(t, `
(def m (random-matrix :size 4 :seed 42 :max 9))
(matrix-add m m)
`)
	want := []int{2, 4, 0, 18, 8, 0, 0, 12, 10, 12, 0, 16, 2, 6, 16, 4}
	if got := values(t, root); !equalInts(got, want) {
		t.Errorf("values = %v, want %v", got, want)
	}
}
