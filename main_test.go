package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestHashCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"first cell", []string{"hash", "--seed", "42", "--low", "0", "--high", "10"}, "1\n"},
		{"fourth cell", []string{"hash", "--seed", "42", "--x", "3", "--low", "0", "--high", "10"}, "9\n"},
		{"second row", []string{"hash", "--seed", "43", "--y", "1", "--low", "0", "--high", "10"}, "6\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestHashCommandRaw(t *testing.T) {
	out, err := execute(t, "hash", "--seed", "1", "--x", "5", "--y=-3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(strings.TrimSpace(out)) != 16 {
		t.Errorf("expected 16 hex digits, got %q", out)
	}
	again, _ := execute(t, "hash", "--seed", "1", "--x", "5", "--y=-3")
	if again != out {
		t.Errorf("hash is not deterministic: %q vs %q", out, again)
	}
}

func TestHashCommandEmptyRange(t *testing.T) {
	if _, err := execute(t, "hash", "--low", "5", "--high", "5"); err == nil {
		t.Error("expected an error for an empty range")
	}
}

func TestKindsCommand(t *testing.T) {
	out, err := execute(t, "kinds")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, kind := range []string{"random-matrix", "shape-mask", "matrix-add", "threshold", "invert", "constant"} {
		if !strings.Contains(out, kind) {
			t.Errorf("kinds output missing %q:\n%s", kind, out)
		}
	}
	if !strings.Contains(out, "seed") {
		t.Error("kinds output should list parameters")
	}
}

func TestEvalCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "golden.pcg")
	if err := os.WriteFile(src, []byte(goldenSource), 0o644); err != nil {
		t.Fatal(err)
	}
	pngPath := filepath.Join(dir, "out.png")
	objPath := filepath.Join(dir, "out.obj")

	out, err := execute(t, "eval", src, "--png", pngPath, "--obj", objPath, "--describe")
	if err != nil {
		t.Fatalf("eval failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "4x4 -> [0..9]") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "random-matrix") {
		t.Errorf("--describe should print the graph:\n%s", out)
	}

	png, err := os.ReadFile(pngPath)
	if err != nil {
		t.Fatalf("png not written: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("png file has no PNG signature")
	}

	obj, err := os.ReadFile(objPath)
	if err != nil {
		t.Fatalf("obj not written: %v", err)
	}
	if got := strings.Count(string(obj), "\nv "); got != 16 {
		t.Errorf("expected 16 vertices in OBJ, counted %d", got)
	}
	if got := strings.Count(string(obj), "\nf "); got != 18 {
		t.Errorf("expected 18 faces in OBJ, counted %d", got)
	}
}

func TestEvalCommandEmptyProgram(t *testing.T) {
	src := filepath.Join(t.TempDir(), "empty.pcg")
	if err := os.WriteFile(src, []byte("; nothing here\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "eval", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, UnboundMarker) {
		t.Errorf("expected %q, got %q", UnboundMarker, out)
	}
}

func TestEvalCommandErrors(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.pcg")
	if err := os.WriteFile(src, []byte("(random-matrix :size 4 :min 9 :max 0)"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "eval", src); err == nil {
		t.Error("expected an error for an invalid program")
	}
	if _, err := execute(t, "eval", filepath.Join(dir, "missing.pcg")); err == nil {
		t.Error("expected an error for a missing file")
	}
	if _, err := execute(t, "eval"); err == nil {
		t.Error("expected an error without a file argument")
	}
}

func TestEvalCommandGridOutputNeedsGrid(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "constant.pcg")
	if err := os.WriteFile(src, []byte("(+ 2 3)"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "eval", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "5" {
		t.Errorf("output = %q, want 5", out)
	}

	pngPath := filepath.Join(dir, "out.png")
	_, err = execute(t, "eval", src, "--png", pngPath)
	if err == nil || !strings.Contains(err.Error(), "not a grid") {
		t.Fatalf("expected a type error for --png on a constant, got %v", err)
	}
	if _, statErr := os.Stat(pngPath); !os.IsNotExist(statErr) {
		t.Error("no png should be written for a non-grid result")
	}
}

func TestEvalCommandHistogram(t *testing.T) {
	src := filepath.Join(t.TempDir(), "golden.pcg")
	if err := os.WriteFile(src, []byte(goldenSource), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "eval", src, "--histogram", "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Seed 42 over [0..9]: ten cells in 0..4, six in 5..9.
	for _, want := range []string{"bucket 0: 10", "bucket 1: 6"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEvalCommandDescribeShowsFailingGraph(t *testing.T) {
	src := filepath.Join(t.TempDir(), "wide.pcg")
	if err := os.WriteFile(src, []byte("(random-matrix :size 2 :max 9223372036854775807)"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "eval", src, "--describe")
	if err == nil {
		t.Fatal("expected an evaluation error")
	}
	if !strings.Contains(out, "random-matrix 2x2") {
		t.Errorf("--describe should print the compiled graph even when evaluation fails:\n%s", out)
	}
}
