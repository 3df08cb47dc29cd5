package graph

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/chazu/pcgrid/pkg/function"
	"github.com/chazu/pcgrid/pkg/matrix"
)

// Canonical renders the graph under root as a canonical string: node kind,
// declared output, then every slot in declaration order with its effective
// value (bound constant, default, or the canonical form of the upstream
// node). Unbound required slots render as "?". Two graphs with the same
// canonical form evaluate to the same result.
//
//	random-matrix<4x4 -> [0..9]>(seed=42,min=0,max=9)
func Canonical(root function.Function) string {
	if root == nil {
		return "nil"
	}
	var b strings.Builder
	canonical(&b, root, make(map[function.Function]bool))
	return b.String()
}

func canonical(b *strings.Builder, f function.Function, path map[function.Function]bool) {
	if path[f] {
		// Unreachable through Bind; guards hand-built Function values.
		b.WriteString("<cycle>")
		return
	}
	path[f] = true
	defer delete(path, f)

	b.WriteString(f.Kind())
	b.WriteByte('<')
	b.WriteString(f.Output().String())
	b.WriteString(">(")
	for i, p := range f.Params() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Name)
		b.WriteByte('=')

		bnd, bound := f.Binding(p.Name)
		switch {
		case bound && bnd.Upstream():
			canonical(b, bnd.Source, path)
		case bound:
			b.WriteString(literal(bnd.Value))
		case !p.Required():
			b.WriteString(literal(p.Default))
		default:
			b.WriteByte('?')
		}
	}
	b.WriteByte(')')
}

// literal renders a slot value. Matrices are reduced to a content digest so
// the canonical form stays short.
func literal(v any) string {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case string:
		return strconv.Quote(v)
	case *matrix.Matrix:
		return fmt.Sprintf("matrix#%016x", matrixDigest(v))
	default:
		return fmt.Sprintf("%T", v)
	}
}

func matrixDigest(m *matrix.Matrix) uint64 {
	d := xxhash.New()
	var buf [8]byte
	write := func(n int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(n)))
		_, _ = d.Write(buf[:])
	}
	write(m.Size())
	write(m.Min())
	write(m.Max())
	for _, v := range m.Values() {
		write(v)
	}
	return d.Sum64()
}

// Signature returns a fixed-width structural cache key for the graph under
// root: the xxHash64 of its canonical form, in hex. Formatting of whatever
// source text built the graph does not affect it.
func Signature(root function.Function) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(Canonical(root)))
}
