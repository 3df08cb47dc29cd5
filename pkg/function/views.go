package function

import "github.com/chazu/pcgrid/pkg/matrix"

// AsMatrix returns v as a Matrix, or a *TypeError if it is anything else.
func AsMatrix(v any) (*matrix.Matrix, error) {
	m, ok := v.(*matrix.Matrix)
	if !ok || m == nil {
		return nil, &TypeError{Want: TypeMatrix, Got: describe(v)}
	}
	return m, nil
}

// AsInt returns v as an int, or a *TypeError if it is anything else.
func AsInt(v any) (int, error) {
	i, ok := v.(int)
	if !ok {
		return 0, &TypeError{Want: TypeInt, Got: describe(v)}
	}
	return i, nil
}

// AsText returns v as a string, or a *TypeError if it is anything else.
func AsText(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Want: TypeText, Got: describe(v)}
	}
	return s, nil
}
