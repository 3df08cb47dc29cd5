package engine

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites pcgrid source into something zygomys accepts:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords never
//     need to be registered as globals.
//  2. kebab-case identifiers become snake_case (random-matrix ->
//     random_matrix). zygomys reads a bare hyphen as subtraction.
//  3. ; line comments become // comments.
//
// String literals (double-quoted and backtick) pass through untouched, and
// so does the := operator.
func preprocessSource(source string) string {
	s := scanner{src: source, out: make([]byte, 0, len(source)+len(source)/4)}
	for !s.done() {
		c := s.peek(0)
		switch {
		case c == '"' || c == '`':
			s.quoted(c)
		case c == ';':
			s.comment()
		case c == ':' && s.peek(1) == '=':
			s.copy(2)
		case c == ':' && isLetter(s.peek(1)):
			s.keyword()
		case c == '-' && s.pos > 0 && isIdentChar(s.src[s.pos-1]) && isLetter(s.peek(1)):
			s.emit('_')
			s.pos++
		default:
			s.copy(1)
		}
	}
	return string(s.out)
}

type scanner struct {
	src string
	pos int
	out []byte
}

func (s *scanner) done() bool { return s.pos >= len(s.src) }

// peek returns the byte n positions ahead, or 0 past the end.
func (s *scanner) peek(n int) byte {
	if s.pos+n < len(s.src) {
		return s.src[s.pos+n]
	}
	return 0
}

func (s *scanner) emit(b ...byte) { s.out = append(s.out, b...) }

func (s *scanner) copy(n int) {
	end := min(s.pos+n, len(s.src))
	s.out = append(s.out, s.src[s.pos:end]...)
	s.pos = end
}

// quoted copies a string literal, honouring backslash escapes inside
// double quotes.
func (s *scanner) quoted(q byte) {
	s.copy(1)
	for !s.done() && s.peek(0) != q {
		if q == '"' && s.peek(0) == '\\' {
			s.copy(2)
			continue
		}
		s.copy(1)
	}
	s.copy(1)
}

// comment turns a run of ; into // and copies the rest of the line.
func (s *scanner) comment() {
	s.emit('/', '/')
	for s.peek(0) == ';' {
		s.pos++
	}
	for !s.done() && s.peek(0) != '\n' {
		s.copy(1)
	}
}

func (s *scanner) keyword() {
	start := s.pos + 1
	end := start
	for end < len(s.src) && isKWChar(s.src[end]) {
		end++
	}
	s.emit('"')
	s.out = append(s.out, kwPrefix...)
	s.out = append(s.out, s.src[start:end]...)
	s.emit('"')
	s.pos = end
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
