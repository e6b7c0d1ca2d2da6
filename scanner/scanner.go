package scanner

// EOF is returned by Stream.Next and Stream.Peek past the end of input.
const EOF rune = -1

// Stream is a random access stream of CSS code points.
//
// The input is preprocessed while it is read: CR, CRLF and FF become a
// single LF, NUL and surrogates become U+FFFD. (§3.3)
type Stream struct {
	src  []rune
	pos  int
	last int // number of source units consumed by the last Next
}

// New returns a stream over src.
func New(src string) *Stream {
	return &Stream{src: []rune(src)}
}

// NewRunes returns a stream over an existing code point slice.
func NewRunes(src []rune) *Stream {
	return &Stream{src: src}
}

// Next consumes and returns the next preprocessed code point.
func (s *Stream) Next() rune {
	ch, n := s.at(s.pos)
	s.pos += n
	s.last = n
	return ch
}

// Rewind undoes the last call to Next. Calling it twice in a row is a no-op
// for the second call.
func (s *Stream) Rewind() {
	s.pos -= s.last
	s.last = 0
}

// Peek returns the code point n positions ahead without consuming anything.
// Peek(0) is the code point the next call to Next would return.
func (s *Stream) Peek(n int) rune {
	pos := s.pos
	for {
		ch, w := s.at(pos)
		if n == 0 || ch == EOF {
			return ch
		}
		pos += w
		n--
	}
}

// Pos returns the offset of the next code point in the source.
func (s *Stream) Pos() int {
	return s.pos
}

// at decodes the code point at i and reports how many source units it spans.
func (s *Stream) at(i int) (rune, int) {
	if i >= len(s.src) {
		return EOF, 0
	}
	switch ch := s.src[i]; {
	case ch == '\r':
		if i+1 < len(s.src) && s.src[i+1] == '\n' {
			return '\n', 2
		}
		return '\n', 1
	case ch == '\f':
		return '\n', 1
	case ch == 0, ch >= 0xD800 && ch <= 0xDFFF:
		return '\uFFFD', 1
	default:
		return ch, 1
	}
}

// IsWhitespace returns true if the rune is a space, tab, or newline.
func IsWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n'
}

// IsLetter returns true if the rune is an ASCII letter.
func IsLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// IsDigit returns true if the rune is a digit.
func IsDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// IsHexDigit returns true if the rune is a hex digit.
func IsHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// IsNonASCII returns true if the rune is greater than U+0080.
func IsNonASCII(ch rune) bool {
	return ch >= '\u0080'
}

// IsNameStart returns true if the rune can start a name.
func IsNameStart(ch rune) bool {
	return IsLetter(ch) || IsNonASCII(ch) || ch == '_'
}

// IsName returns true if the character is a name code point.
func IsName(ch rune) bool {
	return IsNameStart(ch) || IsDigit(ch) || ch == '-'
}

// IsNonPrintable returns true if the character is non-printable.
func IsNonPrintable(ch rune) bool {
	return (ch >= '\u0000' && ch <= '\u0008') || ch == '\u000B' || (ch >= '\u000E' && ch <= '\u001F') || ch == '\u007F'
}

// IsValidEscape checks if the two code points start a valid escape.
func IsValidEscape(ch0, ch1 rune) bool {
	return ch0 == '\\' && ch1 != '\n'
}

// WouldStartIdent checks if the three code points would start an identifier.
func WouldStartIdent(ch0, ch1, ch2 rune) bool {
	switch {
	case ch0 == '-':
		return IsNameStart(ch1) || ch1 == '-' || IsValidEscape(ch1, ch2)
	case IsNameStart(ch0):
		return true
	case ch0 == '\\':
		return IsValidEscape(ch0, ch1)
	}
	return false
}

// WouldStartNumber checks if the three code points would start a number.
func WouldStartNumber(ch0, ch1, ch2 rune) bool {
	switch {
	case ch0 == '+' || ch0 == '-':
		return IsDigit(ch1) || (ch1 == '.' && IsDigit(ch2))
	case ch0 == '.':
		return IsDigit(ch1)
	}
	return IsDigit(ch0)
}
