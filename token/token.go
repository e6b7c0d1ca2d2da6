package token

import (
	"strconv"

	"github.com/benbjohnson/csstransform/scanner"
)

// Kind identifies the lexical type of a token.
type Kind int

const (
	Whitespace Kind = iota
	Delim
	Ident
	AtKeyword
	Hash
	String
	URL
	Function
	Number
	Dimension
	CDO
	CDC
)

var kinds = [...]string{
	Whitespace: "WHITESPACE",
	Delim:      "DELIM",
	Ident:      "IDENT",
	AtKeyword:  "ATKEYWORD",
	Hash:       "HASH",
	String:     "STRING",
	URL:        "URL",
	Function:   "FUNCTION",
	Number:     "NUMBER",
	Dimension:  "DIMENSION",
	CDO:        "CDO",
	CDC:        "CDC",
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	if k >= 0 && k < Kind(len(kinds)) {
		return kinds[k]
	}
	return ""
}

// Token represents a lexical token while it is being scanned and rewritten.
//
// Text holds the decoded value: escapes are resolved and the delimiting
// characters ('#', '@', quotes, "url(", "(") are not part of it.
type Token struct {
	Kind Kind
	Text []rune

	// UnitAt separates the number from the unit of a dimension.
	UnitAt int

	// Pos is the output offset of the first character of the token.
	Pos int
}

// New returns a token of the given kind starting at output offset pos.
func New(kind Kind, pos int) *Token {
	return &Token{Kind: kind, Pos: pos}
}

// Reset prepares a recycled token for reuse.
func (t *Token) Reset(kind Kind, pos int) {
	t.Kind = kind
	t.Text = t.Text[:0]
	t.UnitAt = 0
	t.Pos = pos
}

// Clone returns a deep copy of the token.
func (t *Token) Clone() *Token {
	c := *t
	c.Text = append([]rune(nil), t.Text...)
	return &c
}

// AddChar appends a code point to the text.
func (t *Token) AddChar(ch rune) {
	t.Text = append(t.Text, ch)
}

// SetText replaces the text.
func (t *Token) SetText(s string) {
	t.Text = append(t.Text[:0], []rune(s)...)
}

// MarkUnit records the start of the unit and turns the token into a dimension.
func (t *Token) MarkUnit() {
	t.UnitAt = len(t.Text)
	t.Kind = Dimension
}

// Unit returns the unit of a dimension.
func (t *Token) Unit() []rune {
	if t.Kind != Dimension || t.UnitAt > len(t.Text) {
		return nil
	}
	return t.Text[t.UnitAt:]
}

// TrimTrailingWhitespace removes whitespace from the end of the text.
func (t *Token) TrimTrailingWhitespace() {
	n := len(t.Text)
	for n > 0 && scanner.IsWhitespace(t.Text[n-1]) {
		n--
	}
	t.Text = t.Text[:n]
}

// IsDelim returns true if the token is the delimiter ch.
func (t *Token) IsDelim(ch rune) bool {
	return t.Kind == Delim && len(t.Text) == 1 && t.Text[0] == ch
}

// IsSignificant returns false for tokens that carry no meaning for a
// statement, such as whitespace and the SGML comment markers.
func (t *Token) IsSignificant() bool {
	switch t.Kind {
	case Whitespace, CDO, CDC:
		return false
	}
	return true
}

// ASCIILower returns the text in lower case. It fails if the text contains
// anything but printable ASCII.
func (t *Token) ASCIILower() (string, bool) {
	return asciiLower(t.Text)
}

func asciiLower(text []rune) (string, bool) {
	b := make([]byte, len(text))
	for i, ch := range text {
		if ch < ' ' || ch > '~' {
			return "", false
		}
		if ch >= 'A' && ch <= 'Z' {
			ch += 'a' - 'A'
		}
		b[i] = byte(ch)
	}
	return string(b), true
}

// String returns the serialized form of the token.
func (t *Token) String() string {
	return string(t.Serialize(nil))
}

// Serialize appends the CSS text of the token to out.
// Text is escaped so that scanning the result yields the same token again.
func (t *Token) Serialize(out []rune) []rune {
	switch t.Kind {
	case Ident:
		return appendIdent(out, t.Text)
	case Function:
		return append(appendIdent(out, t.Text), '(')
	case AtKeyword:
		return appendIdent(append(out, '@'), t.Text)
	case Hash:
		out = append(out, '#')
		for _, ch := range t.Text {
			if scanner.IsName(ch) {
				out = append(out, ch)
			} else {
				out = appendEscaped(out, ch)
			}
		}
		return out
	case String:
		return appendString(out, t.Text)
	case URL:
		out = append(out, 'u', 'r', 'l', '(')
		if needsQuotes(t.Text) {
			out = appendString(out, t.Text)
		} else {
			out = append(out, t.Text...)
		}
		return append(out, ')')
	case Dimension:
		n := t.UnitAt
		if n > len(t.Text) {
			n = len(t.Text)
		}
		return appendIdent(append(out, t.Text[:n]...), t.Text[n:])
	case CDO:
		return append(out, '<', '!', '-', '-')
	case CDC:
		return append(out, '-', '-', '>')
	default:
		return append(out, t.Text...)
	}
}

// appendIdent writes an identifier, escaping anything that would not scan
// back as part of it.
func appendIdent(out, text []rune) []rune {
	i := 0
	if len(text) >= 2 && text[0] == '-' && text[1] == '-' {
		out, i = append(out, '-', '-'), 2
	} else if len(text) > 0 && text[0] == '-' {
		out, i = append(out, '-'), 1
	}
	for first := true; i < len(text); i, first = i+1, false {
		ch := text[i]
		if scanner.IsName(ch) && !(first && scanner.IsDigit(ch)) {
			out = append(out, ch)
		} else {
			out = appendEscaped(out, ch)
		}
	}
	return out
}

// appendString writes text as a quoted string, preferring a quote character
// that does not occur in it.
func appendString(out, text []rune) []rune {
	quote := '"'
	for _, ch := range text {
		if ch == '"' {
			quote = '\''
			break
		}
	}
	out = append(out, quote)
	for _, ch := range text {
		if ch == quote || ch == '\\' || ch == '\n' {
			out = appendEscaped(out, ch)
		} else {
			out = append(out, ch)
		}
	}
	return append(out, quote)
}

// appendEscaped writes ch as an escape. Whitespace and hex digits need the
// hex form terminated by a space, everything else is taken literally.
func appendEscaped(out []rune, ch rune) []rune {
	out = append(out, '\\')
	if scanner.IsWhitespace(ch) || scanner.IsHexDigit(ch) {
		out = append(out, []rune(strconv.FormatInt(int64(ch), 16))...)
		return append(out, ' ')
	}
	return append(out, ch)
}

// needsQuotes returns true if a URL cannot be written unquoted.
func needsQuotes(text []rune) bool {
	for _, ch := range text {
		switch {
		case scanner.IsWhitespace(ch), scanner.IsNonPrintable(ch):
			return true
		case ch == '"', ch == '\'', ch == '(', ch == ')', ch == '\\':
			return true
		}
	}
	return false
}
