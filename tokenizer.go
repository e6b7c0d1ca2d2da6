package csstransform

import (
	"strconv"

	"github.com/benbjohnson/csstransform/scanner"
	"github.com/benbjohnson/csstransform/token"
)

// state is a lexer mode of the tokenizer.
type state int

const (
	stateNormal state = iota
	stateEscape
	stateComment
	stateString
	stateHash
	stateNumber
	stateDigits
	stateDimension
	stateIdent
	stateURLStart
	stateURL
	stateURLString
	stateURLAfterString
	stateAtKeyword
)

// frame describes what a {-block allows.
type frame struct {
	declarationsAllowed   bool
	qualifiedRulesAllowed bool
	atRulesAllowed        bool
	topLevel              bool
}

// tokenizer drives the scan. Every consumed code point is echoed to the
// output before it is classified, so unchanged input is reproduced as is.
type tokenizer struct {
	in *scanner.Stream
	q  *queue

	states []state
	frames []frame

	escape   []rune // hex digits of the escape being scanned
	quote    rune   // delimiter of the string being scanned
	fraction bool   // the number being scanned is past its integer part
}

func newTokenizer(src string, o Options) *tokenizer {
	root := frame{qualifiedRulesAllowed: true, atRulesAllowed: true, topLevel: true}
	if o.Declarations {
		root = frame{declarationsAllowed: true}
	}
	return &tokenizer{
		in:     scanner.New(src),
		q:      newQueue(len(src), o),
		states: []state{stateNormal},
		frames: []frame{root},
	}
}

// run scans the whole input and commits what is left at the end.
func (z *tokenizer) run() {
	z.scan()
	z.q.commit(';')
}

// scan consumes the input and closes every pending state.
func (z *tokenizer) scan() {
	for {
		ch := z.in.Next()
		if ch == scanner.EOF {
			break
		}
		z.q.out = append(z.q.out, ch)
		z.step(ch)
	}

	for len(z.states) > 1 {
		switch z.top() {
		case stateEscape:
			z.endEscape()
		case stateURL:
			z.q.current().TrimTrailingWhitespace()
			z.pop()
		default:
			z.pop()
		}
	}
}

func (z *tokenizer) step(ch rune) {
	switch z.top() {
	case stateNormal:
		z.onNormal(ch)
	case stateEscape:
		z.onEscape(ch)
	case stateComment:
		z.onComment(ch)
	case stateString, stateURLString:
		z.onString(ch)
	case stateHash, stateAtKeyword, stateDimension:
		z.onName(ch)
	case stateNumber:
		z.onNumber(ch)
	case stateDigits:
		z.onDigits(ch)
	case stateIdent:
		z.onIdent(ch)
	case stateURLStart:
		z.onURLStart(ch)
	case stateURL:
		z.onURL(ch)
	case stateURLAfterString:
		z.onURLAfterString(ch)
	}
}

func (z *tokenizer) top() state {
	return z.states[len(z.states)-1]
}

func (z *tokenizer) push(s state) {
	z.states = append(z.states, s)
}

// pop leaves the current state. The normal state is never popped.
func (z *tokenizer) pop() {
	if len(z.states) > 1 {
		z.states = z.states[:len(z.states)-1]
	}
}

// replace swaps the current state for s.
func (z *tokenizer) replace(s state) {
	z.states[len(z.states)-1] = s
}

func (z *tokenizer) frame() frame {
	return z.frames[len(z.frames)-1]
}

// consume reads the next code point ahead of the main loop.
func (z *tokenizer) consume() rune {
	ch := z.in.Next()
	if ch != scanner.EOF {
		z.q.out = append(z.q.out, ch)
	}
	return ch
}

// reconsume hands the current code point back to the main loop.
func (z *tokenizer) reconsume() {
	z.in.Rewind()
	z.q.out = z.q.out[:len(z.q.out)-1]
}

func (z *tokenizer) delim(ch rune) {
	z.q.start(token.Delim).AddChar(ch)
}

func (z *tokenizer) onNormal(ch rune) {
	p0, p1 := z.in.Peek(0), z.in.Peek(1)
	switch {
	case scanner.IsWhitespace(ch):
		if t := z.q.current(); t != nil && t.Kind == token.Whitespace {
			t.AddChar(ch)
		} else {
			z.q.start(token.Whitespace).AddChar(ch)
		}
	case scanner.IsDigit(ch):
		z.startNumber(ch)
	case scanner.IsNameStart(ch):
		z.q.start(token.Ident).AddChar(ch)
		z.push(stateIdent)
	case ch == '"' || ch == '\'':
		z.quote = ch
		z.q.start(token.String)
		z.push(stateString)
	case ch == '#':
		if scanner.IsName(p0) || scanner.IsValidEscape(p0, p1) {
			z.q.start(token.Hash)
			z.push(stateHash)
		} else {
			z.delim(ch)
		}
	case ch == '+' || ch == '.':
		if scanner.WouldStartNumber(ch, p0, p1) {
			z.startNumber(ch)
		} else {
			z.delim(ch)
		}
	case ch == '-':
		switch {
		case scanner.WouldStartNumber(ch, p0, p1):
			z.startNumber(ch)
		case p0 == '-' && p1 == '>' && z.frame().topLevel:
			t := z.q.start(token.CDC)
			t.AddChar(ch)
			t.AddChar(z.consume())
			t.AddChar(z.consume())
		case scanner.WouldStartIdent(ch, p0, p1):
			z.q.start(token.Ident).AddChar(ch)
			z.push(stateIdent)
		default:
			z.delim(ch)
		}
	case ch == '<':
		if z.frame().topLevel && p0 == '!' && p1 == '-' && z.in.Peek(2) == '-' {
			t := z.q.start(token.CDO)
			t.AddChar(ch)
			for i := 0; i < 3; i++ {
				t.AddChar(z.consume())
			}
		} else {
			z.delim(ch)
		}
	case ch == '@':
		if z.frame().atRulesAllowed && scanner.WouldStartIdent(p0, p1, z.in.Peek(2)) {
			z.q.start(token.AtKeyword)
			z.push(stateAtKeyword)
		} else {
			z.delim(ch)
		}
	case ch == '\\':
		if scanner.IsValidEscape(ch, p0) {
			z.q.start(token.Ident)
			z.push(stateIdent)
			z.pushEscape()
		} else {
			z.delim(ch)
		}
	case ch == '/' && p0 == '*':
		z.consume()
		z.push(stateComment)
	case ch == ';':
		z.delim(ch)
		z.q.commit(ch)
	case ch == '{':
		z.delim(ch)
		nested := false
		if t := z.q.leader(); t != nil && t.Kind == token.AtKeyword {
			nested = true
		}
		z.q.commit(ch)
		z.frames = append(z.frames, frame{
			declarationsAllowed:   true,
			qualifiedRulesAllowed: nested,
			atRulesAllowed:        nested,
		})
	case ch == '}':
		z.delim(ch)
		z.q.commit(ch)
		if len(z.frames) > 1 {
			z.frames = z.frames[:len(z.frames)-1]
		}
	default:
		z.delim(ch)
	}
}

func (z *tokenizer) pushEscape() {
	z.escape = z.escape[:0]
	z.push(stateEscape)
}

// onEscape scans the code points following a backslash. (§4.3.7)
func (z *tokenizer) onEscape(ch rune) {
	switch {
	case scanner.IsHexDigit(ch) && len(z.escape) < 6:
		z.escape = append(z.escape, ch)
	case len(z.escape) == 0:
		z.q.current().AddChar(ch)
		z.pop()
	case scanner.IsWhitespace(ch):
		z.endEscape()
	default:
		z.endEscape()
		z.reconsume()
	}
}

// endEscape decodes the pending hex digits into the current token.
// Surrogates are dropped.
func (z *tokenizer) endEscape() {
	ch := '\uFFFD'
	if len(z.escape) > 0 {
		v, _ := strconv.ParseInt(string(z.escape), 16, 32)
		if v > 0 && v <= 0x10FFFF {
			ch = rune(v)
		}
	}
	if ch < 0xD800 || ch > 0xDFFF {
		z.q.current().AddChar(ch)
	}
	z.escape = z.escape[:0]
	z.pop()
}

func (z *tokenizer) onComment(ch rune) {
	if ch == '*' && z.in.Peek(0) == '/' {
		z.consume()
		z.pop()
	}
}

// onString scans a quoted string. An unescaped newline does not end it.
func (z *tokenizer) onString(ch rune) {
	switch {
	case ch == z.quote:
		if z.top() == stateURLString {
			z.replace(stateURLAfterString)
		} else {
			z.pop()
		}
	case ch == '\\':
		switch z.in.Peek(0) {
		case '\n':
			z.consume()
		case scanner.EOF:
		default:
			z.pushEscape()
		}
	default:
		z.q.current().AddChar(ch)
	}
}

// onName extends a hash, at-keyword, dimension unit or identifier.
func (z *tokenizer) onName(ch rune) {
	p0 := z.in.Peek(0)
	switch {
	case scanner.IsName(ch):
		z.q.current().AddChar(ch)
	case scanner.IsValidEscape(ch, p0):
		z.pushEscape()
	case ch == '/' && p0 == '*':
		z.consume()
		z.push(stateComment)
	default:
		z.pop()
		z.reconsume()
	}
}

func (z *tokenizer) onIdent(ch rune) {
	if ch != '(' {
		z.onName(ch)
		return
	}
	t := z.q.current()
	if name, ok := t.ASCIILower(); ok && name == "url" {
		t.Kind = token.URL
		t.Text = t.Text[:0]
		z.replace(stateURLStart)
		return
	}
	t.Kind = token.Function
	z.pop()
}

func (z *tokenizer) startNumber(ch rune) {
	z.q.start(token.Number).AddChar(ch)
	z.fraction = ch == '.'
	z.push(stateNumber)
}

// onNumber scans the integer and fractional part of a number. (§4.3.12)
func (z *tokenizer) onNumber(ch rune) {
	p0, p1 := z.in.Peek(0), z.in.Peek(1)
	t := z.q.current()
	switch {
	case scanner.IsDigit(ch):
		t.AddChar(ch)
	case ch == '.' && !z.fraction && scanner.IsDigit(p0):
		t.AddChar(ch)
		z.fraction = true
	case (ch == 'e' || ch == 'E') && (scanner.IsDigit(p0) || ((p0 == '+' || p0 == '-') && scanner.IsDigit(p1))):
		t.AddChar(ch)
		if !scanner.IsDigit(p0) {
			t.AddChar(z.consume())
		}
		z.replace(stateDigits)
	default:
		z.endNumber()
	}
}

// onDigits scans the exponent of a number.
func (z *tokenizer) onDigits(ch rune) {
	if scanner.IsDigit(ch) {
		z.q.current().AddChar(ch)
		return
	}
	z.endNumber()
}

// endNumber finishes a number on the current code point. A number followed
// by an identifier becomes a dimension.
func (z *tokenizer) endNumber() {
	// The current code point is the last one read, so peeking starts at it.
	z.reconsume()
	if scanner.WouldStartIdent(z.in.Peek(0), z.in.Peek(1), z.in.Peek(2)) {
		z.q.current().MarkUnit()
		z.replace(stateDimension)
	} else {
		z.pop()
	}
}

func (z *tokenizer) onURLStart(ch rune) {
	p0 := z.in.Peek(0)
	switch {
	case scanner.IsWhitespace(ch):
	case ch == '/' && p0 == '*':
		z.consume()
		z.push(stateComment)
	case ch == '"' || ch == '\'':
		z.quote = ch
		z.replace(stateURLString)
	case ch == ')':
		z.pop()
	case scanner.IsValidEscape(ch, p0):
		z.replace(stateURL)
		z.pushEscape()
	default:
		z.replace(stateURL)
		z.q.current().AddChar(ch)
	}
}

func (z *tokenizer) onURL(ch rune) {
	p0 := z.in.Peek(0)
	switch {
	case ch == ')':
		z.q.current().TrimTrailingWhitespace()
		z.pop()
	case scanner.IsValidEscape(ch, p0):
		z.pushEscape()
	case ch == '/' && p0 == '*':
		z.consume()
		z.push(stateComment)
	default:
		z.q.current().AddChar(ch)
	}
}

// onURLAfterString waits for the closing parenthesis of url("...").
// Anything but whitespace and comments is skipped.
func (z *tokenizer) onURLAfterString(ch rune) {
	switch {
	case ch == ')':
		z.pop()
	case ch == '/' && z.in.Peek(0) == '*':
		z.consume()
		z.push(stateComment)
	}
}
