package csstransform

import (
	"log"
	"slices"
	"strconv"
	"strings"

	"github.com/benbjohnson/csstransform/internal/errors"
	"github.com/benbjohnson/csstransform/token"
)

// property selects the rewrite applied to a declaration.
type property int

const (
	propertyFontSize property = iota + 1
	propertyPageBreak
	propertyWritingMode
)

var properties = map[string]property{
	"font":                 propertyFontSize,
	"font-size":            propertyFontSize,
	"page-break-before":    propertyPageBreak,
	"page-break-after":     propertyPageBreak,
	"page-break-inside":    propertyPageBreak,
	"-webkit-writing-mode": propertyWritingMode,
	"-epub-writing-mode":   propertyWritingMode,
}

// queue buffers the tokens of the current statement together with the
// output. The output already holds the verbatim echo of every queued token
// and is only patched when a rewrite changed one of them.
type queue struct {
	tokens []*token.Token
	pool   []*token.Token
	out    []rune

	rewriteURL URLRewriter
	logger     *log.Logger
}

func newQueue(size int, o Options) *queue {
	logger := o.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &queue{
		out:        make([]rune, 0, size),
		rewriteURL: o.RewriteURL,
		logger:     logger,
	}
}

// start begins a new token at the last code point written to the output.
func (q *queue) start(kind token.Kind) *token.Token {
	t := q.alloc(kind, len(q.out)-1)
	q.tokens = append(q.tokens, t)
	return t
}

func (q *queue) alloc(kind token.Kind, pos int) *token.Token {
	if n := len(q.pool); n > 0 {
		t := q.pool[n-1]
		q.pool = q.pool[:n-1]
		t.Reset(kind, pos)
		return t
	}
	return token.New(kind, pos)
}

// current returns the most recent token.
func (q *queue) current() *token.Token {
	if len(q.tokens) == 0 {
		return nil
	}
	return q.tokens[len(q.tokens)-1]
}

// leader returns the first significant token of the statement.
func (q *queue) leader() *token.Token {
	for _, t := range q.tokens {
		if t.IsSignificant() {
			return t
		}
	}
	return nil
}

// commit runs the rewrites for the statement ended by flush and patches
// the output if anything changed. The end of input commits with ';'.
func (q *queue) commit(flush rune) {
	if len(q.tokens) == 0 {
		return
	}

	leader := q.leader()
	atRule := leader != nil && leader.Kind == token.AtKeyword

	changed := q.processURLs(token.URL)
	if (flush == ';' || flush == '{') && atRule {
		if name, _ := leader.ASCIILower(); name == "import" {
			changed = q.processURLs(token.String) || changed
		}
	}
	if (flush == ';' && !atRule) || flush == '}' {
		changed = q.processDeclaration() || changed
	}

	if changed {
		q.out = q.out[:q.tokens[0].Pos]
		for _, t := range q.tokens {
			q.out = t.Serialize(q.out)
		}
	}

	q.pool = append(q.pool, q.tokens...)
	clear(q.tokens)
	q.tokens = q.tokens[:0]
}

// processURLs passes the text of every token of the given kind through the
// URL rewriter. Failures are logged and leave the token as it is.
func (q *queue) processURLs(kind token.Kind) bool {
	if q.rewriteURL == nil {
		return false
	}
	changed := false
	for _, t := range q.tokens {
		if t.Kind != kind {
			continue
		}
		old := string(t.Text)
		s, err := callURLRewriter(q.rewriteURL, old)
		if err != nil {
			q.logger.Printf("%s", errors.Tag(err, "rewrite url "+strconv.Quote(old)))
			continue
		}
		if s != old {
			t.SetText(s)
			changed = true
		}
	}
	return changed
}

func callURLRewriter(fn URLRewriter, old string) (s string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &errors.CallbackPanicError{Value: r}
		}
	}()
	return fn(old)
}

// processDeclaration rewrites a "name: value" statement if name is one of
// the known properties.
func (q *queue) processDeclaration() bool {
	name, colon := -1, -1
	for i, t := range q.tokens {
		if !t.IsSignificant() {
			continue
		}
		if name < 0 {
			if t.Kind != token.Ident {
				return false
			}
			name = i
			continue
		}
		if !t.IsDelim(':') {
			return false
		}
		colon = i
		break
	}
	if colon < 0 {
		return false
	}

	key, ok := q.tokens[name].ASCIILower()
	if !ok {
		return false
	}
	switch properties[key] {
	case propertyFontSize:
		return q.processFontSizes(q.tokens[colon+1:])
	case propertyPageBreak:
		q.splitPageBreak(name, strings.TrimPrefix(key, "page-break-"))
		return true
	case propertyWritingMode:
		q.tokens[name].SetText("writing-mode")
		return true
	}
	return false
}

func (q *queue) processFontSizes(values []*token.Token) bool {
	changed := false
	for _, t := range values {
		if t.ConvertAbsoluteFontSize() {
			changed = true
		}
	}
	return changed
}

// splitPageBreak renames page-break-<suffix> to break-<suffix> and repeats
// the declaration as -webkit-column-break-<suffix> right after it.
func (q *queue) splitPageBreak(name int, suffix string) {
	end := len(q.tokens)
	if last := q.tokens[end-1]; last.IsDelim(';') || last.IsDelim('}') {
		end--
	}
	for end > name+1 && q.tokens[end-1].Kind == token.Whitespace {
		end--
	}

	prop := q.tokens[name]
	prop.SetText("break-" + suffix)

	span := q.tokens[name:end]
	dup := make([]*token.Token, 0, len(span)+2)
	sep := q.alloc(token.Delim, prop.Pos)
	sep.AddChar(';')
	space := q.alloc(token.Whitespace, prop.Pos)
	space.AddChar(' ')
	dup = append(dup, sep, space)
	for i, t := range span {
		c := t.Clone()
		if i == 0 {
			c.SetText("-webkit-column-break-" + suffix)
		}
		dup = append(dup, c)
	}
	q.tokens = slices.Insert(q.tokens, end, dup...)
}
