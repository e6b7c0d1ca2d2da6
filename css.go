package csstransform

import (
	"log"
)

// URLRewriter maps a URL found in a stylesheet to its replacement.
// Returning an error leaves the URL unchanged.
type URLRewriter func(oldURL string) (string, error)

// Options configures a transform.
type Options struct {
	// Declarations treats the input as a list of declarations, such as the
	// content of a style attribute, instead of a full stylesheet.
	Declarations bool

	// RewriteURL is called for every url() and every string @import target.
	RewriteURL URLRewriter

	// Logger receives rewrite failures. Defaults to log.Default().
	Logger *log.Logger
}

// Transform rewrites src according to o and returns the result.
func Transform(src string, o Options) string {
	z := newTokenizer(src, o)
	z.run()
	return string(z.q.out)
}

// TransformStylesheet transforms a full stylesheet.
func TransformStylesheet(src string, rewrite URLRewriter) string {
	return Transform(src, Options{RewriteURL: rewrite})
}

// TransformDeclarations transforms a list of declarations.
func TransformDeclarations(src string, rewrite URLRewriter) string {
	return Transform(src, Options{Declarations: true, RewriteURL: rewrite})
}
