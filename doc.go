/*
Package csstransform implements a single pass CSS rewriter. The input is
scanned with a CSS3 tokenizer and echoed to the output unchanged, except for
a few narrowly scoped rewrites applied to individual statements.

This package can be used for normalizing stylesheets from e-books and other
legacy sources before they are handed to a modern rendering engine.


Basics

The tokenizer pulls one code point at a time from the input, appends it to
the output, and then classifies it according to the current lexer state.
Finished tokens are buffered until the end of the current statement, which
is a semicolon, a { or } character, or the end of the input.

At the end of a statement the buffered tokens are inspected. If none of the
rewrites apply the output already holds the verbatim input and nothing else
happens. Otherwise the output is truncated back to the first buffered token
and the tokens are serialized again, with minimal escaping.

Nesting of {-blocks is tracked only as far as needed to decide whether at-rules
and the <!-- and --> markers are recognized.


Rewrites

Absolute font sizes in "font" and "font-size" declarations are converted to
rem, assuming a 16px root font size at 96 DPI. Keywords such as "large" map
to fixed rem lengths.

The legacy "page-break-before", "page-break-after" and "page-break-inside"
properties are renamed to their "break-*" equivalents and duplicated as
"-webkit-column-break-*".

The prefixed "-webkit-writing-mode" and "-epub-writing-mode" properties are
renamed to "writing-mode".

Every url() and every string target of an @import rule is passed to the
URLRewriter given in the Options, if any. A rewriter that fails leaves the
URL unchanged and the failure is logged.


Malformed input

There are no parse errors. Unterminated strings, comments and URLs are closed
at the end of the input and unknown constructs are echoed as they are. An
unescaped newline inside a string does not end the string.

*/
package csstransform
