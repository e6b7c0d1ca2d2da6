package csstransform

import (
	"net/url"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/benbjohnson/csstransform/internal/errors"
)

// NewCachedURLRewriter memoizes the results of fn in an LRU cache holding up
// to size entries. Failed rewrites are not cached. The returned rewriter is
// safe for concurrent use.
func NewCachedURLRewriter(fn URLRewriter, size int) (URLRewriter, error) {
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, errors.Tag(err, "create url cache")
	}
	return func(s string) (string, error) {
		if v, ok := cache.Get(s); ok {
			return v, nil
		}
		v, err := fn(s)
		if err != nil {
			return "", err
		}
		cache.Add(s, v)
		return v, nil
	}, nil
}

// RebaseURLRewriter resolves relative references against base.
// Absolute URLs, fragments and empty references are kept as they are.
func RebaseURLRewriter(base string) (URLRewriter, error) {
	b, err := url.Parse(base)
	if err != nil {
		return nil, errors.Tag(err, "parse base url")
	}
	if !b.IsAbs() {
		return nil, errors.Tag(&errors.InvalidURLError{URL: base}, "base url must be absolute")
	}
	return func(s string) (string, error) {
		if s == "" || strings.HasPrefix(s, "#") {
			return s, nil
		}
		ref, err := url.Parse(s)
		if err != nil {
			return "", &errors.InvalidURLError{URL: s}
		}
		if ref.IsAbs() {
			return s, nil
		}
		return b.ResolveReference(ref).String(), nil
	}, nil
}
