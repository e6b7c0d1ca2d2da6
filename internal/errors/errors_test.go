package errors_test

import (
	"testing"

	"github.com/benbjohnson/csstransform/internal/errors"
)

func TestTag(t *testing.T) {
	cause := &errors.InvalidURLError{URL: "%zz"}
	err := errors.Tag(errors.Tag(cause, "inner"), "outer")
	if s := err.Error(); s != "outer: inner: invalid url: %zz" {
		t.Fatalf("unexpected message: %q", s)
	}
	if errors.GetCause(err) != cause {
		t.Fatal("cause not found")
	}
	if !errors.IsInvalidURLError(err) {
		t.Fatal("expected invalid url error")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected unwrap chain to reach cause")
	}
}

func TestMerge(t *testing.T) {
	if err := errors.Merge(nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := errors.New("a")
	if err := errors.Merge(nil, a); err != a {
		t.Fatalf("expected single error, got %v", err)
	}
	b := errors.New("b")
	err := errors.Merge(a, nil, b)
	if s := err.Error(); s != "merged: a + b" {
		t.Fatalf("unexpected message: %q", s)
	}
	if !errors.Is(err, b) {
		t.Fatal("expected merged error to contain b")
	}
}

func TestCallbackPanicError(t *testing.T) {
	err := errors.Tag(&errors.CallbackPanicError{Value: "boom"}, "rewrite url \"x\"")
	if !errors.IsCallbackPanicError(err) {
		t.Fatal("expected callback panic error")
	}
	if s := err.Error(); s != `rewrite url "x": callback panicked: boom` {
		t.Fatalf("unexpected message: %q", s)
	}
}
