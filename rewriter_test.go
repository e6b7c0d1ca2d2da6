package csstransform_test

import (
	"sync"
	"testing"

	"github.com/benbjohnson/csstransform"
	"github.com/benbjohnson/csstransform/internal/errors"
)

// Ensure the cache calls the underlying rewriter once per URL.
func TestNewCachedURLRewriter(t *testing.T) {
	var mu sync.Mutex
	calls := map[string]int{}
	fn, err := csstransform.NewCachedURLRewriter(func(s string) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		calls[s]++
		if s == "bad" {
			return "", errors.New("bad url")
		}
		return "/static/" + s, nil
	}, 16)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			csstransform.TransformStylesheet(`a{background:url(a.png)}`, fn)
		}()
	}
	wg.Wait()

	if s, err := fn("a.png"); err != nil || s != "/static/a.png" {
		t.Fatalf("unexpected result: %q %v", s, err)
	}
	if n := calls["a.png"]; n < 1 || n > 4 {
		t.Fatalf("unexpected call count: %d", n)
	}
	n := calls["a.png"]
	if _, err := fn("a.png"); err != nil || calls["a.png"] != n {
		t.Fatalf("cached value not used: %d calls", calls["a.png"])
	}

	// Failures are retried.
	if _, err := fn("bad"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := fn("bad"); err == nil {
		t.Fatal("expected error")
	}
	if calls["bad"] != 2 {
		t.Fatalf("unexpected call count for failure: %d", calls["bad"])
	}
}

func TestNewCachedURLRewriter_InvalidSize(t *testing.T) {
	if _, err := csstransform.NewCachedURLRewriter(func(s string) (string, error) { return s, nil }, 0); err == nil {
		t.Fatal("expected error")
	}
}

// Ensure relative references are resolved against the base URL.
func TestRebaseURLRewriter(t *testing.T) {
	fn, err := csstransform.RebaseURLRewriter("https://cdn.example.com/css/main.css")
	if err != nil {
		t.Fatal(err)
	}

	var tests = []struct {
		in  string
		out string
		err bool
	}{
		{in: `img/a.png`, out: `https://cdn.example.com/css/img/a.png`},
		{in: `../x.png`, out: `https://cdn.example.com/x.png`},
		{in: `/abs.png`, out: `https://cdn.example.com/abs.png`},
		{in: `//other.example.com/x.png`, out: `https://other.example.com/x.png`},
		{in: `https://other.example.com/x.png`, out: `https://other.example.com/x.png`},
		{in: `data:image/png;base64,AAAA`, out: `data:image/png;base64,AAAA`},
		{in: `#frag`, out: `#frag`},
		{in: ``, out: ``},
		{in: `%zz`, err: true},
	}

	for i, tt := range tests {
		out, err := fn(tt.in)
		if tt.err {
			if !errors.IsInvalidURLError(err) {
				t.Errorf("%d. <%q> expected invalid url error, got %v", i, tt.in, err)
			}
			continue
		}
		if err != nil || out != tt.out {
			t.Errorf("%d. <%q> got %q (%v), want %q", i, tt.in, out, err, tt.out)
		}
	}
}

func TestRebaseURLRewriter_RelativeBase(t *testing.T) {
	if _, err := csstransform.RebaseURLRewriter("css/"); !errors.IsInvalidURLError(err) {
		t.Fatalf("expected invalid url error, got %v", err)
	}
}

// Ensure rebasing works through the transform, including @import strings.
func TestRebaseURLRewriter_Transform(t *testing.T) {
	fn, err := csstransform.RebaseURLRewriter("https://cdn.example.com/css/")
	if err != nil {
		t.Fatal(err)
	}
	in := `@import "base.css";a{background:url(../img/bg.png)}`
	want := `@import "https://cdn.example.com/css/base.css";a{background:url(https://cdn.example.com/img/bg.png)}`
	if out := csstransform.TransformStylesheet(in, fn); out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}
