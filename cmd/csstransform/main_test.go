package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benbjohnson/csstransform"
)

func writeFile(t *testing.T, dir, name, s string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(s), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// Ensure results are printed in argument order and failures are merged.
func TestProcessFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.css", "a{font-size:16px}\n")
	b := writeFile(t, dir, "b.css", "b{page-break-after:always}\n")
	missing := filepath.Join(dir, "missing.css")

	var buf bytes.Buffer
	err := processFiles([]string{a, missing, b}, &buf, options{concurrency: 2})
	if err == nil || !strings.Contains(err.Error(), "read "+missing) {
		t.Fatalf("expected read error, got %v", err)
	}
	want := "a{font-size:1rem}\nb{break-after:always; -webkit-column-break-after:always}\n"
	if s := buf.String(); s != want {
		t.Fatalf("got %q, want %q", s, want)
	}
}

// Ensure -w rewrites files in place and leaves stdout empty.
func TestProcessFile_Write(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a.css", "a{-epub-writing-mode:vertical-rl}")

	s, err := processFile(p, options{write: true})
	if err != nil {
		t.Fatal(err)
	}
	if s != "" {
		t.Fatalf("unexpected output: %q", s)
	}
	blob, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(blob) != "a{writing-mode:vertical-rl}" {
		t.Fatalf("unexpected file content: %q", blob)
	}
}

// Ensure urls are rebased through the cached rewriter.
func TestProcessStream_Rebase(t *testing.T) {
	fn, err := csstransform.RebaseURLRewriter("https://cdn.example.com/")
	if err != nil {
		t.Fatal(err)
	}
	if fn, err = csstransform.NewCachedURLRewriter(fn, 8); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	in := strings.NewReader("background: url(a.png)")
	if err = processStream(in, &buf, options{declarations: true, rewriteURL: fn}); err != nil {
		t.Fatal(err)
	}
	if s := buf.String(); s != "background: url(https://cdn.example.com/a.png)" {
		t.Fatalf("unexpected output: %q", s)
	}
}

func TestDiff(t *testing.T) {
	if s := diff("a.css", "a{}", "a{}"); s != "" {
		t.Fatalf("expected empty diff, got %q", s)
	}
	s, err := process("a.css", "a{font-size:16px}", options{diff: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(s, "--- a.css\n+++ a.css\n@@ ") {
		t.Fatalf("unexpected diff header: %q", s)
	}
	if !strings.Contains(s, "\n+") || !strings.Contains(s, "rem") || !strings.Contains(s, "\n-") {
		t.Fatalf("unexpected diff: %q", s)
	}
}

func TestValidate(t *testing.T) {
	if err := validate("a.css", "a{font-size:1rem}"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := process("a.css", "a{font-size:large}", options{validate: true})
	if err != nil {
		t.Fatal(err)
	}
	if s != "a{font-size:1.125rem}" {
		t.Fatalf("unexpected output: %q", s)
	}
}
