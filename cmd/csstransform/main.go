package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/sync/errgroup"

	"github.com/benbjohnson/csstransform"
	"github.com/benbjohnson/csstransform/internal/errors"
)

type options struct {
	declarations bool
	write        bool
	diff         bool
	validate     bool
	concurrency  int
	rewriteURL   csstransform.URLRewriter
}

func main() {
	o := options{}
	base := ""
	cacheSize := 1024
	flag.BoolVar(&o.declarations, "declarations", false, "treat input as a declaration list")
	flag.StringVar(&base, "base", "", "rebase relative urls on this absolute url")
	flag.IntVar(&cacheSize, "cache", cacheSize, "number of rebased urls to cache")
	flag.BoolVar(&o.write, "w", false, "write result to source file instead of stdout")
	flag.BoolVar(&o.diff, "d", false, "print a diff instead of the result")
	flag.BoolVar(&o.validate, "validate", false, "check the result with esbuild")
	flag.IntVar(&o.concurrency, "j", runtime.NumCPU(), "number of files to process concurrently")
	flag.Parse()

	if base != "" {
		fn, err := csstransform.RebaseURLRewriter(base)
		if err != nil {
			log.Fatal(err)
		}
		if o.rewriteURL, err = csstransform.NewCachedURLRewriter(fn, cacheSize); err != nil {
			log.Fatal(err)
		}
	}

	if flag.NArg() == 0 {
		if err := processStream(os.Stdin, os.Stdout, o); err != nil {
			log.Fatal(err)
		}
		return
	}
	if err := processFiles(flag.Args(), os.Stdout, o); err != nil {
		log.Fatal(err)
	}
}

func processStream(r io.Reader, w io.Writer, o options) error {
	blob, err := io.ReadAll(r)
	if err != nil {
		return errors.Tag(err, "read stdin")
	}
	s, err := process("<stdin>", string(blob), o)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

// processFiles transforms files concurrently and prints the results in
// argument order. Every failing file is logged, the errors are merged.
func processFiles(files []string, w io.Writer, o options) error {
	results := make([]string, len(files))
	errs := make([]error, len(files))

	eg := &errgroup.Group{}
	if o.concurrency > 0 {
		eg.SetLimit(o.concurrency)
	}
	for i, name := range files {
		eg.Go(func() error {
			results[i], errs[i] = processFile(name, o)
			if errs[i] != nil {
				log.Printf("%s", errs[i])
			}
			return nil
		})
	}
	_ = eg.Wait()

	for _, s := range results {
		if _, err := io.WriteString(w, s); err != nil {
			return errors.Tag(err, "write output")
		}
	}
	return errors.Merge(errs...)
}

func processFile(name string, o options) (string, error) {
	blob, err := os.ReadFile(name)
	if err != nil {
		return "", errors.Tag(err, "read "+name)
	}
	src := string(blob)
	s, err := process(name, src, o)
	if err != nil {
		return "", err
	}
	if !o.write || o.diff {
		return s, nil
	}
	if s == src {
		return "", nil
	}
	if err = os.WriteFile(name, []byte(s), 0o644); err != nil {
		return "", errors.Tag(err, "write "+name)
	}
	return "", nil
}

func process(name, src string, o options) (string, error) {
	s := csstransform.Transform(src, csstransform.Options{
		Declarations: o.declarations,
		RewriteURL:   o.rewriteURL,
	})
	if o.validate {
		if err := validate(name, s); err != nil {
			return "", err
		}
	}
	if o.diff {
		return diff(name, src, s), nil
	}
	return s, nil
}

var dmp = diffmatchpatch.New()

// diff renders the changes as a patch, empty if there are none.
func diff(name, before, after string) string {
	if before == after {
		return ""
	}
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return "--- " + name + "\n+++ " + name + "\n" + dmp.PatchToText(dmp.PatchMake(before, diffs))
}

// validate parses the result with esbuild. Warnings are logged, errors fail.
func validate(name, s string) error {
	r := api.Transform(s, api.TransformOptions{
		Loader:     api.LoaderCSS,
		Sourcefile: name,
		LogLevel:   api.LogLevelSilent,
	})
	for _, m := range r.Warnings {
		log.Printf("%s: warning: %s", formatLocation(name, m.Location), m.Text)
	}
	if len(r.Errors) == 0 {
		return nil
	}
	m := r.Errors[0]
	return errors.Tag(
		errors.New(fmt.Sprintf("%d errors, first: %s", len(r.Errors), m.Text)),
		"validate "+formatLocation(name, m.Location),
	)
}

func formatLocation(name string, l *api.Location) string {
	if l == nil {
		return name
	}
	return fmt.Sprintf("%s:%d:%d", name, l.Line, l.Column)
}
