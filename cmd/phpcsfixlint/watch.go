package main

import (
	"context"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/jhoff/phpcsfixlint/internal/watch"
)

// runWatch implements the "watch" subcommand: check once, then re-check
// changed files until interrupted.
func runWatch(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	var o options
	o.bindSetup(fs)
	o.bindOutput(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: phpcsfixlint watch [flags] [dirs or files...]\n\n"+
			"Check files, then check them again each time they are saved.\n"+
			"With no arguments, watches the directory holding the config file\n"+
			"(or the current directory). Stop with Ctrl-C.\n\n"+
			"Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	s, err := o.load(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "phpcsfixlint: %v\n", err)
		return 2
	}

	roots := fs.Args()
	if len(roots) == 0 {
		roots = []string{s.baseDir}
	}
	files, err := o.files(s, fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "phpcsfixlint: %v\n", err)
		return 2
	}

	runner := s.runner()
	if len(files) > 0 {
		res := runner.Run(ctx, files)
		o.report(res.Diagnostics, res.Errors)
	}

	w := &watch.Watcher{
		Roots:      roots,
		Extensions: s.profile.Selectors,
		Log:        s.log,
		OnChange: func(ctx context.Context, changed []string) {
			res := runner.Run(ctx, changed)
			if o.report(res.Diagnostics, res.Errors) == 0 && !o.quiet {
				fmt.Fprintf(os.Stderr, "phpcsfixlint: %d file(s) clean\n", len(changed))
			}
		},
	}
	if !o.quiet {
		fmt.Fprintf(os.Stderr, "phpcsfixlint: watching for changes (Ctrl-C to stop)\n")
	}
	if err := w.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "phpcsfixlint: %v\n", err)
		return 2
	}
	return 0
}
