package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	flag "github.com/spf13/pflag"

	"github.com/jhoff/phpcsfixlint/internal/process"
	"github.com/jhoff/phpcsfixlint/internal/toolversion"
)

// runDoctor implements the "doctor" subcommand: print the resolved setup
// for a file and check the installed fixer against the profile.
func runDoctor(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	var o options
	o.bindSetup(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: phpcsfixlint doctor [flags] [file]\n\n"+
			"Show the config, profile, executable and fixer config that apply to\n"+
			"file (default: a file in the current directory), and check that the\n"+
			"installed php-cs-fixer suits the profile.\n\n"+
			"Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "phpcsfixlint: doctor takes at most one file\n")
		return 2
	}

	s, err := o.load(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "phpcsfixlint: %v\n", err)
		return 2
	}

	target := fs.Arg(0)
	if target == "" {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "phpcsfixlint: %v\n", err)
			return 2
		}
		target = filepath.Join(cwd, "index.php")
	}

	runner := s.runner()
	b := runner.Builder()
	settings := runner.Settings(target)
	exe := b.Executable(settings)

	configSource := s.cfg.Source
	if configSource == "" {
		configSource = "(defaults)"
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendRow(table.Row{"config", configSource})
	t.AppendRow(table.Row{"profile", s.profile.Name})
	t.AppendRow(table.Row{"executable", exe})
	t.AppendRow(table.Row{"fixer config", b.ConfigFile(settings, target)})
	t.AppendRow(table.Row{"ignored", runner.Ignored(target)})
	t.AppendRow(table.Row{"command", strings.Join(b.Build(settings, target), " ")})

	code := 0
	version, err := toolversion.Detect(ctx, runner.Exec, exe)
	var notes []string
	switch {
	case errors.Is(err, process.ErrExecutableNotFound):
		t.AppendRow(table.Row{"version", "not found"})
		notes = append(notes, fmt.Sprintf("%s is not installed or not on PATH", exe))
		code = 2
	case err != nil:
		t.AppendRow(table.Row{"version", "unknown"})
		notes = append(notes, err.Error())
		code = 2
	default:
		t.AppendRow(table.Row{"version", strings.TrimPrefix(version, "v")})
		notes = toolversion.Notes(version, s.profile)
		if len(notes) > 0 {
			code = 1
		}
	}
	t.Render()

	for _, n := range notes {
		fmt.Fprintf(os.Stderr, "phpcsfixlint: %s\n", n)
	}
	if code == 0 {
		fmt.Fprintln(os.Stderr, "phpcsfixlint: setup looks good")
	}
	return code
}
