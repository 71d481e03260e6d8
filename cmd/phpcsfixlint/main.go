package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/mattn/go-isatty"
	flag "github.com/spf13/pflag"

	"github.com/jhoff/phpcsfixlint/internal/config"
	"github.com/jhoff/phpcsfixlint/internal/discovery"
	"github.com/jhoff/phpcsfixlint/internal/engine"
	fixpkg "github.com/jhoff/phpcsfixlint/internal/fix"
	"github.com/jhoff/phpcsfixlint/internal/lint"
	vlog "github.com/jhoff/phpcsfixlint/internal/log"
	"github.com/jhoff/phpcsfixlint/internal/output"
	"github.com/jhoff/phpcsfixlint/internal/process"
	"github.com/jhoff/phpcsfixlint/internal/profile"
)

func main() {
	os.Exit(run())
}

const usageText = `Usage: phpcsfixlint <command> [flags] [files...]

Commands:
  check     Report what php-cs-fixer would change (default when given file arguments)
  fix       Let php-cs-fixer rewrite files in place
  watch     Re-check files whenever they are saved
  doctor    Show the resolved setup and check the php-cs-fixer version
  help      Show help for profiles
  init      Generate a default .phpcsfixlint.yml config file
  version   Print version and exit

Global flags:
  -h, --help      Show this help

Run 'phpcsfixlint <command> --help' for more information on a command.
`

func run() int {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		return 0
	}

	first := os.Args[1]
	switch first {
	case "--help", "-h":
		fmt.Fprint(os.Stderr, usageText)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch first {
	case "check":
		return runCheck(ctx, os.Args[2:])
	case "fix":
		return runFix(ctx, os.Args[2:])
	case "watch":
		return runWatch(ctx, os.Args[2:])
	case "doctor":
		return runDoctor(ctx, os.Args[2:])
	case "help":
		return runHelp(os.Args[2:])
	case "init":
		return runInit(os.Args[2:])
	case "version":
		printVersion()
		return 0
	default:
		if len(first) > 0 && first[0] != '-' {
			if _, err := os.Stat(first); err == nil {
				return runCheck(ctx, os.Args[1:])
			}
		}
		fmt.Fprintf(os.Stderr, "phpcsfixlint: unknown command %q\n\n%s", first, usageText)
		return 2
	}
}

func printVersion() {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}
	fmt.Printf("phpcsfixlint %s\n", version)
}

// options holds the flags shared by the linting subcommands.
type options struct {
	configPath    string
	profile       string
	executable    string
	fixerConfig   string
	jobs          int
	timeout       time.Duration
	verbose       bool
	noGitignore   bool
	format        string
	noColor       bool
	quiet         bool
	showDiff      bool
	summary       bool
	stdinFilename string
}

// bindSetup registers the flags that feed the config.
func (o *options) bindSetup(fs *flag.FlagSet) {
	fs.StringVarP(&o.configPath, "config", "c", "", "Override config file path")
	fs.StringVarP(&o.profile, "profile", "p", "", "Fixer profile (see 'phpcsfixlint help profile')")
	fs.StringVarP(&o.executable, "executable", "e", "", "php-cs-fixer executable")
	fs.StringVar(&o.fixerConfig, "fixer-config", "", "php-cs-fixer config file, skips the upward search")
	fs.IntVarP(&o.jobs, "jobs", "j", 0, "Files checked in parallel (default: number of CPUs)")
	fs.DurationVar(&o.timeout, "timeout", 0, "Per-file php-cs-fixer timeout, e.g. 30s (0 disables)")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "Trace config discovery and the commands run")
	fs.BoolVar(&o.noGitignore, "no-gitignore", false, "Disable .gitignore filtering when walking directories")
}

// bindOutput registers the flags that shape the report.
func (o *options) bindOutput(fs *flag.FlagSet) {
	fs.StringVarP(&o.format, "format", "f", "text", "Output format: text, json, html")
	fs.BoolVar(&o.noColor, "no-color", false, "Disable ANSI colors")
	fs.BoolVarP(&o.quiet, "quiet", "q", false, "Suppress non-error output")
	fs.BoolVar(&o.showDiff, "show-diff", false, "Print the proposed diff below each problem (text format)")
	fs.BoolVar(&o.summary, "summary", false, "Print a per-file summary table to stderr")
}

// setup holds everything resolved before files are processed.
type setup struct {
	cfg     *config.Config
	profile *profile.Profile
	log     *vlog.Logger
	baseDir string
}

// load discovers and layers the configuration. fs supplies the flags
// that were set explicitly.
func (o *options) load(fs *flag.FlagSet) (*setup, error) {
	logger := &vlog.Logger{Enabled: o.verbose, W: os.Stderr}

	path := o.configPath
	if path == "" {
		cwd, err := os.Getwd()
		if err == nil {
			path, _ = config.Discover(cwd)
		}
	}
	if path != "" {
		logger.Printf("using config %s", path)
	} else {
		logger.Printf("no config file, using defaults")
	}

	cfg, err := config.Resolve(path, fs)
	if err != nil {
		return nil, err
	}
	p, err := cfg.ResolvedProfile()
	if err != nil {
		return nil, err
	}
	logger.Printf("profile %s", p.Name)

	base := ""
	if cfg.Source != "" {
		if abs, err := filepath.Abs(cfg.Source); err == nil {
			base = filepath.Dir(abs)
		}
	}
	if base == "" {
		base, _ = os.Getwd()
	}
	return &setup{cfg: cfg, profile: p, log: logger, baseDir: base}, nil
}

func (s *setup) runner() *engine.Runner {
	return &engine.Runner{
		Config:  s.cfg,
		Profile: s.profile,
		Exec:    &process.ExecExecutor{},
		Log:     s.log,
		BaseDir: s.baseDir,
	}
}

// files resolves the positional arguments, or the config's include
// patterns when there are none.
func (o *options) files(s *setup, args []string) ([]string, error) {
	useGitignore := !o.noGitignore
	if len(args) == 0 {
		return discovery.Discover(discovery.Options{
			Patterns:     s.cfg.Include,
			Exclude:      s.cfg.Ignore,
			BaseDir:      s.baseDir,
			UseGitignore: useGitignore,
		})
	}
	opts := lint.ResolveOpts{UseGitignore: &useGitignore, Extensions: s.profile.Selectors}
	return lint.ResolveFilesWithOpts(args, opts)
}

// runCheck implements the "check" subcommand: lint files.
func runCheck(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	var o options
	o.bindSetup(fs)
	o.bindOutput(fs)
	fs.StringVar(&o.stdinFilename, "stdin-filename", "", "Path used to locate the fixer config for piped input")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: phpcsfixlint check [flags] [files...]\n\n"+
			"Report what php-cs-fixer would change, without changing anything.\n\n"+
			"Files can be paths, directories (walked recursively for the profile's\n"+
			"extensions), or glob patterns. With no file arguments, reads from stdin\n"+
			"if piped, otherwise checks the config's include patterns.\n\n"+
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

	if fs.NArg() == 0 && isStdinPipe() {
		return o.checkStdin(ctx, s)
	}

	files, err := o.files(s, fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "phpcsfixlint: %v\n", err)
		return 2
	}
	if len(files) == 0 {
		return 0
	}

	res := s.runner().Run(ctx, files)
	return o.report(res.Diagnostics, res.Errors)
}

func (o *options) checkStdin(ctx context.Context, s *setup) int {
	source, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "phpcsfixlint: reading stdin: %v\n", err)
		return 2
	}
	name := o.stdinFilename
	if name == "" {
		name = engine.StdinName
	}
	res := s.runner().RunSource(ctx, name, source)
	return o.report(res.Diagnostics, res.Errors)
}

// runFix implements the "fix" subcommand: let the fixer rewrite files.
func runFix(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("fix", flag.ContinueOnError)
	var o options
	o.bindSetup(fs)
	o.bindOutput(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: phpcsfixlint fix [flags] [files...]\n\n"+
			"Run php-cs-fixer on files in place, then report what is left.\n\n"+
			"Files can be paths, directories, or glob patterns; with none, the\n"+
			"config's include patterns are used.\n"+
			"Stdin is not supported (files must be writable).\n\n"+
			"Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() == 0 && isStdinPipe() {
		fmt.Fprintf(os.Stderr, "phpcsfixlint: cannot fix stdin in place\n")
		return 2
	}

	s, err := o.load(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "phpcsfixlint: %v\n", err)
		return 2
	}
	files, err := o.files(s, fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "phpcsfixlint: %v\n", err)
		return 2
	}
	if len(files) == 0 {
		return 0
	}

	fixer := &fixpkg.Fixer{Runner: s.runner()}
	res := fixer.Fix(ctx, files)
	if !o.quiet {
		for _, f := range res.Modified {
			fmt.Fprintf(os.Stderr, "phpcsfixlint: fixed %s\n", f)
		}
	}
	return o.report(res.Diagnostics, res.Errors)
}

// report prints errors and diagnostics and returns the exit code:
// 0 clean, 1 diagnostics, 2 errors without diagnostics.
func (o *options) report(diags []lint.Diagnostic, errs []error) int {
	printErrors(errs)

	if !o.quiet && len(diags) > 0 {
		if code := o.formatDiagnostics(os.Stdout, diags); code != 0 {
			return code
		}
	}
	if o.summary && !o.quiet {
		output.WriteSummary(os.Stderr, diags, errs)
	}

	if len(errs) > 0 && len(diags) == 0 {
		return 2
	}
	if len(diags) > 0 {
		return 1
	}
	return 0
}

// formatDiagnostics writes diagnostics to w using the selected format.
// Returns a non-zero exit code on write error, or 0 on success.
func (o *options) formatDiagnostics(w *os.File, diags []lint.Diagnostic) int {
	formatter, err := output.New(o.format, output.Options{
		Color:    !o.noColor && isTerminal(w),
		ShowDiff: o.showDiff,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "phpcsfixlint: %v\n", err)
		return 2
	}
	if err := formatter.Format(w, diags); err != nil {
		fmt.Fprintf(os.Stderr, "phpcsfixlint: error writing output: %v\n", err)
		return 2
	}
	return 0
}

// printErrors writes runtime errors to stderr.
func printErrors(errs []error) {
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "phpcsfixlint: %v\n", e)
	}
}

// runInit implements the "init" subcommand: generate .phpcsfixlint.yml.
func runInit(args []string) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: phpcsfixlint init\n\n"+
			"Generate a default %s config file in the current directory.\n", config.FileNames[0])
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "phpcsfixlint: init takes no arguments\n")
		return 2
	}

	configFile := config.FileNames[0]
	if _, err := os.Stat(configFile); err == nil {
		fmt.Fprintf(os.Stderr, "phpcsfixlint: %s already exists\n", configFile)
		return 2
	}

	data, err := config.Marshal(config.DumpDefaults())
	if err != nil {
		fmt.Fprintf(os.Stderr, "phpcsfixlint: marshalling config: %v\n", err)
		return 2
	}

	if err := os.WriteFile(configFile, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "phpcsfixlint: writing %s: %v\n", configFile, err)
		return 2
	}

	fmt.Fprintf(os.Stderr, "phpcsfixlint: created %s\n", configFile)
	return 0
}

// isStdinPipe returns true if stdin is a pipe or file rather than a
// terminal or /dev/null.
func isStdinPipe() bool {
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return false
	}
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
