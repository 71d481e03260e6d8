package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jhoff/phpcsfixlint/internal/command"
	"github.com/jhoff/phpcsfixlint/internal/profile"
)

const helpUsageText = `Usage: phpcsfixlint help <topic>

Topics:
  profile [name]   List fixer profiles, or show one in detail
`

// runHelp implements the "help" subcommand.
func runHelp(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, helpUsageText)
		return 0
	}

	switch args[0] {
	case "profile":
		return runHelpProfile(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "phpcsfixlint: help: unknown topic %q\n", args[0])
		return 2
	}
}

// runHelpProfile implements "help profile [name]".
func runHelpProfile(args []string) int {
	if len(args) == 0 {
		for _, p := range profile.All() {
			marker := " "
			if p.Name == profile.DefaultName {
				marker = "*"
			}
			fmt.Printf("%s %-18s %s\n", marker, p.Name, p.Description)
		}
		return 0
	}
	return showProfile(args[0])
}

func showProfile(name string) int {
	p := profile.ByName(name)
	if p == nil {
		fmt.Fprintf(os.Stderr, "phpcsfixlint: unknown profile %q\n", name)
		return 2
	}

	target := "file path"
	if p.Target == profile.TargetTempFile {
		target = "temp copy"
	}
	versions := "any"
	switch {
	case p.MinVersion != "" && p.MaxVersion != "":
		versions = fmt.Sprintf(">= %s, < %s", strings.TrimPrefix(p.MinVersion, "v"), strings.TrimPrefix(p.MaxVersion, "v"))
	case p.MinVersion != "":
		versions = ">= " + strings.TrimPrefix(p.MinVersion, "v")
	case p.MaxVersion != "":
		versions = "< " + strings.TrimPrefix(p.MaxVersion, "v")
	}
	b := &command.Builder{Profile: p, Find: func(string, []string) (string, bool) { return "", false }}

	fmt.Printf("%s\n\n%s\n\n", p.Name, p.Description)
	fmt.Printf("  executable:     %s\n", p.Executable)
	fmt.Printf("  extensions:     %s\n", strings.Join(p.Selectors, " "))
	fmt.Printf("  target:         %s\n", target)
	fmt.Printf("  config search:  %s\n", strings.Join(p.Candidates, ", "))
	fmt.Printf("  config default: %s\n", p.DefaultConfig)
	fmt.Printf("  fixer versions: %s\n", versions)
	fmt.Printf("  line offset:    +%d\n", p.LineOffset)
	fmt.Printf("  command:        %s\n", strings.Join(b.Build(command.Settings{}, "file.php"), " "))
	return 0
}
