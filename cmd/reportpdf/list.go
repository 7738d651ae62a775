package main

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-reportpdf/internal/dateutil"
	"github.com/alnah/go-reportpdf/internal/reports"
)

// listIndent is the left margin of the detail lines.
const listIndent = 2

// runList prints the bundled reports with their output names and notebooks.
func runList(args []string, env *Environment) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printListUsage(env.Stderr) }
	if err := fs.Parse(args); err != nil {
		return usageError(err)
	}

	c := newConsole(env, false)
	width := env.width() - listIndent

	for i, name := range reports.Names() {
		def, err := reports.Load(name)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(env.Stdout)
		}

		var b strings.Builder
		fmt.Fprintf(&b, "file:     %s_%s.pdf\n", def.FilePrefix, dateutil.FileStampFormat)
		if def.Notebook != "" {
			fmt.Fprintf(&b, "notebook: %s\n", def.Notebook)
		}
		if def.Description != "" {
			b.WriteString(wordwrap.String(def.Description, width))
			b.WriteString("\n")
		}

		fmt.Fprintln(env.Stdout, c.bold.Sprint(def.Name))
		fmt.Fprint(env.Stdout, indent.String(b.String(), listIndent))
	}
	return nil
}
