package main

import (
	"fmt"
	"path/filepath"
	"slices"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-reportpdf/internal/config"
	"github.com/alnah/go-reportpdf/internal/fileutil"
	"github.com/alnah/go-reportpdf/internal/hints"
	"github.com/alnah/go-reportpdf/internal/reports"
)

// figuresFlags holds flags for the figures command.
type figuresFlags struct {
	config string
	images string
}

// runFigures prints each figure a report needs and whether it exists.
// It fails with ErrMissingFigures when any is absent.
func runFigures(args []string, env *Environment) error {
	f := &figuresFlags{}
	fs := flag.NewFlagSet("figures", flag.ContinueOnError)
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&f.images, "images", "i", "", "figure directory (default: working directory)")
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printFiguresUsage(env.Stderr) }
	if err := fs.Parse(args); err != nil {
		return usageError(err)
	}
	if fs.NArg() != 1 || fs.Arg(0) == reports.All {
		return fmt.Errorf("%w: figures takes exactly one report name or definition file", ErrInvalidArgs)
	}

	cfg, err := resolveConfig(f.config, env, func(cfg *config.Config) {
		if f.images != "" {
			cfg.Images.Dir = f.images
		}
	})
	if err != nil {
		return err
	}
	imageDir, err := absDir(cfg.Images.Dir)
	if err != nil {
		return err
	}

	defs, err := reports.Resolve(fs.Args())
	if err != nil {
		return fmt.Errorf("%w%s", err, hints.ForUnknownReport(reports.Names()))
	}
	def := defs[0]

	c := newConsole(env, false)
	fmt.Fprintf(env.Stdout, "%s figures in %s\n", c.bold.Sprint(def.Name), imageDir)

	var missing int
	for _, file := range requiredFigures(def) {
		if fileutil.FileExists(filepath.Join(imageDir, file)) {
			fmt.Fprintf(env.Stdout, "  %s  %s\n", c.ok.Sprint("found  "), file)
			continue
		}
		missing++
		fmt.Fprintf(env.Stdout, "  %s  %s\n", c.warn.Sprint("missing"), file)
	}

	if missing > 0 {
		return fmt.Errorf("%w: %d for %s%s", ErrMissingFigures, missing, def.Name,
			hints.ForMissingFigures(def.Notebook, imageDir))
	}
	return nil
}

// requiredFigures lists RequiredFiles followed by any body figure not in it.
func requiredFigures(def *reports.Definition) []string {
	files := slices.Clone(def.RequiredFiles)
	for _, f := range def.Figures() {
		if !slices.Contains(files, f) {
			files = append(files, f)
		}
	}
	return files
}
