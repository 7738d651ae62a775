package main

import (
	"io"
	"os"
	"strconv"
	"time"

	"golang.org/x/term"

	reportpdf "github.com/alnah/go-reportpdf"
)

// defaultWidth is used when the terminal width cannot be detected.
const defaultWidth = 80

// Environment holds injectable dependencies for testability.
// Includes I/O, time, process environment and the converter pool factory.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string
	Stat    func(string) (os.FileInfo, error)
	NewPool func(size int, opts ...reportpdf.Option) Pool
	IsTTY   bool // stdout is a terminal
	Width   int  // stdout columns, 0 when unknown
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	fd := int(os.Stdout.Fd()) // #nosec G115 -- file descriptors fit in int
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		Stat:    os.Stat,
		NewPool: newConverterPool,
		IsTTY:   term.IsTerminal(fd),
		Width:   terminalWidth(fd, os.Getenv),
	}
}

// terminalWidth asks the terminal first and falls back to $COLUMNS.
func terminalWidth(fd int, getenv func(string) string) int {
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if cols, err := strconv.Atoi(getenv("COLUMNS")); err == nil && cols > 0 {
		return cols
	}
	return 0
}

// width returns the output width for wrapped text.
func (e *Environment) width() int {
	if e.Width > 0 {
		return e.Width
	}
	return defaultWidth
}

// colorEnabled reports whether status lines may carry ANSI colors.
func (e *Environment) colorEnabled() bool {
	return e.IsTTY && e.Getenv("REPORTPDF_NO_COLOR") == "" && e.Getenv("NO_COLOR") == ""
}
