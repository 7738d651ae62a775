package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// console writes user-facing status lines. Concurrent jobs print whole
// blocks so their lines never interleave.
type console struct {
	mu    sync.Mutex
	out   io.Writer
	err   io.Writer
	quiet bool

	ok   *color.Color
	warn *color.Color
	fail *color.Color
	bold *color.Color
}

func newConsole(env *Environment, quiet bool) *console {
	c := &console{
		out:   env.Stdout,
		err:   env.Stderr,
		quiet: quiet,
		ok:    color.New(color.FgGreen, color.Bold),
		warn:  color.New(color.FgYellow),
		fail:  color.New(color.FgRed, color.Bold),
		bold:  color.New(color.Bold),
	}
	enabled := env.colorEnabled()
	for _, col := range []*color.Color{c.ok, c.warn, c.fail, c.bold} {
		if enabled {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return c
}

// statusf prints one progress line unless quiet.
func (c *console) statusf(format string, args ...any) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format+"\n", args...)
}

// block prints lines atomically to stdout unless quiet.
func (c *console) block(lines ...string) {
	if c.quiet || len(lines) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, strings.Join(lines, "\n"))
}

// errorBlock prints lines atomically to stderr, even when quiet.
func (c *console) errorBlock(lines ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.err, strings.Join(lines, "\n"))
}
