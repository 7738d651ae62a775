package main

// Notes:
// - Shared fakes for command tests. No test here launches a browser: the
//   pool factory in testEnv hands out mockConverter instances.

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	reportpdf "github.com/alnah/go-reportpdf"
)

// noFiles is a stat that finds nothing, so host files such as /.dockerenv
// do not leak into command tests.
func noFiles(name string) (os.FileInfo, error) {
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

// testDay is the fixed clock of every command test.
var testDay = time.Date(2025, 10, 17, 9, 30, 0, 0, time.UTC)

// ---------------------------------------------------------------------------
// mockConverter
// ---------------------------------------------------------------------------

// mockConverter records inputs and answers with a fixed PDF, or with the
// error registered for the input's title.
type mockConverter struct {
	mu     sync.Mutex
	inputs []reportpdf.Input
	errFor map[string]error
	delay  time.Duration

	running    atomic.Int32
	maxRunning atomic.Int32
}

func (m *mockConverter) Convert(ctx context.Context, input reportpdf.Input) (*reportpdf.ConvertResult, error) {
	n := m.running.Add(1)
	defer m.running.Add(-1)
	for {
		cur := m.maxRunning.Load()
		if n <= cur || m.maxRunning.CompareAndSwap(cur, n) {
			break
		}
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	m.mu.Lock()
	m.inputs = append(m.inputs, input)
	err := m.errFor[input.Title]
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	res := &reportpdf.ConvertResult{HTML: []byte("<html><body>" + input.Title + "</body></html>")}
	if !input.HTMLOnly {
		res.PDF = []byte("%PDF-1.7 mock")
	}
	return res, nil
}

// inputByTitle returns the recorded input whose Title contains sub.
func (m *mockConverter) inputByTitle(t *testing.T, sub string) reportpdf.Input {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, in := range m.inputs {
		if strings.Contains(in.Title, sub) {
			return in
		}
	}
	t.Fatalf("no conversion with title containing %q", sub)
	return reportpdf.Input{}
}

// ---------------------------------------------------------------------------
// mockPool
// ---------------------------------------------------------------------------

type mockPool struct {
	conv       *mockConverter
	size       int
	acquireErr error
	closed     atomic.Bool
	opts       int
}

func (p *mockPool) Acquire() (CLIConverter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	return p.conv, nil
}

func (p *mockPool) Release(CLIConverter) {}
func (p *mockPool) Size() int           { return p.size }

func (p *mockPool) Close() error {
	p.closed.Store(true)
	return nil
}

// ---------------------------------------------------------------------------
// testEnv
// ---------------------------------------------------------------------------

type testHarness struct {
	env    *Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	conv   *mockConverter
	pool   *mockPool
	vars   map[string]string
}

// newTestHarness returns an environment with a fixed clock, captured output,
// the given variables and a mock pool.
func newTestHarness(t *testing.T, vars map[string]string) *testHarness {
	t.Helper()

	if vars == nil {
		vars = map[string]string{}
	}
	h := &testHarness{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		conv:   &mockConverter{errFor: map[string]error{}},
		vars:   vars,
	}
	h.pool = &mockPool{conv: h.conv}
	h.env = &Environment{
		Now:    func() time.Time { return testDay },
		Stdout: h.stdout,
		Stderr: h.stderr,
		Getenv: func(k string) string { return vars[k] },
		Stat:   noFiles,
		Environ: func() []string {
			kv := make([]string, 0, len(vars))
			for k, v := range vars {
				kv = append(kv, k+"="+v)
			}
			sort.Strings(kv)
			return kv
		},
		NewPool: func(size int, opts ...reportpdf.Option) Pool {
			h.pool.size = size
			h.pool.opts = len(opts)
			return h.pool
		},
	}
	return h
}
