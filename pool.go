package reportpdf

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing.
const (
	MinPoolSize = 1
	// MaxPoolSize caps concurrent browsers, roughly 200 MB each.
	MaxPoolSize = 8
	cpuDivisor  = 2
)

// ConverterPool hands out Converters, each with its own browser, so
// reports render in parallel. Converters are created on first demand.
type ConverterPool struct {
	size       int
	opts       []Option
	converters []*Converter
	idle       chan *Converter
	mu         sync.Mutex
	created    int
	closed     bool

	newConverter func(...Option) (*Converter, error)
}

// NewConverterPool returns a pool of at most n converters built with opts.
// n below 1 is raised to 1.
func NewConverterPool(n int, opts ...Option) *ConverterPool {
	if n < MinPoolSize {
		n = MinPoolSize
	}
	return &ConverterPool{
		size:         n,
		opts:         opts,
		converters:   make([]*Converter, 0, n),
		idle:         make(chan *Converter, n),
		newConverter: NewConverter,
	}
}

// Acquire returns an idle converter, creates one while under capacity, or
// blocks until one is released. A failed creation frees its slot.
func (p *ConverterPool) Acquire() (*Converter, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	p.mu.Unlock()

	select {
	case c, ok := <-p.idle:
		return p.checkIdle(c, ok)
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		c, err := p.newConverter(p.opts...)

		p.mu.Lock()
		defer p.mu.Unlock()
		if err != nil {
			p.created--
			return nil, err
		}
		if p.closed {
			_ = c.Close()
			return nil, ErrPoolClosed
		}
		p.converters = append(p.converters, c)
		return c, nil
	}
	p.mu.Unlock()

	c, ok := <-p.idle
	return p.checkIdle(c, ok)
}

// checkIdle rejects a converter received from idle once the pool is closed.
// A closed buffered channel still yields its queued converters, and Close
// has already shut those down.
func (p *ConverterPool) checkIdle(c *Converter, ok bool) (*Converter, error) {
	if !ok {
		return nil, ErrPoolClosed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrPoolClosed
	}
	return c, nil
}

// Release puts c back. The idle channel holds every created converter, so
// the send never blocks and can happen under the lock.
func (p *ConverterPool) Release(c *Converter) {
	if c == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.idle <- c
}

// Close shuts down every converter the pool created and joins their errors.
// It is safe to call more than once.
func (p *ConverterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.idle)
	for range p.idle {
	}
	converters := p.converters
	p.converters = nil
	p.mu.Unlock()

	var errs []error
	for _, c := range converters {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size is the pool capacity.
func (p *ConverterPool) Size() int {
	return p.size
}

// ResolvePoolSize returns workers when positive, otherwise GOMAXPROCS/2
// clamped to [MinPoolSize, MaxPoolSize]. GOMAXPROCS follows the container
// CPU quota once automaxprocs has run.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	return min(max(n, MinPoolSize), MaxPoolSize)
}
