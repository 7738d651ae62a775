package reportpdf

// Notes:
// - Pools under test build converters with a mock PDF backend so no browser
//   is launched. The creation hook is swapped before the first Acquire.

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var _ interface {
	Acquire() (*Converter, error)
	Release(*Converter)
	Size() int
	Close() error
} = (*ConverterPool)(nil)

// newMockPool returns a pool whose converters use mock PDF backends, and a
// counter of how many converters were created.
func newMockPool(t *testing.T, n int) (*ConverterPool, *atomic.Int32) {
	t.Helper()

	var created atomic.Int32
	p := NewConverterPool(n)
	p.newConverter = func(opts ...Option) (*Converter, error) {
		created.Add(1)
		return NewConverter(append(opts, withPDFConverter(&mockPDFConverter{}))...)
	}
	return p, &created
}

func mustAcquire(t *testing.T, p *ConverterPool) *Converter {
	t.Helper()

	c, err := p.Acquire()
	if err != nil {
		t.Fatalf("Acquire() unexpected error: %v", err)
	}
	if c == nil {
		t.Fatal("Acquire() returned nil")
	}
	return c
}

// ---------------------------------------------------------------------------
// ResolvePoolSize
// ---------------------------------------------------------------------------

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	auto := min(max(runtime.GOMAXPROCS(0)/cpuDivisor, MinPoolSize), MaxPoolSize)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{name: "explicit wins", workers: 4, want: 4},
		{name: "sequential", workers: 1, want: 1},
		{name: "explicit may exceed max", workers: 16, want: 16},
		{name: "zero is automatic", workers: 0, want: auto},
		{name: "negative is automatic", workers: -5, want: auto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolvePoolSize(tt.workers); got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}

	if auto < MinPoolSize || auto > MaxPoolSize {
		t.Errorf("automatic size %d outside [%d, %d]", auto, MinPoolSize, MaxPoolSize)
	}
}

// ---------------------------------------------------------------------------
// ConverterPool
// ---------------------------------------------------------------------------

func TestConverterPool_Size(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size int
		want int
	}{
		{"size 1", 1, 1},
		{"size 4", 4, 4},
		{"zero becomes 1", 0, 1},
		{"negative becomes 1", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewConverterPool(tt.size)
			defer p.Close()

			if got := p.Size(); got != tt.want {
				t.Errorf("Size() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConverterPool_LazyCreationAndReuse(t *testing.T) {
	t.Parallel()

	p, created := newMockPool(t, 3)
	defer p.Close()

	if created.Load() != 0 {
		t.Fatalf("created %d converters before Acquire", created.Load())
	}

	c1 := mustAcquire(t, p)
	p.Release(c1)
	c2 := mustAcquire(t, p)
	if c2 != c1 {
		t.Error("released converter was not reused")
	}
	if created.Load() != 1 {
		t.Errorf("created = %d, want 1", created.Load())
	}
	p.Release(c2)
}

func TestConverterPool_DistinctUpToCapacity(t *testing.T) {
	t.Parallel()

	p, created := newMockPool(t, 3)
	defer p.Close()

	seen := make(map[*Converter]bool)
	for range 3 {
		c := mustAcquire(t, p)
		if seen[c] {
			t.Error("got the same converter twice while all were in use")
		}
		seen[c] = true
	}
	if created.Load() != 3 {
		t.Errorf("created = %d, want 3", created.Load())
	}
	for c := range seen {
		p.Release(c)
	}
}

func TestConverterPool_AcquireBlocksAtCapacity(t *testing.T) {
	t.Parallel()

	p, _ := newMockPool(t, 1)
	defer p.Close()

	c := mustAcquire(t, p)

	got := make(chan *Converter, 1)
	go func() {
		c2, err := p.Acquire()
		if err != nil {
			return
		}
		got <- c2
	}()

	select {
	case <-got:
		t.Fatal("Acquire() returned while the only converter was in use")
	case <-time.After(50 * time.Millisecond):
	}

	p.Release(c)

	select {
	case c2 := <-got:
		if c2 != c {
			t.Error("waiter did not receive the released converter")
		}
		p.Release(c2)
	case <-time.After(5 * time.Second):
		t.Fatal("waiter never woke up")
	}
}

func TestConverterPool_FailedCreationFreesSlot(t *testing.T) {
	t.Parallel()

	boom := errors.New("no browser")
	var calls atomic.Int32
	p := NewConverterPool(1)
	defer p.Close()
	p.newConverter = func(opts ...Option) (*Converter, error) {
		if calls.Add(1) == 1 {
			return nil, boom
		}
		return NewConverter(append(opts, withPDFConverter(&mockPDFConverter{}))...)
	}

	if _, err := p.Acquire(); !errors.Is(err, boom) {
		t.Fatalf("first Acquire() error = %v, want %v", err, boom)
	}
	c := mustAcquire(t, p)
	p.Release(c)
}

func TestConverterPool_Close(t *testing.T) {
	t.Parallel()

	t.Run("closes created converters", func(t *testing.T) {
		t.Parallel()

		p := NewConverterPool(2)
		var mocks []*mockPDFConverter
		p.newConverter = func(opts ...Option) (*Converter, error) {
			m := &mockPDFConverter{}
			mocks = append(mocks, m)
			return NewConverter(append(opts, withPDFConverter(m))...)
		}

		c1 := mustAcquire(t, p)
		c2 := mustAcquire(t, p)
		p.Release(c1)
		p.Release(c2)

		if err := p.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		for i, m := range mocks {
			if !m.closed {
				t.Errorf("converter %d not closed", i)
			}
		}
	})

	t.Run("joins close errors", func(t *testing.T) {
		t.Parallel()

		closeErr := errors.New("kill failed")
		p := NewConverterPool(1)
		p.newConverter = func(opts ...Option) (*Converter, error) {
			return NewConverter(append(opts, withPDFConverter(&mockPDFConverter{closeErr: closeErr}))...)
		}
		p.Release(mustAcquire(t, p))

		if err := p.Close(); !errors.Is(err, closeErr) {
			t.Errorf("Close() error = %v, want %v", err, closeErr)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()

		p := NewConverterPool(1)
		if err := p.Close(); err != nil {
			t.Errorf("first Close() = %v", err)
		}
		if err := p.Close(); err != nil {
			t.Errorf("second Close() = %v", err)
		}
	})

	t.Run("acquire after close", func(t *testing.T) {
		t.Parallel()

		p, _ := newMockPool(t, 2)
		_ = p.Close()
		if _, err := p.Acquire(); !errors.Is(err, ErrPoolClosed) {
			t.Errorf("Acquire() error = %v, want ErrPoolClosed", err)
		}
	})

	t.Run("released converter not handed out after close", func(t *testing.T) {
		t.Parallel()

		p, _ := newMockPool(t, 2)
		c := mustAcquire(t, p)
		p.Release(c)
		_ = p.Close()

		got, err := p.Acquire()
		if got != nil || !errors.Is(err, ErrPoolClosed) {
			t.Errorf("Acquire() = %p, %v; want nil, ErrPoolClosed", got, err)
		}
	})

	t.Run("release after close and nil release", func(t *testing.T) {
		t.Parallel()

		p, _ := newMockPool(t, 1)
		c := mustAcquire(t, p)
		p.Release(nil)
		_ = p.Close()
		p.Release(c)
	})

	t.Run("close wakes blocked waiter", func(t *testing.T) {
		t.Parallel()

		p, _ := newMockPool(t, 1)
		_ = mustAcquire(t, p)

		errc := make(chan error, 1)
		go func() {
			_, err := p.Acquire()
			errc <- err
		}()
		time.Sleep(20 * time.Millisecond)
		_ = p.Close()

		select {
		case err := <-errc:
			if !errors.Is(err, ErrPoolClosed) {
				t.Errorf("Acquire() error = %v, want ErrPoolClosed", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("blocked Acquire() not released by Close()")
		}
	})
}

// TestConverterPool_HighContention runs many acquire/release cycles through a
// small pool; it fails by timing out if a slot is ever lost.
func TestConverterPool_HighContention(t *testing.T) {
	t.Parallel()

	p, created := newMockPool(t, 2)
	defer p.Close()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 10 {
				c, err := p.Acquire()
				if err != nil {
					t.Errorf("Acquire() error = %v", err)
					return
				}
				time.Sleep(time.Duration(j%3) * time.Millisecond)
				p.Release(c)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("high contention test timed out, possible deadlock")
	}

	if n := created.Load(); n > 2 {
		t.Errorf("created %d converters for a pool of 2", n)
	}
}
