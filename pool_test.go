package txt2pdf

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"
)

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	if got := ResolvePoolSize(3); got != 3 {
		t.Errorf("ResolvePoolSize(3) = %d, want 3", got)
	}
	// Explicit values are not capped.
	if got := ResolvePoolSize(12); got != 12 {
		t.Errorf("ResolvePoolSize(12) = %d, want 12", got)
	}

	want := min(max(runtime.GOMAXPROCS(0)/cpuDivisor, MinPoolSize), MaxPoolSize)
	for _, n := range []int{0, -1} {
		if got := ResolvePoolSize(n); got != want {
			t.Errorf("ResolvePoolSize(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestNewExporterPool_MinimumSize(t *testing.T) {
	t.Parallel()

	p := NewExporterPool(0)
	defer p.Close()
	if p.Size() != 1 {
		t.Errorf("Size() = %d, want 1", p.Size())
	}
}

func TestExporterPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := NewExporterPool(2, WithRenderer(&mockRenderer{}))

	a, err := p.Acquire(ctx)
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.Acquire(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("two acquires returned the same exporter")
	}

	// Pool exhausted: a third acquire waits until ctx expires.
	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if _, err := p.Acquire(short); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Acquire on exhausted pool = %v, want DeadlineExceeded", err)
	}

	p.Release(a)
	c, err := p.Acquire(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if c != a {
		t.Error("released exporter was not reused")
	}

	p.Release(b)
	p.Release(c)
	if err := p.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if _, err := p.Acquire(ctx); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire after Close = %v, want ErrPoolClosed", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}

func TestExporterPool_AcquireWaitsForRelease(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := NewExporterPool(1, WithRenderer(&mockRenderer{}))
	defer p.Close()

	first, err := p.Acquire(ctx)
	if err != nil {
		t.Fatal(err)
	}

	got := make(chan *Exporter, 1)
	go func() {
		e, err := p.Acquire(ctx)
		if err != nil {
			got <- nil
			return
		}
		got <- e
	}()

	time.Sleep(10 * time.Millisecond)
	p.Release(first)

	select {
	case e := <-got:
		if e != first {
			t.Errorf("waiter got %p, want %p", e, first)
		}
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired the released exporter")
	}
}

func TestExporterPool_CreationError(t *testing.T) {
	t.Parallel()

	p := NewExporterPool(1, WithTheme("does-not-exist"))
	defer p.Close()

	if _, err := p.Acquire(context.Background()); !errors.Is(err, ErrThemeNotFound) {
		t.Fatalf("Acquire() = %v, want ErrThemeNotFound", err)
	}
	// The failed slot is given back.
	if p.created != 0 {
		t.Errorf("created = %d after failure, want 0", p.created)
	}
}

func TestExporterPool_ReleaseAfterClose(t *testing.T) {
	t.Parallel()

	p := NewExporterPool(1, WithRenderer(&mockRenderer{}))
	e, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	_ = p.Close()
	p.Release(e) // must not panic on the closed channel
}
