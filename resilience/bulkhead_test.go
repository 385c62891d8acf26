package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewBulkhead_Default(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{})

	if b.config.MaxConcurrent != 10 {
		t.Errorf("MaxConcurrent = %d, want 10", b.config.MaxConcurrent)
	}
}

func TestBulkhead_AcquireRelease(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 2})

	if err := b.Acquire(context.Background()); err != nil {
		t.Errorf("first Acquire() error = %v", err)
	}
	if err := b.Acquire(context.Background()); err != nil {
		t.Errorf("second Acquire() error = %v", err)
	}

	// No slots left and no MaxWait, so the third call is rejected
	// outright.
	if err := b.Acquire(context.Background()); !errors.Is(err, ErrBulkheadFull) {
		t.Errorf("third Acquire() error = %v, want ErrBulkheadFull", err)
	}

	b.Release()

	if err := b.Acquire(context.Background()); err != nil {
		t.Errorf("Acquire after Release error = %v", err)
	}
}

func TestBulkhead_WaitsForSlot(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		MaxConcurrent: 1,
		MaxWait:       100 * time.Millisecond,
	})

	if err := b.Acquire(context.Background()); err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		b.Release()
	}()

	if err := b.Acquire(context.Background()); err != nil {
		t.Errorf("waiting Acquire() error = %v", err)
	}
}

func TestBulkhead_WaitExpires(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		MaxConcurrent: 1,
		MaxWait:       10 * time.Millisecond,
	})

	if err := b.Acquire(context.Background()); err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}

	if err := b.Acquire(context.Background()); !errors.Is(err, ErrBulkheadFull) {
		t.Errorf("waiting Acquire() error = %v, want ErrBulkheadFull", err)
	}
}

func TestBulkhead_CallerCancelWhileWaiting(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		MaxConcurrent: 1,
		MaxWait:       time.Second,
	})

	if err := b.Acquire(context.Background()); err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	if err := b.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Acquire() error = %v, want context.Canceled", err)
	}
}

func TestBulkhead_Execute(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1})

	ran := false
	err := b.Execute(context.Background(), func(ctx context.Context) error {
		ran = true
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if !ran {
		t.Error("call did not run")
	}
}

func TestBulkhead_ExecuteWhenFull(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1})

	if err := b.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	err := b.Execute(context.Background(), func(ctx context.Context) error {
		return nil
	})

	if !errors.Is(err, ErrBulkheadFull) {
		t.Errorf("Execute() error = %v, want ErrBulkheadFull", err)
	}
}

func TestBulkhead_CapsConcurrency(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 5})

	var (
		wg      sync.WaitGroup
		peak    int32
		current int32
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := b.Execute(context.Background(), func(ctx context.Context) error {
				curr := atomic.AddInt32(&current, 1)
				defer atomic.AddInt32(&current, -1)

				for {
					p := atomic.LoadInt32(&peak)
					if curr <= p || atomic.CompareAndSwapInt32(&peak, p, curr) {
						break
					}
				}

				time.Sleep(10 * time.Millisecond)
				return nil
			})

			if err != nil && !errors.Is(err, ErrBulkheadFull) {
				t.Errorf("Execute() error = %v", err)
			}
		}()
	}

	wg.Wait()

	if p := atomic.LoadInt32(&peak); p > 5 {
		t.Errorf("peak concurrency = %d, want <= 5", p)
	}
}

func TestBulkhead_Metrics(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 3})

	_ = b.Acquire(context.Background())
	_ = b.Acquire(context.Background())

	m := b.Metrics()
	if m.Active != 2 {
		t.Errorf("Metrics.Active = %d, want 2", m.Active)
	}
	if m.MaxActive != 2 {
		t.Errorf("Metrics.MaxActive = %d, want 2", m.MaxActive)
	}
	if m.Available != 1 {
		t.Errorf("Metrics.Available = %d, want 1", m.Available)
	}
	if m.MaxConcurrent != 3 {
		t.Errorf("Metrics.MaxConcurrent = %d, want 3", m.MaxConcurrent)
	}
}

func TestBulkhead_MetricsCountRejections(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1})

	_ = b.Acquire(context.Background())
	_ = b.Acquire(context.Background())
	_ = b.Acquire(context.Background())

	if m := b.Metrics(); m.Rejected != 2 {
		t.Errorf("Metrics.Rejected = %d, want 2", m.Rejected)
	}
}
