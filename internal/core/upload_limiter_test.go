package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestUploadLimiter_AcquireRelease(t *testing.T) {
	l := NewUploadLimiter(2, time.Second)
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		if err := l.Acquire(ctx); err != nil {
			t.Fatalf("Acquire #%d: %v", i, err)
		}
		if got := l.ActiveCount(); got != i {
			t.Errorf("ActiveCount = %d, want %d", got, i)
		}
	}
	if got := l.Available(); got != 0 {
		t.Errorf("Available = %d, want 0", got)
	}

	l.Release()
	l.Release()
	if st := l.Status(); st.Active != 0 || st.Available != 2 || st.MaxConcurrent != 2 {
		t.Errorf("Status = %+v, want idle with 2 slots", st)
	}
}

func TestUploadLimiter_TimesOutWhenFull(t *testing.T) {
	l := NewUploadLimiter(1, 50*time.Millisecond)
	if !l.TryAcquire() {
		t.Fatal("TryAcquire on empty limiter should succeed")
	}
	defer l.Release()

	if l.TryAcquire() {
		t.Fatal("TryAcquire on full limiter should fail")
	}

	err := l.Acquire(context.Background())
	if !errors.Is(err, ErrTooManyUploads) {
		t.Errorf("Acquire err = %v, want ErrTooManyUploads", err)
	}
}

func TestUploadLimiter_ContextCancellation(t *testing.T) {
	l := NewUploadLimiter(1, 5*time.Second)
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer l.Release()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Acquire(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after cancel")
	}
}

func TestUploadLimiter_NeverExceedsMax(t *testing.T) {
	const max = 3
	l := NewUploadLimiter(max, time.Second)

	var wg sync.WaitGroup
	var peak atomic.Int32
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire: %v", err)
				return
			}
			defer l.Release()

			if n := int32(l.ActiveCount()); n > peak.Load() {
				peak.Store(n)
			}
			time.Sleep(5 * time.Millisecond)
		}()
	}
	wg.Wait()

	if p := peak.Load(); p > max {
		t.Errorf("peak active = %d, want <= %d", p, max)
	}
	if got := l.ActiveCount(); got != 0 {
		t.Errorf("final ActiveCount = %d, want 0", got)
	}
}

func TestUploadLimiter_WaitForDrain(t *testing.T) {
	l := NewUploadLimiter(2, time.Second)

	if err := l.WaitForDrain(context.Background()); err != nil {
		t.Fatalf("idle limiter should drain immediately: %v", err)
	}

	l.TryAcquire()
	l.TryAcquire()

	done := make(chan error, 1)
	go func() { done <- l.WaitForDrain(context.Background()) }()

	l.Release()
	select {
	case <-done:
		t.Fatal("WaitForDrain returned with one upload active")
	case <-time.After(30 * time.Millisecond):
	}

	l.Release()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WaitForDrain: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitForDrain did not return after last release")
	}
}

func TestUploadLimiter_WaitForDrainDeadline(t *testing.T) {
	l := NewUploadLimiter(1, time.Second)
	l.TryAcquire()
	defer l.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.WaitForDrain(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}
}

func TestUploadLimiter_Defaults(t *testing.T) {
	l := NewUploadLimiter(0, 0)
	if got := l.MaxConcurrent(); got != DefaultMaxConcurrentUploads {
		t.Errorf("MaxConcurrent = %d, want %d", got, DefaultMaxConcurrentUploads)
	}
}
