package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/voluhub/internal/app/system/storeerr"
)

func TestRun_TransientFailuresThenSuccess(t *testing.T) {
	calls := 0
	err := Run(context.Background(), 3, time.Millisecond, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return storeerr.New(storeerr.Unavailable, "server stepping down")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run returned %v, want nil", err)
	}
	if calls != 3 {
		t.Errorf("op invoked %d times, want 3", calls)
	}
}

func TestRun_PermanentFailureStopsImmediately(t *testing.T) {
	calls := 0
	want := storeerr.New(storeerr.PermissionDenied, "not the owner")
	err := Run(context.Background(), 3, time.Millisecond, func(ctx context.Context) error {
		calls++
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("Run returned %v, want %v", err, want)
	}
	if calls != 1 {
		t.Errorf("op invoked %d times, want 1", calls)
	}
}

func TestRun_ExhaustedReturnsLastError(t *testing.T) {
	calls := 0
	err := Run(context.Background(), 3, time.Millisecond, func(ctx context.Context) error {
		calls++
		return storeerr.New(storeerr.DeadlineExceeded, "still slow")
	})
	if calls != 3 {
		t.Errorf("op invoked %d times, want 3", calls)
	}
	if storeerr.ClassOf(err) != storeerr.DeadlineExceeded {
		t.Errorf("final error class = %v, want DeadlineExceeded", storeerr.ClassOf(err))
	}
}

func TestRun_ZeroValuesUseDefaults(t *testing.T) {
	calls := 0
	_ = Run(context.Background(), 0, time.Microsecond, func(ctx context.Context) error {
		calls++
		return storeerr.New(storeerr.Unavailable, "down")
	})
	if calls != DefaultAttempts {
		t.Errorf("op invoked %d times, want DefaultAttempts (%d)", calls, DefaultAttempts)
	}
}

func TestRun_ContextCancelDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := Run(ctx, 5, time.Second, func(ctx context.Context) error {
		calls++
		return storeerr.New(storeerr.Unavailable, "down")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("op invoked %d times, want 1", calls)
	}
}

func TestDo_ReturnsValue(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), 3, time.Millisecond, func(ctx context.Context) (int, error) {
		calls++
		if calls < 2 {
			return 0, storeerr.New(storeerr.ResourceExhausted, "throttled")
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("Do returned %v, want nil", err)
	}
	if got != 42 {
		t.Errorf("Do returned %d, want 42", got)
	}
}
