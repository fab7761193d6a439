package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSlotKey(t *testing.T) {
	est := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	staff := uuid.MustParse("00000000-0000-0000-0000-000000000007")

	got := SlotKey(est, "2024-06-01", "09:00:00", staff)
	want := "lock:slot:00000000-0000-0000-0000-000000000001:2024-06-01:09:00:00:00000000-0000-0000-0000-000000000007"
	if got != want {
		t.Errorf("SlotKey = %q, want %q", got, want)
	}
}

func TestLocal_SerializesSameKey(t *testing.T) {
	l := NewLocal()
	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.WithLock(context.Background(), "k", func(context.Context) error {
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxInside)
					if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	if maxInside != 1 {
		t.Errorf("max concurrent holders = %d, want 1", maxInside)
	}
	if len(l.locks) != 0 {
		t.Errorf("expected lock table to be empty, got %d entries", len(l.locks))
	}
}

func TestLocal_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	err := NewLocal().WithLock(context.Background(), "k", func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}
