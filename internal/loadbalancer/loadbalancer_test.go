package loadbalancer

import (
	"testing"
	"time"
)

func TestGetWorkCoversWholeRangeMonotonically(t *testing.T) {
	lb := New(2, 1_000_000, 2, 1<<23, 1<<25, 1000)
	var prevHigh uint64 = 2
	for {
		w := lb.GetWork()
		if w.Done {
			break
		}
		if w.Low != prevHigh {
			t.Fatalf("gap: expected Low=%d, got %d", prevHigh, w.Low)
		}
		if w.High < w.Low {
			t.Fatalf("High %d < Low %d", w.High, w.Low)
		}
		if w.High > 1_000_000 {
			t.Fatalf("High %d exceeds z", w.High)
		}
		prevHigh = w.High
		lb.Report(5*time.Second, int64(w.High-w.Low))
	}
	if prevHigh != 1_000_000 {
		t.Errorf("final High = %d, want z = 1000000", prevHigh)
	}
}

func TestDoneSentinelIsSticky(t *testing.T) {
	lb := New(2, 100, 1, 1<<23, 1<<23, 0)
	_ = lb.GetWork()
	if !lb.Done() {
		t.Fatal("expected Done() after consuming entire range")
	}
	for i := 0; i < 3; i++ {
		w := lb.GetWork()
		if !w.Done {
			t.Fatalf("call %d: expected terminal sentinel", i)
		}
	}
}

func TestShrinkNeverGoesBelowFloor(t *testing.T) {
	lb := New(2, 1<<40, 8, 1<<24, 1<<30, 1)
	for i := 0; i < 20; i++ {
		lb.Report(120*time.Second, 0)
		if lb.SegmentSize() < MinSegmentSize {
			t.Fatalf("segment size %d fell below floor %d", lb.SegmentSize(), MinSegmentSize)
		}
		if lb.Segments() < 1 {
			t.Fatalf("segments %d fell below 1", lb.Segments())
		}
	}
}

func TestSegmentSizeAlwaysMultipleOf128(t *testing.T) {
	lb := New(2, 1<<40, 1, 1<<23, 1<<34, 1)
	check := func() {
		if lb.SegmentSize()%128 != 0 {
			t.Fatalf("segment size %d is not a multiple of 128", lb.SegmentSize())
		}
	}
	check()
	for i := 0; i < 10; i++ {
		lb.Report(1*time.Second, 1000)
		check()
	}
	for i := 0; i < 10; i++ {
		lb.Report(120*time.Second, 0)
		check()
	}
}

func TestGrowNeverExceedsMaxSize(t *testing.T) {
	lb := New(2, 1<<50, 1, 1<<23, 1<<26, 1_000_000_000)
	for i := 0; i < 20; i++ {
		lb.Report(1*time.Second, 0)
		if lb.SegmentSize()*uint64(lb.Segments()) > (1<<26)*2 {
			// allow the doubled-segments phase to momentarily exceed
			// maxSize by less than one more doubling of segment_size,
			// but segment_size itself must never exceed maxSize.
		}
		if lb.SegmentSize() > uint64(1)<<26 {
			t.Fatalf("segment size %d exceeds maxSize", lb.SegmentSize())
		}
	}
}

func TestLowNeverDecreases(t *testing.T) {
	lb := New(2, 10_000_000, 4, 1<<23, 1<<28, 5_000_000)
	prev := lb.Low()
	for i := 0; i < 50; i++ {
		w := lb.GetWork()
		if w.Done {
			break
		}
		now := lb.Low()
		if now < prev {
			t.Fatalf("low decreased: %d -> %d", prev, now)
		}
		prev = now
		elapsed := time.Duration(i%3) * 30 * time.Second
		lb.Report(elapsed, int64(w.High-w.Low))
	}
}
