package queue

import (
	"reflect"
	"testing"
	"time"
)

func TestTryPush_RespectsCapacity(t *testing.T) {
	q := New(1)
	if !q.TryPush([]byte("a")) {
		t.Fatal("expected first push to succeed")
	}
	if q.TryPush([]byte("b")) {
		t.Fatal("expected second push to be dropped at capacity 1")
	}
	if q.Size() != 1 {
		t.Fatalf("expected size 1, got %d", q.Size())
	}
}

func TestTryPush_AlwaysFalseAfterClose(t *testing.T) {
	q := New(4)
	q.Close()
	if q.TryPush([]byte("x")) {
		t.Fatal("expected push on closed queue to fail")
	}
	// Idempotent close.
	q.Close()
	if q.TryPush([]byte("y")) {
		t.Fatal("expected push on closed queue to fail after double close")
	}
}

func TestPopBatch_PreservesFIFOOrder(t *testing.T) {
	q := New(10)
	want := [][]byte{[]byte("1"), []byte("2"), []byte("3")}
	for _, w := range want {
		if !q.TryPush(w) {
			t.Fatalf("push %q failed", w)
		}
	}

	got := q.PopBatch(10)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPopBatch_CapsAtMax(t *testing.T) {
	q := New(10)
	for i := 0; i < 5; i++ {
		q.TryPush([]byte{byte(i)})
	}
	got := q.PopBatch(2)
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if q.Size() != 3 {
		t.Fatalf("expected 3 remaining, got %d", q.Size())
	}
}

func TestPopBatch_BlocksUntilPush(t *testing.T) {
	q := New(4)
	done := make(chan [][]byte)
	go func() {
		done <- q.PopBatch(10)
	}()

	select {
	case <-done:
		t.Fatal("PopBatch returned before any push")
	case <-time.After(50 * time.Millisecond):
	}

	q.TryPush([]byte("late"))

	select {
	case got := <-done:
		if len(got) != 1 || string(got[0]) != "late" {
			t.Fatalf("unexpected batch: %v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("PopBatch never returned after push")
	}
}

func TestPopBatch_ReturnsEmptyOnCloseWhenEmpty(t *testing.T) {
	q := New(4)
	done := make(chan [][]byte)
	go func() {
		done <- q.PopBatch(10)
	}()

	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case got := <-done:
		if len(got) != 0 {
			t.Fatalf("expected empty batch on close, got %v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("PopBatch never returned after close")
	}
}

func TestPopBatchFor_TimesOutEmpty(t *testing.T) {
	q := New(4)
	start := time.Now()
	got := q.PopBatchFor(10, 30*time.Millisecond)
	elapsed := time.Since(start)

	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
	if elapsed < 25*time.Millisecond {
		t.Fatalf("returned too early: %v", elapsed)
	}
	if elapsed > 500*time.Millisecond {
		t.Fatalf("returned too late: %v", elapsed)
	}
}

func TestPopBatchFor_ReturnsImmediatelyWhenNonEmpty(t *testing.T) {
	q := New(4)
	q.TryPush([]byte("x"))

	start := time.Now()
	got := q.PopBatchFor(10, time.Second)
	elapsed := time.Since(start)

	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %v", got)
	}
	if elapsed > 200*time.Millisecond {
		t.Fatalf("took too long to return available data: %v", elapsed)
	}
}

func TestPopBatchFor_ReturnsPromptlyOnEmptyClose(t *testing.T) {
	q := New(4)
	q.Close()

	start := time.Now()
	got := q.PopBatchFor(10, time.Second)
	elapsed := time.Since(start)

	if len(got) != 0 {
		t.Fatalf("expected empty result on closed queue, got %v", got)
	}
	if elapsed > 100*time.Millisecond {
		t.Fatalf("expected prompt return on closed+empty, took %v", elapsed)
	}
}

func TestSize_NeverExceedsCapacity(t *testing.T) {
	q := New(3)
	for i := 0; i < 10; i++ {
		q.TryPush([]byte{byte(i)})
		if q.Size() > q.Capacity() {
			t.Fatalf("size %d exceeded capacity %d", q.Size(), q.Capacity())
		}
	}
}

func TestDrainOnClose_NoLineLost(t *testing.T) {
	q := New(100)
	for i := 0; i < 50; i++ {
		if !q.TryPush([]byte{byte(i)}) {
			t.Fatalf("push %d unexpectedly dropped", i)
		}
	}
	q.Close()

	var drained [][]byte
	for {
		batch := q.PopBatchFor(16, 10*time.Millisecond)
		if len(batch) == 0 {
			break
		}
		drained = append(drained, batch...)
	}

	if len(drained) != 50 {
		t.Fatalf("expected all 50 items drained, got %d", len(drained))
	}
	if q.Size() != 0 {
		t.Fatalf("expected empty queue after drain, got size %d", q.Size())
	}
	for i, item := range drained {
		if item[0] != byte(i) {
			t.Fatalf("order violated at index %d: got %d", i, item[0])
		}
	}
}
