package kernel

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestDrainRunsInOrder(t *testing.T) {
	d := NewDispatcher(nil)
	var got []int
	for i := 0; i < 40; i++ {
		i := i
		if !d.Post(func() { got = append(got, i) }) {
			t.Fatalf("post %d rejected", i)
		}
	}
	if d.Pending() != 40 {
		t.Fatalf("expected 40 pending, got %d", d.Pending())
	}
	if n := d.Drain(); n != 40 {
		t.Fatalf("expected 40 callbacks, got %d", n)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("out of order at %d: %v", i, got)
		}
	}
	if d.Drain() != 0 {
		t.Fatal("expected empty queue")
	}
}

func TestDrainRunsCallbacksPostedWhileDraining(t *testing.T) {
	d := NewDispatcher(nil)
	var order []string
	d.Post(func() {
		order = append(order, "first")
		d.Post(func() { order = append(order, "nested") })
	})
	d.Post(func() { order = append(order, "second") })

	if n := d.Drain(); n != 3 {
		t.Fatalf("expected 3 callbacks, got %d", n)
	}
	want := "first,second,nested"
	if strings.Join(order, ",") != want {
		t.Fatalf("expected %s, got %v", want, order)
	}
}

func TestPostFromManyGoroutines(t *testing.T) {
	d := NewDispatcher(nil)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				d.Post(func() {})
			}
		}()
	}
	wg.Wait()
	if n := d.Drain(); n != 800 {
		t.Fatalf("expected 800 callbacks, got %d", n)
	}
}

func TestDrainContainsPanics(t *testing.T) {
	var buf bytes.Buffer
	d := NewDispatcher(slog.New(slog.NewTextHandler(&buf, nil)))
	ran := false
	d.Post(func() { panic("boom") })
	d.Post(func() { ran = true })

	if n := d.Drain(); n != 2 {
		t.Fatalf("expected both callbacks counted, got %d", n)
	}
	if !ran {
		t.Fatal("callback after a panic did not run")
	}
	if !strings.Contains(buf.String(), "kernel.dispatch.panic") {
		t.Fatalf("expected panic to be logged, got %q", buf.String())
	}
}

func TestCloseRejectsPosts(t *testing.T) {
	d := NewDispatcher(nil)
	ran := false
	d.Post(func() { ran = true })
	d.Close()
	if d.Post(func() {}) {
		t.Fatal("expected post after close to be rejected")
	}
	if d.Drain() != 0 || ran {
		t.Fatal("expected queued callbacks to be discarded on close")
	}
	if d.Post(nil) {
		t.Fatal("nil callbacks must be rejected")
	}
}

func TestCapture(t *testing.T) {
	info, panicked := Capture("frame", func() { panic("bad frame") })
	if !panicked || info.Value != "bad frame" || info.Source != "frame" || len(info.Stack) == 0 {
		t.Fatalf("unexpected capture: %+v (panicked=%v)", info, panicked)
	}
	if _, panicked := Capture("frame", func() {}); panicked {
		t.Fatal("expected no panic")
	}
}
