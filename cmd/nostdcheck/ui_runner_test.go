package main

import (
	"testing"
	"time"

	"nostdcheck/internal/sysroot"
)

func TestDrainEventsUnblocksProducer(t *testing.T) {
	events := make(chan sysroot.Event, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(events)
		for i := 0; i < 64; i++ {
			events <- sysroot.Event{Copied: i, Total: 64, Status: sysroot.StatusWorking}
		}
	}()

	drainEvents(events)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("producer still blocked after drain")
	}
}
