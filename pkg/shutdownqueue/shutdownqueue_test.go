package shutdownqueue

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// Single test function: the queue is process-wide state and Shutdown closes
// it for good, so all behavior is exercised in one drain.
func TestShutdownQueue(t *testing.T) {
	var order []string

	Add(func(context.Context) error {
		order = append(order, "first")
		return nil
	})
	Add(nil) // dropped
	Add(func(context.Context) error {
		order = append(order, "second")
		return errors.New("second failed")
	})
	Add(func(context.Context) error {
		panic("third exploded")
	})

	err := Shutdown(context.Background())
	if err == nil {
		t.Fatal("want aggregated error, got nil")
	}

	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Fatalf("want LIFO [second first], got %v", order)
	}

	msg := err.Error()
	for _, want := range []string{"second failed", "panic in shutdown task"} {
		if !strings.Contains(msg, want) {
			t.Errorf("aggregated error missing %q: %v", want, msg)
		}
	}

	// Second drain is a no-op.
	if err := Shutdown(context.Background()); err != nil {
		t.Fatalf("second shutdown: %v", err)
	}

	// Tasks registered after shutdown are dropped.
	ran := false
	Add(func(context.Context) error {
		ran = true
		return nil
	})
	if err := Shutdown(context.Background()); err != nil {
		t.Fatalf("third shutdown: %v", err)
	}
	if ran {
		t.Error("task added after shutdown must not run")
	}
}
