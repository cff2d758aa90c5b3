package dispatcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/garyjia/voucher-bot/internal/domain/event"
)

// mockLogger implements Logger for testing
type mockLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, msg)
}

func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}

func (m *mockLogger) HasInfo(msg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, info := range m.infos {
		if info == msg {
			return true
		}
	}
	return false
}

func (m *mockLogger) ErrorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.errors)
}

func newMessageEvent() *event.Event {
	return event.NewEvent(event.TypeMessageReceived, "ou_1", "", map[string]interface{}{event.PayloadText: "/start"})
}

func TestSubscribe(t *testing.T) {
	t.Run("subscribes multiple handlers to same event type", func(t *testing.T) {
		d := NewDispatcher()
		var order []int

		d.Subscribe(event.TypeMessageReceived, func(ctx context.Context, evt *event.Event) error {
			order = append(order, 1)
			return nil
		})
		d.Subscribe(event.TypeMessageReceived, func(ctx context.Context, evt *event.Event) error {
			order = append(order, 2)
			return nil
		})

		if err := d.Dispatch(context.Background(), newMessageEvent()); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}

		if len(order) != 2 || order[0] != 1 || order[1] != 2 {
			t.Errorf("handlers ran in order %v, want [1 2]", order)
		}

		handlers := d.(*eventDispatcher).handlersFor(event.TypeMessageReceived)
		if handlers[0].Name == handlers[1].Name {
			t.Error("auto-generated names should be distinct")
		}
	})

	t.Run("logs registration", func(t *testing.T) {
		logger := &mockLogger{}
		d := NewDispatcher(WithLogger(logger))

		d.SubscribeNamed(event.TypeVoucherRecorded, "metrics", func(ctx context.Context, evt *event.Event) error {
			return nil
		})

		if !logger.HasInfo("Handler registered") {
			t.Error("expected registration to be logged")
		}
	})
}

func TestSubscribeAnyType(t *testing.T) {
	d := NewDispatcher()
	var seen []event.Type

	d.SubscribeNamed(event.TypeVoucherRecorded, "typed", func(ctx context.Context, evt *event.Event) error {
		seen = append(seen, "typed")
		return nil
	})
	d.SubscribeNamed(AnyType, "observer", func(ctx context.Context, evt *event.Event) error {
		seen = append(seen, evt.Type)
		return nil
	})

	_ = d.Dispatch(context.Background(), event.NewEvent(event.TypeVoucherRecorded, "ou_1", "c", nil))
	_ = d.Dispatch(context.Background(), event.NewEvent(event.TypeConversationCancelled, "ou_1", "c", nil))

	want := []event.Type{"typed", event.TypeVoucherRecorded, event.TypeConversationCancelled}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %v, want %v", i, seen[i], want[i])
		}
	}
}

func TestDispatch(t *testing.T) {
	t.Run("returns first error encountered", func(t *testing.T) {
		logger := &mockLogger{}
		d := NewDispatcher(WithLogger(logger))
		expected := errors.New("boom")
		secondCalled := false

		d.SubscribeNamed(event.TypeMessageReceived, "failing", func(ctx context.Context, evt *event.Event) error {
			return expected
		})
		d.SubscribeNamed(event.TypeMessageReceived, "second", func(ctx context.Context, evt *event.Event) error {
			secondCalled = true
			return nil
		})

		err := d.Dispatch(context.Background(), newMessageEvent())
		if !errors.Is(err, expected) {
			t.Errorf("expected wrapped error %v, got %v", expected, err)
		}
		if secondCalled {
			t.Error("expected dispatch to stop at the first error")
		}
		if logger.ErrorCount() == 0 {
			t.Error("expected handler error to be logged")
		}
	})

	t.Run("recovers from handler panic", func(t *testing.T) {
		d := NewDispatcher()

		d.Subscribe(event.TypeMessageReceived, func(ctx context.Context, evt *event.Event) error {
			panic("unexpected")
		})

		err := d.Dispatch(context.Background(), newMessageEvent())
		if err == nil {
			t.Fatal("expected error from panicking handler")
		}
	})

	t.Run("no handlers is not an error", func(t *testing.T) {
		d := NewDispatcher()
		if err := d.Dispatch(context.Background(), newMessageEvent()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("returns error when dispatcher is closed", func(t *testing.T) {
		d := NewDispatcher()
		_ = d.Close()

		if err := d.Dispatch(context.Background(), newMessageEvent()); err == nil {
			t.Error("expected error dispatching on closed dispatcher")
		}
	})
}

func TestDispatchAsync(t *testing.T) {
	t.Run("runs handlers and Close waits for them", func(t *testing.T) {
		d := NewDispatcher()
		var count atomic.Int32

		for i := 0; i < 3; i++ {
			d.Subscribe(event.TypeVoucherRecorded, func(ctx context.Context, evt *event.Event) error {
				time.Sleep(10 * time.Millisecond)
				count.Add(1)
				return nil
			})
		}

		d.DispatchAsync(context.Background(), event.NewEvent(event.TypeVoucherRecorded, "ou_1", "c", nil))

		if err := d.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}
		if got := count.Load(); got != 3 {
			t.Errorf("expected 3 handler runs, got %d", got)
		}
	})

	t.Run("does not dispatch when dispatcher is closed", func(t *testing.T) {
		logger := &mockLogger{}
		d := NewDispatcher(WithLogger(logger))
		var called atomic.Bool

		d.Subscribe(event.TypeVoucherRecorded, func(ctx context.Context, evt *event.Event) error {
			called.Store(true)
			return nil
		})
		_ = d.Close()

		d.DispatchAsync(context.Background(), event.NewEvent(event.TypeVoucherRecorded, "ou_1", "c", nil))
		time.Sleep(20 * time.Millisecond)

		if called.Load() {
			t.Error("handler should not run after close")
		}
		if logger.ErrorCount() == 0 {
			t.Error("expected closed dispatch to be logged")
		}
	})
}

func TestClose_Twice(t *testing.T) {
	d := NewDispatcher()
	if err := d.Close(); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	if err := d.Close(); err == nil {
		t.Error("expected error on double close")
	}
}

func TestConcurrentDispatch(t *testing.T) {
	d := NewDispatcher()
	var count atomic.Int32

	d.Subscribe(event.TypeMessageReceived, func(ctx context.Context, evt *event.Event) error {
		count.Add(1)
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Dispatch(context.Background(), newMessageEvent())
		}()
	}
	wg.Wait()

	if got := count.Load(); got != 50 {
		t.Errorf("expected 50 handler runs, got %d", got)
	}
}
