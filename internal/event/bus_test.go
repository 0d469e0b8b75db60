package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/printwatch/pkg/plugin"
)

func TestPublishDeliversToTopicSubscribers(t *testing.T) {
	b := NewBus(zap.NewNop())
	ctx := context.Background()

	var got []string
	b.Subscribe("fleet.printer_updated", func(_ context.Context, e plugin.Event) {
		got = append(got, e.Topic)
	})
	b.Subscribe("fleet.sweep_started", func(_ context.Context, e plugin.Event) {
		got = append(got, "wrong:"+e.Topic)
	})

	if err := b.Publish(ctx, plugin.Event{Topic: "fleet.printer_updated", Source: "fleet"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(got) != 1 || got[0] != "fleet.printer_updated" {
		t.Errorf("got %v, want exactly one delivery on the matching topic", got)
	}
}

func TestSubscribeAllSeesEveryTopic(t *testing.T) {
	b := NewBus(zap.NewNop())
	ctx := context.Background()

	count := 0
	b.SubscribeAll(func(_ context.Context, _ plugin.Event) { count++ })

	_ = b.Publish(ctx, plugin.Event{Topic: "a"})
	_ = b.Publish(ctx, plugin.Event{Topic: "b"})

	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBus(zap.NewNop())
	ctx := context.Background()

	count := 0
	unsub := b.Subscribe("t", func(_ context.Context, _ plugin.Event) { count++ })

	_ = b.Publish(ctx, plugin.Event{Topic: "t"})
	unsub()
	_ = b.Publish(ctx, plugin.Event{Topic: "t"})

	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestPublishAsyncDelivers(t *testing.T) {
	b := NewBus(zap.NewNop())

	var mu sync.Mutex
	count := 0
	b.Subscribe("t", func(_ context.Context, _ plugin.Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	b.PublishAsync(context.Background(), plugin.Event{Topic: "t"})

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		done := count == 1
		mu.Unlock()
		if done {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Error("async event never delivered")
}

func TestPanickingHandlerDoesNotSinkOthers(t *testing.T) {
	b := NewBus(zap.NewNop())
	ctx := context.Background()

	delivered := false
	b.Subscribe("t", func(_ context.Context, _ plugin.Event) { panic("boom") })
	b.Subscribe("t", func(_ context.Context, _ plugin.Event) { delivered = true })

	if err := b.Publish(ctx, plugin.Event{Topic: "t"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !delivered {
		t.Error("a panicking handler must not prevent delivery to others")
	}
}
