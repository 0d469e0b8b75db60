package fleet

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/printwatch/internal/testutil"
)

func TestSchedulerSweepsOnInterval(t *testing.T) {
	factory := &countingFactory{}
	s := newTestStore(t)
	prober := NewProber(factory, zap.NewNop())
	poller := NewPoller(s, prober, nil, 0, zap.NewNop())

	p := testutil.NewPrinter()
	if err := s.Insert(context.Background(), p); err != nil {
		t.Fatalf("insert: %v", err)
	}

	sched := NewScheduler(poller, 20*time.Millisecond, zap.NewNop())
	sched.Start(context.Background())
	defer sched.Stop()

	if !sched.Running() {
		t.Error("scheduler should report running after Start")
	}

	// The initial sweep plus at least one tick.
	waitFor(t, func() bool { return factory.opens.Load() >= 2 })
}

func TestSchedulerStopHaltsSweeps(t *testing.T) {
	factory := &countingFactory{}
	s := newTestStore(t)
	prober := NewProber(factory, zap.NewNop())
	poller := NewPoller(s, prober, nil, 0, zap.NewNop())

	p := testutil.NewPrinter()
	if err := s.Insert(context.Background(), p); err != nil {
		t.Fatalf("insert: %v", err)
	}

	sched := NewScheduler(poller, 10*time.Millisecond, zap.NewNop())
	sched.Start(context.Background())
	waitFor(t, func() bool { return factory.opens.Load() >= 1 })
	sched.Stop()

	if sched.Running() {
		t.Error("scheduler should report stopped after Stop")
	}

	opens := factory.opens.Load()
	time.Sleep(50 * time.Millisecond)
	if factory.opens.Load() != opens {
		t.Error("no new sweeps may start after Stop")
	}
}
