package fleet

import (
	"sync/atomic"
	"testing"
	"time"
)

// countingFactory tracks how many sessions are open at once. Its sessions
// answer every OID so probes succeed.
type countingFactory struct {
	opens       atomic.Int64
	inFlight    atomic.Int64
	maxInFlight atomic.Int64
}

func (f *countingFactory) Open(address string) (Session, error) {
	f.opens.Add(1)
	n := f.inFlight.Add(1)
	for {
		max := f.maxInFlight.Load()
		if n <= max || f.maxInFlight.CompareAndSwap(max, n) {
			break
		}
	}
	return &countingSession{factory: f}, nil
}

type countingSession struct {
	factory *countingFactory
}

func (s *countingSession) Get(oid string) GetResult {
	// Hold the session open long enough for probes to overlap.
	time.Sleep(2 * time.Millisecond)
	if oid == OIDDeviceStatus {
		return GetResult{Kind: ResultValue, Raw: "3"}
	}
	return GetResult{Kind: ResultValue, Raw: "1"}
}

func (s *countingSession) Close() error {
	s.factory.inFlight.Add(-1)
	return nil
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
