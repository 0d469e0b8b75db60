package fleet

import (
	"context"
	"runtime"
	"time"

	probing "github.com/prometheus-community/pro-bing"
	"go.uber.org/zap"
)

// PingResult reports an ICMP reachability check against one printer.
// This is transport-level reachability, independent of the SNMP agent.
type PingResult struct {
	Address     string        `json:"address"`
	Alive       bool          `json:"alive"`
	PacketsSent int           `json:"packets_sent"`
	PacketsRecv int           `json:"packets_recv"`
	AvgRTT      time.Duration `json:"avg_rtt_ns"`
}

// Pinger runs ICMP echo probes against individual printers.
type Pinger struct {
	timeout time.Duration
	count   int
	logger  *zap.Logger
}

// NewPinger creates a pinger with the given per-probe timeout and packet count.
func NewPinger(timeout time.Duration, count int, logger *zap.Logger) *Pinger {
	return &Pinger{timeout: timeout, count: count, logger: logger}
}

// Ping sends ICMP echoes to address and reports the outcome. An unreachable
// host is a valid result, not an error; errors mean the probe itself could
// not run.
func (p *Pinger) Ping(ctx context.Context, address string) (PingResult, error) {
	result := PingResult{Address: address}

	pinger, err := probing.NewPinger(address)
	if err != nil {
		return result, err
	}
	pinger.Count = p.count
	pinger.Timeout = p.timeout
	pinger.SetPrivileged(runtime.GOOS == "windows")

	done := make(chan struct{})
	go func() {
		defer close(done)
		if runErr := pinger.Run(); runErr != nil {
			p.logger.Debug("ping failed", zap.String("address", address), zap.Error(runErr))
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		pinger.Stop()
		return result, ctx.Err()
	}

	stats := pinger.Statistics()
	result.PacketsSent = stats.PacketsSent
	result.PacketsRecv = stats.PacketsRecv
	result.AvgRTT = stats.AvgRtt
	result.Alive = stats.PacketsRecv > 0
	return result, nil
}
