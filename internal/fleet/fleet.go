// Package fleet is the PrintWatch core module: it enrolls printers, polls
// them over SNMP on a schedule, persists status history, and exposes the
// fleet HTTP API.
package fleet

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/printwatch/pkg/plugin"
)

// Config holds the fleet module's settings, read from the plugins.fleet
// section of the server configuration.
type Config struct {
	PollInterval        time.Duration
	MaxWorkers          int
	LowSupplyThreshold  int
	HistoryRetention    time.Duration
	MaintenanceInterval time.Duration
	PingTimeout         time.Duration
	PingCount           int
	SNMP                SessionConfig
}

// Module implements plugin.Plugin and plugin.HTTPProvider for the fleet.
type Module struct {
	logger    *zap.Logger
	bus       plugin.EventBus
	store     *Store
	prober    *Prober
	poller    *Poller
	scheduler *Scheduler
	pinger    *Pinger
	cfg       Config

	maintCancel context.CancelFunc
	maintDone   chan struct{}
}

// New creates an uninitialized fleet module.
func New() *Module {
	return &Module{}
}

func nowUTC() time.Time { return time.Now().UTC() }

// Info implements plugin.Plugin.
func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "fleet",
		Version:     "1.0.0",
		Description: "SNMP printer fleet polling and inventory",
		Required:    true,
		APIVersion:  plugin.APIVersionCurrent,
	}
}

// Init runs migrations and wires the polling pipeline from configuration.
func (m *Module) Init(ctx context.Context, deps plugin.Dependencies) error {
	m.logger = deps.Logger
	m.bus = deps.Bus

	if err := deps.Store.Migrate(ctx, "fleet", migrations()); err != nil {
		return err
	}
	m.store = NewStore(deps.Store.DB())

	m.cfg = loadConfig(deps.Config)
	factory := &UDPSessionFactory{Config: m.cfg.SNMP}
	m.prober = NewProber(factory, m.logger)
	m.poller = NewPoller(m.store, m.prober, m.bus, m.cfg.MaxWorkers, m.logger)
	m.scheduler = NewScheduler(m.poller, m.cfg.PollInterval, m.logger)
	m.pinger = NewPinger(m.cfg.PingTimeout, m.cfg.PingCount, m.logger)

	if n, err := m.store.Count(ctx); err == nil {
		printersGauge.Set(float64(n))
	}

	m.logger.Info("fleet module initialized",
		zap.Duration("poll_interval", m.cfg.PollInterval),
		zap.Int("max_workers", m.cfg.MaxWorkers),
		zap.String("snmp_version", m.cfg.SNMP.Version),
		zap.Uint16("snmp_port", m.cfg.SNMP.Port))
	return nil
}

// Start launches the sweep scheduler and the history maintenance loop.
func (m *Module) Start(ctx context.Context) error {
	m.scheduler.Start(ctx)

	maintCtx, cancel := context.WithCancel(ctx)
	m.maintCancel = cancel
	m.maintDone = make(chan struct{})
	go m.maintenanceLoop(maintCtx)
	return nil
}

// Stop halts the scheduler and waits for in-flight sweeps.
func (m *Module) Stop(ctx context.Context) error {
	if m.maintCancel != nil {
		m.maintCancel()
		select {
		case <-m.maintDone:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if m.scheduler != nil {
		m.scheduler.Stop()
	}
	return nil
}

// Health reports module health for the server health endpoint.
func (m *Module) Health() plugin.HealthStatus {
	if m.scheduler == nil || !m.scheduler.Running() {
		return plugin.HealthStatus{Status: "degraded", Message: "scheduler not running"}
	}
	return plugin.HealthStatus{Status: "healthy"}
}

func loadConfig(cfg plugin.Config) Config {
	out := Config{
		PollInterval:        15 * time.Second,
		MaxWorkers:          0,
		LowSupplyThreshold:  20,
		HistoryRetention:    720 * time.Hour,
		MaintenanceInterval: time.Hour,
		PingTimeout:         2 * time.Second,
		PingCount:           3,
		SNMP:                DefaultSessionConfig(),
	}
	if cfg == nil {
		return out
	}
	if cfg.IsSet("poll_interval") {
		out.PollInterval = cfg.GetDuration("poll_interval")
	}
	if cfg.IsSet("max_workers") {
		out.MaxWorkers = cfg.GetInt("max_workers")
	}
	if cfg.IsSet("low_supply_threshold") {
		out.LowSupplyThreshold = cfg.GetInt("low_supply_threshold")
	}
	if cfg.IsSet("history_retention") {
		out.HistoryRetention = cfg.GetDuration("history_retention")
	}
	if cfg.IsSet("maintenance_interval") {
		out.MaintenanceInterval = cfg.GetDuration("maintenance_interval")
	}
	if cfg.IsSet("ping_timeout") {
		out.PingTimeout = cfg.GetDuration("ping_timeout")
	}
	if cfg.IsSet("ping_count") {
		out.PingCount = cfg.GetInt("ping_count")
	}
	if cfg.IsSet("snmp.version") {
		out.SNMP.Version = cfg.GetString("snmp.version")
	}
	if cfg.IsSet("snmp.community") {
		out.SNMP.Community = cfg.GetString("snmp.community")
	}
	if cfg.IsSet("snmp.port") {
		out.SNMP.Port = uint16(cfg.GetInt("snmp.port"))
	}
	if cfg.IsSet("snmp.timeout") {
		out.SNMP.Timeout = cfg.GetDuration("snmp.timeout")
	}
	if cfg.IsSet("snmp.retries") {
		out.SNMP.Retries = cfg.GetInt("snmp.retries")
	}
	return out
}
