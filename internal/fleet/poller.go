package fleet

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/printwatch/pkg/models"
	"github.com/HerbHall/printwatch/pkg/plugin"
)

// Poller fans probes out across the fleet and merges the results back into
// the store. One poller instance serves both scheduled sweeps and on-demand
// refreshes.
type Poller struct {
	store  *Store
	prober *Prober
	bus    plugin.EventBus
	logger *zap.Logger
	now    func() time.Time

	// maxWorkers bounds concurrent probes during a sweep. Zero means one
	// goroutine per printer.
	maxWorkers int
}

// NewPoller builds a poller. bus may be nil in tests.
func NewPoller(store *Store, prober *Prober, bus plugin.EventBus, maxWorkers int, logger *zap.Logger) *Poller {
	return &Poller{
		store:      store,
		prober:     prober,
		bus:        bus,
		logger:     logger,
		now:        time.Now,
		maxWorkers: maxWorkers,
	}
}

// pollOutcome pairs a probe result with the printer it belongs to.
type pollOutcome struct {
	printerID string
	address   string
	result    models.PollResult
}

// PollAll sweeps the entire fleet concurrently. Each printer is probed in its
// own goroutine; outcomes flow back over a channel and are merged into the
// store as they land, so a failed or slow device delays only itself.
func (p *Poller) PollAll(ctx context.Context) error {
	printers, err := p.store.List(ctx, ListFilter{})
	if err != nil {
		return err
	}
	started := p.now()
	p.publish(ctx, TopicSweepStarted, SweepStartedPayload{
		Printers:  len(printers),
		StartedAt: started,
	})

	var sem chan struct{}
	if p.maxWorkers > 0 {
		sem = make(chan struct{}, p.maxWorkers)
	}

	results := make(chan pollOutcome)
	var wg sync.WaitGroup
	for _, printer := range printers {
		wg.Add(1)
		go func(printer models.Printer) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			results <- pollOutcome{
				printerID: printer.ID,
				address:   printer.IPAddress,
				result:    p.poll(printer.IPAddress),
			}
		}(printer)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	errored := 0
	for out := range results {
		if out.result.Status == models.StatusError {
			errored++
		}
		if _, err := p.merge(ctx, out.printerID, out.result); err != nil {
			p.logger.Error("merge failed",
				zap.String("printer_id", out.printerID),
				zap.String("address", out.address),
				zap.Error(err))
		}
	}

	duration := p.now().Sub(started)
	sweepDuration.Observe(duration.Seconds())
	p.publish(ctx, TopicSweepCompleted, SweepCompletedPayload{
		Printers: len(printers),
		Errors:   errored,
		Duration: duration,
	})
	p.logger.Info("fleet sweep completed",
		zap.Int("printers", len(printers)),
		zap.Int("errors", errored),
		zap.Duration("duration", duration))
	return nil
}

// PollOne probes a single printer immediately and returns the merged record.
func (p *Poller) PollOne(ctx context.Context, id string) (models.Printer, error) {
	printer, err := p.store.Get(ctx, id)
	if err != nil {
		return models.Printer{}, err
	}
	result := p.poll(printer.IPAddress)
	return p.merge(ctx, id, result)
}

// poll runs one probe and records its timing and outcome.
func (p *Poller) poll(address string) models.PollResult {
	start := p.now()
	result := p.prober.Probe(address)
	pollDuration.Observe(p.now().Sub(start).Seconds())
	pollsTotal.WithLabelValues(string(result.Status)).Inc()
	return result
}

// merge loads the current record, applies the poll result on top of it, and
// persists both the record and a history sample. The record is re-read here
// rather than reused from the sweep snapshot so a concurrent rename or
// refresh is not clobbered.
func (p *Poller) merge(ctx context.Context, id string, result models.PollResult) (models.Printer, error) {
	printer, err := p.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		// Deleted mid-sweep. Nothing to merge.
		return models.Printer{}, err
	}
	if err != nil {
		return models.Printer{}, err
	}

	result.Merge(&printer)
	printer.UpdatedAt = p.now()
	if err := p.store.Update(ctx, printer); err != nil {
		return models.Printer{}, err
	}
	sample := models.StatusSample{
		PrinterID:         printer.ID,
		Status:            printer.Status,
		TonerLevel:        printer.TonerLevel,
		PaperLevel:        printer.PaperLevel,
		TotalPagesPrinted: printer.TotalPagesPrinted,
		ErrorMessage:      printer.ErrorMessage,
		Timestamp:         result.CheckedAt,
	}
	if err := p.store.InsertSample(ctx, sample); err != nil {
		p.logger.Warn("history append failed",
			zap.String("printer_id", printer.ID), zap.Error(err))
	}
	p.publish(ctx, TopicPrinterUpdated, PrinterPayload{Printer: printer})
	return printer, nil
}

func (p *Poller) publish(ctx context.Context, topic string, payload any) {
	if p.bus == nil {
		return
	}
	p.bus.PublishAsync(ctx, plugin.Event{
		Topic:     topic,
		Source:    "fleet",
		Timestamp: p.now(),
		Payload:   payload,
	})
}
