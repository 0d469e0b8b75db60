package fleet

import (
	"time"

	"github.com/HerbHall/printwatch/pkg/models"
)

// Event topics published on the bus. Subscribers (the websocket hub, other
// plugins) key off these strings.
const (
	TopicSweepStarted    = "fleet.sweep_started"
	TopicSweepCompleted  = "fleet.sweep_completed"
	TopicPrinterEnrolled = "fleet.printer_enrolled"
	TopicPrinterUpdated  = "fleet.printer_updated"
	TopicPrinterDeleted  = "fleet.printer_deleted"
)

// SweepStartedPayload is published when a fleet-wide poll begins.
type SweepStartedPayload struct {
	Printers  int       `json:"printers"`
	StartedAt time.Time `json:"started_at"`
}

// SweepCompletedPayload is published after every printer in a sweep has been
// polled and merged.
type SweepCompletedPayload struct {
	Printers int           `json:"printers"`
	Errors   int           `json:"errors"`
	Duration time.Duration `json:"duration"`
}

// PrinterPayload accompanies enrolled/updated/deleted events.
type PrinterPayload struct {
	Printer models.Printer `json:"printer"`
}
