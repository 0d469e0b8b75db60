package ws

import (
	"time"

	"github.com/HerbHall/printwatch/pkg/models"
)

// MessageType discriminates WebSocket messages.
type MessageType string

const (
	MessageSweepStarted   MessageType = "fleet.sweep_started"
	MessageSweepCompleted MessageType = "fleet.sweep_completed"
	MessagePrinterUpdate  MessageType = "fleet.printer_updated"
	MessagePrinterAdded   MessageType = "fleet.printer_enrolled"
	MessagePrinterRemoved MessageType = "fleet.printer_deleted"
)

// Message is the envelope for all WebSocket messages.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      any         `json:"data"`
}

// SweepStartedData is the payload for fleet.sweep_started messages.
type SweepStartedData struct {
	Printers int `json:"printers"`
}

// SweepCompletedData is the payload for fleet.sweep_completed messages.
type SweepCompletedData struct {
	Printers   int     `json:"printers"`
	Errors     int     `json:"errors"`
	DurationMS float64 `json:"duration_ms"`
}

// PrinterData is the payload for printer lifecycle messages.
type PrinterData struct {
	Printer models.Printer `json:"printer"`
}
