// Package testutil provides shared fixtures for PrintWatch tests.
package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/HerbHall/printwatch/pkg/models"
)

// NewPrinter returns a Printer with sensible defaults, suitable for test
// fixtures. Override individual fields via options.
func NewPrinter(opts ...func(*models.Printer)) models.Printer {
	now := time.Now().UTC()
	p := models.Printer{
		ID:        uuid.New().String(),
		IPAddress: "192.168.1.50",
		Name:      "test-printer",
		Model:     "Test Laser 9000",
		Location:  "lab",
		Status:    models.StatusIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithAddress sets the printer's IP address.
func WithAddress(addr string) func(*models.Printer) {
	return func(p *models.Printer) { p.IPAddress = addr }
}

// WithName sets the printer name.
func WithName(name string) func(*models.Printer) {
	return func(p *models.Printer) { p.Name = name }
}

// WithLocation sets the printer location.
func WithLocation(loc string) func(*models.Printer) {
	return func(p *models.Printer) { p.Location = loc }
}

// WithStatus sets the printer status.
func WithStatus(s models.Status) func(*models.Printer) {
	return func(p *models.Printer) { p.Status = s }
}

// WithToner sets the printer's toner level.
func WithToner(level int) func(*models.Printer) {
	return func(p *models.Printer) { p.TonerLevel = &level }
}

// WithPaper sets the printer's paper level.
func WithPaper(level int) func(*models.Printer) {
	return func(p *models.Printer) { p.PaperLevel = &level }
}

// WithPages sets the printer's lifetime page count.
func WithPages(pages int) func(*models.Printer) {
	return func(p *models.Printer) { p.TotalPagesPrinted = &pages }
}
