// Package models defines the core data types shared across PrintWatch
// plugins and the HTTP API.
package models

import "time"

// Status represents a printer's lifecycle state. The set is closed:
// every persisted printer carries exactly one of these values.
type Status string

const (
	StatusOther    Status = "OTHER"    // device reports a vendor-specific state
	StatusUnknown  Status = "UNKNOWN"  // device reports it cannot determine its state
	StatusIdle     Status = "IDLE"     // powered on, not printing
	StatusPrinting Status = "PRINTING" // actively printing
	StatusWarmup   Status = "WARMUP"   // warming up
	StatusOnline   Status = "ONLINE"   // reachable, state code unrecognized
	StatusOffline  Status = "OFFLINE"  // reachability probe failed
	StatusError    Status = "ERROR"    // probe aborted with a session-level error
)

// Valid reports whether s is a member of the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusOther, StatusUnknown, StatusIdle, StatusPrinting,
		StatusWarmup, StatusOnline, StatusOffline, StatusError:
		return true
	}
	return false
}

// Printer represents a network printer tracked by PrintWatch.
// IPAddress is the device identity: unique and immutable once enrolled.
// Pointer fields are nil when the value has never been observed.
type Printer struct {
	ID                string     `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	IPAddress         string     `json:"ip_address" example:"10.0.0.5"`
	Name              string     `json:"name" example:"hallway-laser"`
	Model             string     `json:"model,omitempty" example:"HP LaserJet 4250"`
	Location          string     `json:"location,omitempty" example:"2nd floor east"`
	Status            Status     `json:"status" example:"IDLE"`
	TotalPagesPrinted *int       `json:"total_pages_printed,omitempty" example:"1200"`
	TonerLevel        *int       `json:"toner_level,omitempty" example:"15"`
	PaperLevel        *int       `json:"paper_level,omitempty" example:"80"`
	ErrorMessage      string     `json:"error_message,omitempty"`
	LastChecked       *time.Time `json:"last_checked,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// PollResult is the immutable outcome of one probe run against a printer.
// It is a partial update: a zero text field or nil numeric field means the
// poll produced no usable data for that field, and Merge leaves the prior
// value in place. Status and CheckedAt are always set.
type PollResult struct {
	Status            Status
	Name              string
	Model             string
	Location          string
	ErrorMessage      string
	TotalPagesPrinted *int
	TonerLevel        *int
	PaperLevel        *int
	CheckedAt         time.Time
}

// Merge applies the poll result onto a printer record, field by field.
// Each field overwrites only when the corresponding query returned usable
// data; LastChecked always advances to the poll timestamp.
func (r PollResult) Merge(p *Printer) {
	if r.Name != "" {
		p.Name = r.Name
	}
	if r.Model != "" {
		p.Model = r.Model
	}
	if r.Location != "" {
		p.Location = r.Location
	}
	if r.ErrorMessage != "" {
		p.ErrorMessage = r.ErrorMessage
	}
	if r.TotalPagesPrinted != nil {
		v := *r.TotalPagesPrinted
		p.TotalPagesPrinted = &v
	}
	if r.TonerLevel != nil {
		v := *r.TonerLevel
		p.TonerLevel = &v
	}
	if r.PaperLevel != nil {
		v := *r.PaperLevel
		p.PaperLevel = &v
	}
	p.Status = r.Status
	checked := r.CheckedAt
	p.LastChecked = &checked
}

// StatusSample is one historical status observation for a printer,
// appended on every merge.
type StatusSample struct {
	ID                int64     `json:"id"`
	PrinterID         string    `json:"printer_id"`
	Status            Status    `json:"status"`
	TonerLevel        *int      `json:"toner_level,omitempty"`
	PaperLevel        *int      `json:"paper_level,omitempty"`
	TotalPagesPrinted *int      `json:"total_pages_printed,omitempty"`
	ErrorMessage      string    `json:"error_message,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}
