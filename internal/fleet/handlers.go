package fleet

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HerbHall/printwatch/pkg/models"
	"github.com/HerbHall/printwatch/pkg/plugin"
)

// Routes implements plugin.HTTPProvider. The server mounts these under
// /api/v1/fleet.
func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "GET", Path: "/printers", Handler: m.handleListPrinters},
		{Method: "POST", Path: "/printers", Handler: m.handleEnrollPrinter},
		{Method: "GET", Path: "/printers/address/{address}", Handler: m.handleGetByAddress},
		{Method: "GET", Path: "/printers/{id}", Handler: m.handleGetPrinter},
		{Method: "PATCH", Path: "/printers/{id}", Handler: m.handleUpdatePrinter},
		{Method: "DELETE", Path: "/printers/{id}", Handler: m.handleDeletePrinter},
		{Method: "POST", Path: "/printers/{id}/refresh", Handler: m.handleRefreshPrinter},
		{Method: "GET", Path: "/printers/{id}/ping", Handler: m.handlePingPrinter},
		{Method: "GET", Path: "/printers/{id}/history", Handler: m.handlePrinterHistory},
		{Method: "POST", Path: "/sweep", Handler: m.handleSweep},
		{Method: "GET", Path: "/dashboard", Handler: m.handleDashboard},
	}
}

// enrollRequest is the POST /printers body. Only the address is required;
// the first poll fills in everything the device reports.
type enrollRequest struct {
	IPAddress string `json:"ip_address"`
	Name      string `json:"name,omitempty"`
	Location  string `json:"location,omitempty"`
}

// updateRequest is the PATCH /printers/{id} body. Omitted fields are left
// unchanged.
type updateRequest struct {
	Name     *string `json:"name,omitempty"`
	Location *string `json:"location,omitempty"`
}

// handleListPrinters returns the fleet, optionally filtered.
//
//	@Summary		List printers
//	@Description	Returns all enrolled printers, optionally filtered by status, location substring, or low supplies.
//	@Tags			fleet
//	@Produce		json
//	@Param			status query string false "Filter by status (e.g. IDLE, OFFLINE)"
//	@Param			location query string false "Filter by location substring"
//	@Param			low_toner query bool false "Only printers at or below the low-supply threshold for toner"
//	@Param			low_paper query bool false "Only printers at or below the low-supply threshold for paper"
//	@Success		200 {array} models.Printer
//	@Failure		400 {object} map[string]any
//	@Failure		500 {object} map[string]any
//	@Router			/fleet/printers [get]
func (m *Module) handleListPrinters(w http.ResponseWriter, r *http.Request) {
	var filter ListFilter
	if s := r.URL.Query().Get("status"); s != "" {
		status := models.Status(strings.ToUpper(s))
		if !status.Valid() {
			fleetWriteError(w, http.StatusBadRequest, "unknown status "+s)
			return
		}
		filter.Status = status
	}
	filter.Location = r.URL.Query().Get("location")
	if fleetQueryBool(r, "low_toner") {
		threshold := m.cfg.LowSupplyThreshold
		filter.TonerAtMost = &threshold
	}
	if fleetQueryBool(r, "low_paper") {
		threshold := m.cfg.LowSupplyThreshold
		filter.PaperAtMost = &threshold
	}

	printers, err := m.store.List(r.Context(), filter)
	if err != nil {
		m.logger.Warn("failed to list printers", zap.Error(err))
		fleetWriteError(w, http.StatusInternalServerError, "failed to list printers")
		return
	}
	if printers == nil {
		printers = []models.Printer{}
	}
	fleetWriteJSON(w, http.StatusOK, printers)
}

// handleEnrollPrinter adds a printer to the fleet. The address must not
// collide with an existing printer, and the device must answer its first
// SNMP probe before it is accepted.
//
//	@Summary		Enroll printer
//	@Description	Adds a printer by IP address. Rejects duplicates and unreachable devices.
//	@Tags			fleet
//	@Accept			json
//	@Produce		json
//	@Param			printer body enrollRequest true "Printer to enroll"
//	@Success		201 {object} models.Printer
//	@Failure		400 {object} map[string]any
//	@Failure		409 {object} map[string]any
//	@Failure		500 {object} map[string]any
//	@Router			/fleet/printers [post]
func (m *Module) handleEnrollPrinter(w http.ResponseWriter, r *http.Request) {
	var req enrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fleetWriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.IPAddress = strings.TrimSpace(req.IPAddress)
	if req.IPAddress == "" {
		fleetWriteError(w, http.StatusBadRequest, "ip_address is required")
		return
	}
	if net.ParseIP(req.IPAddress) == nil {
		fleetWriteError(w, http.StatusBadRequest, "ip_address is not a valid IP address")
		return
	}

	// Duplicate check comes before the reachability probe so a colliding
	// address is reported as a conflict even when the device is down.
	if _, err := m.store.GetByAddress(r.Context(), req.IPAddress); err == nil {
		fleetWriteError(w, http.StatusConflict, "a printer with this address is already enrolled")
		return
	} else if !errors.Is(err, ErrNotFound) {
		m.logger.Warn("duplicate check failed", zap.Error(err))
		fleetWriteError(w, http.StatusInternalServerError, "failed to enroll printer")
		return
	}

	result := m.prober.Probe(req.IPAddress)
	if result.Status == models.StatusOffline || result.Status == models.StatusError {
		fleetWriteError(w, http.StatusBadRequest, "printer did not respond to SNMP at "+req.IPAddress)
		return
	}

	now := result.CheckedAt
	printer := models.Printer{
		ID:        uuid.NewString(),
		IPAddress: req.IPAddress,
		Name:      req.Name,
		Location:  req.Location,
		Status:    result.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	result.Merge(&printer)
	// Operator-supplied metadata wins over whatever the device reports.
	if req.Name != "" {
		printer.Name = req.Name
	}
	if req.Location != "" {
		printer.Location = req.Location
	}

	if err := m.store.Insert(r.Context(), printer); err != nil {
		if errors.Is(err, ErrDuplicateAddress) {
			fleetWriteError(w, http.StatusConflict, "a printer with this address is already enrolled")
			return
		}
		m.logger.Warn("failed to insert printer", zap.Error(err))
		fleetWriteError(w, http.StatusInternalServerError, "failed to enroll printer")
		return
	}
	printersGauge.Inc()

	sample := models.StatusSample{
		PrinterID:         printer.ID,
		Status:            printer.Status,
		TonerLevel:        printer.TonerLevel,
		PaperLevel:        printer.PaperLevel,
		TotalPagesPrinted: printer.TotalPagesPrinted,
		ErrorMessage:      printer.ErrorMessage,
		Timestamp:         now,
	}
	if err := m.store.InsertSample(r.Context(), sample); err != nil {
		m.logger.Warn("history append failed", zap.String("printer_id", printer.ID), zap.Error(err))
	}

	m.publish(r.Context(), TopicPrinterEnrolled, PrinterPayload{Printer: printer})
	m.logger.Info("printer enrolled",
		zap.String("printer_id", printer.ID),
		zap.String("address", printer.IPAddress),
		zap.String("status", string(printer.Status)))
	fleetWriteJSON(w, http.StatusCreated, printer)
}

// handleGetPrinter returns one printer by ID.
//
//	@Summary		Get printer
//	@Tags			fleet
//	@Produce		json
//	@Param			id path string true "Printer ID"
//	@Success		200 {object} models.Printer
//	@Failure		404 {object} map[string]any
//	@Router			/fleet/printers/{id} [get]
func (m *Module) handleGetPrinter(w http.ResponseWriter, r *http.Request) {
	printer, ok := m.lookup(w, r)
	if !ok {
		return
	}
	fleetWriteJSON(w, http.StatusOK, printer)
}

// handleGetByAddress returns one printer by IP address.
//
//	@Summary		Get printer by address
//	@Tags			fleet
//	@Produce		json
//	@Param			address path string true "Printer IP address"
//	@Success		200 {object} models.Printer
//	@Failure		404 {object} map[string]any
//	@Router			/fleet/printers/address/{address} [get]
func (m *Module) handleGetByAddress(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	printer, err := m.store.GetByAddress(r.Context(), address)
	if errors.Is(err, ErrNotFound) {
		fleetWriteError(w, http.StatusNotFound, "no printer enrolled at "+address)
		return
	}
	if err != nil {
		m.logger.Warn("failed to get printer", zap.String("address", address), zap.Error(err))
		fleetWriteError(w, http.StatusInternalServerError, "failed to get printer")
		return
	}
	fleetWriteJSON(w, http.StatusOK, printer)
}

// handleUpdatePrinter changes operator-managed fields (name, location).
// Polled fields and the IP address cannot be edited.
//
//	@Summary		Update printer
//	@Tags			fleet
//	@Accept			json
//	@Produce		json
//	@Param			id path string true "Printer ID"
//	@Param			printer body updateRequest true "Fields to update"
//	@Success		200 {object} models.Printer
//	@Failure		400 {object} map[string]any
//	@Failure		404 {object} map[string]any
//	@Router			/fleet/printers/{id} [patch]
func (m *Module) handleUpdatePrinter(w http.ResponseWriter, r *http.Request) {
	printer, ok := m.lookup(w, r)
	if !ok {
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fleetWriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name != nil {
		printer.Name = *req.Name
	}
	if req.Location != nil {
		printer.Location = *req.Location
	}
	printer.UpdatedAt = nowUTC()
	if err := m.store.Update(r.Context(), printer); err != nil {
		m.logger.Warn("failed to update printer", zap.String("printer_id", printer.ID), zap.Error(err))
		fleetWriteError(w, http.StatusInternalServerError, "failed to update printer")
		return
	}
	m.publish(r.Context(), TopicPrinterUpdated, PrinterPayload{Printer: printer})
	fleetWriteJSON(w, http.StatusOK, printer)
}

// handleDeletePrinter removes a printer and its history.
//
//	@Summary		Delete printer
//	@Tags			fleet
//	@Param			id path string true "Printer ID"
//	@Success		204
//	@Failure		404 {object} map[string]any
//	@Router			/fleet/printers/{id} [delete]
func (m *Module) handleDeletePrinter(w http.ResponseWriter, r *http.Request) {
	printer, ok := m.lookup(w, r)
	if !ok {
		return
	}
	if err := m.store.Delete(r.Context(), printer.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			fleetWriteError(w, http.StatusNotFound, "printer not found")
			return
		}
		m.logger.Warn("failed to delete printer", zap.String("printer_id", printer.ID), zap.Error(err))
		fleetWriteError(w, http.StatusInternalServerError, "failed to delete printer")
		return
	}
	printersGauge.Dec()
	m.publish(r.Context(), TopicPrinterDeleted, PrinterPayload{Printer: printer})
	m.logger.Info("printer deleted",
		zap.String("printer_id", printer.ID),
		zap.String("address", printer.IPAddress))
	w.WriteHeader(http.StatusNoContent)
}

// handleRefreshPrinter triggers an immediate out-of-schedule poll. The poll
// runs in the background; the current record is returned right away.
//
//	@Summary		Refresh printer
//	@Description	Queues an immediate poll of this printer outside the normal schedule.
//	@Tags			fleet
//	@Produce		json
//	@Param			id path string true "Printer ID"
//	@Success		202 {object} models.Printer
//	@Failure		404 {object} map[string]any
//	@Router			/fleet/printers/{id}/refresh [post]
func (m *Module) handleRefreshPrinter(w http.ResponseWriter, r *http.Request) {
	printer, ok := m.lookup(w, r)
	if !ok {
		return
	}
	// Detach from the request context so the poll survives the response.
	ctx := context.WithoutCancel(r.Context())
	go func() {
		if _, err := m.poller.PollOne(ctx, printer.ID); err != nil && !errors.Is(err, ErrNotFound) {
			m.logger.Warn("refresh poll failed",
				zap.String("printer_id", printer.ID), zap.Error(err))
		}
	}()
	fleetWriteJSON(w, http.StatusAccepted, printer)
}

// handlePingPrinter checks ICMP reachability without touching SNMP.
//
//	@Summary		Ping printer
//	@Description	Sends ICMP echoes to the printer and reports transport reachability.
//	@Tags			fleet
//	@Produce		json
//	@Param			id path string true "Printer ID"
//	@Success		200 {object} PingResult
//	@Failure		404 {object} map[string]any
//	@Failure		500 {object} map[string]any
//	@Router			/fleet/printers/{id}/ping [get]
func (m *Module) handlePingPrinter(w http.ResponseWriter, r *http.Request) {
	printer, ok := m.lookup(w, r)
	if !ok {
		return
	}
	result, err := m.pinger.Ping(r.Context(), printer.IPAddress)
	if err != nil {
		m.logger.Warn("ping failed", zap.String("address", printer.IPAddress), zap.Error(err))
		fleetWriteError(w, http.StatusInternalServerError, "ping failed")
		return
	}
	fleetWriteJSON(w, http.StatusOK, result)
}

// handlePrinterHistory returns recent status samples, newest first.
//
//	@Summary		Printer history
//	@Tags			fleet
//	@Produce		json
//	@Param			id path string true "Printer ID"
//	@Param			limit query int false "Maximum samples" default(100)
//	@Success		200 {array} models.StatusSample
//	@Failure		404 {object} map[string]any
//	@Router			/fleet/printers/{id}/history [get]
func (m *Module) handlePrinterHistory(w http.ResponseWriter, r *http.Request) {
	printer, ok := m.lookup(w, r)
	if !ok {
		return
	}
	limit := fleetParseLimit(r, 100)
	samples, err := m.store.History(r.Context(), printer.ID, limit)
	if err != nil {
		m.logger.Warn("failed to list history", zap.String("printer_id", printer.ID), zap.Error(err))
		fleetWriteError(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	if samples == nil {
		samples = []models.StatusSample{}
	}
	fleetWriteJSON(w, http.StatusOK, samples)
}

// handleSweep triggers an immediate full-fleet sweep in the background.
//
//	@Summary		Sweep fleet
//	@Description	Queues an immediate poll of every enrolled printer.
//	@Tags			fleet
//	@Produce		json
//	@Success		202 {object} map[string]any
//	@Router			/fleet/sweep [post]
func (m *Module) handleSweep(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())
	go func() {
		if err := m.poller.PollAll(ctx); err != nil {
			m.logger.Warn("manual sweep failed", zap.Error(err))
		}
	}()
	fleetWriteJSON(w, http.StatusAccepted, map[string]any{"status": "sweep queued"})
}

// handleDashboard returns fleet-wide summary statistics.
//
//	@Summary		Fleet dashboard
//	@Tags			fleet
//	@Produce		json
//	@Success		200 {object} DashboardStats
//	@Failure		500 {object} map[string]any
//	@Router			/fleet/dashboard [get]
func (m *Module) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := m.store.Stats(r.Context(), m.cfg.LowSupplyThreshold)
	if err != nil {
		m.logger.Warn("failed to compute stats", zap.Error(err))
		fleetWriteError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	fleetWriteJSON(w, http.StatusOK, stats)
}

// lookup resolves the {id} path parameter, writing the error response
// itself when the printer does not exist.
func (m *Module) lookup(w http.ResponseWriter, r *http.Request) (models.Printer, bool) {
	id := r.PathValue("id")
	if id == "" {
		fleetWriteError(w, http.StatusBadRequest, "id is required")
		return models.Printer{}, false
	}
	printer, err := m.store.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		fleetWriteError(w, http.StatusNotFound, "printer not found")
		return models.Printer{}, false
	}
	if err != nil {
		m.logger.Warn("failed to get printer", zap.String("printer_id", id), zap.Error(err))
		fleetWriteError(w, http.StatusInternalServerError, "failed to get printer")
		return models.Printer{}, false
	}
	return printer, true
}

func (m *Module) publish(ctx context.Context, topic string, payload any) {
	if m.bus == nil {
		return
	}
	m.bus.PublishAsync(ctx, plugin.Event{
		Topic:     topic,
		Source:    "fleet",
		Timestamp: nowUTC(),
		Payload:   payload,
	})
}

// -- helpers --

func fleetWriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func fleetWriteError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "https://printwatch.dev/problems/" + http.StatusText(status),
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}

func fleetQueryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}

func fleetParseLimit(r *http.Request, defaultLimit int) int {
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 1000 {
			return n
		}
	}
	return defaultLimit
}
