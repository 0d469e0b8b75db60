package fleet

import (
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/printwatch/pkg/models"
)

// hrPrinterStatus code points. Anything else the agent reports is treated
// as a generic "responding" state.
var statusByCode = map[int]models.Status{
	1: models.StatusOther,
	2: models.StatusUnknown,
	3: models.StatusIdle,
	4: models.StatusPrinting,
	5: models.StatusWarmup,
}

// Prober turns one SNMP conversation into a PollResult. It never touches
// storage; the poller owns persistence.
type Prober struct {
	factory SessionFactory
	logger  *zap.Logger
	now     func() time.Time
}

// NewProber builds a prober over the given session factory.
func NewProber(factory SessionFactory, logger *zap.Logger) *Prober {
	return &Prober{factory: factory, logger: logger, now: time.Now}
}

// Probe polls the printer at address. The returned PollResult always has a
// status and timestamp; text and numeric fields are populated only when the
// agent supplied a usable value.
//
// Outcomes:
//   - session cannot be opened, or a request fails at the session level
//     mid-poll: ERROR with the cause, any partially collected fields
//     discarded
//   - the reachability probe (sysName) times out or errors: OFFLINE
//   - a later field times out or is not implemented by the agent: that
//     field is skipped, the poll continues
func (p *Prober) Probe(address string) models.PollResult {
	checked := p.now()

	session, err := p.factory.Open(address)
	if err != nil {
		p.logger.Warn("snmp session open failed",
			zap.String("address", address), zap.Error(err))
		return models.PollResult{
			Status:       models.StatusError,
			ErrorMessage: err.Error(),
			CheckedAt:    checked,
		}
	}
	defer session.Close()

	// Reachability probe. No answer here means the device is off or
	// unreachable, which is expected and not an error condition.
	reach := session.Get(OIDSysName)
	if reach.Kind == ResultTimeout || reach.Kind == ResultError {
		return models.PollResult{Status: models.StatusOffline, CheckedAt: checked}
	}

	result := models.PollResult{CheckedAt: checked}

	fields := []struct {
		oid   string
		apply func(raw string)
	}{
		{OIDSysName, func(raw string) { result.Name = raw }},
		{OIDDeviceModel, func(raw string) { result.Model = raw }},
		{OIDSysLocation, func(raw string) { result.Location = raw }},
		{OIDPagesPrinted, func(raw string) { result.TotalPagesPrinted = parseCount(raw) }},
		{OIDTonerLevel, func(raw string) { result.TonerLevel = parseCount(raw) }},
		{OIDPaperLevel, func(raw string) { result.PaperLevel = parseCount(raw) }},
		{OIDPrinterError, func(raw string) { result.ErrorMessage = raw }},
	}

	status := session.Get(OIDDeviceStatus)
	if status.Kind == ResultError {
		p.logger.Warn("snmp session failed mid-poll",
			zap.String("address", address),
			zap.String("oid", OIDDeviceStatus), zap.Error(status.Err))
		return models.PollResult{
			Status:       models.StatusError,
			ErrorMessage: status.Err.Error(),
			CheckedAt:    checked,
		}
	}
	result.Status = mapStatus(status)

	for _, f := range fields {
		got := session.Get(f.oid)
		switch got.Kind {
		case ResultError:
			// The conversation broke down. Partial data is unreliable, so
			// report an error with nothing merged.
			p.logger.Warn("snmp session failed mid-poll",
				zap.String("address", address),
				zap.String("oid", f.oid), zap.Error(got.Err))
			return models.PollResult{
				Status:       models.StatusError,
				ErrorMessage: got.Err.Error(),
				CheckedAt:    checked,
			}
		case ResultTimeout:
			// One object not answering is a missing reading, not an outage.
			p.logger.Warn("snmp get timed out, skipping field",
				zap.String("address", address), zap.String("oid", f.oid))
		case ResultNoSuchObject:
			// Agent does not implement this object. Skip the field.
		case ResultValue:
			f.apply(got.Raw)
		}
	}

	return result
}

// mapStatus converts a raw hrPrinterStatus reading into a fleet status.
// A device that answered but gave no status at all is UNKNOWN; one that
// answered with something unrecognizable is at least ONLINE.
func mapStatus(got GetResult) models.Status {
	if got.Kind != ResultValue {
		return models.StatusUnknown
	}
	code, err := strconv.Atoi(got.Raw)
	if err != nil {
		return models.StatusOnline
	}
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return models.StatusOnline
}

// parseCount parses a non-negative counter value. Garbage readings return
// nil so the stored value is left untouched.
func parseCount(raw string) *int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}
