package fleet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HerbHall/printwatch/pkg/models"
)

// ErrNotFound is returned when a printer lookup matches nothing.
var ErrNotFound = errors.New("printer not found")

// ErrDuplicateAddress is returned when enrollment collides with an
// existing printer's IP address.
var ErrDuplicateAddress = errors.New("ip address already enrolled")

// Store persists printers and their status history. All methods are safe
// for concurrent use; the underlying pool serializes writers.
type Store struct {
	db *sql.DB
}

// NewStore wraps the shared database handle. Migrations are applied by the
// module during Init, not here.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const printerColumns = `id, ip_address, name, model, location, status,
	total_pages_printed, toner_level, paper_level, error_message,
	last_checked, created_at, updated_at`

// Insert adds a newly enrolled printer. A UNIQUE violation on ip_address
// maps to ErrDuplicateAddress.
func (s *Store) Insert(ctx context.Context, p models.Printer) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fleet_printers (`+printerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.IPAddress, p.Name, p.Model, p.Location, string(p.Status),
		p.TotalPagesPrinted, p.TonerLevel, p.PaperLevel, p.ErrorMessage,
		p.LastChecked, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateAddress
		}
		return fmt.Errorf("insert printer: %w", err)
	}
	return nil
}

// Update rewrites every mutable column of an existing printer.
// The IP address is identity and is never updated.
func (s *Store) Update(ctx context.Context, p models.Printer) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE fleet_printers SET
			name = ?, model = ?, location = ?, status = ?,
			total_pages_printed = ?, toner_level = ?, paper_level = ?,
			error_message = ?, last_checked = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Model, p.Location, string(p.Status),
		p.TotalPagesPrinted, p.TonerLevel, p.PaperLevel,
		p.ErrorMessage, p.LastChecked, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update printer: %w", err)
	}
	return requireHit(res)
}

// Delete removes a printer and, via cascade, its history.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM fleet_printers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete printer: %w", err)
	}
	return requireHit(res)
}

// Get returns the printer with the given ID.
func (s *Store) Get(ctx context.Context, id string) (models.Printer, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+printerColumns+` FROM fleet_printers WHERE id = ?`, id)
	return scanPrinter(row)
}

// GetByAddress returns the printer enrolled at the given IP address.
func (s *Store) GetByAddress(ctx context.Context, address string) (models.Printer, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+printerColumns+` FROM fleet_printers WHERE ip_address = ?`, address)
	return scanPrinter(row)
}

// ListFilter narrows List results. Zero values mean no constraint.
type ListFilter struct {
	Status   models.Status
	Location string
	// TonerAtMost / PaperAtMost select printers whose known supply level is
	// at or below the threshold. Printers with an unknown level never match.
	TonerAtMost *int
	PaperAtMost *int
}

// List returns printers ordered by name, optionally filtered by status,
// location substring, or low supply levels.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]models.Printer, error) {
	query := `SELECT ` + printerColumns + ` FROM fleet_printers`
	var clauses []string
	var args []any
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Location != "" {
		clauses = append(clauses, "location LIKE ?")
		args = append(args, "%"+filter.Location+"%")
	}
	if filter.TonerAtMost != nil {
		clauses = append(clauses, "toner_level IS NOT NULL AND toner_level <= ?")
		args = append(args, *filter.TonerAtMost)
	}
	if filter.PaperAtMost != nil {
		clauses = append(clauses, "paper_level IS NOT NULL AND paper_level <= ?")
		args = append(args, *filter.PaperAtMost)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY name, ip_address"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list printers: %w", err)
	}
	defer rows.Close()

	var out []models.Printer
	for rows.Next() {
		p, err := scanPrinter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Count returns the number of enrolled printers.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM fleet_printers`).Scan(&n)
	return n, err
}

// InsertSample appends one history row for a printer.
func (s *Store) InsertSample(ctx context.Context, sample models.StatusSample) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fleet_status_history
			(printer_id, status, toner_level, paper_level,
			 total_pages_printed, error_message, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sample.PrinterID, string(sample.Status), sample.TonerLevel,
		sample.PaperLevel, sample.TotalPagesPrinted, sample.ErrorMessage,
		sample.Timestamp)
	if err != nil {
		return fmt.Errorf("insert status sample: %w", err)
	}
	return nil
}

// History returns the most recent samples for a printer, newest first.
func (s *Store) History(ctx context.Context, printerID string, limit int) ([]models.StatusSample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, printer_id, status, toner_level, paper_level,
			total_pages_printed, error_message, recorded_at
		FROM fleet_status_history
		WHERE printer_id = ?
		ORDER BY recorded_at DESC, id DESC
		LIMIT ?`, printerID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []models.StatusSample
	for rows.Next() {
		var sample models.StatusSample
		var status string
		if err := rows.Scan(&sample.ID, &sample.PrinterID, &status,
			&sample.TonerLevel, &sample.PaperLevel,
			&sample.TotalPagesPrinted, &sample.ErrorMessage,
			&sample.Timestamp); err != nil {
			return nil, fmt.Errorf("scan status sample: %w", err)
		}
		sample.Status = models.Status(status)
		out = append(out, sample)
	}
	return out, rows.Err()
}

// PruneHistory deletes samples older than the cutoff and returns the number
// of rows removed.
func (s *Store) PruneHistory(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM fleet_status_history WHERE recorded_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	return res.RowsAffected()
}

// DashboardStats summarizes the fleet for the dashboard endpoint.
type DashboardStats struct {
	Total       int            `json:"total"`
	ByStatus    map[string]int `json:"by_status"`
	Online      int            `json:"online"`
	Offline     int            `json:"offline"`
	Errored     int            `json:"errored"`
	LowToner    int            `json:"low_toner"`
	LowPaper    int            `json:"low_paper"`
	WithError   int            `json:"with_error_message"`
	TotalPages  int            `json:"total_pages_printed"`
	LastChecked *time.Time     `json:"last_checked,omitempty"`
}

// Stats computes fleet-wide dashboard numbers. lowThreshold is the supply
// percentage at or below which a printer counts as low on toner or paper.
func (s *Store) Stats(ctx context.Context, lowThreshold int) (DashboardStats, error) {
	stats := DashboardStats{ByStatus: make(map[string]int)}

	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM fleet_printers GROUP BY status`)
	if err != nil {
		return stats, fmt.Errorf("stats by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return stats, err
		}
		stats.ByStatus[status] = n
		stats.Total += n
		switch models.Status(status) {
		case models.StatusOffline:
			stats.Offline += n
		case models.StatusError:
			stats.Errored += n
		default:
			stats.Online += n
		}
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(CASE WHEN toner_level IS NOT NULL AND toner_level <= ? THEN 1 END),
			COUNT(CASE WHEN paper_level IS NOT NULL AND paper_level <= ? THEN 1 END),
			COUNT(CASE WHEN error_message != '' THEN 1 END),
			COALESCE(SUM(total_pages_printed), 0)
		FROM fleet_printers`,
		lowThreshold, lowThreshold).Scan(
		&stats.LowToner, &stats.LowPaper, &stats.WithError, &stats.TotalPages)
	if err != nil {
		return stats, fmt.Errorf("stats aggregates: %w", err)
	}

	var latest time.Time
	err = s.db.QueryRowContext(ctx, `
		SELECT last_checked FROM fleet_printers
		WHERE last_checked IS NOT NULL
		ORDER BY last_checked DESC LIMIT 1`).Scan(&latest)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// fleet never polled yet
	case err != nil:
		return stats, fmt.Errorf("stats last checked: %w", err)
	default:
		stats.LastChecked = &latest
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrinter(row rowScanner) (models.Printer, error) {
	var p models.Printer
	var status string
	err := row.Scan(&p.ID, &p.IPAddress, &p.Name, &p.Model, &p.Location,
		&status, &p.TotalPagesPrinted, &p.TonerLevel, &p.PaperLevel,
		&p.ErrorMessage, &p.LastChecked, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	if err != nil {
		return p, fmt.Errorf("scan printer: %w", err)
	}
	p.Status = models.Status(status)
	return p, nil
}

func requireHit(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
