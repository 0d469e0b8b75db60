package fleet

import (
	"database/sql"

	"github.com/HerbHall/printwatch/pkg/plugin"
)

func migrations() []plugin.Migration {
	return []plugin.Migration{
		{
			Version:     1,
			Description: "create printers table",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`
					CREATE TABLE IF NOT EXISTS fleet_printers (
						id                  TEXT PRIMARY KEY,
						ip_address          TEXT NOT NULL UNIQUE,
						name                TEXT NOT NULL DEFAULT '',
						model               TEXT NOT NULL DEFAULT '',
						location            TEXT NOT NULL DEFAULT '',
						status              TEXT NOT NULL,
						total_pages_printed INTEGER,
						toner_level         INTEGER,
						paper_level         INTEGER,
						error_message       TEXT NOT NULL DEFAULT '',
						last_checked        TIMESTAMP,
						created_at          TIMESTAMP NOT NULL,
						updated_at          TIMESTAMP NOT NULL
					);
					CREATE INDEX IF NOT EXISTS idx_fleet_printers_status
						ON fleet_printers(status);
				`)
				return err
			},
		},
		{
			Version:     2,
			Description: "create status history table",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`
					CREATE TABLE IF NOT EXISTS fleet_status_history (
						id                  INTEGER PRIMARY KEY AUTOINCREMENT,
						printer_id          TEXT NOT NULL REFERENCES fleet_printers(id) ON DELETE CASCADE,
						status              TEXT NOT NULL,
						toner_level         INTEGER,
						paper_level         INTEGER,
						total_pages_printed INTEGER,
						error_message       TEXT NOT NULL DEFAULT '',
						recorded_at         TIMESTAMP NOT NULL
					);
					CREATE INDEX IF NOT EXISTS idx_fleet_history_printer_time
						ON fleet_status_history(printer_id, recorded_at);
				`)
				return err
			},
		},
	}
}
