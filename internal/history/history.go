// Package history records completed extractions in a SQLite database so
// past results can be listed and re-run.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"filmarchiv/internal/config"
	"filmarchiv/internal/media"
	"filmarchiv/internal/textutil"
)

const schema = `CREATE TABLE IF NOT EXISTS extractions (
	extractor    TEXT    NOT NULL,
	id           TEXT    NOT NULL,
	url          TEXT    NOT NULL,
	title        TEXT    NOT NULL,
	entries      INTEGER NOT NULL,
	duration     INTEGER NOT NULL,
	extracted_at INTEGER NOT NULL,
	PRIMARY KEY (extractor, id)
)`

// open opens (and creates if needed) the history database.
func open() (*sql.DB, error) {
	path, err := config.HistoryPath()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return db, nil
}

// exists reports whether the history database has been created yet.
func exists() bool {
	path, err := config.HistoryPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// FromPlaylist builds the history entry for an extraction result.
func FromPlaylist(pl *media.Playlist, at time.Time) media.HistoryEntry {
	entry := media.HistoryEntry{
		ID:          pl.ID,
		Extractor:   pl.Extractor,
		URL:         pl.URL,
		Entries:     len(pl.Entries),
		ExtractedAt: at.Unix(),
	}
	if first := pl.First(); first != nil {
		entry.Title = first.Title
		if first.Duration != nil {
			entry.Duration = *first.Duration
		}
	}
	return entry
}

// Save writes or updates an entry. Entries are keyed by extractor and ID.
func Save(entry media.HistoryEntry) error {
	db, err := open()
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec(`INSERT INTO extractions (extractor, id, url, title, entries, duration, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (extractor, id) DO UPDATE SET
			url = excluded.url,
			title = excluded.title,
			entries = excluded.entries,
			duration = excluded.duration,
			extracted_at = excluded.extracted_at`,
		entry.Extractor, entry.ID, entry.URL, entry.Title, entry.Entries, entry.Duration, entry.ExtractedAt)
	if err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return nil
}

// Load returns up to limit entries, most recent first. A limit of zero or
// less returns everything. A missing database yields no entries.
func Load(limit int) ([]media.HistoryEntry, error) {
	if !exists() {
		return nil, nil
	}

	db, err := open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if limit <= 0 {
		limit = -1
	}

	rows, err := db.Query(`SELECT extractor, id, url, title, entries, duration, extracted_at
		FROM extractions ORDER BY extracted_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	defer rows.Close()

	var entries []media.HistoryEntry
	for rows.Next() {
		var e media.HistoryEntry
		if err := rows.Scan(&e.Extractor, &e.ID, &e.URL, &e.Title, &e.Entries, &e.Duration, &e.ExtractedAt); err != nil {
			return nil, fmt.Errorf("reading history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	return entries, nil
}

// Remove deletes one entry from the history and reports whether it existed.
func Remove(extractor, id string) (bool, error) {
	if !exists() {
		return false, nil
	}

	db, err := open()
	if err != nil {
		return false, err
	}
	defer db.Close()

	res, err := db.Exec(`DELETE FROM extractions WHERE extractor = ? AND id = ?`, extractor, id)
	if err != nil {
		return false, fmt.Errorf("removing history entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("removing history entry: %w", err)
	}
	return n > 0, nil
}

// Clear deletes all entries and returns how many were removed.
func Clear() (int64, error) {
	if !exists() {
		return 0, nil
	}

	db, err := open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	res, err := db.Exec(`DELETE FROM extractions`)
	if err != nil {
		return 0, fmt.Errorf("clearing history: %w", err)
	}
	return res.RowsAffected()
}

// FormatForDisplay creates one display line per entry.
func FormatForDisplay(entries []media.HistoryEntry) []string {
	var items []string
	for _, e := range entries {
		display := fmt.Sprintf("%s [%s/%s]", e.Title, e.Extractor, e.ID)
		if e.Duration > 0 {
			display += " " + textutil.FormatDuration(e.Duration)
		}
		if e.Entries > 1 {
			display += fmt.Sprintf(" (%d entries)", e.Entries)
		}
		items = append(items, display)
	}
	return items
}
