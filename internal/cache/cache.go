// Package cache keeps a local sqlite history of fetched trend items so
// past runs can be inspected and pruned without refetching sources.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matheuskafuri/trendradar/internal/trend"
)

type Cache struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

// Open creates or opens the history database at dbPath. Writes go through a
// single-connection handle; reads use a separate read-only handle.
func Open(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	c := &Cache{readDB: readDB, writeDB: writeDB}
	if err := c.init(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) init() error {
	_, err := c.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			id         TEXT PRIMARY KEY,
			source     TEXT NOT NULL,
			title      TEXT NOT NULL,
			url        TEXT NOT NULL,
			summary    TEXT NOT NULL DEFAULT '',
			tags       TEXT NOT NULL DEFAULT '',
			score      INTEGER NOT NULL DEFAULT 0,
			published  DATETIME NOT NULL,
			fetched_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_items_fetched ON items(fetched_at DESC);
		CREATE INDEX IF NOT EXISTS idx_items_source ON items(source);

		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	var errs []error
	if c.readDB != nil {
		errs = append(errs, c.readDB.Close())
	}
	if c.writeDB != nil {
		errs = append(errs, c.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// itemID keys history rows on URL+title, so repeated fetches of the same
// story update in place.
func itemID(url, title string) string {
	h := sha256.Sum256([]byte(url + "|" + title))
	return fmt.Sprintf("%x", h[:16])
}

// RecordItems upserts a batch of fetched items in one transaction.
func (c *Cache) RecordItems(items []trend.Item, fetchedAt time.Time) error {
	tx, err := c.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO items (id, source, title, url, summary, tags, score, published, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			summary = excluded.summary,
			tags = excluded.tags,
			score = excluded.score,
			fetched_at = excluded.fetched_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, item := range items {
		published := item.PublishedAt
		if published == "" {
			published = fetchedAt.UTC().Format(time.RFC3339)
		}
		_, err := stmt.Exec(
			itemID(item.URL, item.Title), item.Source, item.Title, item.URL,
			item.Summary, strings.Join(item.Tags, ","), item.Score,
			published, fetchedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("recording item %q: %w", item.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	return c.setLastRun(fetchedAt)
}

// RecentItems returns up to limit items fetched at or after since, newest
// first. limit <= 0 means 500.
func (c *Cache) RecentItems(since time.Time, limit int) ([]trend.Item, error) {
	if limit <= 0 {
		limit = 500
	}

	rows, err := c.readDB.Query(`
		SELECT source, title, url, summary, tags, score, published
		FROM items
		WHERE fetched_at >= ?
		ORDER BY fetched_at DESC
		LIMIT ?
	`, since.UTC().Format(time.RFC3339), limit)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []trend.Item
	for rows.Next() {
		var item trend.Item
		var tags string
		if err := rows.Scan(&item.Source, &item.Title, &item.URL, &item.Summary, &tags, &item.Score, &item.PublishedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		if tags != "" {
			item.Tags = strings.Split(tags, ",")
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Prune deletes items fetched before the retention window and reports how
// many were removed.
func (c *Cache) Prune(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).UTC().Format(time.RFC3339)
	res, err := c.writeDB.Exec("DELETE FROM items WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Stats returns the item count and the database file size.
func (c *Cache) Stats(dbPath string) (int64, int64, error) {
	var count int64
	if err := c.readDB.QueryRow("SELECT COUNT(*) FROM items").Scan(&count); err != nil {
		return 0, 0, err
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, err
	}
	return count, info.Size(), nil
}

// LastRun returns the time of the most recent recorded fetch, or the zero
// time when none is recorded.
func (c *Cache) LastRun() time.Time {
	var value string
	if err := c.readDB.QueryRow("SELECT value FROM meta WHERE key = 'last_run'").Scan(&value); err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (c *Cache) setLastRun(t time.Time) error {
	_, err := c.writeDB.Exec(`
		INSERT INTO meta (key, value) VALUES ('last_run', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, t.UTC().Format(time.RFC3339))
	return err
}
