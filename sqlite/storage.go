package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/mfialko/folio"
)

// Compile-time interface verification.
var _ folio.CacheStorage = (*Storage)(nil)

// Storage implements folio.CacheStorage using SQLite.
type Storage struct {
	db *DB
}

// NewStorage creates a new Storage.
func NewStorage(db *DB) *Storage {
	return &Storage{db: db}
}

// Open returns the named cache, creating its row if absent.
func (s *Storage) Open(ctx context.Context, name string) (folio.Cache, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO caches (name, created_at) VALUES (?, ?)
		ON CONFLICT (name) DO NOTHING
	`, name, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	return &Cache{db: s.db, name: name}, nil
}

// Delete removes a cache generation; its entries cascade.
func (s *Storage) Delete(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM caches WHERE name = ?`, name)
	return err
}

// Names lists all cache generations in sorted order.
func (s *Storage) Names(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM caches ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Compile-time interface verification.
var _ folio.Cache = (*Cache)(nil)

// Cache is one SQLite-backed generation. Concurrent writes to the
// same key are last-write-wins via upsert.
type Cache struct {
	db   *DB
	name string
}

// hashBody computes xxHash of a response body and returns a hex string.
func hashBody(body []byte) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], xxhash.Sum64(body))
	return hex.EncodeToString(b[:])
}

// Match returns the stored response for url.
func (c *Cache) Match(ctx context.Context, url string) (*folio.Response, error) {
	var (
		resp       folio.Response
		respType   string
		rawHeaders string
	)

	err := c.db.QueryRowContext(ctx, `
		SELECT status, response_type, headers, body
		FROM entries
		WHERE cache_name = ? AND url = ?
	`, c.name, url).Scan(&resp.Status, &respType, &rawHeaders, &resp.Body)

	if err == sql.ErrNoRows {
		return nil, folio.Errorf(folio.ENOTFOUND, "no cache entry for %q", url)
	}
	if err != nil {
		return nil, err
	}

	resp.Type = folio.ResponseType(respType)
	if rawHeaders != "" && rawHeaders != "{}" {
		if err := json.Unmarshal([]byte(rawHeaders), &resp.Header); err != nil {
			return nil, err
		}
	}
	return &resp, nil
}

// Put stores a response snapshot keyed by url, replacing any previous
// entry.
func (c *Cache) Put(ctx context.Context, url string, resp *folio.Response) error {
	headers := "{}"
	if len(resp.Header) > 0 {
		data, err := json.Marshal(resp.Header)
		if err != nil {
			return err
		}
		headers = string(data)
	}

	body := resp.Body
	if body == nil {
		body = []byte{}
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO entries (id, cache_name, url, status, response_type, headers, body, content_hash, stored_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (cache_name, url) DO UPDATE SET
			status = excluded.status,
			response_type = excluded.response_type,
			headers = excluded.headers,
			body = excluded.body,
			content_hash = excluded.content_hash,
			stored_at = excluded.stored_at
	`, uuid.New().String(), c.name, url, resp.Status, string(resp.Type), headers, body,
		hashBody(body), time.Now().UTC().Format(time.RFC3339))

	return err
}

// Delete removes the entry for url, if present.
func (c *Cache) Delete(ctx context.Context, url string) error {
	_, err := c.db.ExecContext(ctx, `
		DELETE FROM entries WHERE cache_name = ? AND url = ?
	`, c.name, url)
	return err
}

// Keys returns all entry keys in the cache in sorted order.
func (c *Cache) Keys(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT url FROM entries WHERE cache_name = ? ORDER BY url
	`, c.name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		keys = append(keys, url)
	}
	return keys, rows.Err()
}
