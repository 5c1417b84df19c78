package segcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"pilotcast/internal/fileutil"
	"pilotcast/internal/services"
)

// ErrEntryExists is returned by Store when the fingerprint is already cached.
var ErrEntryExists = errors.New("segment already cached")

const (
	indexFileName = "segments.db"
	blobDirName   = "segments"
	blobExt       = ".mp3"
)

// Entry describes one cached clip.
type Entry struct {
	Fingerprint string
	Speaker     string
	VoiceID     string
	ModelID     string
	Text        string
	Path        string
	SizeBytes   int64
	StoredAt    time.Time
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries    int
	TotalBytes int64
	Oldest     time.Time
	Newest     time.Time
}

// Cache manages clip blobs and their SQLite index.
type Cache struct {
	db     *sql.DB
	dir    string
	dbPath string
	now    func() time.Time
}

// Open initializes or connects to the cache rooted at dir.
func Open(ctx context.Context, dir string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Join(dir, blobDirName), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, indexFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	cache := &Cache{db: db, dir: dir, dbPath: dbPath, now: time.Now}
	if err := cache.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return cache, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) blobRelPath(fp string) string {
	return filepath.Join(blobDirName, fp[:2], fp+blobExt)
}

// Lookup returns the clip path for fp. An index row whose blob has vanished
// is pruned and reported as a miss.
func (c *Cache) Lookup(ctx context.Context, fp string) (string, bool, error) {
	if !validFingerprint(fp) {
		return "", false, fmt.Errorf("invalid fingerprint %q", fp)
	}
	var rel string
	err := c.db.QueryRowContext(ctx, "SELECT path FROM segments WHERE fingerprint = ?", fp).Scan(&rel)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup segment: %w", err)
	}

	path := filepath.Join(c.dir, rel)
	info, statErr := os.Stat(path)
	if statErr == nil && info.Mode().IsRegular() && info.Size() > 0 {
		return path, true, nil
	}
	if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
		return "", false, fmt.Errorf("stat cached segment: %w", statErr)
	}
	if _, err := c.db.ExecContext(ctx, "DELETE FROM segments WHERE fingerprint = ?", fp); err != nil {
		return "", false, fmt.Errorf("prune missing segment: %w", err)
	}
	_ = os.Remove(path)
	return "", false, nil
}

// Store writes data as the clip for key and indexes it. It refuses to
// replace an existing entry; callers regenerate by calling Evict first.
func (c *Cache) Store(ctx context.Context, key Key, data []byte) (string, error) {
	if len(data) == 0 {
		return "", services.Wrap(services.ErrIntegrity, "segcache", "store", "refusing to cache empty clip", nil)
	}
	fp := key.Fingerprint()
	if _, ok, err := c.Lookup(ctx, fp); err != nil {
		return "", err
	} else if ok {
		return "", fmt.Errorf("%w: %s", ErrEntryExists, fp)
	}

	rel := c.blobRelPath(fp)
	path := filepath.Join(c.dir, rel)
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write segment blob: %w", err)
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO segments (fingerprint, speaker, voice_id, model_id, text, path, size_bytes, stored_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		fp, key.Speaker, key.VoiceID, key.ModelID, key.Text, rel, int64(len(data)),
		c.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("index segment: %w", err)
	}
	return path, nil
}

// Evict removes the entry for fp. Evicting an absent entry is not an error.
func (c *Cache) Evict(ctx context.Context, fp string) error {
	if !validFingerprint(fp) {
		return fmt.Errorf("invalid fingerprint %q", fp)
	}
	if _, err := c.db.ExecContext(ctx, "DELETE FROM segments WHERE fingerprint = ?", fp); err != nil {
		return fmt.Errorf("evict segment: %w", err)
	}
	if err := os.Remove(filepath.Join(c.dir, c.blobRelPath(fp))); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove segment blob: %w", err)
	}
	return nil
}

// Stats reports entry count, total size, and the stored_at range.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	var (
		stats          Stats
		oldest, newest sql.NullString
	)
	err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(1), COALESCE(SUM(size_bytes), 0), MIN(stored_at), MAX(stored_at) FROM segments",
	).Scan(&stats.Entries, &stats.TotalBytes, &oldest, &newest)
	if err != nil {
		return Stats{}, fmt.Errorf("read cache stats: %w", err)
	}
	stats.Oldest = parseTime(oldest)
	stats.Newest = parseTime(newest)
	return stats, nil
}

// List returns up to limit entries, newest first. limit <= 0 means all.
func (c *Cache) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT fingerprint, speaker, voice_id, model_id, text, path, size_bytes, stored_at
              FROM segments ORDER BY stored_at DESC, fingerprint`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e        Entry
			rel      string
			storedAt sql.NullString
		)
		if err := rows.Scan(&e.Fingerprint, &e.Speaker, &e.VoiceID, &e.ModelID, &e.Text, &rel, &e.SizeBytes, &storedAt); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		e.Path = filepath.Join(c.dir, rel)
		e.StoredAt = parseTime(storedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate segments: %w", err)
	}
	return entries, nil
}

func parseTime(value sql.NullString) time.Time {
	if !value.Valid || value.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, value.String)
	if err != nil {
		return time.Time{}
	}
	return t
}
