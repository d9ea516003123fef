package tracker

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages download completion records backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Record is one completed download.
type Record struct {
	FileID           string
	BundleKey        string
	Filename         string
	FileSize         string
	DownloadedAt     time.Time
	FilePath         string
	BundleTotalFiles int
	HasTotal         bool
}

// BundleStats summarizes completion progress for one bundle.
type BundleStats struct {
	BundleKey  string
	Downloaded int
	Total      int
	HasTotal   bool
}

// Remaining reports how many files are left. It returns zero when the bundle
// total was never recorded.
func (s BundleStats) Remaining() int {
	if !s.HasTotal || s.Total < s.Downloaded {
		return 0
	}
	return s.Total - s.Downloaded
}

// FileID derives the stable identifier for one format of one bundle item.
func FileID(bundleKey string, itemNumber int, format string) string {
	return fmt.Sprintf("%s_%d_%s", bundleKey, itemNumber, strings.ToLower(format))
}

// Open initializes or connects to the tracker database.
func Open(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("tracker database path required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// MarkDownloaded upserts one completion record. Marking an already recorded
// file refreshes its timestamp and metadata.
func (s *Store) MarkDownloaded(ctx context.Context, rec Record) error {
	if rec.FileID == "" {
		return fmt.Errorf("file id required")
	}
	downloadedAt := rec.DownloadedAt
	if downloadedAt.IsZero() {
		downloadedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO downloads (
            file_id, bundle_key, filename, file_size,
            downloaded_at, file_path, bundle_total_files
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.FileID,
		rec.BundleKey,
		rec.Filename,
		nullableString(rec.FileSize),
		downloadedAt.UTC().Format(time.RFC3339Nano),
		nullableString(rec.FilePath),
		nullableTotal(rec),
	)
	if err != nil {
		return fmt.Errorf("record download: %w", err)
	}
	return nil
}

// IsDownloaded reports whether the file was previously completed.
func (s *Store) IsDownloaded(ctx context.Context, fileID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM downloads WHERE file_id = ?", fileID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check download: %w", err)
	}
	return count > 0, nil
}

// CompletedFileIDs returns the set of completed file ids for one bundle.
func (s *Store) CompletedFileIDs(ctx context.Context, bundleKey string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT file_id FROM downloads WHERE bundle_key = ?", bundleKey,
	)
	if err != nil {
		return nil, fmt.Errorf("list completed files: %w", err)
	}
	defer rows.Close()

	completed := make(map[string]bool)
	for rows.Next() {
		var fileID string
		if err := rows.Scan(&fileID); err != nil {
			return nil, fmt.Errorf("scan file id: %w", err)
		}
		completed[fileID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completed files: %w", err)
	}
	return completed, nil
}

// DownloadedFiles returns the completion records for one bundle, newest first.
func (s *Store) DownloadedFiles(ctx context.Context, bundleKey string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT file_id, bundle_key, filename, file_size,
                downloaded_at, file_path, bundle_total_files
         FROM downloads WHERE bundle_key = ?
         ORDER BY downloaded_at DESC`,
		bundleKey,
	)
	if err != nil {
		return nil, fmt.Errorf("list downloads: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Stats computes completion progress for one bundle.
func (s *Store) Stats(ctx context.Context, bundleKey string) (BundleStats, error) {
	stats := BundleStats{BundleKey: bundleKey}

	var total sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), MAX(bundle_total_files)
         FROM downloads WHERE bundle_key = ?`,
		bundleKey,
	).Scan(&stats.Downloaded, &total)
	if err != nil {
		return BundleStats{}, fmt.Errorf("bundle stats: %w", err)
	}
	if total.Valid {
		stats.Total = int(total.Int64)
		stats.HasTotal = true
	}
	return stats, nil
}

// TrackedBundles returns stats for every bundle with at least one completed
// download, ordered by bundle key.
func (s *Store) TrackedBundles(ctx context.Context) ([]BundleStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT bundle_key, COUNT(1), MAX(bundle_total_files)
         FROM downloads GROUP BY bundle_key ORDER BY bundle_key`,
	)
	if err != nil {
		return nil, fmt.Errorf("list tracked bundles: %w", err)
	}
	defer rows.Close()

	var bundles []BundleStats
	for rows.Next() {
		var stats BundleStats
		var total sql.NullInt64
		if err := rows.Scan(&stats.BundleKey, &stats.Downloaded, &total); err != nil {
			return nil, fmt.Errorf("scan bundle stats: %w", err)
		}
		if total.Valid {
			stats.Total = int(total.Int64)
			stats.HasTotal = true
		}
		bundles = append(bundles, stats)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracked bundles: %w", err)
	}
	return bundles, nil
}

// TotalDownloaded counts completion records across all bundles.
func (s *Store) TotalDownloaded(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM downloads").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count downloads: %w", err)
	}
	return count, nil
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var rec Record
		var fileSize, filePath sql.NullString
		var downloadedAt string
		var total sql.NullInt64
		if err := rows.Scan(
			&rec.FileID, &rec.BundleKey, &rec.Filename, &fileSize,
			&downloadedAt, &filePath, &total,
		); err != nil {
			return nil, fmt.Errorf("scan download record: %w", err)
		}
		rec.FileSize = fileSize.String
		rec.FilePath = filePath.String
		if parsed, err := time.Parse(time.RFC3339Nano, downloadedAt); err == nil {
			rec.DownloadedAt = parsed
		}
		if total.Valid {
			rec.BundleTotalFiles = int(total.Int64)
			rec.HasTotal = true
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate download records: %w", err)
	}
	return records, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTotal(rec Record) any {
	if !rec.HasTotal {
		return nil
	}
	return int64(rec.BundleTotalFiles)
}
