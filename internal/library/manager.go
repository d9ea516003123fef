package library

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"humblesync/internal/downloads"
	"humblesync/internal/humblecli"
	"humblesync/internal/tracker"
)

// Client is the subset of the humble-cli client the manager needs.
type Client interface {
	ListBundles(ctx context.Context) ([]humblecli.Bundle, error)
	BundleDetails(ctx context.Context, bundleKey string) (*humblecli.Details, error)
	Download(ctx context.Context, bundleKey string, itemNumber int, format, destDir string) (bool, error)
}

// Manager exposes the purchased library and records completed downloads.
// It implements both the transfer and completion-store contracts of the
// download orchestrator.
type Manager struct {
	client    Client
	store     *tracker.Store
	outputDir string

	mu      sync.Mutex
	details map[string]*humblecli.Details
}

// NewManager wires a library manager over a client and a tracker store.
func NewManager(client Client, store *tracker.Store, outputDir string) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("client required")
	}
	if store == nil {
		return nil, fmt.Errorf("tracker store required")
	}
	if strings.TrimSpace(outputDir) == "" {
		return nil, fmt.Errorf("output directory required")
	}
	return &Manager{
		client:    client,
		store:     store,
		outputDir: outputDir,
		details:   make(map[string]*humblecli.Details),
	}, nil
}

// OutputDir returns the directory downloads are written into.
func (m *Manager) OutputDir() string {
	return m.outputDir
}

// Bundles lists every purchased bundle sorted by name, case-insensitively.
func (m *Manager) Bundles(ctx context.Context) ([]humblecli.Bundle, error) {
	bundles, err := m.client.ListBundles(ctx)
	if err != nil {
		return nil, err
	}
	collator := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(bundles, func(i, j int) bool {
		return collator.CompareString(bundles[i].Name, bundles[j].Name) < 0
	})
	return bundles, nil
}

// BundleContents is one bundle's parsed details plus its completion state.
type BundleContents struct {
	Key       string
	Details   humblecli.Details
	completed map[string]bool
}

// CompletedFormats returns which formats of one item are already downloaded,
// keyed by format name.
func (b *BundleContents) CompletedFormats(item humblecli.Item) map[string]bool {
	completed := make(map[string]bool, len(item.Formats))
	for _, format := range item.Formats {
		if b.completed[tracker.FileID(b.Key, item.Number, format)] {
			completed[format] = true
		}
	}
	return completed
}

// Contents fetches one bundle's details and joins them with the tracker's
// completion records. Details are cached for the manager's lifetime so that
// completion bookkeeping can run without another humble-cli round trip.
func (m *Manager) Contents(ctx context.Context, bundleKey string) (*BundleContents, error) {
	details, err := m.client.BundleDetails(ctx, bundleKey)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.details[bundleKey] = details
	m.mu.Unlock()

	completed, err := m.store.CompletedFileIDs(ctx, bundleKey)
	if err != nil {
		return nil, err
	}
	return &BundleContents{Key: bundleKey, Details: *details, completed: completed}, nil
}

// NewRequest builds a download request for one format of one bundle item.
func (m *Manager) NewRequest(bundleKey string, itemNumber int, format string) downloads.Request {
	return downloads.Request{
		ID:         uuid.New(),
		BundleKey:  bundleKey,
		ItemNumber: itemNumber,
		Format:     format,
		DestDir:    m.outputDir,
	}
}

// Transfer runs one download through humble-cli.
func (m *Manager) Transfer(ctx context.Context, req downloads.Request) (bool, error) {
	return m.client.Download(ctx, req.BundleKey, req.ItemNumber, req.Format, req.DestDir)
}

// MarkDownloaded records a finished download in the tracker. The bundle total
// is the number of files the bundle would produce if every item were fetched
// in every format; it is derived from the cached details when available.
func (m *Manager) MarkDownloaded(ctx context.Context, req downloads.Request) error {
	filename := fmt.Sprintf("item_%d.%s", req.ItemNumber, strings.ToLower(req.Format))
	rec := tracker.Record{
		FileID:    tracker.FileID(req.BundleKey, req.ItemNumber, req.Format),
		BundleKey: req.BundleKey,
		Filename:  filename,
		FilePath:  filepath.Join(req.DestDir, filename),
	}
	m.mu.Lock()
	details, cached := m.details[req.BundleKey]
	m.mu.Unlock()
	if cached {
		total := 0
		for _, item := range details.Items {
			total += len(item.Formats)
			if item.Number == req.ItemNumber {
				rec.FileSize = item.Size
			}
		}
		rec.BundleTotalFiles = total
		rec.HasTotal = true
	}
	return m.store.MarkDownloaded(ctx, rec)
}

// Stats reports completion progress for one bundle.
func (m *Manager) Stats(ctx context.Context, bundleKey string) (tracker.BundleStats, error) {
	return m.store.Stats(ctx, bundleKey)
}

// TrackedBundles reports completion progress for every bundle the tracker
// has seen.
func (m *Manager) TrackedBundles(ctx context.Context) ([]tracker.BundleStats, error) {
	return m.store.TrackedBundles(ctx)
}
