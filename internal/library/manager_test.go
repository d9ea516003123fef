package library

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"humblesync/internal/humblecli"
	"humblesync/internal/tracker"
)

type fakeClient struct {
	bundles     []humblecli.Bundle
	details     map[string]*humblecli.Details
	listErr     error
	downloadOK  bool
	downloadErr error
	downloaded  []string
}

func (f *fakeClient) ListBundles(context.Context) ([]humblecli.Bundle, error) {
	return f.bundles, f.listErr
}

func (f *fakeClient) BundleDetails(_ context.Context, bundleKey string) (*humblecli.Details, error) {
	details, ok := f.details[bundleKey]
	if !ok {
		return nil, errors.New("unknown bundle")
	}
	return details, nil
}

func (f *fakeClient) Download(_ context.Context, bundleKey string, itemNumber int, format, _ string) (bool, error) {
	f.downloaded = append(f.downloaded, tracker.FileID(bundleKey, itemNumber, format))
	return f.downloadOK, f.downloadErr
}

func newManager(t *testing.T, client *fakeClient) (*Manager, *tracker.Store) {
	t.Helper()
	store, err := tracker.Open(filepath.Join(t.TempDir(), "downloads.db"))
	if err != nil {
		t.Fatalf("open tracker: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	manager, err := NewManager(client, store, t.TempDir())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return manager, store
}

func testDetails() *humblecli.Details {
	return &humblecli.Details{
		Name: "Test Bundle",
		Items: []humblecli.Item{
			{Number: 1, Name: "First Book", Formats: []string{"EPUB", "PDF"}, Size: "3.47 MiB"},
			{Number: 2, Name: "Second Book", Formats: []string{"EPUB"}, Size: "1.20 MiB"},
		},
	}
}

func TestBundlesSortedCaseInsensitively(t *testing.T) {
	client := &fakeClient{bundles: []humblecli.Bundle{
		{Key: "c", Name: "zebra bundle"},
		{Key: "a", Name: "Apple Bundle"},
		{Key: "b", Name: "banana bundle"},
	}}
	manager, _ := newManager(t, client)

	bundles, err := manager.Bundles(context.Background())
	if err != nil {
		t.Fatalf("Bundles failed: %v", err)
	}
	var names []string
	for _, bundle := range bundles {
		names = append(names, bundle.Name)
	}
	want := []string{"Apple Bundle", "banana bundle", "zebra bundle"}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("bundle order %v, want %v", names, want)
		}
	}
}

func TestContentsJoinsCompletionState(t *testing.T) {
	client := &fakeClient{details: map[string]*humblecli.Details{"abc123": testDetails()}}
	manager, store := newManager(t, client)
	ctx := context.Background()

	rec := tracker.Record{
		FileID:    tracker.FileID("abc123", 1, "EPUB"),
		BundleKey: "abc123",
		Filename:  "item_1.epub",
	}
	if err := store.MarkDownloaded(ctx, rec); err != nil {
		t.Fatalf("MarkDownloaded failed: %v", err)
	}

	contents, err := manager.Contents(ctx, "abc123")
	if err != nil {
		t.Fatalf("Contents failed: %v", err)
	}
	if contents.Details.Name != "Test Bundle" {
		t.Fatalf("unexpected details: %+v", contents.Details)
	}

	first := contents.CompletedFormats(contents.Details.Items[0])
	if !first["EPUB"] || first["PDF"] {
		t.Fatalf("unexpected completion for first item: %v", first)
	}
	second := contents.CompletedFormats(contents.Details.Items[1])
	if second["EPUB"] {
		t.Fatalf("second item should be untouched: %v", second)
	}
}

func TestTransferDelegatesToClient(t *testing.T) {
	client := &fakeClient{downloadOK: true}
	manager, _ := newManager(t, client)

	req := manager.NewRequest("abc123", 2, "PDF")
	if req.ID == uuid.Nil {
		t.Fatal("request id not assigned")
	}
	if req.DestDir != manager.OutputDir() {
		t.Fatalf("dest dir = %q, want %q", req.DestDir, manager.OutputDir())
	}

	ok, err := manager.Transfer(context.Background(), req)
	if err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}
	if !ok {
		t.Fatal("expected transfer success")
	}
	if len(client.downloaded) != 1 || client.downloaded[0] != "abc123_2_pdf" {
		t.Fatalf("unexpected downloads: %v", client.downloaded)
	}
}

func TestMarkDownloadedRecordsBundleTotal(t *testing.T) {
	client := &fakeClient{details: map[string]*humblecli.Details{"abc123": testDetails()}}
	manager, store := newManager(t, client)
	ctx := context.Background()

	// Prime the details cache the way the TUI does before any download.
	if _, err := manager.Contents(ctx, "abc123"); err != nil {
		t.Fatalf("Contents failed: %v", err)
	}

	req := manager.NewRequest("abc123", 1, "EPUB")
	if err := manager.MarkDownloaded(ctx, req); err != nil {
		t.Fatalf("MarkDownloaded failed: %v", err)
	}

	stats, err := store.Stats(ctx, "abc123")
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Downloaded != 1 || !stats.HasTotal || stats.Total != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	files, err := store.DownloadedFiles(ctx, "abc123")
	if err != nil {
		t.Fatalf("DownloadedFiles failed: %v", err)
	}
	if files[0].Filename != "item_1.epub" || files[0].FileSize != "3.47 MiB" {
		t.Fatalf("unexpected record: %+v", files[0])
	}
}

func TestMarkDownloadedWithoutCachedDetails(t *testing.T) {
	client := &fakeClient{}
	manager, store := newManager(t, client)
	ctx := context.Background()

	req := manager.NewRequest("abc123", 1, "EPUB")
	if err := manager.MarkDownloaded(ctx, req); err != nil {
		t.Fatalf("MarkDownloaded failed: %v", err)
	}

	stats, err := store.Stats(ctx, "abc123")
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Downloaded != 1 || stats.HasTotal {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
