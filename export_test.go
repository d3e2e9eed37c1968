package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"osuexport/dotosu"
)

func beatmapFile(set, item int, title string) string {
	return fmt.Sprintf("osu file format v14\r\n\r\n[General]\r\nMode: 0\r\n\r\n[Metadata]\r\nTitle:%s\r\nBeatmapID:%d\r\nBeatmapSetID:%d\r\n\r\n[HitObjects]\r\n1,1,1,1,0\r\n", title, item, set)
}

// writeTree lays out a lazer-style file store: hashed names, nested dirs,
// beatmaps mixed with audio, images and broken files.
func writeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"0/0a/0a11":  beatmapFile(100, 1001, "first"),
		"0/0a/0a12":  beatmapFile(100, 1002, "second"),
		"1/1b/1b21":  beatmapFile(200, 2001, "other"),
		"1/1b/dup":   beatmapFile(100, 1001, "first again"),
		"2/2c/audio": "ID3\x03\x00\x00\x00\xff\xfe\xfd",
		"2/2c/image": "\x89PNG\r\n\x1a\n\x00\x00",
		"3/3d/text":  "just a note\n",
		"4/4e/bad":   "osu file format v14\n\n[Difficulty]\nCircleSize:huge\n",
		"4/4e/noids": "osu file format v14\n\n[Metadata]\nTitle:unsubmitted\nBeatmapSetID:-1\n",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestScan(t *testing.T) {
	t.Parallel()

	root := writeTree(t)
	failDir := t.TempDir()
	fails := NewFailureLog(failDir)
	res, err := Scan(context.Background(), root, dotosu.NewParser(), 4, fails)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if res.Files != 9 || res.Skipped != 3 || res.Failed != 2 || len(res.Entries) != 4 {
		t.Errorf("Scan() = files %d skipped %d failed %d entries %d, want 9/3/2/4",
			res.Files, res.Skipped, res.Failed, len(res.Entries))
	}

	var ids []int64
	for _, e := range res.Entries {
		ids = append(ids, e.ItemID)
	}
	if want := []int64{1001, 1002, 2001, 1001}; !reflect.DeepEqual(ids, want) {
		t.Errorf("entries in path order = %v, want %v", ids, want)
	}

	if fails.Count("parse") != 1 || fails.Count("metadata") != 1 {
		t.Errorf("failures parse=%d metadata=%d, want 1 each", fails.Count("parse"), fails.Count("metadata"))
	}
	if _, err := os.Stat(filepath.Join(failDir, "parse", "4_4e_bad")); err != nil {
		t.Errorf("parse failure not recorded: %v", err)
	}
}

func TestScanMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := Scan(context.Background(), filepath.Join(t.TempDir(), "nope"), dotosu.NewParser(), 1, NewFailureLog(""))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Scan(missing) error = %v, want os.ErrNotExist", err)
	}
}

type fakeDownloader struct {
	mu    sync.Mutex
	calls []int64
	fail  map[int64]bool
}

func (f *fakeDownloader) DownloadSet(_ context.Context, setID int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, setID)
	if f.fail[setID] {
		return "", errors.New("mirror down")
	}
	return fmt.Sprintf("%d.osz", setID), nil
}

func testConfig(t *testing.T, root string) *Config {
	t.Helper()
	cfg, err := loadConfig(newViper())
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	cfg.SourceDir = root
	cfg.CatalogPath = filepath.Join(dir, "beatmaps")
	cfg.DBPath = filepath.Join(dir, "osuexport.db")
	cfg.Workers = 2
	return cfg
}

func TestExporterRun(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	root := writeTree(t)
	cfg := testConfig(t, root)
	store, err := OpenStore(ctx, cfg.DBPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	dl := &fakeDownloader{fail: map[int64]bool{200: true}}
	fails := NewFailureLog("")
	report, err := NewExporter(cfg, store, dl, fails).Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := Report{Files: 9, Beatmaps: 4, Skipped: 3, Failed: 2, Sets: 2, NewSets: 2, Downloaded: 1}
	if *report != want {
		t.Errorf("report = %+v, want %+v", *report, want)
	}
	if len(dl.calls) != 2 {
		t.Errorf("downloader called for %v, want each set once", dl.calls)
	}
	if fails.Count("download") != 1 {
		t.Errorf("download failures = %d, want 1", fails.Count("download"))
	}

	catalog, err := ReadCatalogFile(cfg.CatalogPath)
	if err != nil {
		t.Fatalf("ReadCatalogFile() error = %v", err)
	}
	if got := catalog.Items(100); !reflect.DeepEqual(got, []int64{1001, 1002}) {
		t.Errorf("catalog[100] = %v", got)
	}

	// second run: set 100 is already downloaded, set 200 is retried
	dl.calls = nil
	report, err = NewExporter(cfg, store, dl, NewFailureLog("")).Run(ctx)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if !reflect.DeepEqual(dl.calls, []int64{200}) || report.NewSets != 1 {
		t.Errorf("second run downloaded %v (new sets %d), want only 200", dl.calls, report.NewSets)
	}
}

func TestExporterWithoutDownloader(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cfg := testConfig(t, writeTree(t))
	cfg.CatalogPath = ""
	store, err := OpenStore(ctx, cfg.DBPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	report, err := NewExporter(cfg, store, nil, NewFailureLog("")).Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Downloaded != 0 || report.Sets != 2 {
		t.Errorf("report = %+v", *report)
	}
	stored, err := store.LoadCatalog(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Len() != 2 {
		t.Errorf("stored %d sets, want 2", stored.Len())
	}
}
