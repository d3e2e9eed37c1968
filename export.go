package main

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"osuexport/dotosu"
)

// Report is what one export run did.
type Report struct {
	Files      int
	Beatmaps   int
	Skipped    int
	Failed     int
	Sets       int
	NewSets    int
	Downloaded int
}

type Exporter struct {
	cfg        *Config
	parser     *dotosu.Parser
	store      *Store
	downloader SetDownloader // nil disables downloads
	fails      *FailureLog
}

func NewExporter(cfg *Config, store *Store, downloader SetDownloader, fails *FailureLog) *Exporter {
	return &Exporter{
		cfg:        cfg,
		parser:     newParser(cfg.Parser),
		store:      store,
		downloader: downloader,
		fails:      fails,
	}
}

func newParser(cfg ParserConfig) *dotosu.Parser {
	var opts []dotosu.Option
	if cfg.NumericBooleans {
		opts = append(opts, dotosu.WithBoolMode(dotosu.BoolNumeric))
	}
	if cfg.DecodeHitObjects {
		opts = append(opts, dotosu.WithHitObjectHook(dotosu.PassThroughHitObjects))
	}
	return dotosu.NewParser(opts...)
}

// Run scans the source directory, records every set and beatmap, downloads
// each set not downloaded before and writes the catalog file.
func (e *Exporter) Run(ctx context.Context) (*Report, error) {
	logger.Info("scanning", "dir", e.cfg.SourceDir, "workers", e.cfg.Workers)
	scan, err := Scan(ctx, e.cfg.SourceDir, e.parser, e.cfg.Workers, e.fails)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", e.cfg.SourceDir, err)
	}

	catalog := NewCatalog()
	var newSets []int64
	for _, entry := range scan.Entries {
		if catalog.Add(entry) {
			newSets = append(newSets, entry.SetID)
		}
	}
	report := &Report{
		Files:    scan.Files,
		Beatmaps: len(scan.Entries),
		Skipped:  scan.Skipped,
		Failed:   scan.Failed,
		Sets:     catalog.Len(),
	}

	if err := e.store.SaveCatalog(ctx, catalog); err != nil {
		return nil, fmt.Errorf("save catalog: %w", err)
	}

	var pending []int64
	for _, set := range newSets {
		done, err := e.store.IsDownloaded(ctx, set)
		if err != nil {
			return nil, err
		}
		if !done {
			pending = append(pending, set)
		}
	}
	report.NewSets = len(pending)

	if e.downloader != nil && len(pending) > 0 {
		n, err := e.downloadAll(ctx, pending)
		report.Downloaded = n
		if err != nil {
			return report, err
		}
	}

	if e.cfg.CatalogPath != "" {
		if err := catalog.WriteFile(e.cfg.CatalogPath); err != nil {
			return report, fmt.Errorf("write catalog: %w", err)
		}
	}
	return report, nil
}

// downloadAll fetches every set once. A failed set is recorded and does not
// stop the others; only cancellation does.
func (e *Exporter) downloadAll(ctx context.Context, sets []int64) (int, error) {
	var downloaded atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.cfg.Download.Concurrency, 1))
	for _, set := range sets {
		g.Go(func() error {
			path, err := e.downloader.DownloadSet(ctx, set)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				e.fails.Record("download", fmt.Sprint(set), err.Error())
				return nil
			}
			if err := e.store.MarkDownloaded(ctx, set, path); err != nil {
				return fmt.Errorf("mark set %d downloaded: %w", set, err)
			}
			downloaded.Add(1)
			return nil
		})
	}
	err := g.Wait()
	return int(downloaded.Load()), err
}
