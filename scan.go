package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"osuexport/dotosu"
)

const sniffLen = 512

var errUnusable = errors.New("beatmap has no numeric BeatmapSetID/BeatmapID")

// ScanResult summarises one directory scan. Entries are ordered by path.
type ScanResult struct {
	Entries []Entry
	Files   int
	Skipped int
	Failed  int
}

type fileResult struct {
	entry   Entry
	ok      bool
	skipped bool
	err     error
}

// Scan walks root, parses every regular file and collects the set and
// beatmap ids of the ones that are beatmaps. Files that are not beatmaps
// are skipped quietly; corrupt beatmaps are reported to fails.
func Scan(ctx context.Context, root string, parser *dotosu.Parser, workers int, fails *FailureLog) (*ScanResult, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("walk", "path", path, "err", err)
			return nil
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	results := make([]fileResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = scanFile(parser, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &ScanResult{Files: len(paths)}
	for i, r := range results {
		switch {
		case r.ok:
			res.Entries = append(res.Entries, r.entry)
		case r.skipped:
			res.Skipped++
			logger.Debug("skip", "path", paths[i], "reason", r.err)
		default:
			res.Failed++
			category := "parse"
			if errors.Is(r.err, errUnusable) {
				category = "metadata"
			}
			fails.Record(category, relName(root, paths[i]), r.err.Error())
		}
	}
	return res, nil
}

func scanFile(parser *dotosu.Parser, path string) (r fileResult) {
	err := safely(func() error {
		ok, err := sniff(path)
		if err != nil {
			return err
		}
		if !ok {
			r.skipped = true
			return nil
		}
		doc, err := parser.ParseFile(path)
		if err != nil {
			return err
		}
		setID, okSet := doc.SetID()
		itemID, okItem := doc.ItemID()
		if !okSet || !okItem {
			return errUnusable
		}
		r.entry = Entry{SetID: setID, ItemID: itemID, Path: path}
		r.ok = true
		logger.Debug("beatmap", "path", path, "title", doc.Metadata["Title"], "set", setID, "beatmap", itemID)
		return nil
	})
	if err != nil {
		r.err = err
		r.skipped = dotosu.IsSkippable(err)
	}
	return r
}

// sniff reports whether the head of the file could be a beatmap, so that
// audio and image files are not read in full.
func sniff(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	head = head[:n]
	if bytes.HasPrefix(head, []byte{0xFE, 0xFF}) || bytes.HasPrefix(head, []byte{0xFF, 0xFE}) {
		return true, nil
	}
	return bytes.Contains(head, []byte("osu file format v")), nil
}

func relName(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return filepath.Base(path)
}
