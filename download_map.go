package main

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/levigross/grequests"
)

const (
	userAgent     = "osuexport/1.0"
	acceptArchive = "application/x-osu-beatmap-archive,application/octet-stream,*/*"
)

var (
	ErrRateLimited = errors.New("mirror rate limit")
	ErrNotArchive  = errors.New("download is not an .osz archive")
)

// SetDownloader fetches one beatmap set and returns where it was stored.
type SetDownloader interface {
	DownloadSet(ctx context.Context, setID int64) (string, error)
}

// Downloader fetches .osz archives from a beatmap mirror.
type Downloader struct {
	mirror     string
	dir        string
	throttle   *Throttle
	timeout    time.Duration
	maxRetries int
	// cooldown is the minimum wait after the mirror pushes back.
	cooldown time.Duration

	rateLimitedFrom atomic.Pointer[time.Time]
}

func NewDownloader(cfg DownloadConfig, dir string, throttle *Throttle) *Downloader {
	return &Downloader{
		mirror:     cfg.MirrorURL,
		dir:        dir,
		throttle:   throttle,
		timeout:    cfg.Timeout,
		maxRetries: max(cfg.MaxRetries, 0),
		cooldown:   time.Minute,
	}
}

func (d *Downloader) setURL(setID int64) string {
	if strings.Contains(d.mirror, "%d") {
		return fmt.Sprintf(d.mirror, setID)
	}
	return strings.TrimRight(d.mirror, "/") + "/" + strconv.FormatInt(setID, 10)
}

// rateLimited returns how long to back off. Consecutive rate limits back
// off for at least as long as they have been going on.
func (d *Downloader) rateLimited() time.Duration {
	last := d.rateLimitedFrom.Load()
	now := time.Now()
	d.rateLimitedFrom.CompareAndSwap(nil, &now)
	if last != nil {
		return max(d.cooldown, time.Since(*last))
	}
	return d.cooldown
}

func (d *Downloader) DownloadSet(ctx context.Context, setID int64) (string, error) {
	release, err := d.throttle.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	var data []byte
	for attempt := 0; ; attempt++ {
		if err := d.throttle.Wait(ctx); err != nil {
			return "", err
		}
		data, err = d.fetch(ctx, setID)
		if err == nil {
			d.rateLimitedFrom.Store(nil)
			break
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt >= d.maxRetries {
			return "", fmt.Errorf("download set %d: %w", setID, err)
		}
		wait := d.cooldown
		if errors.Is(err, ErrRateLimited) {
			wait = d.rateLimited()
		}
		logger.Warn("download retry", "set", setID, "attempt", attempt+1, "wait", wait, "err", err)
		if err := sleep(ctx, wait); err != nil {
			return "", err
		}
	}

	n, err := countBeatmaps(data)
	if err != nil {
		return "", fmt.Errorf("set %d: %w", setID, err)
	}
	path := filepath.Join(d.dir, fmt.Sprintf("%d.osz", setID))
	if err := writeFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("save set %d: %w", setID, err)
	}
	logger.Info("downloaded", "set", setID, "beatmaps", n, "bytes", len(data))
	return path, nil
}

func (d *Downloader) fetch(ctx context.Context, setID int64) ([]byte, error) {
	resp, err := grequests.Get(d.setURL(setID),
		grequests.Context(ctx),
		grequests.RequestTimeout(d.timeout),
		grequests.UserAgent(userAgent),
		grequests.BeforeRequest(func(req *http.Request) error {
			req.Header.Set("Accept", acceptArchive)
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	defer resp.Close()

	body := resp.Bytes()
	if resp.StatusCode == http.StatusTooManyRequests || bytes.Contains(body, []byte("Slow down, play more.")) {
		return nil, ErrRateLimited
	}
	if !resp.Ok {
		return nil, fmt.Errorf("mirror returned %d", resp.StatusCode)
	}
	return body, nil
}

// countBeatmaps checks that data is a zip archive and counts the .osu files in it.
func countBeatmaps(data []byte) (int, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNotArchive, err)
	}
	n := 0
	for _, f := range zr.File {
		if strings.EqualFold(filepath.Ext(f.Name), ".osu") {
			n++
		}
	}
	return n, nil
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
