package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FailureLog writes one file per failure to <dir>/<category>/<name>.
// With an empty dir, failures are only logged.
type FailureLog struct {
	dir string

	mu    sync.Mutex
	count map[string]int
}

func NewFailureLog(dir string) *FailureLog {
	return &FailureLog{dir: dir, count: map[string]int{}}
}

func (f *FailureLog) Record(category, name, reason string) {
	f.mu.Lock()
	f.count[category]++
	f.mu.Unlock()

	logger.Warn("fail", "category", category, "name", name, "reason", firstLine(reason))
	if f.dir == "" {
		return
	}
	dir := filepath.Join(f.dir, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Error("record failure", "dir", dir, "err", err)
		return
	}
	path := filepath.Join(dir, sanitizeName(name))
	if err := os.WriteFile(path, []byte(reason), 0o644); err != nil {
		logger.Error("record failure", "path", path, "err", err)
	}
}

func (f *FailureLog) Count(category string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count[category]
}

func (f *FailureLog) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.count {
		total += n
	}
	return total
}

func sanitizeName(name string) string {
	name = strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(name)
	if name == "" || name == "." || name == ".." {
		return fmt.Sprintf("unnamed%s", name)
	}
	return name
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
