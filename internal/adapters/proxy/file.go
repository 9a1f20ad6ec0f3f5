package proxy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
	"go.trai.ch/zerr"
)

// File hands out the proxies listed in a file in round-robin order.
type File struct {
	path   string
	logger ports.Logger

	mu      sync.Mutex
	proxies []*domain.Proxy
	cursor  int
}

// NewFile loads the proxy list at path.
func NewFile(path string, logger ports.Logger) (*File, error) {
	f := &File{path: path, logger: logger}
	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// Next returns the next proxy from the list.
func (f *File) Next(context.Context) (*domain.Proxy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.proxies) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrNoProxies, "proxy file is empty"), "path", f.path)
	}
	p := f.proxies[f.cursor%len(f.proxies)]
	f.cursor = (f.cursor + 1) % len(f.proxies)
	return p, nil
}

// Len returns the number of proxies currently loaded.
func (f *File) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.proxies)
}

// Reload re-reads the file. A file without a single valid entry keeps the
// current list.
func (f *File) Reload() error {
	fh, err := os.Open(f.path)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrProxySourceFailed, err.Error()), "path", f.path)
	}
	defer func() { _ = fh.Close() }()

	proxies, errs := parseList(fh)
	for _, err := range errs {
		f.logger.Warn(fmt.Sprintf("skipping proxy entry in %s: %v", f.path, err))
	}
	if len(proxies) == 0 {
		return zerr.With(zerr.Wrap(domain.ErrNoProxies, "no valid proxy entries"), "path", f.path)
	}

	f.mu.Lock()
	f.proxies = proxies
	f.cursor = 0
	f.mu.Unlock()

	f.logger.Info(fmt.Sprintf("loaded %d proxies from %s", len(proxies), f.path))
	return nil
}

// Watch reloads the list whenever the file changes, until ctx is done. The
// parent directory is watched so that editors replacing the file are seen.
func (f *File) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(domain.ErrProxySourceFailed, err.Error())
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrProxySourceFailed, err.Error()), "path", f.path)
	}

	target := filepath.Clean(f.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := f.Reload(); err != nil {
				f.logger.Error(zerr.Wrap(err, "proxy reload failed, keeping current list"))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.logger.Error(zerr.Wrap(err, "proxy file watcher error"))
		}
	}
}
