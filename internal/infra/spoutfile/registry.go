// Package spoutfile keeps the spout registry in sync with an operator-supplied
// definitions file. The built-in spouts are always present; the file adds
// spouts or overrides built-ins by name.
package spoutfile

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/Nike1016/selfoss/internal/domain/spout"
	"github.com/Nike1016/selfoss/internal/observability/metrics"
)

// Registry is a spout.Registry whose definitions are reloaded from a file.
// Lookups always see one complete generation of definitions.
type Registry struct {
	path    string
	current atomic.Pointer[spout.StaticRegistry]
	logger  *slog.Logger
}

var _ spout.Registry = (*Registry)(nil)

// Open loads the built-in spouts plus the definitions in path. An empty path
// yields the built-ins only and Watch becomes a no-op.
func Open(path string, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path != "" {
		path = filepath.Clean(path)
	}
	r := &Registry{path: path, logger: logger}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Resolve returns the descriptor registered under name.
func (r *Registry) Resolve(name string) (*spout.Descriptor, bool) {
	return r.current.Load().Resolve(name)
}

// List returns all descriptors in registration order.
func (r *Registry) List() []*spout.Descriptor {
	return r.current.Load().List()
}

// Reload re-reads the definitions file. On error the previous definitions
// stay in effect.
func (r *Registry) Reload() error {
	next, err := spout.NewRegistry(r.path)
	metrics.RecordSpoutReload(err)
	if err != nil {
		return fmt.Errorf("reload spouts: %w", err)
	}
	r.current.Store(next)
	return nil
}

// Watch reloads the registry whenever the definitions file changes, until
// ctx is done. The parent directory is watched so that editors replacing
// the file by rename are noticed too.
func (r *Registry) Watch(ctx context.Context) error {
	if r.path == "" {
		<-ctx.Done()
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	if err := w.Add(filepath.Dir(r.path)); err != nil {
		return fmt.Errorf("watch %q: %w", r.path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != r.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if err := r.Reload(); err != nil {
				r.logger.Warn("spout definitions not reloaded",
					slog.String("path", r.path),
					slog.Any("error", err))
				continue
			}
			r.logger.Info("spout definitions reloaded",
				slog.String("path", r.path),
				slog.Int("spouts", len(r.List())))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("spout watcher error", slog.Any("error", err))
		}
	}
}
