package store

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period WatchFiles waits for after the last
// write before reporting a change.
const DefaultDebounce = 500 * time.Millisecond

// Fingerprint summarizes the current content of a store. Two calls return
// the same value exactly when nothing relevant changed in between.
type Fingerprint func(ctx context.Context) (string, error)

// Watch polls fingerprint every interval and calls onChange with the new
// value whenever it differs from the previous poll. The first poll sets the
// baseline and does not trigger onChange.
//
// Watch blocks until ctx is done, returning ctx.Err(), or until fingerprint
// or onChange fail, returning that error.
func Watch(ctx context.Context, interval time.Duration, fingerprint Fingerprint, onChange func(ctx context.Context, fp string) error) error {
	last, err := fingerprint(ctx)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fp, err := fingerprint(ctx)
			if err != nil {
				return err
			}
			if fp == last {
				continue
			}
			last = fp
			if err := onChange(ctx, fp); err != nil {
				return err
			}
		}
	}
}

// WatchFiles calls onChange with the path of a file in paths whenever it is
// written or re-created, after debounce of quiet time. Directories holding
// the files are watched so editors that replace files are noticed.
//
// WatchFiles blocks until ctx is done, returning ctx.Err(), or until
// onChange fails, returning that error.
func WatchFiles(ctx context.Context, paths []string, debounce time.Duration, onChange func(ctx context.Context, path string) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return err
		}
		dirs[dir] = true
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !files[abs] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending[abs] = true
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err

		case <-timer.C:
			for _, p := range paths {
				abs, _ := filepath.Abs(p)
				if !pending[abs] {
					continue
				}
				delete(pending, abs)
				if err := onChange(ctx, p); err != nil {
					return err
				}
			}
		}
	}
}
