package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/nestview/pkg/model"
)

func TestWatch(t *testing.T) {
	values := []string{"v1", "v1", "v2", "v2", "v3"}
	var calls int
	fingerprint := func(context.Context) (string, error) {
		v := values[min(calls, len(values)-1)]
		calls++
		return v, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var seen []string
	err := Watch(ctx, time.Millisecond, fingerprint, func(_ context.Context, fp string) error {
		seen = append(seen, fp)
		if fp == "v3" {
			cancel()
		}
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Watch() error = %v, want context.Canceled", err)
	}
	if want := []string{"v2", "v3"}; !slices.Equal(seen, want) {
		t.Errorf("changes = %v, want %v", seen, want)
	}
}

func TestWatch_StopsOnError(t *testing.T) {
	boom := errors.New("store unavailable")

	err := Watch(context.Background(), time.Millisecond, func(context.Context) (string, error) {
		return "", boom
	}, func(context.Context, string) error {
		t.Error("onChange called after fingerprint failure")
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("Watch() error = %v, want %v", err, boom)
	}

	n := 0
	stop := errors.New("stop")
	err = Watch(context.Background(), time.Millisecond, func(context.Context) (string, error) {
		n++
		return string(rune('a' + n)), nil
	}, func(context.Context, string) error {
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("Watch() error = %v, want %v", err, stop)
	}
}

func TestWatchFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var mu sync.Mutex
	var changed []string
	done := make(chan error, 1)
	go func() {
		done <- WatchFiles(ctx, []string{path}, 20*time.Millisecond, func(_ context.Context, p string) error {
			mu.Lock()
			changed = append(changed, p)
			mu.Unlock()
			cancel()
			return nil
		})
	}()

	// The watcher may not be registered yet; keep writing until it reports.
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for ctx.Err() == nil {
		_ = os.WriteFile(path, []byte(`{"entities":[]}`), 0o644)
		_ = os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644)
		select {
		case <-ctx.Done():
		case <-tick.C:
		}
	}

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("WatchFiles() error = %v, want context.Canceled", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(changed) == 0 || changed[0] != path {
		t.Errorf("changed = %v, want [%s]", changed, path)
	}
}

func TestEnabledOnly(t *testing.T) {
	rules := []model.Rule{
		{ID: "a", IsEnabled: true},
		{ID: "b"},
		{ID: "c", IsEnabled: true},
	}

	var ids []string
	for _, r := range EnabledOnly(rules) {
		ids = append(ids, r.ID)
	}
	if want := []string{"a", "c"}; !slices.Equal(ids, want) {
		t.Errorf("EnabledOnly() = %v, want %v", ids, want)
	}
}
