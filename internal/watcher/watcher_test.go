package watcher

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func waitFor(t *testing.T, events <-chan Event, match func(Event) bool) Event {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatal("events channel closed")
			}
			if match(ev) {
				return ev
			}
		case <-timeout:
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestWatchRemoveAndCreate(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "client-logs.txt")
	if err := os.WriteFile(logPath, []byte("=== start ===\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New(logPath, quietLogger())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(logPath); err != nil {
		t.Fatal(err)
	}
	ev := waitFor(t, w.Events, Event.Removed)
	if filepath.Clean(ev.Path) != w.Path() {
		t.Errorf("expected event for %s, got %s", w.Path(), ev.Path)
	}

	if err := os.WriteFile(logPath, []byte("again\n"), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, w.Events, Event.Created)

	cancel()
	time.Sleep(100 * time.Millisecond)
}
