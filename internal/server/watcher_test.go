package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileWatcher_DebouncedChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "monsters.txt")
	writeSpawnLog(t, path, "A\nB\n")

	changed := make(chan struct{}, 10)
	fw, err := NewFileWatcher(path, 50*time.Millisecond, func() { changed <- struct{}{} })
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fw.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	// Writes to other files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changed:
		t.Fatal("unexpected change notification for another file")
	case <-time.After(200 * time.Millisecond):
	}

	// A burst of writes is delivered once.
	for i := 0; i < 3; i++ {
		writeSpawnLog(t, path, "AA\nBB\n")
	}
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a change notification")
	}
	select {
	case <-changed:
		t.Error("expected the burst to be coalesced")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestFileWatcher_MissingDirectory(t *testing.T) {
	_, err := NewFileWatcher(filepath.Join(t.TempDir(), "missing", "monsters.txt"), 0, func() {})
	if err == nil {
		t.Error("expected error for a missing directory")
	}
}
