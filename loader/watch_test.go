package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_ReportsLuaChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "towers.lua")
	if err := os.WriteFile(target, []byte(`Tower "x" {}`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-w.Events:
		if filepath.Base(name) != "towers.lua" {
			t.Errorf("event for %q, want towers.lua", name)
		}
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("no event for towers.lua")
	}
}

func TestWatcher_CloseClosesChannels(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Error("Events should be closed")
	}
	// Second Close is a no-op.
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestWatcher_MissingDir(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "gone")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestIsLuaFile(t *testing.T) {
	for path, want := range map[string]bool{
		"a/b/game.lua": true,
		"WAVES.LUA":    true,
		"notes.txt":    false,
		"lua":          false,
	} {
		if got := isLuaFile(path); got != want {
			t.Errorf("isLuaFile(%q) = %v, want %v", path, got, want)
		}
	}
}
