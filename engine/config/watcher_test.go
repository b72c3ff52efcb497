package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatcherPublishesValidChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	writeFile(t, path, "")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	// unrelated files in the same directory are ignored
	writeFile(t, filepath.Join(dir, "other.toml"), "[pipeline]\nbloom = false\n")
	writeFile(t, path, "[pipeline]\nbloom = false\n")

	timeout := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-w.Updates():
			// a write may be observed before the whole file is on disk
			if !cfg.Pipeline.Bloom {
				return
			}
		case <-timeout:
			t.Fatal("no update published")
		}
	}
}

func TestWatcherReportsInvalidChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	writeFile(t, path, "")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	writeFile(t, path, "[pipeline]\nmax_shadow_lights = 42\n")
	select {
	case err := <-w.Errors():
		if err == nil {
			t.Error("nil error published")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no error published")
	}
}

func TestWatcherClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	w, err := NewWatcher(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err == nil {
		t.Error("second Close succeeded")
	}
	if _, ok := <-w.Updates(); ok {
		t.Error("updates channel left open")
	}
}
