package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startWatcher(t *testing.T, files ...string) chan string {
	t.Helper()
	w, err := New(Config{Files: files, Debounce: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	changes := make(chan string, 16)
	w.OnChange(func(path string) { changes <- path })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	// Give the watcher time to register its directories.
	time.Sleep(50 * time.Millisecond)
	return changes
}

func expectChange(t *testing.T, changes chan string, want string) {
	t.Helper()
	select {
	case got := <-changes:
		if got != want {
			t.Errorf("change = %s, want %s", got, want)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("no change reported for %s", want)
	}
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.yaml")
	os.WriteFile(path, []byte("tag: p\n"), 0o644)

	changes := startWatcher(t, path)

	// Several writes in a burst are reported once.
	for i := 0; i < 3; i++ {
		os.WriteFile(path, []byte("tag: div\n"), 0o644)
	}
	expectChange(t, changes, path)

	select {
	case extra := <-changes:
		t.Errorf("burst reported twice: %s", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcherSeesRenameSaves(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.html")
	os.WriteFile(path, []byte("<p></p>"), 0o644)

	changes := startWatcher(t, path)

	tmp := filepath.Join(dir, ".tree.html.swp")
	os.WriteFile(tmp, []byte("<div></div>"), 0o644)
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
	expectChange(t, changes, path)
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.yaml")
	os.WriteFile(path, nil, 0o644)

	changes := startWatcher(t, path)
	os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644)

	select {
	case got := <-changes:
		t.Errorf("sibling change reported: %s", got)
	case <-time.After(150 * time.Millisecond):
	}
}
