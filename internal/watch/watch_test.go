package watch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newWatcher(t *testing.T, opts ...Option) *Watcher {
	t.Helper()
	w, err := New(opts...)
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

func tempFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("# A\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWatchUnwatch(t *testing.T) {
	w := newWatcher(t)
	path := tempFile(t, "doc.md")

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch error = %v", err)
	}
	if !w.IsWatching(path) {
		t.Error("should be watching path")
	}
	if err := w.Watch(path); !errors.Is(err, ErrAlreadyWatching) {
		t.Errorf("Watch again error = %v, want ErrAlreadyWatching", err)
	}

	sibling := filepath.Join(filepath.Dir(path), "config.toml")
	if err := w.Watch(sibling); err != nil {
		t.Errorf("Watch of a not yet existing sibling error = %v", err)
	}

	if err := w.Unwatch(path); err != nil {
		t.Fatalf("Unwatch error = %v", err)
	}
	if w.IsWatching(path) {
		t.Error("should not be watching path after Unwatch")
	}
	if err := w.Unwatch(path); !errors.Is(err, ErrNotWatching) {
		t.Errorf("Unwatch again error = %v, want ErrNotWatching", err)
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	w := newWatcher(t)
	err := w.Watch("/nonexistent/dir/doc.md")
	if !errors.Is(err, ErrPathNotExist) {
		t.Errorf("Watch error = %v, want ErrPathNotExist", err)
	}
}

func TestWatchAfterClose(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close error = %v", err)
	}
	if err := w.Watch(t.TempDir() + "/x.md"); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Watch error = %v, want ErrWatcherClosed", err)
	}
	if _, ok := <-w.Events(); ok {
		t.Error("Events should be closed")
	}
}

func TestCoalesce(t *testing.T) {
	w := newWatcher(t, WithDelay(time.Hour))
	path := tempFile(t, "doc.md")
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	abs, _ := filepath.Abs(path)

	w.handleEvent(Event{Path: abs, Op: OpWrite})
	w.handleEvent(Event{Path: abs, Op: OpRename})
	w.handleEvent(Event{Path: abs, Op: OpCreate})
	w.handleEvent(Event{Path: filepath.Join(filepath.Dir(abs), "other.md"), Op: OpWrite})

	if got := w.PendingCount(); got != 1 {
		t.Fatalf("PendingCount = %d, want 1", got)
	}
	w.Flush()

	select {
	case ev := <-w.Events():
		if ev.Path != abs {
			t.Errorf("Path = %q, want %q", ev.Path, abs)
		}
		want := OpWrite | OpRename | OpCreate
		if ev.Op != want {
			t.Errorf("Op = %v, want %v", ev.Op, want)
		}
	default:
		t.Fatal("Flush delivered no event")
	}
	if got := w.PendingCount(); got != 0 {
		t.Errorf("PendingCount after Flush = %d, want 0", got)
	}
}

func TestReportsWrites(t *testing.T) {
	w := newWatcher(t, WithDelay(20*time.Millisecond))
	path := tempFile(t, "doc.md")
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("# B\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-w.Events():
		abs, _ := filepath.Abs(path)
		if ev.Path != abs {
			t.Errorf("Path = %q, want %q", ev.Path, abs)
		}
		if !ev.Op.Has(OpWrite) && !ev.Op.Has(OpCreate) {
			t.Errorf("Op = %v, want write or create", ev.Op)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change")
	}
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{0, "none"},
		{OpWrite, "write"},
		{OpCreate | OpRemove, "create|remove"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}
