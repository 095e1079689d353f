package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"deporder/internal/slogutil"
)

func TestEventTypeString(t *testing.T) {
	tests := []struct {
		eventType EventType
		want      string
	}{
		{EventCreate, "create"},
		{EventModify, "modify"},
		{EventDelete, "delete"},
		{EventRename, "rename"},
		{EventType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.eventType.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRelevant(t *testing.T) {
	w := &Watcher{
		root: "/repo",
		config: Config{
			Include: []string{"src/**"},
			Ignore:  []string{"node_modules/**", "*.gen.ts"},
		},
	}

	tests := []struct {
		path string
		want bool
	}{
		{"/repo/src/a.ts", true},
		{"/repo/src/deep/b.tsx", true},
		{"/repo/src/readme.md", false},
		{"/repo/src/api.gen.ts", false},
		{"/repo/lib/c.ts", false},
		{"/repo/node_modules/x/index.ts", false},
	}
	for _, tt := range tests {
		if got := w.relevant(tt.path); got != tt.want {
			t.Errorf("relevant(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

type recorder struct {
	mu    sync.Mutex
	files []string
	ch    chan struct{}
}

func (r *recorder) handle(_ context.Context, files []string) {
	r.mu.Lock()
	r.files = append(r.files, files...)
	r.mu.Unlock()
	select {
	case r.ch <- struct{}{}:
	default:
	}
}

func (r *recorder) seen(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.files {
		if f == path {
			return true
		}
	}
	return false
}

func TestWatcherRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "node_modules"), 0o755); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{ch: make(chan struct{}, 1)}
	w, err := New(root, Config{DebounceMs: 20, Ignore: []string{"node_modules/**"}}, slogutil.NewDiscardLogger(), rec.handle)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	target := filepath.Join(w.root, "a.ts")
	deadline := time.After(5 * time.Second)
	// Run adds its watches asynchronously; keep touching the file until an event lands.
	for !rec.seen(target) {
		if err := os.WriteFile(target, []byte("class A {}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(w.root, "node_modules", "x.ts"), []byte(""), 0o644); err != nil {
			t.Fatal(err)
		}
		select {
		case <-rec.ch:
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("timed out waiting for handler")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	if rec.seen(filepath.Join(w.root, "node_modules", "x.ts")) {
		t.Error("ignored file reached the handler")
	}
}
