package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"deporder/internal/errors"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func relAll(t *testing.T, root string, files []string) []string {
	t.Helper()
	out := make([]string, len(files))
	for i, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			t.Fatal(err)
		}
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/a.ts":                  "",
		"src/nested/b.tsx":          "",
		"src/c.js":                  "",
		"src/readme.md":             "",
		"node_modules/pkg/index.ts": "",
		"dist/out.js":               "",
		"lib/generated.ts":          "",
	})

	tests := []struct {
		name    string
		include []string
		ignore  []string
		want    []string
	}{
		{
			name:   "all supported files",
			ignore: []string{"node_modules/**", "dist/**"},
			want:   []string{"lib/generated.ts", "src/a.ts", "src/c.js", "src/nested/b.tsx"},
		},
		{
			name:    "include narrows",
			include: []string{"src/**/*.ts", "src/**/*.tsx"},
			ignore:  []string{"node_modules/**"},
			want:    []string{"src/a.ts", "src/nested/b.tsx"},
		},
		{
			name:   "segment pattern ignores at any depth",
			ignore: []string{"node_modules", "dist", "nested", "generated.ts"},
			want:   []string{"src/a.ts", "src/c.js"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Discover(root, tt.include, tt.ignore)
			if err != nil {
				t.Fatalf("Discover() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, relAll(t, root, got)); diff != "" {
				t.Errorf("Discover() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExpand(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/a.ts": "",
		"src/b.ts": "",
		"x.md":     "",
	})

	got, err := Expand([]string{
		filepath.Join(root, "src", "b.ts"),
		filepath.Join(root, "src"),
		filepath.Join(root, "x.md"),
	}, nil, nil)
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	// Explicit files are kept even when unsupported; duplicates collapse.
	want := []string{"src/b.ts", "src/a.ts", "x.md"}
	if diff := cmp.Diff(want, relAll(t, root, got)); diff != "" {
		t.Errorf("Expand() mismatch (-want +got):\n%s", diff)
	}

	if _, err := Expand([]string{filepath.Join(root, "missing")}, nil, nil); !errors.Is(err, errors.IOFailed) {
		t.Errorf("Expand(missing) error = %v, want IO_FAILED", err)
	}
}

func TestReportErr(t *testing.T) {
	ok := &Report{Mode: ModeCheck.String(), Files: []FileResult{{Path: "a.ts"}}}
	ok.tally()
	if err := ok.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}

	unordered := &Report{Mode: ModeCheck.String(), Files: []FileResult{{Path: "a.ts", Changed: true}}}
	unordered.tally()
	if got := errors.ExitCode(unordered.Err()); got != 1 {
		t.Errorf("ExitCode(check with changes) = %d, want 1", got)
	}

	written := &Report{Mode: ModeWrite.String(), Files: []FileResult{{Path: "a.ts", Changed: true}}}
	written.tally()
	if err := written.Err(); err != nil {
		t.Errorf("Err() in write mode = %v, want nil", err)
	}

	skipped := &Report{Mode: ModeCheck.String(), Files: []FileResult{
		{Path: "a.ts", Skipped: true, Err: errors.New(errors.ParseFailed, "bad")},
		{Path: "b.ts", Err: errors.New(errors.IOFailed, "gone")},
	}}
	skipped.tally()
	if skipped.Skipped != 1 || skipped.Failed != 1 {
		t.Errorf("tally = skipped %d failed %d, want 1 and 1", skipped.Skipped, skipped.Failed)
	}
	if !errors.Is(skipped.Err(), errors.IOFailed) {
		t.Errorf("Err() = %v, want IO_FAILED", skipped.Err())
	}
}

func TestModeString(t *testing.T) {
	for mode, want := range map[Mode]string{ModePrint: "print", ModeWrite: "write", ModeCheck: "check", ModeList: "list", Mode(42): "unknown"} {
		if got := mode.String(); got != want {
			t.Errorf("Mode(%d).String() = %q, want %q", int(mode), got, want)
		}
	}
}
