// Package testutil runs golden-file tests over the source fixtures in testdata/golden.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"deporder/internal/parse"
)

var (
	// go test ./internal/engine -run TestGolden -update
	updateGolden = flag.Bool("update", false, "update golden files")

	// go test ./internal/engine -run TestGolden -goldenLang=ts
	goldenLang = flag.String("goldenLang", "", "filter languages (comma-separated: ts,tsx,js)")
)

// ShouldTestLang reports whether fixtures of lang are selected by -goldenLang.
func ShouldTestLang(lang parse.Language) bool {
	if *goldenLang == "" {
		return true
	}
	for _, l := range strings.Split(*goldenLang, ",") {
		l = strings.TrimSpace(l)
		if l == string(lang) || l == shortLang(lang) {
			return true
		}
	}
	return false
}

func shortLang(lang parse.Language) string {
	switch lang {
	case parse.LangTypeScript:
		return "ts"
	case parse.LangJavaScript:
		return "js"
	default:
		return string(lang)
	}
}

// FixturesRoot returns the absolute path to testdata/golden.
func FixturesRoot(t *testing.T) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get caller information")
	}
	// internal/testutil -> project root
	root := filepath.Join(filepath.Dir(filepath.Dir(filepath.Dir(thisFile))), "testdata", "golden")
	if _, err := os.Stat(root); err != nil {
		t.Fatalf("Fixtures root not found: %s", root)
	}
	return root
}

// Fixtures lists the source fixtures whose language passes -goldenLang.
func Fixtures(t *testing.T) []string {
	t.Helper()

	root := FixturesRoot(t)
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("Failed to read fixtures directory: %v", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		lang, ok := parse.LanguageFromPath(entry.Name())
		if ok && ShouldTestLang(lang) {
			files = append(files, filepath.Join(root, entry.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("No fixtures in %s", root)
	}
	return files
}

// GoldenPath is the expected output file for fixture.
func GoldenPath(fixture string) string {
	return fixture + ".golden"
}

// CompareGolden compares got with the golden file of fixture. With -update the golden
// file is rewritten instead.
func CompareGolden(t *testing.T, fixture string, got []byte) {
	t.Helper()

	goldenPath := GoldenPath(fixture)
	got = normalizeNewlines(got)

	if *updateGolden {
		if err := os.WriteFile(goldenPath, got, 0o644); err != nil {
			t.Fatalf("Failed to write golden file: %v", err)
		}
		t.Logf("Updated golden: %s", goldenPath)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("Golden file missing: %s\n\nGot:\n%s\n\nRun with -update to create:\n  go test ./... -run %s -update",
				goldenPath, got, t.Name())
		}
		t.Fatalf("Failed to read golden file: %v", err)
	}
	expected = normalizeNewlines(expected)

	if diff := cmp.Diff(lines(expected), lines(got)); diff != "" {
		t.Fatalf("Golden mismatch for %s (-want +got):\n%s\nRun with -update to refresh:\n  go test ./... -run %s -update",
			filepath.Base(fixture), diff, t.Name())
	}
}

func lines(b []byte) []string {
	return strings.Split(string(b), "\n")
}

// normalizeNewlines makes fixtures checked out with CRLF endings compare equal.
func normalizeNewlines(b []byte) []byte {
	return []byte(strings.ReplaceAll(string(b), "\r\n", "\n"))
}
