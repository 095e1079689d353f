//go:build cgo

package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"deporder/internal/testutil"
)

func TestGolden(t *testing.T) {
	e := newTestEngine(nil)

	for _, fixture := range testutil.Fixtures(t) {
		t.Run(filepath.Base(fixture), func(t *testing.T) {
			src, err := os.ReadFile(fixture)
			if err != nil {
				t.Fatal(err)
			}

			res, err := e.Source(context.Background(), fixture, src)
			if err != nil {
				t.Fatalf("Source() error = %v", err)
			}
			testutil.CompareGolden(t, fixture, res.Output)

			again, err := e.Source(context.Background(), fixture, res.Output)
			if err != nil {
				t.Fatalf("Source(second pass) error = %v", err)
			}
			if again.Changed {
				t.Errorf("second pass changed the output:\n%s", again.Output)
			}
		})
	}
}
