package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

var update = flag.Bool("update", false, "update golden files")

// Golden compares output against files under a testdata directory.
type Golden struct {
	t       *testing.T
	baseDir string
}

// NewGolden creates a golden file helper rooted at baseDir.
func NewGolden(t *testing.T, baseDir string) *Golden {
	return &Golden{t: t, baseDir: baseDir}
}

// AssertString compares actual with <baseDir>/<name>.golden byte for byte,
// rewriting the file instead when tests run with -update.
func (g *Golden) AssertString(name, actual string) {
	g.t.Helper()

	path := filepath.Join(g.baseDir, name+".golden")
	if *update {
		if err := os.MkdirAll(g.baseDir, 0o755); err != nil {
			g.t.Fatalf("creating golden directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil { //nolint:gosec // test fixture
			g.t.Fatalf("writing golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		g.t.Fatalf("reading golden file %s: %v", path, err)
	}
	if actual != string(expected) {
		g.t.Errorf("output mismatch for %s:\n--- expected ---\n%q\n--- actual ---\n%q",
			name, expected, actual)
	}
}
