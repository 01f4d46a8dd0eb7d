// Package tuitest holds golden-file helpers for view tests.
package tuitest

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var update = flag.Bool("update", false, "update snapshot files")

var ansi = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// StripANSI removes terminal escape sequences
func StripANSI(s string) string {
	return ansi.ReplaceAllString(s, "")
}

// AssertSnapshot compares output with testdata/<test name>.snap. Run with
// -update to record new or changed snapshots.
func AssertSnapshot(t testing.TB, output string) {
	t.Helper()

	output = StripANSI(output)
	snapshotPath := goldenPath(t)

	if *update {
		require.NoError(t, os.MkdirAll(filepath.Dir(snapshotPath), 0755))
		require.NoError(t, os.WriteFile(snapshotPath, []byte(output), 0644))
		t.Logf("updated snapshot: %s", snapshotPath)
		return
	}

	snapshot, err := os.ReadFile(snapshotPath)
	if os.IsNotExist(err) {
		t.Fatalf("snapshot file not found: %s. run with -update to create it.", snapshotPath)
	}
	require.NoError(t, err)

	require.Equal(t, string(snapshot), output, "snapshot does not match. run with -update to update it.")
}

// goldenPath is the file AssertSnapshot reads for t
func goldenPath(t testing.TB) string {
	return filepath.Join("testdata", strings.ToLower(strings.ReplaceAll(t.Name(), "/", "_"))+".snap")
}
