package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherReportsTrackedFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "sandbox.toml")
	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(cfg, []byte("a"), 0o644))

	w, err := Watch(cfg)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(cfg, []byte("b"), 0o644))

	var got []string
	require.Eventually(t, func() bool {
		got = append(got, w.Poll()...)
		return len(got) > 0
	}, 5*time.Second, 10*time.Millisecond)

	want, err := filepath.Abs(cfg)
	require.NoError(t, err)
	for _, p := range got {
		require.Equal(t, want, p)
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	_, err := Watch(filepath.Join(t.TempDir(), "nope", "file.toml"))
	require.Error(t, err)
}
