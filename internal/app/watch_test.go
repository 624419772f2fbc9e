package app

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a buffer safe to write from the watch goroutine and poll
// from the test goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func startWatchApp(t *testing.T, path string) (*syncBuffer, context.CancelFunc, chan error) {
	t.Helper()

	cfg, err := NewConfig(Config{GridPath: path, Workers: 1, Watch: true})
	require.NoError(t, err)

	out := &syncBuffer{}
	a, err := New(out, io.Discard, cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- a.Run(ctx) }()
	return out, cancel, runErr
}

func waitForOutput(t *testing.T, out *syncBuffer, want string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), want)
	}, 5*time.Second, 10*time.Millisecond, "never observed %q in output", want)
}

func TestWatchReloadsOnGridChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`node "a" { emit = 1 }`), 0o644))

	out, cancel, runErr := startWatchApp(t, path)
	defer cancel()

	waitForOutput(t, out, "a = 1")

	require.NoError(t, os.WriteFile(path, []byte(`node "a" { emit = 2 }`), 0o644))
	waitForOutput(t, out, "a = 2")

	cancel()
	select {
	case err := <-runErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not exit on cancellation")
	}
}

func TestWatchSurvivesBadReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`node "a" { emit = 1 }`), 0o644))

	out, cancel, _ := startWatchApp(t, path)
	defer cancel()

	waitForOutput(t, out, "a = 1")

	// A broken grid is logged and skipped; the loop keeps watching.
	require.NoError(t, os.WriteFile(path, []byte(`node "a" {`), 0o644))

	require.NoError(t, os.WriteFile(path, []byte(`node "a" { emit = 3 }`), 0o644))
	waitForOutput(t, out, "a = 3")
}
