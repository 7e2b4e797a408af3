package history

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/addrhist/internal/pkg/logger"
	"github.com/roach88/addrhist/internal/testutil"
)

// setupTestStore opens a file-backed store in a temp dir with a manual clock.
func setupTestStore(t *testing.T) (*Store, *testutil.ManualClock) {
	t.Helper()

	clock := testutil.NewManualClock(1_700_000_000_000)
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"), WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s, clock
}

// mustSave saves a numeric balance at ts and fails the test on error.
func mustSave(t *testing.T, s *Store, address string, balance float64, ts int64, opts ...SaveOption) {
	t.Helper()
	opts = append([]SaveOption{WithTimestamp(ts)}, opts...)
	require.NoError(t, s.Save(context.Background(), address, NumberBalance(balance), opts...))
}

// addresses returns the address of every record in order.
func addresses(records []AddressRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Address
	}
	return out
}

// countRows counts rows directly, bypassing the store API.
func countRows(t *testing.T, s *Store) int {
	t.Helper()
	db, err := s.handle(context.Background())
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM searched_addresses").Scan(&n))
	return n
}

// execRaw runs SQL against the store's handle, for fault injection.
func execRaw(t *testing.T, s *Store, query string) {
	t.Helper()
	db, err := s.handle(context.Background())
	require.NoError(t, err)
	_, err = db.Exec(query)
	require.NoError(t, err)
}

// logBuffer collects JSON log lines written by the global logger.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// lastEntry decodes the most recent log line.
func (b *logBuffer) lastEntry(t *testing.T) map[string]any {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()

	lines := strings.Split(strings.TrimSpace(b.buf.String()), "\n")
	require.NotEmpty(t, lines[len(lines)-1], "no log entries written")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

var (
	logsOnce sync.Once
	logs     = &logBuffer{}
)

// captureLogs routes warn and error logs of this test binary into a shared
// buffer and empties it. The global logger can only be initialized once.
func captureLogs(t *testing.T) *logBuffer {
	t.Helper()
	logsOnce.Do(func() {
		require.NoError(t, logger.Init(logger.WithLevel("warn"), logger.WithOutput(logs)))
	})
	logs.reset()
	return logs
}
