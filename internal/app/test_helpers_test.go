package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/api3dao/ois/internal/config"
	"github.com/api3dao/ois/internal/fs"
)

type MockManager struct {
	mock.Mock
	cfg *config.Config
}

func (m *MockManager) Config() *config.Config {
	return m.cfg
}

func (m *MockManager) Validate(ctx context.Context, req ValidateRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockManager) WatchValidation(ctx context.Context, req ValidateRequest, readyChan chan<- struct{}) error {
	args := m.Called(ctx, req, readyChan)
	return args.Error(0)
}

// safeBuffer is a thread-safe wrapper around bytes.Buffer for use in concurrent tests.
type safeBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *safeBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *safeBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixtureBytes(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "ois", "testdata", "ois.json"))
	require.NoError(t, err)
	return data
}

// writeDocs writes files relative to a new temporary directory and returns it.
func writeDocs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

// testEnv keeps the log file out of the working directory.
func testEnv(t *testing.T, extra map[string]string) fs.MapEnvProvider {
	t.Helper()
	env := fs.MapEnvProvider{LogEnvVar: filepath.Join(t.TempDir(), LogFile)}
	for k, v := range extra {
		env[k] = v
	}
	return env
}

const invalidDoc = `{"oisFormat": "1.0.0", "title": "x"}`
