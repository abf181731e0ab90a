package app

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/api3dao/ois/internal/config"
	"github.com/api3dao/ois/internal/ois"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("help", func(t *testing.T) {
		t.Parallel()
		var stdout bytes.Buffer
		err := Run(context.Background(), []string{"ois", "--help"}, &stdout, io.Discard, testEnv(t, nil))
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Oracle Integration Specification")
		assert.Contains(t, stdout.String(), "validate")
	})

	t.Run("version", func(t *testing.T) {
		t.Parallel()
		var stdout bytes.Buffer
		require.NoError(t, Run(context.Background(), []string{"ois", "--version"}, &stdout, io.Discard, testEnv(t, nil)))
		assert.Contains(t, stdout.String(), "dev (OIS "+ois.Version+")")
	})

	t.Run("invalid command", func(t *testing.T) {
		t.Parallel()
		var stderr bytes.Buffer
		err := Run(context.Background(), []string{"ois", "invalid-command"}, io.Discard, &stderr, testEnv(t, nil))
		require.Error(t, err)
		assert.Contains(t, stderr.String(), "Error: unknown command")
	})

	t.Run("validate valid document", func(t *testing.T) {
		t.Parallel()
		dir := writeDocs(t, map[string]string{"ois.json": string(fixtureBytes(t))})
		var stdout bytes.Buffer
		err := Run(context.Background(), []string{"ois", "validate", "--nocolour", dir}, &stdout, io.Discard, testEnv(t, nil))
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "[PASS] "+filepath.Join(dir, "ois.json"))
	})

	t.Run("validate invalid document", func(t *testing.T) {
		t.Parallel()
		dir := writeDocs(t, map[string]string{"bad.json": invalidDoc})
		var stdout, stderr bytes.Buffer
		err := Run(context.Background(), []string{"ois", "validate", "-o", "json", dir}, &stdout, &stderr, testEnv(t, nil))
		var failed *ValidationFailedError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, "Error: 1 of 1 documents failed validation\n", stderr.String())
		assert.False(t, gjson.GetBytes(stdout.Bytes(), "results.0.valid").Bool())
	})

	t.Run("config flag", func(t *testing.T) {
		t.Parallel()
		dir := writeDocs(t, map[string]string{
			"ois.json":   string(fixtureBytes(t)),
			"custom.yml": "output: json\n",
		})
		var stdout bytes.Buffer
		err := Run(context.Background(),
			[]string{"ois", "--config", filepath.Join(dir, "custom.yml"), "validate", filepath.Join(dir, "ois.json")},
			&stdout, io.Discard, testEnv(t, nil))
		require.NoError(t, err)
		assert.Equal(t, int64(1), gjson.GetBytes(stdout.Bytes(), "stats.totalPassed").Int())
	})

	t.Run("config env var", func(t *testing.T) {
		t.Parallel()
		dir := writeDocs(t, map[string]string{
			"ois.json":   string(fixtureBytes(t)),
			"custom.yml": "referenceVersion: \"2.2.0\"\noutput: json\n",
		})
		var stdout bytes.Buffer
		env := testEnv(t, map[string]string{config.ConfigEnvVar: filepath.Join(dir, "custom.yml")})
		err := Run(context.Background(), []string{"ois", "validate", dir}, &stdout, io.Discard, env)
		require.Error(t, err)
		assert.Equal(t, "2.2.0", gjson.GetBytes(stdout.Bytes(), "referenceVersion").String())
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()
		dir := writeDocs(t, map[string]string{"custom.yml": "output: xml\n"})
		var stderr bytes.Buffer
		err := Run(context.Background(),
			[]string{"ois", "-f", filepath.Join(dir, "custom.yml"), "validate", dir},
			io.Discard, &stderr, testEnv(t, nil))
		var target *config.InvalidOutputError
		require.ErrorAs(t, err, &target)
		assert.Contains(t, stderr.String(), "Error: configuration failed:")
	})

	t.Run("debug logs each document", func(t *testing.T) {
		t.Parallel()
		dir := writeDocs(t, map[string]string{"ois.json": string(fixtureBytes(t))})
		logFile := filepath.Join(t.TempDir(), "debug.log")
		var stderr bytes.Buffer
		err := Run(context.Background(), []string{"ois", "--debug", "validate", dir},
			io.Discard, &stderr, testEnv(t, map[string]string{LogEnvVar: logFile}))
		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "validated document path="+filepath.Join(dir, "ois.json"))

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"validated document"`)
	})
}
