package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type nested struct {
	Attempts int `json:"attempts"`
	Timeout  int `json:"timeout"`
}

type testConfig struct {
	Name   string `json:"name"`
	Atomic bool   `json:"atomic"`
	Fetch  nested `json:"fetch"`
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, "config.local.json5", LocalPath("config.json5"))
	require.Equal(t, filepath.Join("a", "b.local.json5"), LocalPath(filepath.Join("a", "b.json5")))
	require.Equal(t, "config.local", LocalPath("config"))
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "config.json5")

	_, err := ReadConfig[testConfig](name)
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(name, []byte(`{
		// comments and trailing commas are fine
		name: "base",
		fetch: { attempts: 3, timeout: 75, },
	}`), 0644))

	config, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, testConfig{Name: "base", Fetch: nested{Attempts: 3, Timeout: 75}}, config)

	require.NoError(t, os.WriteFile(LocalPath(name), []byte(`{atomic: true, fetch: {attempts: 5}}`), 0644))
	config, err = ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, testConfig{Name: "base", Atomic: true, Fetch: nested{Attempts: 5, Timeout: 75}}, config)
}

func TestReadConfigInvalid(t *testing.T) {
	name := filepath.Join(t.TempDir(), "config.json5")
	require.NoError(t, os.WriteFile(name, []byte(`{name: `), 0644))

	_, err := ReadConfig[testConfig](name)
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}

func TestWithDefaults(t *testing.T) {
	config, err := WithDefaults(
		testConfig{Fetch: nested{Attempts: 1}},
		testConfig{Name: "default", Fetch: nested{Attempts: 3, Timeout: 60}},
	)
	require.NoError(t, err)
	require.Equal(t, testConfig{Name: "default", Fetch: nested{Attempts: 1, Timeout: 60}}, config)
}
