package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testNested struct {
	File string `json:"file"`
	Url  string `json:"url"`
}

type testConfig struct {
	BaseUrl  string     `json:"base_url"`
	Timeout  int        `json:"timeout_seconds"`
	Schedule string     `json:"schedule"`
	Database testNested `json:"database"`
}

func writeFile(t *testing.T, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestSplitExt(t *testing.T) {
	testCases := []struct {
		input string
		name  string
		ext   string
	}{
		{input: "config.json5", name: "config", ext: "json5"},
		{input: "cattleprices.local.json5", name: "cattleprices.local", ext: "json5"},
		{input: "noext", name: "noext", ext: ""},
	}
	for _, test := range testCases {
		name, ext := splitExt(test.input)
		require.Equal(t, test.name, name)
		require.Equal(t, test.ext, ext)
	}
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "missing.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadConfigLocalOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "cattleprices.json5"), `{
		// comments and trailing commas are fine in json5
		base_url: "https://www.scotconsultoria.com.br",
		timeout_seconds: 10,
		database: { file: "quotes.db" },
	}`)
	writeFile(t, filepath.Join(dir, "cattleprices.local.json5"), `{
		timeout_seconds: 30,
		database: { url: "libsql://example.turso.io" },
	}`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "cattleprices.json5"))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "https://www.scotconsultoria.com.br", cfg.BaseUrl)
	require.Equal(t, 30, cfg.Timeout)
	require.Equal(t, "quotes.db", cfg.Database.File)
	require.Equal(t, "libsql://example.turso.io", cfg.Database.Url)
}

func TestReadConfigOr(t *testing.T) {
	defaults := testConfig{
		BaseUrl:  "https://www.scotconsultoria.com.br",
		Schedule: "0 8 * * *",
	}

	cfg, err := ReadConfigOr(filepath.Join(t.TempDir(), "cattleprices.json5"), defaults)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, defaults, cfg)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "cattleprices.json5"), `{ base_url: "http://localhost:8080" }`)
	cfg, err = ReadConfigOr(filepath.Join(dir, "cattleprices.json5"), defaults)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "http://localhost:8080", cfg.BaseUrl)
	require.Equal(t, "0 8 * * *", cfg.Schedule)
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "cattleprices.json5"), `{ base_url: `)
	_, err := ReadConfigOr(filepath.Join(dir, "cattleprices.json5"), testConfig{})
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}
