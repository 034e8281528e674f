package restyutil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cattleprices/internal/testutil"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	files map[string]string
}

func (m memoryOutput) Write(id string, contents string) error {
	m.files[id] = contents
	return nil
}

type failingOutput struct{}

func (failingOutput) Write(string, string) error {
	return errors.New("read-only filesystem")
}

func newServer(t testing.TB) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "text/html; charset=utf-8")
		w.Header().Set("x-cache", "MISS")
		w.Write([]byte("<table><tr><td>SP</td></tr></table>"))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestInstrumentClientDumpsExchanges(t *testing.T) {
	server := newServer(t)
	output := memoryOutput{files: map[string]string{}}
	tel := testutil.NewRecordingAPI()

	client := resty.New().SetBaseURL(server.URL)
	InstrumentClient(client, nil, output, tel)

	_, err := client.R().Get("/cotacoes/boi-gordo/?ref=smn")
	require.NoError(t, err)
	_, err = client.R().Get("/")
	require.NoError(t, err)

	require.Len(t, output.files, 2)
	first, ok := output.files["0001-cotacoes_boi-gordo.http"]
	require.True(t, ok, output.files)
	require.True(t, strings.HasPrefix(first, "---- REQUEST ----\n\nGET "+server.URL+"/cotacoes/boi-gordo/?ref=smn"))
	require.Contains(t, first, "---- RESPONSE ----\n\n200 ")
	require.Contains(t, first, "X-Cache: MISS")
	require.True(t, strings.HasSuffix(first, "<table><tr><td>SP</td></tr></table>"))

	_, ok = output.files["0002-root.http"]
	require.True(t, ok)
	require.Empty(t, tel.Reports(""))
}

func TestInstrumentClientWithoutOutput(t *testing.T) {
	server := newServer(t)
	client := resty.New().SetBaseURL(server.URL)
	InstrumentClient(client, nil, nil, testutil.NewRecordingAPI())

	res, err := client.R().Get("/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())
}

func TestInstrumentClientReportsWriteFailure(t *testing.T) {
	server := newServer(t)
	tel := testutil.NewRecordingAPI()
	client := resty.New().SetBaseURL(server.URL)
	InstrumentClient(client, nil, failingOutput{}, tel)

	_, err := client.R().Get("/cotacoes/novilha/")
	require.NoError(t, err)
	require.True(t, tel.HasReport("warning", report_dump_write))
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dumps", "nested")
	output, err := NewFilesystemOutput(dir)
	require.NoError(t, err)

	require.NoError(t, output.Write("0001-root.http", "contents"))
	contents, err := os.ReadFile(filepath.Join(dir, "0001-root.http"))
	require.NoError(t, err)
	require.Equal(t, "contents", string(contents))
}

func TestFormatHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Add("User-Agent", "cattleprices")
	headers.Add("Accept", "text/html")
	headers.Add("Accept", "*/*")

	require.Equal(t, "Accept: text/html\nAccept: */*\nUser-Agent: cattleprices", formatHeaders(headers))
	require.Equal(t, "", formatHeaders(http.Header{}))
}
