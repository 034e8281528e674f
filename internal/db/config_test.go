package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigDsn(t *testing.T) {
	driver, dsn, err := Config{File: "quotes.db"}.dsn()
	require.NoError(t, err)
	require.Equal(t, "sqlite", driver)
	require.Equal(t, "quotes.db", dsn)

	driver, dsn, err = Config{File: "ignored.db", Url: "libsql://quotes.turso.io", AuthToken: "secret"}.dsn()
	require.NoError(t, err)
	require.Equal(t, "libsql", driver)
	require.Equal(t, "libsql://quotes.turso.io?authToken=secret", dsn)

	_, _, err = Config{Url: "://bad"}.dsn()
	require.Error(t, err)
}

func TestOpenDB(t *testing.T) {
	require.False(t, Config{}.Enabled())
	_, err := Config{}.OpenDB(context.Background())
	require.Error(t, err)

	ctx := context.Background()
	conn, err := Config{File: ":memory:"}.OpenDB(ctx)
	require.NoError(t, err)
	defer conn.Close()

	qry := New(conn)
	id, err := qry.CreateRun(ctx, CreateRunParams{StartedAt: 100})
	require.NoError(t, err)
	require.NoError(t, qry.AddQuote(ctx, AddQuoteParams{
		RunID:     id,
		TableType: "fat-ox",
		Position:  0,
		Label:     "SP",
		Payload:   []byte(`{"UF":"SP"}`),
	}))

	runs, err := qry.GetRuns(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []GetRunsRow{{ID: id, StartedAt: 100, QuoteCount: 1}}, runs)

	// applying the schema twice is harmless
	_, err = conn.ExecContext(ctx, Schema)
	require.NoError(t, err)
}

func TestOpenDBFile(t *testing.T) {
	ctx := context.Background()
	config := Config{File: filepath.Join(t.TempDir(), "state", "quotes.db")}

	conn, err := config.OpenDB(ctx)
	require.NoError(t, err)
	_, err = New(conn).CreateRun(ctx, CreateRunParams{StartedAt: 200, Missing: "fat-cow"})
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	conn, err = config.OpenDB(ctx)
	require.NoError(t, err)
	defer conn.Close()

	var mode string
	require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
	require.Equal(t, "wal", mode)

	runs, err := New(conn).GetRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, "fat-cow", runs[0].Missing)
}
