package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// Config selects where run snapshots are stored: a local sqlite file or a
// remote libsql database when Url is set.
type Config struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (c Config) Enabled() bool {
	return c.File != "" || c.Url != ""
}

func (c Config) dsn() (driver, dsn string, err error) {
	if c.Url == "" {
		return "sqlite", c.File, nil
	}
	parsed, err := url.Parse(c.Url)
	if err != nil {
		return "", "", fmt.Errorf("parse database url: %w", err)
	}
	if c.AuthToken != "" {
		query := parsed.Query()
		query.Set("authToken", c.AuthToken)
		parsed.RawQuery = query.Encode()
	}
	return "libsql", parsed.String(), nil
}

// OpenDB opens the configured database and makes sure the schema exists.
func (c Config) OpenDB(ctx context.Context) (*sql.DB, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("open db: neither a file nor a url is configured")
	}
	driver, dsn, err := c.dsn()
	if err != nil {
		return nil, err
	}

	local := driver == "sqlite" && c.File != ":memory:"
	if local {
		err = os.MkdirAll(filepath.Dir(c.File), 0777)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// sqlite allows a single writer, and every connection to ":memory:" is a
	// separate database.
	if driver == "sqlite" {
		conn.SetMaxOpenConns(1)
	}
	if local {
		_, err = conn.ExecContext(ctx, "PRAGMA journal_mode=WAL")
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("open db: %w", err)
		}
	}

	_, err = conn.ExecContext(ctx, Schema)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return conn, nil
}
