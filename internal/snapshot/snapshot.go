// Package snapshot keeps a history of the records emitted by each run.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cattleprices/internal/components/assert"
	"cattleprices/internal/components/telemetry"
	"cattleprices/internal/db"
	"cattleprices/internal/quotes"
	"cattleprices/internal/scrapers/scot"
)

const (
	report_db_query   = "db.query"
	report_store_save = "store.save"
	report_store_read = "store.read"
)

// ErrNoSnapshot is returned when no run has recorded the requested table yet.
var ErrNoSnapshot = errors.New("no snapshot recorded")

// Run is the outcome of a single pipeline run.
type Run struct {
	Time    time.Time
	Tables  []TableRecords
	Missing []scot.TableType
}

type TableRecords struct {
	Table   scot.TableType
	Records []quotes.Record
}

type RunSummary struct {
	ID      int64
	Time    time.Time
	Records int64
	Missing []scot.TableType
}

type Store struct {
	qry    *db.Queries
	makeTx db.MakeTx
	tel    telemetry.API
}

func NewStore(conn *sql.DB, tel telemetry.API) Store {
	assert.NotNil(conn)
	assert.NotNil(tel)

	return Store{
		qry:    db.New(conn),
		makeTx: db.NewMakeTx(conn),
		tel:    telemetry.NewScopedAPI("snapshot", tel),
	}
}

func encodeMissing(tables []scot.TableType) string {
	slugs := make([]string, len(tables))
	for i, table := range tables {
		slugs[i] = table.String()
	}
	return strings.Join(slugs, ",")
}

func decodeMissing(text string) []scot.TableType {
	if text == "" {
		return nil
	}
	var tables []scot.TableType
	for _, slug := range strings.Split(text, ",") {
		table, err := scot.ParseTableType(slug)
		if err != nil {
			continue
		}
		tables = append(tables, table)
	}
	return tables
}

// Save records a run and all of its records atomically, returning the run id.
func (s Store) Save(ctx context.Context, run Run) (int64, error) {
	tx, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		err = fmt.Errorf("make tx: %w", err)
		s.tel.ReportBroken(report_db_query, err)
		return 0, err
	}
	defer discard()

	runParams := db.CreateRunParams{
		StartedAt: run.Time.Unix(),
		Missing:   encodeMissing(run.Missing),
	}
	runId, err := tx.CreateRun(ctx, runParams)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "CreateRun", runParams)
		return 0, err
	}

	for _, table := range run.Tables {
		for position, record := range table.Records {
			payload, err := json.Marshal(record)
			if err != nil {
				err = fmt.Errorf("marshal record: %w", err)
				s.tel.ReportBroken(report_store_save, err, table.Table.String(), position)
				return 0, err
			}
			quoteParams := db.AddQuoteParams{
				RunID:     runId,
				TableType: table.Table.String(),
				Position:  int64(position),
				Label:     record.Label(),
				Payload:   payload,
			}
			err = tx.AddQuote(ctx, quoteParams)
			if err != nil {
				s.tel.ReportBroken(report_db_query, err, "AddQuote", runId, quoteParams.TableType, position)
				return 0, err
			}
		}
	}

	err = commit()
	if err != nil {
		err = fmt.Errorf("commit: %w", err)
		s.tel.ReportBroken(report_db_query, err)
		return 0, err
	}
	s.tel.ReportDebug("saved run", runId, len(run.Tables))
	return runId, nil
}

// Latest returns the records of the most recent run that recorded the table.
func (s Store) Latest(ctx context.Context, table scot.TableType) (RunSummary, []quotes.Record, error) {
	run, err := s.qry.GetLatestRunForTable(ctx, table.String())
	if errors.Is(err, sql.ErrNoRows) {
		return RunSummary{}, nil, ErrNoSnapshot
	}
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "GetLatestRunForTable", table.String())
		return RunSummary{}, nil, err
	}

	rows, err := s.qry.GetRunQuotes(ctx, db.GetRunQuotesParams{
		RunID:     run.ID,
		TableType: table.String(),
	})
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "GetRunQuotes", run.ID, table.String())
		return RunSummary{}, nil, err
	}

	records := make([]quotes.Record, 0, len(rows))
	for _, row := range rows {
		record, err := quotes.Decode(table, row.Payload)
		if err != nil {
			s.tel.ReportBroken(report_store_read, err, run.ID, row.Position)
			continue
		}
		records = append(records, record)
	}

	summary := RunSummary{
		ID:      run.ID,
		Time:    time.Unix(run.StartedAt, 0),
		Records: int64(len(records)),
		Missing: decodeMissing(run.Missing),
	}
	return summary, records, nil
}

// Runs lists the most recent runs, newest first.
func (s Store) Runs(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := s.qry.GetRuns(ctx, int64(limit))
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "GetRuns", limit)
		return nil, err
	}
	summaries := make([]RunSummary, len(rows))
	for i, row := range rows {
		summaries[i] = RunSummary{
			ID:      row.ID,
			Time:    time.Unix(row.StartedAt, 0),
			Records: row.QuoteCount,
			Missing: decodeMissing(row.Missing),
		}
	}
	return summaries, nil
}
