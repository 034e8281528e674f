package db

import (
	"context"
)

const createRun = `
insert into quote_run(started_at, missing) values (?, ?)
returning id
`

type CreateRunParams struct {
	StartedAt int64
	Missing   string
}

func (q *Queries) CreateRun(ctx context.Context, arg CreateRunParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createRun, arg.StartedAt, arg.Missing)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const addQuote = `
insert into quote(run_id, table_type, position, label, payload)
values (?, ?, ?, ?, ?)
`

type AddQuoteParams struct {
	RunID     int64
	TableType string
	Position  int64
	Label     string
	Payload   []byte
}

func (q *Queries) AddQuote(ctx context.Context, arg AddQuoteParams) error {
	_, err := q.db.ExecContext(ctx, addQuote,
		arg.RunID,
		arg.TableType,
		arg.Position,
		arg.Label,
		arg.Payload,
	)
	return err
}

const getRuns = `
select quote_run.id, quote_run.started_at, quote_run.missing, count(quote.run_id) as quote_count
from quote_run
left join quote on quote.run_id = quote_run.id
group by quote_run.id
order by quote_run.started_at desc, quote_run.id desc
limit ?
`

type GetRunsRow struct {
	ID         int64
	StartedAt  int64
	Missing    string
	QuoteCount int64
}

func (q *Queries) GetRuns(ctx context.Context, limit int64) ([]GetRunsRow, error) {
	rows, err := q.db.QueryContext(ctx, getRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetRunsRow
	for rows.Next() {
		var i GetRunsRow
		if err := rows.Scan(
			&i.ID,
			&i.StartedAt,
			&i.Missing,
			&i.QuoteCount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getLatestRunForTable = `
select quote_run.id, quote_run.started_at, quote_run.missing
from quote_run
where exists (
    select 1 from quote
    where quote.run_id = quote_run.id and quote.table_type = ?
)
order by quote_run.started_at desc, quote_run.id desc
limit 1
`

func (q *Queries) GetLatestRunForTable(ctx context.Context, tableType string) (QuoteRun, error) {
	row := q.db.QueryRowContext(ctx, getLatestRunForTable, tableType)
	var i QuoteRun
	err := row.Scan(&i.ID, &i.StartedAt, &i.Missing)
	return i, err
}

const getRunQuotes = `
select run_id, table_type, position, label, payload
from quote
where run_id = ? and table_type = ?
order by position asc
`

type GetRunQuotesParams struct {
	RunID     int64
	TableType string
}

func (q *Queries) GetRunQuotes(ctx context.Context, arg GetRunQuotesParams) ([]Quote, error) {
	rows, err := q.db.QueryContext(ctx, getRunQuotes, arg.RunID, arg.TableType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Quote
	for rows.Next() {
		var i Quote
		if err := rows.Scan(
			&i.RunID,
			&i.TableType,
			&i.Position,
			&i.Label,
			&i.Payload,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
