// Package pipeline runs one scrape of every table: extraction happens
// concurrently, records are emitted in the fixed table order.
package pipeline

import (
	"context"
	"io"
	"sync"

	"cattleprices/internal/components/assert"
	"cattleprices/internal/components/chrono"
	"cattleprices/internal/components/telemetry"
	"cattleprices/internal/numeric"
	"cattleprices/internal/pattern"
	"cattleprices/internal/quotes"
	"cattleprices/internal/scrapers/scot"
	"cattleprices/internal/snapshot"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("cattleprices/internal/pipeline")

const (
	report_runner_emit    = "runner.emit"
	report_runner_persist = "runner.persist"
	report_runner_records = "runner.records"
)

// Extractor returns the rows of a table, ok is false when the table could not
// be extracted this time.
type Extractor interface {
	Extract(ctx context.Context, table scot.TableType) (rows []pattern.Row, ok bool)
}

// Store persists the outcome of a run.
type Store interface {
	Save(ctx context.Context, run snapshot.Run) (int64, error)
}

type Runner struct {
	// shared by copies of the runner, they write to the same encoder.
	mutex      *sync.Mutex
	extractor  Extractor
	encoder    quotes.Encoder
	normalizer numeric.Normalizer
	store      Store
	time       chrono.API
	tel        telemetry.API
}

func NewRunner(
	extractor Extractor,
	out io.Writer,
	time chrono.API,
	tel telemetry.API,
) Runner {
	assert.NotNil(extractor)
	assert.NotNil(out)
	assert.NotNil(time)
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("pipeline", tel)

	return Runner{
		mutex:      &sync.Mutex{},
		extractor:  extractor,
		encoder:    quotes.NewEncoder(out),
		normalizer: numeric.NewNormalizer(tel),
		time:       time,
		tel:        tel,
	}
}

// WithStore returns a copy of the runner that saves every run into the store.
func (r Runner) WithStore(store Store) Runner {
	assert.NotNil(store)
	r.store = store
	return r
}

// Summary is what a single run produced, Records counts the records that
// were written to the output.
type Summary struct {
	Tables  []snapshot.TableRecords
	Missing []scot.TableType
	Records int
}

type slot struct {
	records []quotes.Record
	ok      bool
}

// Run extracts every table concurrently, then writes the records of each
// present table in the order of scot.AllTables. Tables that could not be
// extracted produce no output and do not affect the other tables. Concurrent
// calls run one after the other.
func (r Runner) Run(ctx context.Context) Summary {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ctx, span := tracer.Start(ctx, "pipeline.run")
	defer span.End()

	started := r.time.Now()

	slots := make([]slot, len(scot.AllTables))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, table := range scot.AllTables {
		group.Go(func() error {
			ctx, span := tracer.Start(groupCtx, "pipeline.extract")
			defer span.End()
			span.SetAttributes(attribute.String("table", table.String()))

			rows, ok := r.extractor.Extract(ctx, table)
			if !ok {
				span.SetStatus(codes.Error, "table missing")
				return nil
			}
			span.SetAttributes(attribute.Int("rows", len(rows)))
			slots[i] = slot{
				records: quotes.FromRows(r.normalizer, table, rows),
				ok:      true,
			}
			return nil
		})
	}
	// extraction failures are reported by the extractor, they never cancel the group.
	_ = group.Wait()

	var summary Summary
	for i, table := range scot.AllTables {
		if !slots[i].ok {
			summary.Missing = append(summary.Missing, table)
			continue
		}
		emitted := 0
		for _, record := range slots[i].records {
			err := r.encoder.Encode(record)
			if err != nil {
				r.tel.ReportBroken(report_runner_emit, err, table.String())
				continue
			}
			emitted++
		}
		summary.Tables = append(summary.Tables, snapshot.TableRecords{
			Table:   table,
			Records: slots[i].records,
		})
		summary.Records += emitted
		r.tel.ReportCount(report_runner_records+"."+table.String(), int64(emitted))
	}
	r.tel.ReportCount(report_runner_records, int64(summary.Records))
	span.SetAttributes(
		attribute.Int("records", summary.Records),
		attribute.Int("missing", len(summary.Missing)),
	)

	if r.store != nil {
		_, err := r.store.Save(ctx, snapshot.Run{
			Time:    started,
			Tables:  summary.Tables,
			Missing: summary.Missing,
		})
		if err != nil {
			r.tel.ReportBroken(report_runner_persist, err)
		}
	}

	return summary
}
