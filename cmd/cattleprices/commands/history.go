package commands

import (
	"errors"
	"strings"
	"time"

	"cattleprices/internal/components/serviceutil"
	"cattleprices/internal/quotes"
	"cattleprices/internal/scrapers/scot"
	"cattleprices/internal/snapshot"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyLimit *int

func init() {
	historyLimit = historyCmd.Flags().Int("runs", 10, "The amount of recent runs to list when no table is given.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [table] [--runs <n>]",
	Short: "Lists recorded runs, or the latest recorded quotes of a table.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		app := setup(ctx)
		defer app.Close()
		store := app.Store()

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleRounded)

		if len(args) == 0 {
			runs, err := store.Runs(ctx, *historyLimit)
			if err != nil {
				serviceutil.Fatal("failed to list runs", err)
			}
			t.AppendHeader(table.Row{"Run", "Time", "Records", "Missing"})
			for _, run := range runs {
				t.AppendRow(table.Row{
					run.ID,
					run.Time.In(app.clock.Location()).Format(time.DateTime),
					run.Records,
					joinTables(run.Missing),
				})
			}
			t.Render()
			return
		}

		tableType, err := scot.ParseTableType(args[0])
		if err != nil {
			serviceutil.Fatal("failed to resolve table", err)
		}
		run, records, err := store.Latest(ctx, tableType)
		if errors.Is(err, snapshot.ErrNoSnapshot) {
			cmd.PrintErrf("no run has recorded %s yet\n", tableType)
			return
		}
		if err != nil {
			serviceutil.Fatal("failed to read latest quotes", err)
		}

		t.SetTitle("%s (run %d, %s)", tableType, run.ID, run.Time.In(app.clock.Location()).Format(time.DateTime))
		t.AppendHeader(toRow(quotes.Header(tableType)))
		for _, record := range records {
			t.AppendRow(toRow(record.Cells()))
		}
		t.Render()
	},
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, cell := range cells {
		row[i] = cell
	}
	return row
}

func joinTables(tables []scot.TableType) string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}
