package commands

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"cattleprices/internal/components/chrono"
	"cattleprices/internal/components/restyutil"
	"cattleprices/internal/components/serviceutil"
	"cattleprices/internal/components/telemetry"
	"cattleprices/internal/pipeline"
	"cattleprices/internal/scrapers/scot"
	"cattleprices/internal/snapshot"

	"github.com/spf13/cobra"
)

var configPath *string
var dbFile *string
var dumpDir *string
var verbose *bool

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "cattleprices.json5", "The config file to read, it is optional.")
	dbFile = rootCmd.PersistentFlags().String("db", "", "A sqlite file to record runs into, overrides the configured database.")
	dumpDir = rootCmd.PersistentFlags().String("dump", "", "A directory to write every fetched page into.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enables debug logs.")
}

var rootCmd = &cobra.Command{
	Use:   "cattleprices [--config <path/to/config.json5>] [--db <path/to/history.db>] [--dump <dir>] [-v]",
	Short: "cattleprices scrapes Scot Consultoria cattle quotes and prints them as JSON.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
	Run: func(cmd *cobra.Command, args []string) {
		app := setup(cmd.Context())
		defer app.Close()

		app.Runner(cmd.OutOrStdout()).Run(cmd.Context())
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	config   Config
	clock    chrono.API
	tel      telemetry.API
	client   scot.Client
	db       *sql.DB
	shutdown telemetry.Telemetry
}

// setup wires every dependency from the config, configuration problems are fatal.
func setup(ctx context.Context) app {
	config, err := LoadConfig(*configPath)
	if err != nil {
		serviceutil.Fatal("failed to load config", err)
	}
	if *dbFile != "" {
		config.Database.File = *dbFile
		config.Database.Url = ""
	}
	if *dumpDir != "" {
		config.DumpDir = *dumpDir
	}

	out := app{config: config}

	var tel telemetry.API = telemetry.NewSlogAPI(slog.Default())
	if config.Telemetry.Enabled() {
		out.shutdown, err = telemetry.Setup(ctx, "cattleprices", config.Telemetry)
		if err != nil {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
		tel, err = telemetry.NewOtelAPI(tel)
		if err != nil {
			serviceutil.Fatal("failed to create otel instruments", err)
		}
	}
	out.tel = tel

	out.clock, err = chrono.NewStandardImpl(config.Timezone)
	if err != nil {
		serviceutil.Fatal("failed to load timezone", err)
	}

	clientOptions := config.ClientOptions()
	if config.DumpDir != "" {
		dump, err := restyutil.NewFilesystemOutput(config.DumpDir)
		if err != nil {
			serviceutil.Fatal("failed to prepare dump directory", err)
		}
		clientOptions.Dump = dump
	}
	out.client, err = scot.NewClient(clientOptions, tel)
	if err != nil {
		serviceutil.Fatal("failed to create scot client", err)
	}

	if config.Database.Enabled() {
		out.db, err = config.Database.OpenDB(ctx)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
	}

	return out
}

func (a app) Runner(output io.Writer) pipeline.Runner {
	runner := pipeline.NewRunner(a.client, output, a.clock, a.tel)
	if a.db != nil {
		runner = runner.WithStore(a.Store())
	}
	return runner
}

func (a app) Store() snapshot.Store {
	if a.db == nil {
		serviceutil.Fatal("no database configured", fmt.Errorf("pass --db or set database in %s", *configPath))
	}
	return snapshot.NewStore(a.db, a.tel)
}

func (a app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	err := a.shutdown.Shutdown(context.Background())
	if err != nil {
		slog.Warn("failed to shutdown telemetry", "err", err)
	}
}
