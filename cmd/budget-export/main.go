// Command budget-export writes the stored ledger to a CSV file or a Google
// Sheet. With -follow it keeps the sheet in sync with ledger events.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"budget/internal/amqp"
	"budget/internal/cli"
	"budget/internal/config"
	"budget/internal/core"
	"budget/internal/export"
	"budget/internal/export/sheets"
	"budget/internal/ledger"
	"budget/internal/log"
	"budget/internal/persist"
)

func main() {
	toSheets := flag.Bool("sheets", false, "export to the configured Google Sheet instead of a CSV file")
	follow := flag.Bool("follow", false, "with -sheets, re-export on every ledger event from AMQP")
	out := flag.String("out", "", "CSV output path (default budget-tracker-YYYY-MM-DD.csv)")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(log.ComponentExport)
	cfg := cli.LoadAndValidateConfig(logger)

	backendResult := cli.InitBackend(context.Background(), logger, cfg)
	defer backendResult.Close()

	adapter := persist.NewAdapter(backendResult.Store, cfg.StorageKey, logger.Logger)

	if !*toSheets {
		if err := writeCSVFile(context.Background(), adapter, *out, logger); err != nil {
			logger.Error("CSV export failed", log.FieldError, err)
			os.Exit(1)
		}
		return
	}

	if err := cfg.ValidateSheets(); err != nil {
		logger.Error("Sheets configuration invalid", log.FieldError, err, log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}
	exporter, err := sheets.New(context.Background(), sheets.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets exporter", log.FieldError, err)
		os.Exit(1)
	}

	if err := exportSheet(context.Background(), adapter, exporter, logger); err != nil {
		logger.Error("Sheets export failed", log.FieldError, err)
		os.Exit(1)
	}
	if *follow {
		if err := followEvents(cfg, adapter, exporter, logger); err != nil {
			logger.Error("Event consumption failed", log.FieldError, err)
			os.Exit(1)
		}
	}
}

// loadRecords returns the stored snapshot in canonical order.
func loadRecords(ctx context.Context, adapter *persist.Adapter) []core.Transaction {
	store := ledger.NewStore()
	store.Replace(adapter.Load(ctx))
	return store.List()
}

func writeCSVFile(ctx context.Context, adapter *persist.Adapter, path string, logger *log.Logger) error {
	records := loadRecords(ctx, adapter)
	if len(records) == 0 {
		logger.Info(export.EmptyNotice)
		return nil
	}
	if path == "" {
		path = export.FileName(time.Now())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	logger.Info("CSV export written", "path", path, log.FieldRecordCount, len(records))
	return nil
}

func exportSheet(ctx context.Context, adapter *persist.Adapter, exporter *sheets.Exporter, logger *log.Logger) error {
	records := loadRecords(ctx, adapter)
	if err := exporter.Export(ctx, records); err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			logger.InfoContext(ctx, export.EmptyNotice)
			return exporter.Clear(ctx)
		}
		return err
	}
	logger.InfoContext(ctx, "Sheet export written", log.FieldRecordCount, len(records))
	return nil
}

func followEvents(cfg *config.Config, adapter *persist.Adapter, exporter *sheets.Exporter, logger *log.Logger) error {
	if !cfg.AMQPEnabled() {
		return errors.New("-follow requires AMQP_URL")
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return err
	}

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, func(context.Context) {
		if err := client.Close(); err != nil {
			logger.Warn("AMQP close error", log.FieldError, err)
		}
	})

	err = client.ConsumeTransactionEvents(ctx, func(ctx context.Context, ev *amqp.TransactionEvent) error {
		logger.DebugContext(ctx, "Ledger event received", "op", ev.Op, log.FieldTxID, ev.ID)
		return exportSheet(ctx, adapter, exporter, logger)
	})
	if ctx.Err() != nil {
		cli.WaitForShutdown(ctx, done)
		return nil
	}
	client.Close()
	return err
}
