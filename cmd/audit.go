package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"migration-audit/core/audit"
	"migration-audit/core/catalog"
	"migration-audit/core/config"
	"migration-audit/core/database"
	"migration-audit/core/logger"
	"migration-audit/core/notify"
	"migration-audit/core/report"
	"migration-audit/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the audit command; zero values defer to configuration.
	oldSchemaFlag string
	newSchemaFlag string
	chunkSizeFlag int
	batchSizeFlag int
	workersFlag   int
)

// auditCmd runs the full migration audit.
var auditCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a full migration audit between the old and new databases",
	Long: `Run a full migration audit: structure comparison, count validation,
aggregate checks, null verification and row-by-row reconciliation.

Each report category is written as batched CSV files under the results
directory. Per-table failures are isolated and recorded; only a broken
connection aborts the run.

Examples:
  # Audit with schemas from configuration
  migration-audit run

  # Override schemas and tuning on the command line
  migration-audit run --old-schema HR --new-schema HR_MIGRATED --chunk-size 5000`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&oldSchemaFlag, "old-schema", "", "Old (source) schema name")
	auditCmd.Flags().StringVar(&newSchemaFlag, "new-schema", "", "New (target) schema name")
	auditCmd.Flags().IntVar(&chunkSizeFlag, "chunk-size", 0, "Rows per fetch window during row reconciliation")
	auditCmd.Flags().IntVar(&batchSizeFlag, "batch-size", 0, "Records per report output file")
	auditCmd.Flags().IntVar(&workersFlag, "workers", 0, "Concurrent table workers")

	RootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	// Cancellation is cooperative: SIGINT/SIGTERM stop the run between
	// chunks, finishing in-flight work cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cfg)

	if cfg.Audit.OldSchema == "" || cfg.Audit.NewSchema == "" {
		return fmt.Errorf("old and new schema names are required (flags or configuration)")
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	l.Info("Starting migration audit",
		zap.String("old_schema", cfg.Audit.OldSchema),
		zap.String("new_schema", cfg.Audit.NewSchema),
	)

	// Connect both sides
	oldDB, err := database.Connect(ctx, cfg.OldDatabase)
	if err != nil {
		return fmt.Errorf("failed to connect to old database: %w", err)
	}
	defer oldDB.Close()

	newDB, err := database.Connect(ctx, cfg.NewDatabase)
	if err != nil {
		return fmt.Errorf("failed to connect to new database: %w", err)
	}
	defer newDB.Close()

	oldDialect, err := catalog.NewDialect(cfg.OldDatabase.Driver)
	if err != nil {
		return err
	}
	newDialect, err := catalog.NewDialect(cfg.NewDatabase.Driver)
	if err != nil {
		return err
	}

	pair := audit.Pair{
		Old:       catalog.NewAdapter(oldDB, oldDialect),
		New:       catalog.NewAdapter(newDB, newDialect),
		OldSchema: cfg.Audit.OldSchema,
		NewSchema: cfg.Audit.NewSchema,
	}

	// Results directory: audit_results/{old}_{new}/{timestamp}
	timestamp := time.Now().Format("20060102_150405")
	resultsDir := filepath.Join(cfg.ResultsDir,
		fmt.Sprintf("%s_%s", cfg.Audit.OldSchema, cfg.Audit.NewSchema), timestamp)

	sinks, err := openSinks(resultsDir, cfg.Audit.BatchSize)
	if err != nil {
		return err
	}

	run := audit.NewRun(cfg.Audit, pair, sinks, buildNotifier(cfg, l), l)

	summary, err := run.Execute(ctx)
	if closeErr := sinks.Close(); closeErr != nil {
		l.Error("Failed to close report sinks", zap.Error(closeErr))
	}
	if err != nil {
		return fmt.Errorf("migration audit failed: %w", err)
	}

	printSummary(l, summary, resultsDir)

	if cfg.Storage.Enabled {
		uploadReports(ctx, cfg, l, summary.RunID, resultsDir)
	}

	if summary.Cancelled {
		l.Warn("Audit stopped on cancellation request; reports cover the completed portion")
	}
	return nil
}

// applyFlags lets command-line flags override loaded configuration.
func applyFlags(cfg *config.Config) {
	if oldSchemaFlag != "" {
		cfg.Audit.OldSchema = oldSchemaFlag
	}
	if newSchemaFlag != "" {
		cfg.Audit.NewSchema = newSchemaFlag
	}
	if chunkSizeFlag > 0 {
		cfg.Audit.ChunkSize = chunkSizeFlag
	}
	if batchSizeFlag > 0 {
		cfg.Audit.BatchSize = batchSizeFlag
	}
	if workersFlag > 0 {
		cfg.Audit.Workers = workersFlag
	}
}

// openSinks creates one CSV sink per report category.
func openSinks(dir string, batchSize int) (audit.Sinks, error) {
	var sinks audit.Sinks
	var err error
	if sinks.Structural, err = report.NewCSVSink(dir, report.Structural, batchSize); err != nil {
		return sinks, err
	}
	if sinks.Counts, err = report.NewCSVSink(dir, report.Counts, batchSize); err != nil {
		return sinks, err
	}
	if sinks.Aggregates, err = report.NewCSVSink(dir, report.Aggregates, batchSize); err != nil {
		return sinks, err
	}
	if sinks.Nulls, err = report.NewCSVSink(dir, report.Nulls, batchSize); err != nil {
		return sinks, err
	}
	if sinks.Rows, err = report.NewCSVSink(dir, report.Rows, batchSize); err != nil {
		return sinks, err
	}
	return sinks, nil
}

// buildNotifier wires the configured notification channels.
func buildNotifier(cfg *config.Config, l *zap.Logger) notify.Notifier {
	log := &notify.LogNotifier{Logger: l}
	if !cfg.Notify.Enabled() {
		return log
	}
	cfg.Notify.TelegramChatIDs = cfg.Notify.ChatIDs()
	return notify.Multi(log, notify.NewTelegramNotifier(cfg.Notify, l))
}

func uploadReports(ctx context.Context, cfg *config.Config, l *zap.Logger, runID, resultsDir string) {
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		l.Error("Failed to create storage client; reports remain local only", zap.Error(err))
		return
	}
	prefix := filepath.ToSlash(filepath.Join(
		fmt.Sprintf("%s_%s", cfg.Audit.OldSchema, cfg.Audit.NewSchema), runID))
	if err := report.Upload(ctx, client, cfg.Storage.Bucket, prefix, resultsDir, l); err != nil {
		l.Error("Failed to upload reports; reports remain local only", zap.Error(err))
	}
}

func printSummary(l *zap.Logger, s *audit.Summary, resultsDir string) {
	l.Info("Migration audit summary",
		zap.String("run_id", s.RunID),
		zap.Int("tables_audited", s.Tables),
		zap.Int("errors", s.ErrorCount),
		zap.Strings("failed_tables", s.FailedTables),
		zap.Duration("duration", s.Duration),
		zap.String("results_dir", resultsDir),
	)
}
