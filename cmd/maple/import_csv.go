package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mapleledger/maple/internal/cli"
	"github.com/mapleledger/maple/internal/common"
	"github.com/mapleledger/maple/internal/config"
	"github.com/mapleledger/maple/internal/ingest"
	"github.com/mapleledger/maple/internal/model"
	"github.com/mapleledger/maple/internal/storage"
)

func importCSVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-csv [files...]",
		Short: "Import transactions from bank CSV exports",
		Long: `Import transactions from CSV statement exports. The issuing bank
(CIBC, RBC, TD, or BMO) is detected automatically from the file's header
row, or from the column shape for headerless CIBC exports.

Examples:
  # Import a single statement
  maple import-csv ~/Downloads/cibc_jan_2026.csv

  # Import several statements at once
  maple import-csv ~/Downloads/statements/*.csv

  # Reject the whole file if any row is malformed
  maple import-csv --strict ~/Downloads/rbc_chequing.csv

  # CIBC credit-card exports carry headers too generic for detection;
  # name the format explicitly
  maple import-csv --format cibc-credit ~/Downloads/cibc_visa.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportCSV,
	}

	cmd.Flags().Bool("strict", false, "Reject the whole file when any row fails validation")
	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	cmd.Flags().String("format", "auto", "Statement format: auto (detect from headers) or cibc-credit")

	return cmd
}

func runImportCSV(cmd *cobra.Command, args []string) error {
	strict, _ := cmd.Flags().GetBool("strict")
	if !cmd.Flags().Changed("strict") {
		strict = config.StrictImport()
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	format, _ := cmd.Flags().GetString("format")
	if format != "auto" && format != "cibc-credit" {
		return fmt.Errorf("unknown format %q (expected auto or cibc-credit)", format)
	}

	allFiles, err := expandFileArgs(args)
	if err != nil {
		return err
	}
	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	mode := ingest.Lenient
	if strict {
		mode = ingest.Strict
	}

	ictx := ingest.Context{
		UserID:   config.UserID(),
		Currency: config.Currency(),
		Source:   model.SourceCSV,
	}

	slog.Info("🍁 Importing CSV statements...",
		"file_count", len(allFiles),
		"strict", strict,
		"dry_run", dryRun)

	var bar *progressbar.ProgressBar
	if len(allFiles) > 1 {
		bar = progressbar.NewOptions(len(allFiles),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Importing statements..."))
	}

	var all []model.Transaction
	var failed int
	for _, path := range allFiles {
		result, err := processCSVFile(path, format, ictx, mode)
		if bar != nil {
			_ = bar.Add(1)
		}
		if err != nil {
			failed++
			common.LogError(err, "Failed to process file", common.Fields{"file": path})
			msg := err.Error()
			var ue *common.UserError
			if errors.As(err, &ue) {
				msg = ue.UserMessage
			}
			fmt.Println(cli.ErrorStyle.Render(fmt.Sprintf("✗ %s: %s", filepath.Base(path), msg)))
			continue
		}

		fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ %s: %s, %d rows, %d transactions",
			filepath.Base(path), result.Bank, result.RowsParsed, len(result.Transactions))))
		printRowErrors(result.RowErrors)

		all = append(all, result.Transactions...)
	}

	if len(all) == 0 {
		if failed > 0 {
			return fmt.Errorf("no transactions imported (%d file(s) failed)", failed)
		}
		slog.Warn("No transactions found in any file")
		return nil
	}

	if dryRun {
		fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("🔍 Dry run complete: %d transaction(s) parsed, nothing saved", len(all))))
		return nil
	}

	inserted, err := saveTransactions(cmd, all)
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render("Import summary"))
	fmt.Printf("  Files processed:  %d\n", len(allFiles)-failed)
	fmt.Printf("  Transactions:     %d\n", len(all))
	fmt.Printf("  Newly saved:      %d\n", inserted)
	fmt.Printf("  Duplicates:       %d\n", int64(len(all))-inserted)

	return nil
}

// printRowErrors renders lenient-mode row failures, capped the same way
// strict batch errors are.
func printRowErrors(rowErrs []ingest.RowError) {
	if len(rowErrs) == 0 {
		return
	}
	shown := rowErrs
	if len(shown) > ingest.MaxReportedRowErrors {
		shown = shown[:ingest.MaxReportedRowErrors]
	}
	for _, re := range shown {
		fmt.Println(cli.WarningStyle.Render("  skipped " + re.Error()))
	}
	if len(rowErrs) > len(shown) {
		fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("  ...and %d more row error(s)", len(rowErrs)-len(shown))))
	}
}

func processCSVFile(path, format string, ictx ingest.Context, mode ingest.Mode) (*ingest.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if format == "cibc-credit" {
		return ingest.ProcessCIBCCredit(string(data), ictx, mode)
	}
	return ingest.ProcessBytes(data, ictx, mode)
}

// expandFileArgs resolves glob patterns, keeping literal paths that exist.
func expandFileArgs(args []string) ([]string, error) {
	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}
	return allFiles, nil
}

func saveTransactions(cmd *cobra.Command, txns []model.Transaction) (int64, error) {
	dbPath, err := config.DatabasePath()
	if err != nil {
		return 0, err
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	if err := store.Migrate(ctx); err != nil {
		return 0, fmt.Errorf("migration failed: %w", err)
	}

	inserted, err := store.SaveTransactions(ctx, txns)
	if err != nil {
		return 0, fmt.Errorf("failed to save transactions: %w", err)
	}
	return inserted, nil
}
