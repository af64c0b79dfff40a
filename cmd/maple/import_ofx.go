package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mapleledger/maple/internal/cli"
	"github.com/mapleledger/maple/internal/common"
	"github.com/mapleledger/maple/internal/config"
	"github.com/mapleledger/maple/internal/model"
	"github.com/mapleledger/maple/internal/ofx"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import transactions from OFX or QFX (Quicken) files exported from your bank.

Examples:
  # Import single file
  maple import-ofx ~/Downloads/td_jan_2026.qfx

  # Import all QFX files in a directory
  maple import-ofx ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	allFiles, err := expandFileArgs(args)
	if err != nil {
		return err
	}
	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	slog.Info("🍁 Importing OFX files...",
		"file_count", len(allFiles),
		"dry_run", dryRun)

	userID := config.UserID()
	currency := config.Currency()

	parser := ofx.NewParser()
	ctx := cmd.Context()

	var all []model.Transaction
	seen := make(map[string]bool)

	for _, path := range allFiles {
		f, err := os.Open(path)
		if err != nil {
			common.LogError(err, "Failed to open file", common.Fields{"file": path})
			continue
		}

		transactions, err := parser.ParseFile(ctx, f, userID, currency)
		_ = f.Close()
		if err != nil {
			common.LogError(err, "Failed to parse OFX file", common.Fields{"file": path})
			continue
		}

		added := 0
		for _, tx := range transactions {
			if !seen[tx.Hash] {
				seen[tx.Hash] = true
				all = append(all, tx)
				added++
			}
		}

		fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ %s: %d transactions (%d duplicate)",
			filepath.Base(path), added, len(transactions)-added)))
	}

	if len(all) == 0 {
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
	fmt.Printf("  Transactions:  %d\n", len(all))
	fmt.Printf("  Newly saved:   %d\n", inserted)
	fmt.Printf("  Duplicates:    %d\n", int64(len(all))-inserted)

	return nil
}
