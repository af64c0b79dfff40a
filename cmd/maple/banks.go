package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mapleledger/maple/internal/cli"
	"github.com/mapleledger/maple/internal/ingest"
)

func banksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "banks",
		Short: "List supported banks and their CSV layouts",
		Long: `List the banks whose CSV statement exports are recognized, with the
header columns each layout is detected by. Headerless CIBC chequing
exports are also recognized by their column shape.`,
		RunE: runBanks,
	}
}

func runBanks(_ *cobra.Command, _ []string) error {
	fmt.Println(cli.TitleStyle.Render("Supported banks"))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BANK\tRECOGNIZED HEADERS")
	for _, bank := range ingest.SupportedBanks() {
		for i, set := range ingest.HeaderSets(bank) {
			name := ""
			if i == 0 {
				name = string(bank)
			}
			fmt.Fprintf(w, "%s\t%s\n", name, strings.Join(set, ", "))
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to render bank table: %w", err)
	}

	fmt.Println(cli.SubtleStyle.Render("CIBC chequing exports without a header row are detected by shape."))

	return nil
}
