package cmd

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the aggregate compliance report (read-only)",
	RunE:  printReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func printReport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, store, engine, _, err := setup("report")
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := engine.GenerateComplianceReport(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
