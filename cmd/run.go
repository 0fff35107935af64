package cmd

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the batch pipeline once: import, analyze, plan, advance, report",
	RunE:  runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, store, engine, log, err := setup("run")
	if err != nil {
		return err
	}
	defer store.Close()

	created, err := engine.ImportRequirements(ctx)
	if err != nil {
		return err
	}
	log.Infof("pipeline: %d trainings imported", len(created))

	snapshots, err := engine.AnalyzeComplianceForAllEmployees(ctx)
	if err != nil {
		return err
	}
	nonCompliant := 0
	for _, s := range snapshots {
		if !s.Compliant() {
			nonCompliant++
		}
	}
	log.Infof("pipeline: %d/%d employees with open gaps", nonCompliant, len(snapshots))

	planned, err := engine.PlanSessions(ctx, cfg.Planning.WeeksAhead)
	if err != nil {
		return err
	}
	log.Infof("pipeline: %d sessions planned", len(planned))

	if err := engine.AdvanceLifecycle(ctx); err != nil {
		return err
	}

	report, err := engine.GenerateComplianceReport(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
