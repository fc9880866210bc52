package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show translation store statistics",
		Long: `Show how many translations are stored, broken down by target
language, plus the active configuration paths.`,
		RunE: runStats,
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	stats, err := a.service.StoreStatistics(cmd.Context())
	if err != nil {
		return fmt.Errorf("read statistics: %w", err)
	}

	title := color.New(color.Bold, color.FgCyan)
	label := color.New(color.Faint)

	title.Println("Translation Store")
	fmt.Printf("  %s %s\n", label.Sprint("database:"), a.cfg.DBPath)
	fmt.Printf("  %s %s\n", label.Sprint("total:"), color.GreenString("%d", stats.Total))

	if len(stats.ByLang) > 0 {
		fmt.Println()
		title.Println("By Target Language")
		for _, lc := range stats.ByLang {
			fmt.Printf("  %-8s %s\n", lc.TargetLang, color.GreenString("%d", lc.Count))
		}
	}

	fmt.Println()
	title.Println("Pipeline")
	fmt.Printf("  %s %s\n", label.Sprint("source language:"), a.cfg.SourceLang)
	fmt.Printf("  %s %s\n", label.Sprint("default target:"), a.cfg.DefaultTargetLang)
	fmt.Printf("  %s %d distinct texts, %s between rounds\n",
		label.Sprint("batching:"), a.cfg.Scheduler.MaxBatchSize, a.cfg.Scheduler.InterBatchDelay)
	return nil
}
