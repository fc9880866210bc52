package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var purgeStore bool

func newClearCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear-cache",
		Short: "Drop the volatile translation cache",
		Long: `Drop the in-memory translation cache. Stored translations are kept
and will re-warm the cache on the next preload.

With --purge the durable store is emptied as well; every translation will
be re-requested from the provider. This cannot be undone.`,
		RunE: runClearCache,
	}
	cmd.Flags().BoolVar(&purgeStore, "purge", false, "also delete all stored translations")
	return cmd
}

func runClearCache(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.service.Preload(cmd.Context()); err != nil {
		return err
	}
	dropped := a.service.Stats().Size
	a.service.ClearCache()
	fmt.Printf("✅ Cleared %d cached translations.\n", dropped)

	if !purgeStore {
		return nil
	}

	fmt.Print("Are you sure you want to delete all stored translations? This cannot be undone. (y/N): ")
	var confirmation string
	fmt.Scanln(&confirmation)
	if confirmation != "y" && confirmation != "Y" && confirmation != "yes" {
		fmt.Println("Purge cancelled.")
		return nil
	}

	deleted, err := a.repo.DeleteAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("purge store: %w", err)
	}
	a.log.Info("translation store purged",
		zap.Int64("deleted", deleted),
		zap.String("path", a.cfg.DBPath))
	fmt.Printf("✅ Deleted %d stored translations.\n", deleted)
	return nil
}
