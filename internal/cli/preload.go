package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newPreloadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preload",
		Short: "Warm the in-memory cache from the durable store",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.service.Preload(cmd.Context()); err != nil {
				return fmt.Errorf("preload: %w", err)
			}
			fmt.Printf("✅ Preloaded %s translations from %s\n",
				color.GreenString("%d", a.service.Stats().Size), a.cfg.DBPath)
			return nil
		},
	}
}
