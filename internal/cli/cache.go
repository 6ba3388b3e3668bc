package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"codoc/internal/store"
)

func cacheCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local run cache",
	}
	c.AddCommand(cacheStatsCmd(), cachePurgeCmd())
	return c
}

func cacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cached run counts",
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := store.Open(cfg.Cache.Path)
			if err != nil {
				return err
			}
			defer s.Close()

			stats, err := s.Stat()
			if err != nil {
				return err
			}
			fmt.Printf("Cache: %s\n", cfg.Cache.Path)
			fmt.Printf("Total runs: %d\n", stats.Total)

			kinds := make([]string, 0, len(stats.ByKind))
			for k := range stats.ByKind {
				kinds = append(kinds, k)
			}
			sort.Strings(kinds)
			for _, k := range kinds {
				fmt.Printf("  %s: %d\n", k, stats.ByKind[k])
			}
			return nil
		},
	}
}

func cachePurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete all cached runs",
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := store.Open(cfg.Cache.Path)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := s.Purge()
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d cached run(s)\n", n)
			return nil
		},
	}
}
