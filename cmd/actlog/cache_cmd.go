package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/actlog/actlog-go/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the zone index cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached log indexes",
	Args:  cobra.NoArgs,
	RunE: withCache(func(cmd *cobra.Command, c *store.Cache) error {
		entries, err := c.Entries()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "  cache is empty")
			return nil
		}
		t := table{
			title:   "cached indexes (" + cfg.CachePath() + ")",
			headers: []string{"file", "size", "zones", "encounters", "indexed"},
		}
		for _, e := range entries {
			t.rows = append(t.rows, []string{
				e.Path,
				humanize.Bytes(uint64(e.Size)),
				humanize.Comma(int64(e.Zones)),
				humanize.Comma(int64(e.Encounters)),
				humanize.RelTime(e.IndexedAt, time.Now(), "ago", "from now"),
			})
		}
		fmt.Fprint(cmd.OutOrStdout(), t.render())
		return nil
	}),
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Drop indexes of logs that no longer exist",
	Args:  cobra.NoArgs,
	RunE: withCache(func(cmd *cobra.Command, c *store.Cache) error {
		n, err := c.Prune()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  removed %d entries\n", n)
		return nil
	}),
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached index",
	Args:  cobra.NoArgs,
	RunE: withCache(func(cmd *cobra.Command, c *store.Cache) error {
		if err := c.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "  cache cleared")
		return nil
	}),
}

// withCache opens the cache for the duration of fn.
func withCache(fn func(*cobra.Command, *store.Cache) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		c, err := store.Open(cfg.CachePath())
		if err != nil {
			return err
		}
		defer c.Close()
		return fn(cmd, c)
	}
}

func init() {
	cacheCmd.AddCommand(cacheListCmd, cachePruneCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
