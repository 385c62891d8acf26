package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sportops/sportops/config"
)

func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the payload cache",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			store, closeStore, err := buildStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()
			if store == nil {
				fmt.Println("Caching is disabled.")
				return nil
			}

			entries, err := store.Len(cmd.Context())
			if err != nil {
				return err
			}
			stats := store.Stats()
			fmt.Printf("Entries:   %d\nHits:      %d\nMisses:    %d\nEvictions: %d\n",
				entries, stats.Hits, stats.Misses, stats.Evictions)
			return nil
		},
	}

	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove expired cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			store, closeStore, err := buildStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()
			if store == nil {
				fmt.Println("Caching is disabled.")
				return nil
			}

			dropped, err := store.PurgeExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Purged %d expired entries.\n", dropped)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.AddCommand(statsCmd, purgeCmd)
	return cmd
}
