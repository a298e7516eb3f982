package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cinegram/cinegram/internal/config"
)

func init() {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog counters",
		RunE:  runStats,
	}
	rootCmd.AddCommand(statsCmd)

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write an annotated example config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "config.toml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Printf("Wrote %s. Set CINEGRAM_BOT_TOKEN and fill in bot.admins.\n", path)
			return nil
		},
	}
	configCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	store, closer, err := openStore()
	if err != nil {
		return err
	}
	defer closer()

	stats, err := store.GetStats()
	if err != nil {
		return err
	}

	fmt.Printf("Movies:   %d\n", stats.Movies)
	fmt.Printf("Series:   %d\n", stats.Series)
	fmt.Printf("Episodes: %d\n", stats.Episodes)
	fmt.Printf("Users:    %d\n", stats.Users)
	return nil
}
