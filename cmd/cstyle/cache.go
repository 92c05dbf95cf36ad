package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cstyle/internal/driver"
	"cstyle/internal/producer"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the producer tree cache",
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the cache directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := producer.OpenDiskCache(driver.CacheApp)
		if err != nil {
			return withExitCode(driver.ExitFailed, fmt.Errorf("open cache: %w", err))
		}
		fmt.Fprintln(cmd.OutOrStdout(), c.Dir())
		return nil
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop every cached tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := producer.OpenDiskCache(driver.CacheApp)
		if err != nil {
			return withExitCode(driver.ExitFailed, fmt.Errorf("open cache: %w", err))
		}
		if err := c.DropAll(); err != nil {
			return withExitCode(driver.ExitFailed, fmt.Errorf("clean %s: %w", c.Dir(), err))
		}
		if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", c.Dir())
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheDirCmd, cacheCleanCmd)
}
