package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/carfront/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "carfront",
	Short: "Web front end and CLI for a cars REST backend",
	Long: `carfront lists, shows, creates and deletes car records held by a
REST backend. It serves server-rendered list and detail pages, keeps a
local log of what was changed, and exposes the same operations to the
command line and to AI agents via MCP.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

