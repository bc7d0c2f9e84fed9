package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/carfront/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize carfront configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to point carfront at a cars backend and writes the config file (.carfront.yml by default).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
