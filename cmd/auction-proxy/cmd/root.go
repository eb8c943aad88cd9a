// Package cmd implements the auction-proxy CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "AUCTION_PROXY"

var rootCmd = &cobra.Command{
	Use:   "auction-proxy",
	Short: "Normalizing proxy for Alt auction search",
	Long: "auction-proxy serves a small HTTP API in front of the Alt GraphQL\n" +
		"search. It tries several upstream endpoints in order, classifies\n" +
		"failures, and returns listings with structured prices and time remaining.",
	SilenceUsage: true,
}

// Root returns the root cobra command.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().
		String("server", "", "URL of a running proxy (search runs in-process when empty)")
	rootCmd.PersistentFlags().String("output", "table", "output format (table, json)")

	for _, name := range []string{"config", "server", "output"} {
		cobra.CheckErr(viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)))
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(versionCmd())
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
}
