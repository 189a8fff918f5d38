// Package cmd implements the CLI commands for flipradar.
package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "flipradar",
	Short: "Find collectible card flip opportunities",
	Long: "flipradar scans live eBay listings for Pokemon and Magic: The Gathering\n" +
		"cards, compares them against sold comps and TCGplayer market prices, and\n" +
		"surfaces listings that can be flipped at a profit.",
}

func init() {
	cobra.OnInitialize(initEnv)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "API server URL for client commands")

	cobra.CheckErr(viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")))

	viper.SetEnvPrefix("FLIPRADAR")
	viper.AutomaticEnv()

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(catalogCmd())
	rootCmd.AddCommand(versionCommand())
}

func initEnv() {
	// Credentials usually live in a local .env during development.
	_ = godotenv.Load()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Root exposes the root command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}
