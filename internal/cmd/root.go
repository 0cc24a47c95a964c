// Package cmd wires the movewise CLI: planning a move, inspecting stored
// sessions, and one-off item estimates.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/movewise/movewise/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "movewise",
	Short: "Relocation decision and planning pipeline",
	Long: `Movewise plans a household relocation: it decides per item whether to
move it, sell it and buy a replacement, or donate it, then folds those
decisions into a budget-checked plan with moving quotes, sale listings,
utility scheduling, a timeline and a checklist.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/movewise/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("MOVEWISE")
	// Replace dots with underscores for nested keys in env vars
	// e.g., MOVEWISE_ORACLE_BASE_URL for oracle.base_url
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
