package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "menuflow",
	Short: "menuflow is a session-driven menu engine for USSD and similar channels",
	Long: `menuflow runs interactive menu flows declared in YAML, optionally backed
by Go entities, against USSD gateways and other screen-by-screen channels.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Optional .env for local development; the environment wins.
		if envFile, _ := cmd.Flags().GetString("env-file"); envFile != "" {
			_ = godotenv.Load(envFile)
		} else {
			_ = godotenv.Load()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("env-file", "", "Load environment variables from this file")
	rootCmd.PersistentFlags().String("menus", "", "Path to the YAML menu definitions (overrides MENUFLOW_MENU_PATH)")
}
