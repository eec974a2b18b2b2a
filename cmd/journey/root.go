package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/journey/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "journey",
	Short: "Journey records explorations of decision graphs",
	Long: `Journey keeps explorations of decision graphs in a session store and
drives them with small command scripts, from the command line or over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	sc := cli.NewSignalContext(context.Background())
	defer sc.Cancel()
	if err := rootCmd.ExecuteContext(sc); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "YAML config file (JOURNEY_* variables override it)")
	rootCmd.PersistentFlags().String("store", "", "Session store: memory, file or redis")
	rootCmd.PersistentFlags().Bool("debug", false, "Log debug output to stderr")
}

// commonOptions reads the persistent flags.
func commonOptions(cmd *cobra.Command) cli.Options {
	configPath, _ := cmd.Flags().GetString("config")
	store, _ := cmd.Flags().GetString("store")
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.Options{ConfigPath: configPath, StoreKind: store, Debug: debug}
}
