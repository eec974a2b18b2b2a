package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/journey/internal/cli"
)

var runCmd = &cobra.Command{
	Use:   "run [script-file]",
	Short: "Run a command script against a session",
	Long: `Opens the session, starting it when it does not exist yet, and executes
the script read from the file argument ("-" for stdin) or from --exec.
Sessions outlive the command only with a persistent store (file or redis).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.RunOptions{Options: commonOptions(cmd), Out: cmd.OutOrStdout()}
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.Decision, _ = cmd.Flags().GetString("start")
		opts.Exits, _ = cmd.Flags().GetStringSlice("exit")
		opts.Zone, _ = cmd.Flags().GetString("zone")
		opts.MapPath, _ = cmd.Flags().GetString("map")
		opts.Fresh, _ = cmd.Flags().GetBool("fresh")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Script, _ = cmd.Flags().GetString("exec")

		if len(args) > 0 {
			if opts.Script != "" {
				return fmt.Errorf("--exec and a script file cannot be used together")
			}
			script, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			opts.Script = script
		}
		return cli.Execute(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("session", "s", "", "Session ID (default: a new random ID)")
	runCmd.Flags().String("start", "", "Decision to start a new session at")
	runCmd.Flags().StringSlice("exit", nil, "Unexplored exits of the start decision")
	runCmd.Flags().String("zone", "", "Zone of the start decision")
	runCmd.Flags().String("map", "", "Graph file (.json or .dot) a new session starts on")
	runCmd.Flags().StringP("exec", "e", "", "Inline script")
	runCmd.Flags().Bool("fresh", false, "Delete the session before running")
	runCmd.Flags().Bool("json", false, "Print a JSON report")
}

// readInput reads a file, or stdin for "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}
