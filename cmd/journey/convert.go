package main

import (
	"bytes"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/journey/internal/cli"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Convert a decision graph between JSON, DOT and Mermaid",
	Long: `Reads a graph in JSON or DOT and writes it as JSON, DOT or Mermaid.
Formats are taken from the file extensions unless --from or --to is given.
Use "-" for stdin or stdout.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		var err error
		if from == "" {
			if from, err = cli.DetectFormat(args[0]); err != nil {
				return err
			}
		}
		if to == "" {
			if to, err = cli.DetectFormat(args[1]); err != nil {
				return err
			}
		}

		input, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		var out bytes.Buffer
		if err := cli.Convert(strings.NewReader(input), &out, from, to); err != nil {
			return err
		}
		if args[1] == "-" {
			_, err = cmd.OutOrStdout().Write(out.Bytes())
			return err
		}
		return os.WriteFile(args[1], out.Bytes(), 0o644)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().String("from", "", "Input format: json or dot")
	convertCmd.Flags().String("to", "", "Output format: json, dot or mermaid")
}
