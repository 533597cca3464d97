package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/helmcode/homefix-ai/pkg/formatter"
)

var parseOutput string

func NewParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [FILE]",
		Short: "Turn a saved AI answer into a structured repair guide",
		Long: `Parse a free-text (or JSON, or HTML) repair answer without calling any
model. Reads FILE, or standard input when FILE is omitted or "-".

Examples:
  homefix parse answer.txt -o json
  pbpaste | homefix parse`,
		Args: cobra.MaximumNArgs(1),
		RunE: runParse,
	}

	cmd.Flags().StringVarP(&parseOutput, "output", "o", "human", "Output format (human, json, yaml)")

	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	if err := validateFormat(parseOutput); err != nil {
		return err
	}

	cfg, _, closer, err := setup(true)
	if err != nil {
		return err
	}
	defer closer.Close()

	raw, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	guide := newParser(cfg).Decode(raw)
	return formatter.DisplayGuide(cmd.OutOrStdout(), &guide, parseOutput)
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}
