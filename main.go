package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/helmcode/homefix-ai/cmd"
)

var (
	version = "v0.1.0" // Overwritten at build time
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "homefix",
		Short: "AI-powered home repair diagnosis",
		Long: `homefix describes what is wrong in your home, how to fix it step by step
and which safety precautions to take, using Claude, OpenAI or Gemini.`,
		SilenceUsage: true,
	}

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddGlobalFlags(rootCmd)
	rootCmd.AddCommand(
		cmd.NewDiagnoseCmd(),
		cmd.NewParseCmd(),
		cmd.NewServeCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("homefix version %s\n", version)
		},
	}
}
