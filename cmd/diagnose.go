package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/helmcode/homefix-ai/pkg/analyzer"
	"github.com/helmcode/homefix-ai/pkg/formatter"
	"github.com/helmcode/homefix-ai/pkg/llm"
	"github.com/helmcode/homefix-ai/pkg/model"
)

var (
	imagePath    string
	category     string
	outputFormat string
	provider     string
	modelName    string
)

func NewDiagnoseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose PROBLEM",
		Short: "Get a step-by-step repair guide for a home problem",
		Long: `Describe a home repair problem, optionally with a photo, and get an
overview of what is going on, the steps to fix it and the safety tips to follow.

Examples:
  # Describe the problem
  homefix diagnose "kitchen faucet keeps dripping"

  # Attach a photo and a category
  homefix diagnose "water stain on the ceiling" --image stain.jpg --category roofing

  # Use another provider and get JSON
  homefix diagnose "breaker trips when the microwave runs" --provider openai -o json`,
		Args: cobra.ExactArgs(1),
		RunE: runDiagnose,
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "Photo of the problem (jpeg, png, gif or webp)")
	cmd.Flags().StringVar(&category, "category", "", "Problem category (plumbing, electrical, hvac, ...)")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "human", "Output format (human, json, yaml)")
	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider (claude, openai, gemini)")
	cmd.Flags().StringVar(&modelName, "model", "", "Model name override")

	return cmd
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	problem := args[0]
	if err := validateFormat(outputFormat); err != nil {
		return err
	}

	cfg, logger, closer, err := setup(true)
	if err != nil {
		return err
	}
	defer closer.Close()

	req := model.DiagnosisRequest{Description: problem, Category: category}
	if imagePath != "" {
		img, err := loadImage(imagePath, cfg.Server.MaxImageBytes)
		if err != nil {
			return err
		}
		req.Image = img
	}

	ctx := cmd.Context()
	client, err := llm.NewFactory(cfg, logger).Create(ctx, provider, modelName)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM: %w", err)
	}

	printHeader(req, client.GetModel())

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " Asking the repair assistant..."
	s.Start()

	a := analyzer.NewWithLLM(client,
		analyzer.WithParser(newParser(cfg)),
		analyzer.WithLogger(logger),
		analyzer.WithTimeout(cfg.Timeout),
	)
	guide, err := a.Diagnose(ctx, req)
	s.Stop()
	if err != nil {
		return fmt.Errorf("diagnosis failed: %w", err)
	}
	printSuccess("Diagnosis complete")

	return formatter.DisplayGuide(os.Stdout, guide, outputFormat)
}

func loadImage(path string, maxBytes int64) (*model.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return nil, fmt.Errorf("image %s is larger than %d bytes", path, maxBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image %s is empty", path)
	}
	return model.NewImage(data)
}

func printHeader(req model.DiagnosisRequest, modelName string) {
	cyan := color.New(color.FgCyan, color.Bold)
	w := os.Stderr
	fmt.Fprintln(w)
	cyan.Fprintln(w, "🏠 HomeFix AI")
	fmt.Fprintf(w, "📝 Problem: %s\n", req.Description)
	if req.Category != "" {
		fmt.Fprintf(w, "📂 Category: %s\n", req.Category)
	}
	if !req.Image.Empty() {
		fmt.Fprintf(w, "📷 Photo: %s (%s)\n", imagePath, req.Image.MediaType)
	}
	fmt.Fprintf(w, "🤖 Model: %s\n", modelName)
	fmt.Fprintln(w)
}
