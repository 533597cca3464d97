package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/helmcode/homefix-ai/pkg/llm"
	"github.com/helmcode/homefix-ai/pkg/model"
	"github.com/helmcode/homefix-ai/pkg/parser"
	"github.com/helmcode/homefix-ai/pkg/prompts"
)

var (
	// ErrInvalidRequest marks problems with the caller's input.
	ErrInvalidRequest = errors.New("invalid diagnosis request")
	// ErrUpstream marks a failed call to the model.
	ErrUpstream = errors.New("upstream model call failed")
)

type Analyzer struct {
	llm     llm.LLM
	parser  *parser.Parser
	logger  *zap.Logger
	timeout time.Duration
}

type Option func(*Analyzer)

func WithParser(p *parser.Parser) Option {
	return func(a *Analyzer) { a.parser = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// WithTimeout bounds each upstream call. Zero means no extra bound beyond
// the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(a *Analyzer) { a.timeout = d }
}

func NewWithLLM(l llm.LLM, opts ...Option) *Analyzer {
	a := &Analyzer{llm: l, parser: parser.New(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Model reports which upstream model answers diagnoses.
func (a *Analyzer) Model() string {
	return a.llm.GetModel()
}

// Diagnose asks the model about the user's problem and parses the answer
// into a guide.
func (a *Analyzer) Diagnose(ctx context.Context, req model.DiagnosisRequest) (*model.Guide, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidRequest)
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	logger := a.logger.With(
		zap.String("category", req.Category),
		zap.Bool("has_image", !req.Image.Empty()),
		zap.String("model", a.llm.GetModel()),
	)
	logger.Debug("Requesting diagnosis")

	start := time.Now()
	rawResp, err := a.llm.Chat(ctx, prompts.BuildDiagnosePrompt(req))
	if err != nil {
		logger.Error("LLM chat failed", zap.Duration("latency", time.Since(start)), zap.Error(err))
		return nil, fmt.Errorf("%w: LLM chat: %w", ErrUpstream, err)
	}

	guide := a.parser.Decode(rawResp)
	logger.Info("Diagnosis complete",
		zap.Duration("latency", time.Since(start)),
		zap.Int("raw_chars", len(rawResp)),
		zap.Int("steps", len(guide.Steps)),
		zap.Int("safety_tips", len(guide.SafetyTips)))
	return &guide, nil
}

// ParseNarrative runs a captured model answer through the parser without
// calling the model.
func (a *Analyzer) ParseNarrative(raw string) *model.Guide {
	guide := a.parser.Decode(raw)
	return &guide
}
