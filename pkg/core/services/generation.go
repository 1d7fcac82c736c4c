// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package services

import (
	"context"
	"strings"

	"github.com/bytrix/bytrix-gw/pkg/core/api"
	"github.com/bytrix/bytrix-gw/pkg/core/apperror"
	"github.com/bytrix/bytrix-gw/pkg/core/schema"
	"github.com/bytrix/bytrix-gw/pkg/observability/logging"
)

// Generation defaults applied when neither the request nor the
// configuration sets a value.
const (
	DefaultModel       = "gpt-3.5-turbo"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
	defaultTopP        = 1.0
)

// GenerationOptions carries the configured defaults filled into requests
// that leave the corresponding field unset. Zero values fall back to the
// package defaults.
type GenerationOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// GenerationService turns validated generation requests into completion
// calls, with the assistant system prompt and optional file action tools.
type GenerationService struct {
	client api.ChatCompletionClient
	logger *logging.Logger
	opts   GenerationOptions
}

// NewGenerationService creates a GenerationService.
func NewGenerationService(client api.ChatCompletionClient, logger *logging.Logger, opts GenerationOptions) *GenerationService {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Temperature == 0 {
		opts.Temperature = DefaultTemperature
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	return &GenerationService{
		client: client,
		logger: logger,
		opts:   opts,
	}
}

// Generate sends the prompt to the completion backend and returns the first
// choice. With IncludeActions set, the file action tools are attached so the
// model may answer with a function call instead of text.
func (s *GenerationService) Generate(ctx context.Context, req *schema.GenerateRequest) (*schema.GenerateResult, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, apperror.Validation("Invalid prompt", map[string]string{
			"prompt": "Prompt is required and must be a non-empty string",
		})
	}

	creq := &api.ChatCompletionRequest{
		Model: req.Model,
		Messages: []api.Message{
			{Role: "system", Content: AssistantSystemPrompt()},
			{Role: "user", Content: req.Prompt},
		},
		Temperature:      req.Temperature,
		MaxTokens:        req.MaxTokens,
		TopP:             req.TopP,
		FrequencyPenalty: req.FrequencyPenalty,
		PresencePenalty:  req.PresencePenalty,
	}

	if creq.Model == "" {
		creq.Model = s.opts.Model
	}
	if creq.Temperature == nil {
		creq.Temperature = floatPtr(s.opts.Temperature)
	}
	if creq.MaxTokens == nil {
		creq.MaxTokens = intPtr(s.opts.MaxTokens)
	}
	if creq.TopP == nil {
		creq.TopP = floatPtr(defaultTopP)
	}
	if creq.FrequencyPenalty == nil {
		creq.FrequencyPenalty = floatPtr(0)
	}
	if creq.PresencePenalty == nil {
		creq.PresencePenalty = floatPtr(0)
	}

	if req.IncludeActions {
		creq.Tools = ActionTools()
		creq.ToolChoice = "auto"
	}

	s.logger.Debug("generating text",
		"model", creq.Model, "prompt_length", len(req.Prompt), "include_actions", req.IncludeActions)

	resp, err := s.client.CreateChatCompletion(ctx, creq)
	if err != nil {
		return nil, apperror.Completion("Failed to generate completion", err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperror.Completion("Completion backend returned no choices", nil)
	}

	choice := resp.Choices[0]
	finishReason := choice.FinishReason
	if finishReason == "" {
		finishReason = "stop"
	}

	result := &schema.GenerateResult{
		ID:           resp.ID,
		Model:        resp.Model,
		Created:      resp.Created,
		Message:      choice.Message.Content,
		FinishReason: finishReason,
		Usage: &schema.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	if len(choice.Message.ToolCalls) > 0 {
		call := choice.Message.ToolCalls[0]
		result.FunctionCall = &schema.FunctionCall{
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		}
	}

	s.logger.Info("text generated successfully",
		"model", resp.Model, "tokens_used", resp.Usage.TotalTokens, "finish_reason", finishReason)

	return result, nil
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
