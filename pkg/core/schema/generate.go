// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package schema

// GenerateRequest is the validated body of the generate endpoint.
type GenerateRequest struct {
	Prompt           string   `json:"prompt"`
	Temperature      *float64 `json:"temperature,omitempty"`
	MaxTokens        *int     `json:"max_tokens,omitempty"`
	Model            string   `json:"model,omitempty"`
	TopP             *float64 `json:"top_p,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
	IncludeActions   bool     `json:"include_actions,omitempty"`
}

// GenerateResult is the data payload of a successful generation.
type GenerateResult struct {
	ID           string        `json:"id"`
	Model        string        `json:"model"`
	Created      int64         `json:"created"`
	Message      string        `json:"message"`
	Usage        *TokenUsage   `json:"usage,omitempty"`
	FinishReason string        `json:"finish_reason"`
	FunctionCall *FunctionCall `json:"function_call"`
}

// TokenUsage mirrors completion token accounting.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// FunctionCall is a structured function-call request echoed by the model.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}
