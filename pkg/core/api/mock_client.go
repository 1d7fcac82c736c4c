// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockChatCompletionClient is a mock implementation for testing.
// It returns FixedContent when set, otherwise a predictable response derived
// from the user message, and records the last request it received.
type MockChatCompletionClient struct {
	mu sync.Mutex

	// FixedContent, when non-empty, is returned verbatim as the assistant
	// message of every completion.
	FixedContent string

	// ToolCalls, when set, are attached to the assistant message and the
	// finish reason becomes "function_call".
	ToolCalls []ToolCall

	// Err, when set, is returned by every call.
	Err error

	lastRequest *ChatCompletionRequest
}

// NewMockChatCompletionClient creates a new mock client.
func NewMockChatCompletionClient() *MockChatCompletionClient {
	return &MockChatCompletionClient{}
}

// LastRequest returns the most recent request passed to CreateChatCompletion.
func (m *MockChatCompletionClient) LastRequest() *ChatCompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRequest
}

// CreateChatCompletion implements ChatCompletionClient.CreateChatCompletion.
func (m *MockChatCompletionClient) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	m.mu.Lock()
	m.lastRequest = req
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	userMessage := ""
	for _, msg := range req.Messages {
		if msg.Role == "user" {
			userMessage = msg.Content
			break
		}
	}

	content := m.FixedContent
	if content == "" {
		content = fmt.Sprintf("Mock response to: %s", userMessage)
	}

	finishReason := "stop"
	if len(m.ToolCalls) > 0 {
		finishReason = "function_call"
	}

	return &ChatCompletionResponse{
		ID:      fmt.Sprintf("chatcmpl-mock-%d", time.Now().Unix()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []Choice{
			{
				Index: 0,
				Message: ResponseMessage{
					Role:      "assistant",
					Content:   content,
					ToolCalls: m.ToolCalls,
				},
				FinishReason: finishReason,
			},
		},
		Usage: Usage{
			PromptTokens:     estimateTokens(userMessage),
			CompletionTokens: estimateTokens(content),
			TotalTokens:      estimateTokens(userMessage) + estimateTokens(content),
		},
	}, nil
}

// estimateTokens gives a rough token count for mock usage accounting.
func estimateTokens(s string) int {
	return len(s)/4 + 1
}
