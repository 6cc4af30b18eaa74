package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mylxsw/asteria/log"
	"github.com/mylxsw/go-utils/assert"
	"github.com/mylxsw/moonshot-kimi/pkg/ai/openai"
	openailib "github.com/sashabaranov/go-openai"
)

const completionBody = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1698999496,
	"model": "moonshot-v1-8k",
	"choices": [{"index": 0, "message": {"role": "assistant", "content": "玫瑰代表爱"}, "finish_reason": "stop"}],
	"usage": {"prompt_tokens": 19, "completion_tokens": 5, "total_tokens": 24}
}`

func TestCustomRequestTransport(t *testing.T) {
	var received map[string]any
	var header http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Clone()
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := &http.Client{
		Transport: openai.NewCustomRequestTransport(nil, http.Header{"X-Trace": []string{"kimi"}}),
	}

	ctx := openai.WithExtraFields(context.Background(), map[string]any{
		"use_search": true,
		"model":      "should-not-override",
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, server.URL, strings.NewReader(`{"model":"moonshot-v1-8k"}`))
	assert.NoError(t, err)

	resp, err := client.Do(req)
	assert.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "kimi", header.Get("X-Trace"))
	assert.Equal(t, "moonshot-v1-8k", received["model"])
	assert.Equal(t, true, received["use_search"])
}

func TestExtraFieldsFromContext(t *testing.T) {
	ctx := context.Background()
	assert.True(t, openai.ExtraFieldsFromContext(ctx) == nil)

	// 空字段不写入 context
	assert.True(t, openai.WithExtraFields(ctx, map[string]any{}) == ctx)

	fields := map[string]any{"n": 2}
	assert.EqualValues(t, fields, openai.ExtraFieldsFromContext(openai.WithExtraFields(ctx, fields)))
}

func TestNewOpenAIClient_CreateChatCompletion(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	}))
	defer server.Close()

	client := openai.NewOpenAIClient(&openai.Config{
		Servers: []string{server.URL + "/v1"},
		Keys:    []string{"sk-test"},
	}, nil)

	resp, err := client.CreateChatCompletion(context.TODO(), openailib.ChatCompletionRequest{
		Model: "moonshot-v1-8k",
		Messages: []openailib.ChatCompletionMessage{
			{Role: openailib.ChatMessageRoleUser, Content: "红玫瑰"},
		},
	})
	assert.NoError(t, err)

	log.With(resp).Debug("response")

	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "玫瑰代表爱", resp.Choices[0].Message.Content)
	assert.EqualValues(t, 24, resp.Usage.TotalTokens)
}

func TestNewOpenAIClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid Authentication","type":"invalid_authentication_error"}}`))
	}))
	defer server.Close()

	client := openai.NewOpenAIClient(&openai.Config{
		Servers: []string{server.URL + "/v1"},
		Keys:    []string{"sk-invalid"},
	}, nil)

	_, err := client.CreateChatCompletion(context.TODO(), openailib.ChatCompletionRequest{
		Model:    "moonshot-v1-8k",
		Messages: []openailib.ChatCompletionMessage{{Role: openailib.ChatMessageRoleUser, Content: "hi"}},
	})

	var apiErr *openailib.APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.EqualValues(t, http.StatusUnauthorized, apiErr.HTTPStatusCode)
}

func TestOpenAI_NoClient(t *testing.T) {
	_, err := openai.New(nil).CreateChatCompletion(context.TODO(), openailib.ChatCompletionRequest{})
	assert.True(t, errors.Is(err, openai.ErrNoClientAvailable))
}

func TestNumTokensFromMessages(t *testing.T) {
	if testing.Short() {
		t.Skip("tiktoken downloads its encoding on first use")
	}

	messages := []openailib.ChatCompletionMessage{
		{Role: "system", Content: "你是一个很棒的智能助手"},
		{Role: "user", Content: "请给我写一句情人节红玫瑰的中文宣传语"},
	}

	num, err := openai.NumTokensFromMessages(messages, "moonshot-v1-8k")
	assert.NoError(t, err)
	assert.True(t, num > 0)
}
