package openai

import (
	"context"
	"errors"
	"math/rand"

	"github.com/sashabaranov/go-openai"
)

var ErrNoClientAvailable = errors.New("no openai client available")

type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (response openai.ChatCompletionResponse, err error)
}

type OpenAI struct {
	clients []*openai.Client
}

func New(clients []*openai.Client) *OpenAI {
	return &OpenAI{clients: clients}
}

// client 随机返回一个 OpenAI Client
func (client *OpenAI) client() *openai.Client {
	return client.clients[rand.Intn(len(client.clients))]
}

func (client *OpenAI) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (response openai.ChatCompletionResponse, err error) {
	if len(client.clients) == 0 {
		return response, ErrNoClientAvailable
	}

	return client.client().CreateChatCompletion(ctx, request)
}
