package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultModel     = "claude-3-5-haiku-latest"
	defaultMaxTokens = 1024
	temperature      = 0.2
	systemPrompt     = "You respond with a single valid JSON object and nothing else."
)

type messageCreator interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// Generator sends review prompts to the Anthropic Messages API.
type Generator struct {
	messages  messageCreator
	modelName string
}

// NewGenerator creates a Generator authenticated with apiKey.
func NewGenerator(apiKey, model string) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("anthropic api key is required")
	}

	client := sdk.NewClient(option.WithAPIKey(apiKey))
	return newGenerator(&client.Messages, model), nil
}

func newGenerator(messages messageCreator, model string) *Generator {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	return &Generator{messages: messages, modelName: model}
}

// GenerateContent sends the prompt and joins the text blocks of the reply.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.messages == nil {
		return "", errors.New("anthropic generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := g.messages.New(ctx, sdk.MessageNewParams{
		Model:       sdk.Model(g.modelName),
		MaxTokens:   defaultMaxTokens,
		System:      []sdk.TextBlockParam{{Text: systemPrompt}},
		Messages:    []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(prompt))},
		Temperature: sdk.Float(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("create message: %w", err)
	}
	if resp == nil {
		return "", errors.New("anthropic api returned empty response")
	}

	var builder strings.Builder
	for _, block := range resp.Content {
		if block.Type != "text" {
			continue
		}
		text := strings.TrimSpace(block.Text)
		if text == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(text)
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("anthropic api returned empty response")
	}

	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
