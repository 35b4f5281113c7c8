package anthropic

import (
	"context"
	"errors"
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type fakeMessages struct {
	resp *sdk.Message
	err  error
	last sdk.MessageNewParams
}

func (f *fakeMessages) New(_ context.Context, body sdk.MessageNewParams, _ ...option.RequestOption) (*sdk.Message, error) {
	f.last = body
	return f.resp, f.err
}

func TestGenerateContent(t *testing.T) {
	t.Parallel()

	fake := &fakeMessages{resp: &sdk.Message{Content: []sdk.ContentBlockUnion{
		{Type: "thinking", Thinking: "hmm"},
		{Type: "text", Text: ` {"final_score": 40} `},
	}}}
	gen := newGenerator(fake, "claude-test")

	out, err := gen.GenerateContent(context.Background(), "review")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"final_score": 40}` {
		t.Fatalf("unexpected output %q", out)
	}
	if string(fake.last.Model) != "claude-test" || gen.Model() != "claude-test" {
		t.Fatalf("unexpected model %q", fake.last.Model)
	}
	if fake.last.MaxTokens != defaultMaxTokens {
		t.Fatalf("unexpected max tokens %d", fake.last.MaxTokens)
	}
	if len(fake.last.Messages) != 1 {
		t.Fatalf("expected a single user message, got %d", len(fake.last.Messages))
	}
}

func TestGenerateContentErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		fake  *fakeMessages
		input string
	}{
		{name: "empty prompt", fake: &fakeMessages{}, input: ""},
		{name: "api error", fake: &fakeMessages{err: errors.New("overloaded")}, input: "p"},
		{name: "nil response", fake: &fakeMessages{}, input: "p"},
		{name: "no text blocks", fake: &fakeMessages{resp: &sdk.Message{}}, input: "p"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := newGenerator(tc.fake, "").GenerateContent(context.Background(), tc.input); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestNewGeneratorRequiresKey(t *testing.T) {
	t.Parallel()

	if _, err := NewGenerator("", ""); err == nil {
		t.Fatalf("expected error for empty api key")
	}
}
