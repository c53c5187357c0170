package agent

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/zarahq/zara/internal/session"
)

// OpenAIDecider drives the conversation with the OpenAI chat completions
// API.
type OpenAIDecider struct {
	client openai.Client
	model  string
}

// NewOpenAIDecider creates a decider for the given model.
func NewOpenAIDecider(apiKey, model string) *OpenAIDecider {
	return &OpenAIDecider{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Decide sends the conversation to the model and translates its answer. Tool
// exchanges already performed in this turn are replayed as assistant tool
// calls with their tool results, so the model sees the full turn state.
func (d *OpenAIDecider) Decide(ctx context.Context, req Request) (Decision, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+2*len(req.Exchanges)+2)
	messages = append(messages, openai.SystemMessage(req.System))

	for _, turn := range req.History {
		switch turn.Role {
		case session.RoleUser:
			messages = append(messages, openai.UserMessage(turn.Content))
		case session.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Content))
		}
	}
	messages = append(messages, openai.UserMessage(req.Input))

	for _, exchange := range req.Exchanges {
		messages = append(messages, openai.ChatCompletionMessageParamUnion{
			OfAssistant: &openai.ChatCompletionAssistantMessageParam{
				ToolCalls: []openai.ChatCompletionMessageToolCallParam{
					{
						ID: exchange.Call.ID,
						Function: openai.ChatCompletionMessageToolCallFunctionParam{
							Name:      exchange.Call.Name,
							Arguments: exchange.Call.Args,
						},
					},
				},
			},
		})
		messages = append(messages, openai.ToolMessage(exchange.Result, exchange.Call.ID))
	}

	tools := make([]openai.ChatCompletionToolParam, 0, len(req.Tools))
	for _, tool := range req.Tools {
		tools = append(tools, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        tool.Name,
				Description: openai.String(tool.Description),
				Parameters:  openai.FunctionParameters(tool.Parameters),
			},
		})
	}

	completion, err := d.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    d.model,
		Messages: messages,
		Tools:    tools,
	})
	if err != nil {
		return Decision{}, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return Decision{}, fmt.Errorf("chat completion returned no choices")
	}

	message := completion.Choices[0].Message
	decision := Decision{Reply: message.Content}
	for _, call := range message.ToolCalls {
		decision.ToolCalls = append(decision.ToolCalls, ToolCall{
			ID:   call.ID,
			Name: call.Function.Name,
			Args: call.Function.Arguments,
		})
	}
	return decision, nil
}
