package agent

import (
	"context"

	"github.com/zarahq/zara/internal/session"
)

// ToolDefinition describes one callable tool for the decider.
type ToolDefinition struct {
	Name        string
	Description string

	// Parameters is a JSON Schema object describing the arguments.
	Parameters map[string]any
}

// ToolCall is a decider's request to run one tool.
type ToolCall struct {
	ID   string
	Name string

	// Args is the raw JSON argument object as produced by the decider.
	Args string
}

// ToolExchange is a completed tool call paired with its result text.
type ToolExchange struct {
	Call   ToolCall
	Result string
}

// Request is everything a decider sees for one decision: the standing
// instruction, the conversation so far, the user's new input, and any tool
// exchanges already performed within this turn.
type Request struct {
	System    string
	History   []session.Turn
	Input     string
	Exchanges []ToolExchange
	Tools     []ToolDefinition
}

// Decision is the decider's verdict: either tool calls to execute, or a
// final reply when ToolCalls is empty.
type Decision struct {
	Reply     string
	ToolCalls []ToolCall
}

// Decider chooses the next action in a turn. Implementations must be safe
// to call sequentially; the agent never calls Decide concurrently for one
// session.
type Decider interface {
	Decide(ctx context.Context, req Request) (Decision, error)
}
