// Package agent implements the tool-augmented scheduling assistant. The
// agent mediates every conversational turn: it asks a Decider (normally a
// chat model) what to do, executes the calendar tools the decider requests,
// and feeds results back until the decider produces a plain reply.
//
// The agent, not the decider, enforces booking discipline. A booking only
// goes through when the requested slot appeared in the free list the agent
// itself computed and presented in an earlier turn. The decider can never
// talk its way past that check.
package agent
