// Package session tracks per-connection conversation state. Each session
// owns an append-only history of turns and a responder that produces the
// assistant side of the dialogue.
//
// Turns within one session are strictly serialized; different sessions
// proceed independently. History is only appended after a turn fully
// succeeds, so a failed turn leaves the session exactly as it was.
package session
