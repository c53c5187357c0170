// Package server exposes the chat over websocket, plus health endpoints for
// probes and a dedicated Prometheus metrics listener.
//
// Each websocket connection is one chat session. Frames are processed
// strictly in arrival order on the connection's read loop, which together
// with the session manager's per-session lock gives in-order replies.
package server
