// Package google handles OAuth2 authentication for the Google Calendar
// backend. Tokens are obtained once via the auth command and cached in a
// token file; the TokenProvider abstraction keeps the calendar client
// decoupled from where tokens come from.
package google
