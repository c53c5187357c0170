// Package calendar is the gateway to the Google Calendar backend. It is the
// only package that talks to the external calendar: it fetches busy
// intervals for a window and creates booking events with a Meet link.
//
// The gateway performs no availability checking of its own; deciding what is
// free is the availability package's exclusive responsibility. This keeps
// "what's free" pure and cacheable while "commit a booking" stays an
// explicit side effect.
package calendar
