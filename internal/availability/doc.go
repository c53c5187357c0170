// Package availability implements the pure slot math for the scheduling
// assistant: enumerating fixed-duration meeting slots inside a time window
// against a set of busy intervals reported by the calendar backend.
//
// The package performs no I/O and holds no state; calling ComputeFreeSlots
// twice with the same inputs yields identical results.
package availability
