// Package streamio reads and writes stream creation events as JSON lines.
//
// Each line is an object with "index", "kind" ("playback" or "capture") and
// "properties", a flat object of string values. Property order is kept in
// both directions so that filtered output lines up with its input.
package streamio
