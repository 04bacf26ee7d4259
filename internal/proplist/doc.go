// Package proplist holds the ordered key/value metadata attached to audio
// streams.
//
// The host owns every Proplist; components receive a borrowed pointer for the
// duration of a hook callback and must not retain it afterwards.
package proplist
