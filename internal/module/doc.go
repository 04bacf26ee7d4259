// Package module binds the icon resolver to a sound server core.
//
// Init connects the playback and capture handlers to the stream creation
// hooks; Done disconnects them again. At most one instance is loaded per core.
package module
