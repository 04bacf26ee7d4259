// Package main hosts the guess-icon CLI entrypoint and command graph.
//
// The Cobra-based command tree exposes the icon resolver outside the sound
// server: single icon lookups against the configured theme, one-off guesses
// for a property list given on the command line, a JSON-lines filter that
// runs stream events through the loaded module, theme chain inspection and
// configuration scaffolding. Configuration, logging and icon theme setup are
// centralized in commandContext so subcommands only describe their output.
package main
