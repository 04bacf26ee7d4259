// Package guess fills in a missing application icon on newly created streams.
//
// When a stream carries neither application.icon_name nor application.icon,
// the Resolver lowercases application.name and asks the icon theme whether an
// icon of that name exists at menu size. Only an affirmative answer changes
// the stream; every other path leaves it untouched and reports nothing to
// the host beyond the debug log.
package guess
