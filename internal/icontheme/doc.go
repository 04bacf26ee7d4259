// Package icontheme looks icons up by name in the desktop icon theme.
//
// It follows the freedesktop Icon Theme Specification: the user theme is
// resolved from configuration or the GTK settings, its Inherits chain is
// walked depth first with hicolor last, and unthemed pixmap directories are
// consulted when no theme provides the icon. Directory listings are indexed
// in memory and revalidated against each directory's mtime on every lookup,
// so lookup results are never stale. With watching enabled the theme chain
// itself is reloaded when themes are installed or removed.
//
// Default returns a single lazily built database shared by the whole
// process. Call Configure before the first Default call to influence it.
package icontheme
