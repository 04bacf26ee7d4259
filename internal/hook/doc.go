// Package hook models the sound server's stream creation hooks.
//
// A Core carries one Hook per Point. Modules Connect callbacks at a Priority
// and receive every Stream announced through Core.Put once it is fully
// built. Callbacks run in priority order and may end the dispatch early by
// returning Stop or Cancel.
package hook
