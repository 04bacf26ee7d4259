package icontheme

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSize reports a nominal size name that is not recognised.
var ErrUnknownSize = errors.New("unknown icon size")

// Size is a nominal icon size as used by desktop toolkits.
type Size int

const (
	SizeMenu Size = iota + 1
	SizeSmallToolbar
	SizeLargeToolbar
	SizeButton
	SizeDND
	SizeDialog
)

var sizeNames = map[Size]string{
	SizeMenu:         "menu",
	SizeSmallToolbar: "small-toolbar",
	SizeLargeToolbar: "large-toolbar",
	SizeButton:       "button",
	SizeDND:          "dnd",
	SizeDialog:       "dialog",
}

// Pixels returns the nominal pixel size. Unknown sizes map to the menu size.
func (s Size) Pixels() int {
	switch s {
	case SizeLargeToolbar:
		return 24
	case SizeDND:
		return 32
	case SizeDialog:
		return 48
	default:
		return 16
	}
}

func (s Size) String() string {
	if name, ok := sizeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("size(%d)", int(s))
}

// ParseSize maps a size name (menu, small-toolbar, large-toolbar, button,
// dnd, dialog) to a Size. Underscores are accepted in place of dashes.
func ParseSize(value string) (Size, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "_", "-")
	for size, name := range sizeNames {
		if name == normalized {
			return size, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSize, value)
}

// SizeNames lists the accepted size names in declaration order.
func SizeNames() []string {
	out := make([]string, 0, len(sizeNames))
	for s := SizeMenu; s <= SizeDialog; s++ {
		out = append(out, sizeNames[s])
	}
	return out
}
