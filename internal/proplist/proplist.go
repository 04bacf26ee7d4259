package proplist

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Well-known stream property keys.
const (
	ApplicationName          = "application.name"
	ApplicationIconName      = "application.icon_name"
	ApplicationIcon          = "application.icon"
	ApplicationProcessBinary = "application.process.binary"
	MediaRole                = "media.role"
)

// ErrInvalidAssignment reports a key=value argument that cannot be parsed.
var ErrInvalidAssignment = errors.New("invalid property assignment")

type entry struct {
	key   string
	value string
}

// Proplist is an ordered string-to-string property map attached to a stream.
// It is not safe for concurrent mutation.
type Proplist struct {
	entries []entry
	index   map[string]int
}

// New returns an empty property list.
func New() *Proplist {
	return &Proplist{index: make(map[string]int)}
}

// FromPairs builds a list from alternating key, value arguments. A trailing
// key without a value is stored with an empty value.
func FromPairs(pairs ...string) *Proplist {
	p := New()
	for i := 0; i < len(pairs); i += 2 {
		value := ""
		if i+1 < len(pairs) {
			value = pairs[i+1]
		}
		p.Sets(pairs[i], value)
	}
	return p
}

// ParseAssignments builds a list from key=value arguments in order.
func ParseAssignments(args []string) (*Proplist, error) {
	p := New()
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAssignment, arg)
		}
		p.Sets(key, value)
	}
	return p, nil
}

// Gets returns the value stored for key.
func (p *Proplist) Gets(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	pos, ok := p.index[key]
	if !ok {
		return "", false
	}
	return p.entries[pos].value, true
}

// Contains reports whether key is present, regardless of its value.
func (p *Proplist) Contains(key string) bool {
	_, ok := p.Gets(key)
	return ok
}

// Sets stores value under key. Existing keys keep their position.
func (p *Proplist) Sets(key, value string) {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	if pos, ok := p.index[key]; ok {
		p.entries[pos].value = value
		return
	}
	p.index[key] = len(p.entries)
	p.entries = append(p.entries, entry{key: key, value: value})
}

// Unset removes key and reports whether it was present.
func (p *Proplist) Unset(key string) bool {
	pos, ok := p.index[key]
	if !ok {
		return false
	}
	p.entries = append(p.entries[:pos], p.entries[pos+1:]...)
	delete(p.index, key)
	for i := pos; i < len(p.entries); i++ {
		p.index[p.entries[i].key] = i
	}
	return true
}

// Len returns the number of properties.
func (p *Proplist) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// Keys returns the property keys in insertion order.
func (p *Proplist) Keys() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, 0, len(p.entries))
	for _, e := range p.entries {
		keys = append(keys, e.key)
	}
	return keys
}

// Each calls fn for every property in order until fn returns false.
func (p *Proplist) Each(fn func(key, value string) bool) {
	if p == nil {
		return
	}
	for _, e := range p.entries {
		if !fn(e.key, e.value) {
			return
		}
	}
}

// Copy returns an independent copy of the list.
func (p *Proplist) Copy() *Proplist {
	out := New()
	p.Each(func(key, value string) bool {
		out.Sets(key, value)
		return true
	})
	return out
}

// Equal reports whether both lists hold the same keys and values in the same order.
func (p *Proplist) Equal(other *Proplist) bool {
	if p.Len() != other.Len() {
		return false
	}
	for i := range p.Len() {
		if p.entries[i] != other.entries[i] {
			return false
		}
	}
	return true
}

// String renders one key = "value" line per property, matching the layout
// audio servers use when listing stream properties.
func (p *Proplist) String() string {
	var b strings.Builder
	p.Each(func(key, value string) bool {
		b.WriteString(key)
		b.WriteString(" = ")
		b.WriteString(strconv.Quote(value))
		b.WriteByte('\n')
		return true
	})
	return b.String()
}
