package hook

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"guessicon/internal/logging"
	"guessicon/internal/proplist"
)

// Kind distinguishes playback streams from capture streams.
type Kind int

const (
	KindPlayback Kind = iota
	KindCapture
)

// ErrUnknownKind reports a stream kind name that is neither playback nor capture.
var ErrUnknownKind = errors.New("unknown stream kind")

func (k Kind) String() string {
	switch k {
	case KindPlayback:
		return "playback"
	case KindCapture:
		return "capture"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps "playback" or "capture" (case-insensitive) to a Kind.
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "playback":
		return KindPlayback, nil
	case "capture":
		return KindCapture, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, value)
	}
}

// Stream is a newly created stream as handed to hook callbacks. Props is
// borrowed for the duration of the dispatch.
type Stream struct {
	Index         uint32
	Kind          Kind
	Props         *proplist.Proplist
	CorrelationID string
}

// Point names a hook in the stream creation pipeline.
type Point int

const (
	// SinkInputPut fires once a playback stream is fully constructed.
	SinkInputPut Point = iota
	// SourceOutputPut fires once a capture stream is fully constructed.
	SourceOutputPut
)

func (p Point) String() string {
	switch p {
	case SinkInputPut:
		return "sink-input-put"
	case SourceOutputPut:
		return "source-output-put"
	default:
		return fmt.Sprintf("point(%d)", int(p))
	}
}

// PointFor returns the hook point that announces streams of kind k.
func PointFor(k Kind) Point {
	if k == KindCapture {
		return SourceOutputPut
	}
	return SinkInputPut
}

// Priority orders slots within a hook. Lower values run first.
type Priority int

const (
	Early  Priority = -100
	Normal Priority = 0
	Late   Priority = 100
)

// Result is returned by callbacks to steer the rest of the dispatch.
type Result int

const (
	// OK continues with the next slot.
	OK Result = iota
	// Stop ends the dispatch without error.
	Stop
	// Cancel ends the dispatch and reports the stream as rejected.
	Cancel
)

func (r Result) String() string {
	switch r {
	case OK:
		return "ok"
	case Stop:
		return "stop"
	case Cancel:
		return "cancel"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// Callback handles one stream announcement.
type Callback func(*Stream) Result

// Slot is a single subscription on a Hook.
type Slot struct {
	hook     *Hook
	id       uint64
	priority Priority
	callback Callback
	freed    atomic.Bool
}

// Free unsubscribes the slot. Calling it more than once is harmless.
func (s *Slot) Free() {
	if s == nil || !s.freed.CompareAndSwap(false, true) {
		return
	}
	s.hook.remove(s)
}

// Priority reports the priority the slot was connected with.
func (s *Slot) Priority() Priority {
	return s.priority
}

// Hook is an ordered list of callbacks for one Point. It is safe for
// concurrent Connect, Free and Fire.
type Hook struct {
	point  Point
	logger *slog.Logger

	mu     sync.Mutex
	slots  []*Slot
	nextID uint64
}

func newHook(point Point, logger *slog.Logger) *Hook {
	return &Hook{point: point, logger: logger}
}

// Point returns the hook point this hook serves.
func (h *Hook) Point() Point {
	return h.point
}

// Connect subscribes callback at the given priority. Slots of equal priority
// run in connection order.
func (h *Hook) Connect(priority Priority, callback Callback) *Slot {
	if callback == nil {
		panic("hook: nil callback")
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	slot := &Slot{hook: h, id: h.nextID, priority: priority, callback: callback}

	pos := len(h.slots)
	for i, existing := range h.slots {
		if existing.priority > priority {
			pos = i
			break
		}
	}
	h.slots = append(h.slots, nil)
	copy(h.slots[pos+1:], h.slots[pos:])
	h.slots[pos] = slot
	return slot
}

func (h *Hook) remove(slot *Slot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, existing := range h.slots {
		if existing == slot {
			h.slots = append(h.slots[:i], h.slots[i+1:]...)
			return
		}
	}
}

// Len returns the number of connected slots.
func (h *Hook) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.slots)
}

// Fire runs every connected callback in priority order. Callbacks run without
// the hook lock held, so they may free their own slot. A slot freed during the
// dispatch is skipped if it has not run yet.
func (h *Hook) Fire(stream *Stream) Result {
	h.mu.Lock()
	snapshot := make([]*Slot, len(h.slots))
	copy(snapshot, h.slots)
	h.mu.Unlock()

	for _, slot := range snapshot {
		if slot.freed.Load() {
			continue
		}
		switch result := slot.callback(stream); result {
		case OK:
			continue
		case Stop, Cancel:
			if stream != nil {
				h.logger.Debug("hook dispatch ended early",
					logging.String("hook", h.point.String()),
					logging.String("result", result.String()),
					logging.String(logging.FieldCorrelationID, stream.CorrelationID),
				)
			}
			return result
		default:
			logging.WarnWithContext(h.logger, "hook callback returned unknown result", "hook_unknown_result",
				logging.String("hook", h.point.String()),
				logging.Int("result", int(result)),
				logging.String(logging.FieldImpact, "remaining callbacks still run"),
			)
		}
	}
	return OK
}

// Core owns the stream creation hooks and records which modules are loaded.
type Core struct {
	logger *slog.Logger
	hooks  map[Point]*Hook

	mu     sync.Mutex
	loaded map[string]struct{}
}

// NewCore builds a core with one hook per Point.
func NewCore(logger *slog.Logger) *Core {
	logger = logging.NewComponentLogger(logger, "hook")
	return &Core{
		logger: logger,
		hooks: map[Point]*Hook{
			SinkInputPut:    newHook(SinkInputPut, logger),
			SourceOutputPut: newHook(SourceOutputPut, logger),
		},
		loaded: make(map[string]struct{}),
	}
}

// Hook returns the hook for point, or nil for an unknown point.
func (c *Core) Hook(point Point) *Hook {
	return c.hooks[point]
}

// Put announces a newly created stream on the hook matching its kind. A
// correlation id is assigned when the stream does not carry one.
func (c *Core) Put(stream *Stream) Result {
	if stream == nil {
		panic("hook: nil stream")
	}
	if stream.CorrelationID == "" {
		stream.CorrelationID = uuid.NewString()
	}
	point := PointFor(stream.Kind)
	c.logger.Debug("dispatching stream",
		logging.String("hook", point.String()),
		logging.Uint64(logging.FieldStreamIndex, uint64(stream.Index)),
		logging.String(logging.FieldStreamKind, stream.Kind.String()),
		logging.String(logging.FieldCorrelationID, stream.CorrelationID),
	)
	return c.hooks[point].Fire(stream)
}

// MarkLoaded records module name as loaded. It reports false if the name was
// already recorded.
func (c *Core) MarkLoaded(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.loaded[name]; ok {
		return false
	}
	c.loaded[name] = struct{}{}
	return true
}

// MarkUnloaded forgets module name.
func (c *Core) MarkUnloaded(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.loaded, name)
}

// Loaded reports whether module name is currently loaded.
func (c *Core) Loaded(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.loaded[name]
	return ok
}
