package guess

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"guessicon/internal/hook"
	"guessicon/internal/icontheme"
	"guessicon/internal/logging"
	"guessicon/internal/observe"
	"guessicon/internal/proplist"
)

// Validator answers whether the icon theme can render an icon by name.
type Validator interface {
	IconExists(name string, size icontheme.Size) bool
}

// themeValidator defers to the process-wide icon theme, building it on the
// first query.
type themeValidator struct{}

func (themeValidator) IconExists(name string, size icontheme.Size) bool {
	return icontheme.Default().IconExists(name, size)
}

// Outcome is the decision the resolver took for one property list.
type Outcome int

const (
	// OutcomeHasIcon means an icon was already provided and nothing was done.
	OutcomeHasIcon Outcome = iota
	// OutcomeNoName means application.name was absent or empty.
	OutcomeNoName
	// OutcomeNotFound means the theme has no icon named after the application.
	OutcomeNotFound
	// OutcomeResolved means application.icon_name was set.
	OutcomeResolved
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHasIcon:
		return "has_icon"
	case OutcomeNoName:
		return "no_name"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeResolved:
		return "resolved"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger decisions are written to at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logging.NewComponentLogger(logger, "guess")
	}
}

// WithMetrics records outcomes and lookup latency on m.
func WithMetrics(m *observe.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithSize changes the nominal size icons are validated at. The default is
// icontheme.SizeMenu.
func WithSize(size icontheme.Size) Option {
	return func(r *Resolver) {
		r.size = size
	}
}

// Resolver fills in application.icon_name for streams that carry no icon.
// It keeps no per-stream state and is safe for concurrent use as long as each
// call gets its own property list.
type Resolver struct {
	validator Validator
	size      icontheme.Size
	logger    *slog.Logger
	metrics   *observe.Metrics
}

// NewResolver builds a resolver that validates candidates with v. A nil v
// uses the process-wide icon theme.
func NewResolver(v Validator, opts ...Option) *Resolver {
	if v == nil {
		v = themeValidator{}
	}
	r := &Resolver{
		validator: v,
		size:      icontheme.SizeMenu,
		logger:    logging.NewComponentLogger(nil, "guess"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HasIcon reports whether props already names or embeds an icon.
func HasIcon(props *proplist.Proplist) bool {
	if v, ok := props.Gets(proplist.ApplicationIconName); ok && v != "" {
		return true
	}
	if v, ok := props.Gets(proplist.ApplicationIcon); ok && v != "" {
		return true
	}
	return false
}

// DeriveCandidate returns application.name mapped to ASCII lowercase. It
// reports false when the name is absent or empty.
func DeriveCandidate(props *proplist.Proplist) (string, bool) {
	name, ok := props.Gets(proplist.ApplicationName)
	if !ok || name == "" {
		return "", false
	}
	return asciiLower(name), true
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Process runs the pass on props and reports what it did. props is modified
// only when the outcome is OutcomeResolved. It panics on a nil props.
func (r *Resolver) Process(props *proplist.Proplist) Outcome {
	return r.processWith(r.logger, props, "unknown")
}

// PlaybackCreated handles a new playback stream. It always returns hook.OK.
func (r *Resolver) PlaybackCreated(stream *hook.Stream) hook.Result {
	r.handle(stream)
	return hook.OK
}

// CaptureCreated handles a new capture stream. It always returns hook.OK.
func (r *Resolver) CaptureCreated(stream *hook.Stream) hook.Result {
	r.handle(stream)
	return hook.OK
}

func (r *Resolver) handle(stream *hook.Stream) {
	logger := r.logger.With(
		logging.Uint64(logging.FieldStreamIndex, uint64(stream.Index)),
		logging.String(logging.FieldStreamKind, stream.Kind.String()),
	)
	if stream.CorrelationID != "" {
		logger = logger.With(logging.String(logging.FieldCorrelationID, stream.CorrelationID))
	}
	r.processWith(logger, stream.Props, stream.Kind.String())
}

func (r *Resolver) processWith(logger *slog.Logger, props *proplist.Proplist, kind string) Outcome {
	if props == nil {
		panic("guess: nil proplist")
	}
	outcome, candidate := r.decide(props)
	r.metrics.RecordResolution(context.Background(), outcome.String(), kind)

	attrs := []logging.Attr{logging.String("outcome", outcome.String())}
	if candidate != "" {
		attrs = append(attrs, logging.String("candidate", candidate))
	}
	if binary, ok := props.Gets(proplist.ApplicationProcessBinary); ok {
		attrs = append(attrs, logging.String("binary", binary))
	}
	logger.Debug(outcomeMessage(outcome), logging.Args(attrs...)...)
	return outcome
}

func (r *Resolver) decide(props *proplist.Proplist) (Outcome, string) {
	if HasIcon(props) {
		return OutcomeHasIcon, ""
	}
	candidate, ok := DeriveCandidate(props)
	if !ok {
		return OutcomeNoName, ""
	}

	start := time.Now()
	found := r.validator.IconExists(candidate, r.size)
	r.metrics.RecordLookup(context.Background(), time.Since(start), found)
	if !found {
		return OutcomeNotFound, candidate
	}

	props.Sets(proplist.ApplicationIconName, candidate)
	return OutcomeResolved, candidate
}

func outcomeMessage(o Outcome) string {
	switch o {
	case OutcomeHasIcon:
		return "stream already carries an icon"
	case OutcomeNoName:
		return "stream has no application name"
	case OutcomeNotFound:
		return "no themed icon matches application name"
	case OutcomeResolved:
		return "icon resolved"
	default:
		return "icon resolver finished"
	}
}
