package module

import (
	"errors"
	"log/slog"
	"reflect"
	"sync"

	"guessicon/internal/hook"
	"guessicon/internal/logging"
)

// Version is overridden at build time with -ldflags "-X guessicon/internal/module.Version=...".
var Version = "dev"

// Info describes the module to the host.
type Info struct {
	Name        string
	Author      string
	Description string
	Version     string
	LoadOnce    bool
}

// Describe returns the module metadata.
func Describe() Info {
	return Info{
		Name:        "module-guess-icon",
		Author:      "Austin Steele",
		Description: "Guess application icon when one is not provided",
		Version:     Version,
		LoadOnce:    true,
	}
}

var (
	// ErrAlreadyLoaded is returned by Init when the core already runs an instance.
	ErrAlreadyLoaded = errors.New("module already loaded")
	// ErrInvalidArgument is returned by Init for a nil core or nil handlers.
	ErrInvalidArgument = errors.New("invalid module argument")
)

// Handlers receives new playback and capture streams.
type Handlers interface {
	PlaybackCreated(*hook.Stream) hook.Result
	CaptureCreated(*hook.Stream) hook.Result
}

// Module is a loaded instance bound to one core.
type Module struct {
	core   *hook.Core
	logger *slog.Logger

	playback *hook.Slot
	capture  *hook.Slot

	doneOnce sync.Once
}

// Init subscribes handlers to the stream creation hooks of core at late
// priority, so other modules have filled in their properties first.
func Init(core *hook.Core, handlers Handlers, logger *slog.Logger) (*Module, error) {
	if core == nil || isNil(handlers) {
		return nil, ErrInvalidArgument
	}
	info := Describe()
	logger = logging.NewComponentLogger(logger, "module")

	if info.LoadOnce && !core.MarkLoaded(info.Name) {
		logging.WarnWithContext(logger, "module load refused", "module_already_loaded",
			logging.String("module", info.Name),
			logging.String(logging.FieldErrorHint, "unload the running instance first"),
			logging.String(logging.FieldImpact, "existing instance keeps handling streams"),
		)
		return nil, ErrAlreadyLoaded
	}

	m := &Module{
		core:     core,
		logger:   logger,
		playback: core.Hook(hook.SinkInputPut).Connect(hook.Late, handlers.PlaybackCreated),
		capture:  core.Hook(hook.SourceOutputPut).Connect(hook.Late, handlers.CaptureCreated),
	}
	logger.Info("module loaded",
		logging.String("module", info.Name),
		logging.String("version", info.Version),
	)
	return m, nil
}

// isNil also catches a nil pointer stored in the interface, whose methods
// would otherwise panic on the first stream.
func isNil(handlers Handlers) bool {
	if handlers == nil {
		return true
	}
	v := reflect.ValueOf(handlers)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Done frees both subscriptions. It is safe to call more than once.
func (m *Module) Done() {
	if m == nil {
		return
	}
	m.doneOnce.Do(func() {
		m.playback.Free()
		m.capture.Free()
		info := Describe()
		if info.LoadOnce {
			m.core.MarkUnloaded(info.Name)
		}
		m.logger.Info("module unloaded", logging.String("module", info.Name))
	})
}
