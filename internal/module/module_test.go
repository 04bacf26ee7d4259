package module_test

import (
	"errors"
	"testing"

	"guessicon/internal/guess"
	"guessicon/internal/hook"
	"guessicon/internal/icontheme"
	"guessicon/internal/logging"
	"guessicon/internal/module"
	"guessicon/internal/proplist"
)

type staticValidator map[string]bool

func (v staticValidator) IconExists(name string, _ icontheme.Size) bool {
	return v[name]
}

func newResolver() *guess.Resolver {
	return guess.NewResolver(staticValidator{"firefox": true, "arecord": true})
}

func TestInitSubscribesBothHooks(t *testing.T) {
	core := hook.NewCore(logging.NewNop())
	m, err := module.Init(core, newResolver(), logging.NewNop())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(m.Done)

	if n := core.Hook(hook.SinkInputPut).Len(); n != 1 {
		t.Fatalf("expected one playback slot, got %d", n)
	}
	if n := core.Hook(hook.SourceOutputPut).Len(); n != 1 {
		t.Fatalf("expected one capture slot, got %d", n)
	}

	playback := &hook.Stream{Index: 1, Kind: hook.KindPlayback, Props: proplist.FromPairs(proplist.ApplicationName, "Firefox")}
	if got := core.Put(playback); got != hook.OK {
		t.Fatalf("Put = %s, want ok", got)
	}
	if v, _ := playback.Props.Gets(proplist.ApplicationIconName); v != "firefox" {
		t.Fatalf("expected firefox icon, got %q", v)
	}

	capture := &hook.Stream{Index: 2, Kind: hook.KindCapture, Props: proplist.FromPairs(proplist.ApplicationName, "ARecord")}
	core.Put(capture)
	if v, _ := capture.Props.Gets(proplist.ApplicationIconName); v != "arecord" {
		t.Fatalf("expected arecord icon, got %q", v)
	}
}

func TestInitRunsAfterEarlierSlots(t *testing.T) {
	core := hook.NewCore(logging.NewNop())
	m, err := module.Init(core, newResolver(), nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(m.Done)

	// A module connected afterwards at normal priority still runs first and
	// can supply the name the resolver needs.
	core.Hook(hook.SinkInputPut).Connect(hook.Normal, func(s *hook.Stream) hook.Result {
		s.Props.Sets(proplist.ApplicationName, "Firefox")
		return hook.OK
	})

	stream := &hook.Stream{Kind: hook.KindPlayback, Props: proplist.New()}
	core.Put(stream)
	if v, _ := stream.Props.Gets(proplist.ApplicationIconName); v != "firefox" {
		t.Fatalf("expected resolver to see the name set earlier, got %q", v)
	}
}

func TestInitRefusesSecondInstance(t *testing.T) {
	core := hook.NewCore(logging.NewNop())
	first, err := module.Init(core, newResolver(), nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	if _, err := module.Init(core, newResolver(), nil); !errors.Is(err, module.ErrAlreadyLoaded) {
		t.Fatalf("expected ErrAlreadyLoaded, got %v", err)
	}
	if n := core.Hook(hook.SinkInputPut).Len(); n != 1 {
		t.Fatalf("refused load should not subscribe, got %d slots", n)
	}

	first.Done()
	second, err := module.Init(core, newResolver(), nil)
	if err != nil {
		t.Fatalf("reload after Done: %v", err)
	}
	second.Done()

	other := hook.NewCore(nil)
	third, err := module.Init(other, newResolver(), nil)
	if err != nil {
		t.Fatalf("separate core should accept a load: %v", err)
	}
	third.Done()
}

func TestDoneLeavesNoSubscriptions(t *testing.T) {
	core := hook.NewCore(logging.NewNop())
	m, err := module.Init(core, newResolver(), nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	m.Done()
	m.Done()

	if n := core.Hook(hook.SinkInputPut).Len() + core.Hook(hook.SourceOutputPut).Len(); n != 0 {
		t.Fatalf("expected no slots after Done, got %d", n)
	}
	stream := &hook.Stream{Kind: hook.KindPlayback, Props: proplist.FromPairs(proplist.ApplicationName, "Firefox")}
	core.Put(stream)
	if stream.Props.Contains(proplist.ApplicationIconName) {
		t.Fatal("unloaded module should not touch streams")
	}
}

func TestInitRejectsNilArguments(t *testing.T) {
	if _, err := module.Init(nil, newResolver(), nil); !errors.Is(err, module.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for nil core, got %v", err)
	}
	if _, err := module.Init(hook.NewCore(nil), nil, nil); !errors.Is(err, module.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for nil handlers, got %v", err)
	}

	core := hook.NewCore(nil)
	var resolver *guess.Resolver
	if _, err := module.Init(core, resolver, nil); !errors.Is(err, module.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for nil resolver pointer, got %v", err)
	}
	if n := core.Hook(hook.SinkInputPut).Len(); n != 0 {
		t.Fatalf("expected no subscription, got %d", n)
	}
	if core.Loaded(module.Describe().Name) {
		t.Fatal("rejected init must not mark the module loaded")
	}
}

func TestDescribe(t *testing.T) {
	info := module.Describe()
	if !info.LoadOnce {
		t.Fatal("module must be load-once")
	}
	if info.Description != "Guess application icon when one is not provided" {
		t.Fatalf("unexpected description %q", info.Description)
	}
	var m *module.Module
	m.Done()
}
