package core

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"ivybridge/internal/ports"
	"ivybridge/internal/types"
)

// Engine is a per-invocation resolution engine bound to one settings
// instance. It owns exactly one console-forwarding log sink, attached
// at construction for the engine's lifetime.
//
// The context stack used around descriptor parsing is not safe for
// concurrent reuse: callers must serialize parse operations per engine
// instance.
type Engine struct {
	Settings  types.Settings
	Events    *EventManager
	Resolvers []ports.Resolver
	Log       zerolog.Logger

	mu           sync.Mutex
	contextDepth int
}

// NewEngine builds an engine bound to settings without wiring
// triggers or resolvers; most callers want NewConfiguredEngine.
func NewEngine(module string, settings types.Settings, resolvers []ports.Resolver, console io.Writer) *Engine {
	if console == nil {
		console = os.Stdout
	}
	sink := zerolog.New(zerolog.ConsoleWriter{Out: console, NoColor: true}).
		With().
		Timestamp().
		Str("module", module).
		Logger()
	return &Engine{
		Settings:  settings,
		Events:    NewEventManager(),
		Resolvers: resolvers,
		Log:       sink,
	}
}

// NewConfiguredEngine builds an engine for the named module and runs
// the post-configuration step, leaving it ready for use.
func NewConfiguredEngine(module string, settings types.Settings, resolvers []ports.Resolver, console io.Writer) (*Engine, error) {
	engine := NewEngine(module, settings, resolvers, console)
	if err := engine.PostConfigure(); err != nil {
		return nil, err
	}
	return engine, nil
}

// PostConfigure wires the listener plumbing the engine needs before
// use: every trigger declared in settings is registered with the
// event manager under the trigger's own filter, and every
// event-capable resolver is bound to the same manager.
func (e *Engine) PostConfigure() error {
	for _, config := range e.Settings.Triggers {
		filter, err := ParseFilter(config.Event, config.Filter)
		if err != nil {
			return err
		}
		e.Events.Subscribe(NewLogTrigger(config.Name, e.Log), filter)
	}
	for _, resolver := range e.Resolvers {
		if aware, ok := resolver.(ports.EventAware); ok {
			aware.BindEvents(e.Events)
		}
	}
	return nil
}

// PushContext enters a scoped parse context. Every PushContext must
// be paired with a PopContext on all exit paths.
func (e *Engine) PushContext() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.contextDepth++
}

func (e *Engine) PopContext() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.contextDepth > 0 {
		e.contextDepth--
	}
}

// ContextDepth reports the current nesting depth of parse contexts.
func (e *Engine) ContextDepth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.contextDepth
}
