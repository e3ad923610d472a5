package core

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"

	"ivybridge/internal/types"
)

// Listener receives resolution lifecycle events.
type Listener interface {
	Name() string
	OnEvent(event types.Event)
}

type filterTerm struct {
	attribute string
	glob      *regexp.Regexp
}

// Filter selects the events a listener receives: an optional event
// type plus attr=glob terms that must all match. The zero Filter
// matches everything.
type Filter struct {
	Type  types.EventType
	terms []filterTerm
}

// ParseFilter parses a trigger filter expression, a comma-separated
// list of attr=glob terms, e.g. "organisation=org.apache.*,module=ivy*".
func ParseFilter(eventType types.EventType, expression string) (Filter, error) {
	filter := Filter{Type: eventType}
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return filter, nil
	}
	for _, clause := range strings.Split(trimmed, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		attribute, glob, found := strings.Cut(clause, "=")
		if !found || strings.TrimSpace(attribute) == "" {
			return Filter{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid trigger filter term: %s", clause))
		}
		compiled, err := compileGlob(strings.TrimSpace(glob))
		if err != nil {
			return Filter{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid trigger filter glob: %s", glob)).
				WithCause(err)
		}
		filter.terms = append(filter.terms, filterTerm{
			attribute: strings.TrimSpace(attribute),
			glob:      compiled,
		})
	}
	return filter, nil
}

func compileGlob(glob string) (*regexp.Regexp, error) {
	var builder strings.Builder
	builder.WriteString("^")
	for i, part := range strings.Split(glob, "*") {
		if i > 0 {
			builder.WriteString(".*")
		}
		builder.WriteString(regexp.QuoteMeta(part))
	}
	builder.WriteString("$")
	return regexp.Compile(builder.String())
}

func (f Filter) Matches(event types.Event) bool {
	if f.Type != "" && f.Type != event.Type {
		return false
	}
	for _, term := range f.terms {
		value, ok := event.Attributes[term.attribute]
		if !ok || !term.glob.MatchString(value) {
			return false
		}
	}
	return true
}

type subscription struct {
	listener Listener
	filter   Filter
}

// EventManager dispatches events to subscribed listeners. Publish is
// synchronous: listeners run on the publishing goroutine in
// subscription order.
type EventManager struct {
	mu   sync.RWMutex
	subs []subscription
}

func NewEventManager() *EventManager {
	return &EventManager{}
}

func (m *EventManager) Subscribe(listener Listener, filter Filter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, subscription{listener: listener, filter: filter})
}

func (m *EventManager) Publish(event types.Event) {
	m.mu.RLock()
	subs := append([]subscription(nil), m.subs...)
	m.mu.RUnlock()
	for _, sub := range subs {
		if sub.filter.Matches(event) {
			sub.listener.OnEvent(event)
		}
	}
}

// ListenerCount returns the number of subscriptions.
func (m *EventManager) ListenerCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs)
}

// LogTrigger is the built-in trigger kind: it forwards matching
// events to the engine's console log.
type LogTrigger struct {
	name string
	log  zerolog.Logger
}

func NewLogTrigger(name string, log zerolog.Logger) LogTrigger {
	return LogTrigger{name: name, log: log}
}

func (t LogTrigger) Name() string { return t.name }

func (t LogTrigger) OnEvent(event types.Event) {
	entry := t.log.Info().Str("trigger", t.name).Str("event", string(event.Type))
	for key, value := range event.Attributes {
		entry = entry.Str(key, value)
	}
	entry.Msg("trigger fired")
}
