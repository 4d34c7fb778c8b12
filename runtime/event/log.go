package event

import (
	"github.com/rs/zerolog"
)

// Log is the append-only event record of one contract instance, the
// contract-side view of the platform's event sink.
type Log struct {
	logger zerolog.Logger
	events []Event
}

func NewLog(logger zerolog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Emit(e Event) {
	l.events = append(l.events, e)
	l.logger.Debug().Str("event", e.Name()).Msgf("emitted %+v", e)
}

func (l *Log) All() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Filter returns the events with the given name, in emission order.
func (l *Log) Filter(name string) []Event {
	var out []Event
	for _, e := range l.events {
		if e.Name() == name {
			out = append(out, e)
		}
	}
	return out
}

// Last returns the most recent event with the given name, or nil.
func (l *Log) Last(name string) Event {
	for i := len(l.events) - 1; i >= 0; i-- {
		if l.events[i].Name() == name {
			return l.events[i]
		}
	}
	return nil
}
