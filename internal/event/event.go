package event

import "time"

// Event is a published message.
type Event struct {
	Topic   Topic
	Payload any
	Time    time.Time
}

// Handler processes events.
type Handler interface {
	Handle(ev Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ev Event) error

// Handle calls f(ev).
func (f HandlerFunc) Handle(ev Event) error {
	return f(ev)
}
