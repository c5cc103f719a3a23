package models

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// EventsCollection maps event IDs to events and remembers insertion order.
// The order survives a JSON round trip: object keys are written and read in
// collection order.
type EventsCollection struct {
	ids    []string
	events map[string]Event
}

func NewEventsCollection() EventsCollection {
	return EventsCollection{events: make(map[string]Event)}
}

func (c *EventsCollection) init() {
	if c.events == nil {
		c.events = make(map[string]Event)
	}
}

func (c EventsCollection) Len() int {
	return len(c.ids)
}

// IDs returns the event IDs in insertion order.
func (c EventsCollection) IDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

func (c EventsCollection) Has(id string) bool {
	_, ok := c.events[id]
	return ok
}

func (c EventsCollection) Get(id string) (Event, bool) {
	ev, ok := c.events[id]
	return ev, ok
}

// Set replaces an existing event in place or appends a new one.
func (c *EventsCollection) Set(id string, ev Event) {
	c.init()
	ev.Normalize()
	if _, ok := c.events[id]; !ok {
		c.ids = append(c.ids, id)
	}
	c.events[id] = ev
}

// Delete removes the event and reports whether it existed.
func (c *EventsCollection) Delete(id string) bool {
	if _, ok := c.events[id]; !ok {
		return false
	}
	delete(c.events, id)
	for i, v := range c.ids {
		if v == id {
			c.ids = append(c.ids[:i], c.ids[i+1:]...)
			break
		}
	}
	return true
}

// Public returns a copy with admin-only fields stripped.
func (c EventsCollection) Public() EventsCollection {
	out := NewEventsCollection()
	for _, id := range c.ids {
		out.Set(id, c.events[id].Public())
	}
	return out
}

// MarshalJSON writes the events in collection order, leaving HTML
// characters unescaped.
func (c EventsCollection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range c.ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.MarshalWithOption(id, json.DisableHTMLEscape())
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.MarshalWithOption(c.events[id], json.DisableHTMLEscape())
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *EventsCollection) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*c = NewEventsCollection()
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("events collection: expected object, got %v", tok)
	}

	out := NewEventsCollection()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, ok := tok.(string)
		if !ok {
			return fmt.Errorf("events collection: expected key, got %v", tok)
		}

		var ev Event
		if err := dec.Decode(&ev); err != nil {
			return fmt.Errorf("events collection: event %q: %w", id, err)
		}
		out.Set(id, ev)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*c = out
	return nil
}
