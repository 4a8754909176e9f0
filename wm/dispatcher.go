// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/dispatcher.go
// Summary: Broadcasts engine events to observers such as the terminal view.
// Usage: Subscribe a Listener on Engine.Dispatcher(); callbacks run on the loop goroutine.

package wm

import "sync"

// EventType defines the type of an outbound engine event.
type EventType int

const (
	// EventTreeRendered follows every completed layout pass.
	EventTreeRendered EventType = iota
	// EventFocusShown follows every focus border refresh.
	EventFocusShown
	// EventReloaded follows a full tree rebuild.
	EventReloaded
)

func (t EventType) String() string {
	switch t {
	case EventTreeRendered:
		return "tree-rendered"
	case EventFocusShown:
		return "focus-shown"
	case EventReloaded:
		return "reloaded"
	default:
		return "unknown"
	}
}

// Event is a message passed to listeners.
type Event struct {
	Type    EventType
	Payload interface{}
}

// RenderPayload accompanies EventTreeRendered.
type RenderPayload struct {
	Reason string
	// Requests is the number of render requests folded into this pass.
	Requests int
}

// Listener receives engine events.
type Listener interface {
	OnEvent(event Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

func (f ListenerFunc) OnEvent(event Event) { f(event) }

// EventDispatcher manages a list of listeners and broadcasts events to them.
type EventDispatcher struct {
	mu        sync.RWMutex
	listeners []Listener
}

// NewEventDispatcher creates a new dispatcher.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{
		listeners: make([]Listener, 0),
	}
}

// Subscribe adds a new listener to receive events.
func (d *EventDispatcher) Subscribe(listener Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, listener)
}

// Unsubscribe removes a listener. Listeners that are funcs cannot be
// compared and are never removed.
func (d *EventDispatcher) Unsubscribe(listener Listener) {
	if _, isFunc := listener.(ListenerFunc); isFunc {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, l := range d.listeners {
		if _, isFunc := l.(ListenerFunc); isFunc {
			continue
		}
		if l == listener {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			break
		}
	}
}

// Broadcast sends an event to all subscribed listeners.
func (d *EventDispatcher) Broadcast(event Event) {
	d.mu.RLock()
	listeners := append([]Listener(nil), d.listeners...)
	d.mu.RUnlock()
	for _, l := range listeners {
		l.OnEvent(event)
	}
}
