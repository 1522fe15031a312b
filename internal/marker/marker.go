// Package marker provides the named-marker registry at the heart of the
// toolkit: an ordered list of named one-dimensional position markers with
// synchronous listener notification and value-tree synchronization.
//
// A List is intended to be owned by a single goroutine (typically the UI
// event loop). It performs no internal locking; callers sharing a list
// across goroutines must synchronize externally. Notification is
// reentrancy-safe: listeners may add or remove listeners, or mutate the
// list, from inside a callback.
package marker

import "fmt"

// Marker is a named position along a one-dimensional axis.
// Position is an opaque relative-coordinate expression; the list stores and
// returns it without interpreting it (see the coordinate package).
type Marker struct {
	Name     string
	Position string
}

// Equal reports whether both the names and positions match.
func (m Marker) Equal(other Marker) bool {
	return m.Name == other.Name && m.Position == other.Position
}

// Listener receives change events from a List.
type Listener interface {
	// MarkersChanged is called after markers are added, moved, or removed.
	MarkersChanged(l *List)

	// ListClosing is called once when the list is being closed, before its
	// state is released. Listeners holding a reference to the list should
	// drop it here.
	ListClosing(l *List)
}

// List holds an ordered set of uniquely named markers.
// Insertion order is iteration order; setting an existing name updates it
// in place without moving it.
type List struct {
	markers   []Marker
	listeners []Listener
	closed    bool
}

// NewList creates an empty marker list.
func NewList() *List {
	return &List{}
}

// Len returns the number of markers in the list.
func (l *List) Len() int {
	return len(l.markers)
}

// At returns the marker at index.
// Panics if index is out of range; use ByName for lookups that may miss.
func (l *List) At(index int) Marker {
	if index < 0 || index >= len(l.markers) {
		panic(fmt.Sprintf("marker: index %d out of range [0,%d)", index, len(l.markers)))
	}
	return l.markers[index]
}

// ByName returns the named marker and whether it exists.
// Name comparisons are case-sensitive.
func (l *List) ByName(name string) (Marker, bool) {
	i := l.indexOf(name)
	if i < 0 {
		return Marker{}, false
	}
	return l.markers[i], true
}

// IndexOf returns the index of the named marker, or -1 if absent.
func (l *List) IndexOf(name string) int {
	return l.indexOf(name)
}

func (l *List) indexOf(name string) int {
	for i := range l.markers {
		if l.markers[i].Name == name {
			return i
		}
	}
	return -1
}

// Markers returns a copy of the markers in list order.
func (l *List) Markers() []Marker {
	return append([]Marker(nil), l.markers...)
}

// Set updates the named marker's position, or appends a new marker when the
// name is not present. An existing marker keeps its index. Listeners are
// notified once per call, after the mutation, unless nothing changed.
func (l *List) Set(name, position string) {
	if l.closed {
		return
	}
	if i := l.indexOf(name); i >= 0 {
		if l.markers[i].Position == position {
			return
		}
		l.markers[i].Position = position
	} else {
		l.markers = append(l.markers, Marker{Name: name, Position: position})
	}
	l.NotifyChanged()
}

// RemoveAt deletes the marker at index.
// Panics if index is out of range.
func (l *List) RemoveAt(index int) {
	if l.closed {
		return
	}
	if index < 0 || index >= len(l.markers) {
		panic(fmt.Sprintf("marker: index %d out of range [0,%d)", index, len(l.markers)))
	}
	l.markers = append(l.markers[:index], l.markers[index+1:]...)
	l.NotifyChanged()
}

// Remove deletes the named marker and reports whether a removal occurred.
// Listeners are only notified when something was actually removed.
func (l *List) Remove(name string) bool {
	if l.closed {
		return false
	}
	i := l.indexOf(name)
	if i < 0 {
		return false
	}
	l.markers = append(l.markers[:i], l.markers[i+1:]...)
	l.NotifyChanged()
	return true
}

// replaceAll swaps the full marker set without notifying.
// Used by TreeView.ApplyTo, which handles aggregate notification itself.
func (l *List) replaceAll(markers []Marker) {
	if l.closed {
		return
	}
	l.markers = append(l.markers[:0:0], markers...)
}

// Equal reports whether two lists hold equal markers in the same order.
func (l *List) Equal(other *List) bool {
	if l == nil || other == nil {
		return l == other
	}
	if len(l.markers) != len(other.markers) {
		return false
	}
	for i := range l.markers {
		if !l.markers[i].Equal(other.markers[i]) {
			return false
		}
	}
	return true
}

// AddListener registers a listener for change notifications.
// Adding a listener that is already registered is a no-op; each listener is
// notified at most once per change regardless of how many times it was added.
func (l *List) AddListener(listener Listener) {
	if listener == nil || l.closed {
		return
	}
	for _, existing := range l.listeners {
		if existing == listener {
			return
		}
	}
	l.listeners = append(l.listeners, listener)
}

// RemoveListener deregisters a previously registered listener.
// Safe to call from inside a notification callback.
func (l *List) RemoveListener(listener Listener) {
	for i, existing := range l.listeners {
		if existing == listener {
			l.listeners = append(l.listeners[:i], l.listeners[i+1:]...)
			return
		}
	}
}

// NotifyChanged synchronously calls MarkersChanged on every registered
// listener in registration order. The listener set is snapshotted at the
// start of the call: a listener that unregisters itself or another listener
// mid-notification does not cause skips or double delivery, but a listener
// removed before its turn is still not called.
func (l *List) NotifyChanged() {
	if l.closed {
		return
	}
	snapshot := append([]Listener(nil), l.listeners...)
	for _, listener := range snapshot {
		if l.isRegistered(listener) {
			listener.MarkersChanged(l)
		}
	}
}

func (l *List) isRegistered(listener Listener) bool {
	for _, existing := range l.listeners {
		if existing == listener {
			return true
		}
	}
	return false
}

// Close notifies every registered listener that the list is going away,
// exactly once, then releases all state. Further mutation and notification
// are no-ops.
func (l *List) Close() {
	if l.closed {
		return
	}
	l.closed = true
	snapshot := l.listeners
	l.listeners = nil
	for _, listener := range snapshot {
		listener.ListClosing(l)
	}
	l.markers = nil
}
