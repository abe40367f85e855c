package datastore

// Change describes a single value update delivered to subscribers.
type Change struct {
	Name  string
	Value string
}

// Listener receives change notifications. Delivery is synchronous and happens
// on the caller's goroutine before SetValue returns.
type Listener func(Change)

type subscription struct {
	id int
	fn Listener
}

// Store maps field names to their current string values and fans out change
// notifications to subscribers in subscription order. It is not safe for
// concurrent mutation; the engine sequences all writes on one logical thread.
type Store struct {
	values map[string]string
	subs   []subscription
	nextID int
}

// New returns an empty store.
func New() *Store {
	return &Store{values: make(map[string]string)}
}

// GetValue returns the current value for name, or the empty string when the
// field has never been set.
func (s *Store) GetValue(name string) string {
	return s.values[name]
}

// Has reports whether the field has ever been set, distinguishing a missing
// field from one holding an empty value.
func (s *Store) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// SetValue stores value under name. Setting a field to the value it already
// holds is a no-op and emits nothing. On an actual change every subscriber is
// notified synchronously, in subscription order, before SetValue returns.
func (s *Store) SetValue(name, value string) {
	current, ok := s.values[name]
	if ok && current == value {
		return
	}
	s.values[name] = value
	s.emit(Change{Name: name, Value: value})
}

// Notify re-emits the current value of name without changing it. The
// dependency resolver uses this to surface a synthetic change for a control
// whose validity was recomputed because an upstream field moved.
func (s *Store) Notify(name string) {
	s.emit(Change{Name: name, Value: s.values[name]})
}

// Subscribe registers fn for change notifications and returns a disposer that
// removes the subscription. Disposing twice is harmless.
func (s *Store) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) emit(change Change) {
	// Snapshot so a listener that unsubscribes mid-delivery does not skip
	// its neighbours.
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	for _, sub := range subs {
		sub.fn(change)
	}
}
