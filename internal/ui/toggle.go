package ui

import "slices"

// Toggle is an observable boolean.
//
// It belongs to the bubbletea update loop and is not safe for concurrent use.
type Toggle struct {
	open   bool
	nextID int
	subs   []subscriber
}

type subscriber struct {
	id int
	fn func(open bool)
}

// NewToggle creates a [Toggle] with the given initial value.
func NewToggle(open bool) *Toggle {
	return &Toggle{open: open}
}

// Open returns the current value.
func (t *Toggle) Open() bool {
	return t.open
}

// Set changes the value and notifies subscribers when it differs from the current one.
func (t *Toggle) Set(open bool) {
	if t.open == open {
		return
	}
	t.open = open
	// subscribers may unsubscribe while being notified
	for _, s := range slices.Clone(t.subs) {
		s.fn(open)
	}
}

// Flip inverts the value.
func (t *Toggle) Flip() {
	t.Set(!t.open)
}

// Subscribe registers fn to be called after every change. The returned func removes it.
func (t *Toggle) Subscribe(fn func(open bool)) func() {
	t.nextID++
	id := t.nextID
	t.subs = append(t.subs, subscriber{id: id, fn: fn})

	return func() {
		t.subs = slices.DeleteFunc(slices.Clone(t.subs), func(s subscriber) bool {
			return s.id == id
		})
	}
}
