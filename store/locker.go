package store

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// eventLocker serializes read-modify-write sequences on a single event
// document. Two concurrent rating submissions against the same event would
// otherwise race on the ratings array and lose one update.
//
// Entries are reference counted and removed once the last holder unlocks, so
// the map only holds events with in-flight mutations.
type eventLocker struct {
	mu    sync.Mutex
	locks map[primitive.ObjectID]*eventLock
}

type eventLock struct {
	sync.Mutex
	refs int
}

func newEventLocker() *eventLocker {
	return &eventLocker{
		locks: make(map[primitive.ObjectID]*eventLock),
	}
}

func (l *eventLocker) lock(id primitive.ObjectID) func() {
	l.mu.Lock()
	e, ok := l.locks[id]
	if !ok {
		e = &eventLock{}
		l.locks[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.Lock()
	return func() {
		e.Unlock()

		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
