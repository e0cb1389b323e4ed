package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEventLockerSerializesPerEvent(t *testing.T) {
	locker := newEventLocker()
	eventID := primitive.NewObjectID()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locker.lock(eventID)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestEventLockerReleasesEntries(t *testing.T) {
	locker := newEventLocker()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		eventID := primitive.NewObjectID()
		for j := 0; j < 5; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock := locker.lock(eventID)
				unlock()
			}()
		}
	}
	wg.Wait()

	// entries only live while a mutation is in flight
	locker.mu.Lock()
	defer locker.mu.Unlock()
	assert.Empty(t, locker.locks)
}
