package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campuslink/events-api/schema"
)

func TestCollaborativeScore(t *testing.T) {
	event := &schema.Event{
		Participants: []primitive.ObjectID{
			primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID(),
		},
	}

	assert.Equal(t, 6.0, CollaborativeScore(&schema.Student{}, event))
}

func TestCollaborativeScoreNoParticipants(t *testing.T) {
	assert.Equal(t, 0.0, CollaborativeScore(&schema.Student{}, &schema.Event{}))
}

func TestCollaborativeScoreCappedAt100(t *testing.T) {
	participants := make([]primitive.ObjectID, 80)
	for i := range participants {
		participants[i] = primitive.NewObjectID()
	}

	assert.Equal(t, 100.0, CollaborativeScore(&schema.Student{}, &schema.Event{Participants: participants}))
}

// The student argument is a placeholder for a future similarity model and
// must not affect the score today.
func TestCollaborativeScoreIgnoresStudent(t *testing.T) {
	event := &schema.Event{
		Participants: []primitive.ObjectID{primitive.NewObjectID()},
	}

	a := CollaborativeScore(&schema.Student{}, event)
	b := CollaborativeScore(&schema.Student{Interests: []string{"Technology"}}, event)
	assert.Equal(t, a, b)
}
