package score

import (
	"math"

	"github.com/campuslink/events-api/schema"
)

// CollaborativeScore approximates peer affinity from an event's current
// registration count, in [0, 100].
//
// This is a stand-in for user-similarity collaborative filtering: the score
// is purely event-driven today and the student argument is unused. The
// signature keeps the student so a real similarity model can slot in without
// touching callers.
func CollaborativeScore(student *schema.Student, event *schema.Event) float64 {
	return math.Min(float64(len(event.Participants))*2, 100)
}
