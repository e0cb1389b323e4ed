package score

import (
	"math"

	"github.com/campuslink/events-api/schema"
)

// Weights of the raw popularity metric. A registration is a much stronger
// signal than a passive view, and a perfect rating is worth two
// registrations.
const (
	PopularityViewWeight         = 1
	PopularityRegistrationWeight = 5
	PopularityRatingWeight       = 10
)

// maxViewCount bounds the view component of the normalized popularity score
// used inside personalized ranking.
const maxViewCount = 1000

// PopularityMetric computes the raw popularity scalar persisted on an event
// document. It is the sort key of the trending feed. Counters below zero are
// treated as zero.
func PopularityMetric(event *schema.Event) float64 {
	views := math.Max(float64(event.ViewCount), 0)
	participants := math.Max(float64(len(event.Participants)), 0)
	rating := math.Max(event.AverageRating, 0)

	return views*PopularityViewWeight +
		participants*PopularityRegistrationWeight +
		rating*PopularityRatingWeight
}

// PopularityScore computes the bounded 0-100 popularity component used only
// inside personalized ranking. It is a different normalization from
// PopularityMetric and the two must not be conflated.
func PopularityScore(event *schema.Event) float64 {
	views := math.Max(float64(event.ViewCount), 0)
	rating := math.Max(event.AverageRating, 0)

	viewScore := math.Min(views/maxViewCount, 1) * 50
	ratingScore := (rating / 5) * 50

	return viewScore + ratingScore
}
