package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campuslink/events-api/schema"
)

func TestPopularityMetric(t *testing.T) {
	event := &schema.Event{
		ViewCount:     10,
		Participants:  []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()},
		AverageRating: 4.5,
	}

	assert.Equal(t, 10.0+2*5+4.5*10, PopularityMetric(event))
}

func TestPopularityMetricZeroEvent(t *testing.T) {
	assert.Equal(t, 0.0, PopularityMetric(&schema.Event{}))
}

func TestPopularityMetricClampsNegativeCounters(t *testing.T) {
	event := &schema.Event{
		ViewCount:     -3,
		AverageRating: -1,
	}

	assert.Equal(t, 0.0, PopularityMetric(event))
}

func TestPopularityMetricMonotonic(t *testing.T) {
	base := schema.Event{
		ViewCount:     5,
		Participants:  []primitive.ObjectID{primitive.NewObjectID()},
		AverageRating: 3,
	}
	baseline := PopularityMetric(&base)

	moreViews := base
	moreViews.ViewCount = 6
	assert.Greater(t, PopularityMetric(&moreViews), baseline)

	moreParticipants := base
	moreParticipants.Participants = append([]primitive.ObjectID{primitive.NewObjectID()}, base.Participants...)
	assert.Greater(t, PopularityMetric(&moreParticipants), baseline)

	betterRating := base
	betterRating.AverageRating = 3.5
	assert.Greater(t, PopularityMetric(&betterRating), baseline)
}

func TestPopularityScoreBounded(t *testing.T) {
	event := &schema.Event{
		ViewCount:     1000000,
		AverageRating: 5,
	}

	assert.Equal(t, 100.0, PopularityScore(event))
}

func TestPopularityScoreHalfViews(t *testing.T) {
	event := &schema.Event{
		ViewCount: 500,
	}

	assert.Equal(t, 25.0, PopularityScore(event))
}

// The raw metric and the normalized score are different functions; the
// trending sort key must not pick up the bounded normalization.
func TestPopularityMetricDiffersFromPopularityScore(t *testing.T) {
	event := &schema.Event{
		ViewCount:     2000,
		AverageRating: 5,
	}

	assert.Equal(t, 2050.0, PopularityMetric(event))
	assert.Equal(t, 100.0, PopularityScore(event))
}
