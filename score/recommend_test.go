package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campuslink/events-api/schema"
)

func TestFinalScoreWorkedExample(t *testing.T) {
	// Full content match with no other signals lands exactly on the content
	// weight.
	student := &schema.Student{Interests: []string{"Technology"}}
	event := &schema.Event{Category: "Technology"}

	final := FinalScore(
		ContentScore(student, event, nil),
		CollaborativeScore(student, event),
		PopularityScore(event),
	)
	assert.Equal(t, 50.0, final)
}

func TestRecommendExcludesRegisteredEvents(t *testing.T) {
	registeredID := primitive.NewObjectID()
	student := &schema.Student{
		Interests: []string{"Technology"},
		EventHistory: []schema.HistoryRecord{
			{EventID: registeredID, Action: schema.ActionRegistered},
		},
	}
	candidates := []schema.Event{
		{ID: registeredID, Category: "Technology"},
		{ID: primitive.NewObjectID(), Category: "Technology"},
	}

	ranked := Recommend(student, candidates, nil, 10)
	assert.Len(t, ranked, 1)
	assert.NotEqual(t, registeredID, ranked[0].ID)
}

func TestRecommendViewedEventsStayEligible(t *testing.T) {
	viewedID := primitive.NewObjectID()
	student := &schema.Student{
		Interests: []string{"Technology"},
		EventHistory: []schema.HistoryRecord{
			{EventID: viewedID, Action: schema.ActionViewed},
		},
	}
	candidates := []schema.Event{
		{ID: viewedID, Category: "Technology"},
	}

	assert.Len(t, Recommend(student, candidates, nil, 10), 1)
}

func TestRecommendRespectsLimit(t *testing.T) {
	student := &schema.Student{Interests: []string{"Technology"}}
	candidates := make([]schema.Event, 20)
	for i := range candidates {
		candidates[i] = schema.Event{ID: primitive.NewObjectID(), Category: "Technology"}
	}

	ranked := Recommend(student, candidates, nil, 5)
	assert.Len(t, ranked, 5)
}

func TestRecommendNoDuplicates(t *testing.T) {
	student := &schema.Student{Interests: []string{"Technology"}}
	candidates := []schema.Event{
		{ID: primitive.NewObjectID(), Category: "Technology"},
		{ID: primitive.NewObjectID(), Category: "Sports"},
		{ID: primitive.NewObjectID(), Category: "Arts"},
	}

	ranked := Recommend(student, candidates, nil, 10)
	seen := make(map[primitive.ObjectID]struct{})
	for _, event := range ranked {
		_, dup := seen[event.ID]
		assert.False(t, dup)
		seen[event.ID] = struct{}{}
	}
}

func TestRecommendOrdersByFinalScore(t *testing.T) {
	student := &schema.Student{Interests: []string{"Technology"}}
	weakID := primitive.NewObjectID()
	strongID := primitive.NewObjectID()
	candidates := []schema.Event{
		{ID: weakID, Category: "Sports"},
		{ID: strongID, Category: "Technology"},
	}

	ranked := Recommend(student, candidates, nil, 10)
	assert.Equal(t, strongID, ranked[0].ID)
	assert.Equal(t, weakID, ranked[1].ID)
}

// Equal scores keep candidate-set order; there is no secondary sort key on
// the personalized path.
func TestRecommendStableTies(t *testing.T) {
	student := &schema.Student{Interests: []string{"Technology"}}
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()
	candidates := []schema.Event{
		{ID: first, Category: "Technology"},
		{ID: second, Category: "Technology"},
	}

	ranked := Recommend(student, candidates, nil, 10)
	assert.Equal(t, first, ranked[0].ID)
	assert.Equal(t, second, ranked[1].ID)
}

func TestRecommendFallbackWithoutInterests(t *testing.T) {
	student := &schema.Student{}
	lowID := primitive.NewObjectID()
	highID := primitive.NewObjectID()
	candidates := []schema.Event{
		{ID: lowID, Popularity: 10},
		{ID: highID, Popularity: 90},
	}

	ranked := Recommend(student, candidates, nil, 10)
	assert.Equal(t, highID, ranked[0].ID)
	assert.Equal(t, lowID, ranked[1].ID)
}

func TestRecommendEmptyCandidates(t *testing.T) {
	student := &schema.Student{Interests: []string{"Technology"}}

	assert.Empty(t, Recommend(student, nil, nil, 10))
}
