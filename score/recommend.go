package score

import (
	"sort"

	"github.com/campuslink/events-api/schema"
)

// Weights of the final recommendation score.
const (
	ContentWeight       = 0.5
	CollaborativeWeight = 0.3
	PopularityWeight    = 0.2
)

// FinalScore combines the three component scores with the fixed weights.
func FinalScore(content, collaborative, popularity float64) float64 {
	return content*ContentWeight +
		collaborative*CollaborativeWeight +
		popularity*PopularityWeight
}

// Recommend ranks candidate events for a student and returns at most limit
// of them. Candidates are expected to be future events visible to the
// student; events the student already registered for are dropped here.
//
// A student without interests gets the fallback ranking: raw popularity
// descending. Otherwise each candidate is scored with FinalScore. Ties keep
// candidate-set order in both paths; there is deliberately no secondary sort
// key.
func Recommend(student *schema.Student, candidates []schema.Event, historyDifficulties map[schema.EventDifficulty]struct{}, limit int) []schema.Event {
	registered := student.RegisteredEventIDs()

	unregistered := make([]schema.Event, 0, len(candidates))
	for _, event := range candidates {
		if _, ok := registered[event.ID]; ok {
			continue
		}
		unregistered = append(unregistered, event)
	}

	if len(student.Interests) == 0 {
		sort.SliceStable(unregistered, func(i, j int) bool {
			return unregistered[i].Popularity > unregistered[j].Popularity
		})
		return truncate(unregistered, limit)
	}

	scores := make([]float64, len(unregistered))
	for i := range unregistered {
		event := &unregistered[i]
		scores[i] = FinalScore(
			ContentScore(student, event, historyDifficulties),
			CollaborativeScore(student, event),
			PopularityScore(event),
		)
	}

	order := make([]int, len(unregistered))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	ranked := make([]schema.Event, len(order))
	for i, idx := range order {
		ranked[i] = unregistered[idx]
	}
	return truncate(ranked, limit)
}

func truncate(events []schema.Event, limit int) []schema.Event {
	if limit >= 0 && len(events) > limit {
		return events[:limit]
	}
	return events
}
