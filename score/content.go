package score

import (
	"math"
	"strings"

	"github.com/campuslink/events-api/schema"
)

// difficultyMatchBonus is the flat boost applied when the candidate event's
// difficulty appears among the events of the student's history.
const difficultyMatchBonus = 20

// ContentScore matches a student's interests against an event's category,
// name and tags, returning a score in [0, 100]. A student without interests
// scores 0; callers fall back to pure popularity ranking in that case.
//
// Matching is case-insensitive substring containment. No stemming, no fuzzy
// matching; re-rating the matcher smarter would change established results.
//
// historyDifficulties holds the difficulty levels of the events referenced
// by the student's history, resolved by the caller.
func ContentScore(student *schema.Student, event *schema.Event, historyDifficulties map[schema.EventDifficulty]struct{}) float64 {
	if len(student.Interests) == 0 {
		return 0
	}

	category := strings.ToLower(event.Category)
	name := strings.ToLower(event.Name)

	matching := 0
	for _, interest := range student.Interests {
		interest = strings.ToLower(interest)
		if strings.Contains(category, interest) || strings.Contains(name, interest) {
			matching++
			continue
		}
		for _, tag := range event.Tags {
			if strings.Contains(strings.ToLower(tag), interest) {
				matching++
				break
			}
		}
	}

	score := float64(matching) / float64(len(student.Interests)) * 100

	if _, ok := historyDifficulties[event.Difficulty]; ok {
		score += difficultyMatchBonus
	}

	return math.Min(math.Max(score, 0), 100)
}
