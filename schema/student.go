package schema

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StudentCollection = "students"
)

type HistoryAction string

const (
	ActionViewed     HistoryAction = "viewed"
	ActionRegistered HistoryAction = "registered"
	ActionAttended   HistoryAction = "attended"
)

// InterestCategories is the fixed list of categories a student may opt into.
var InterestCategories = []string{
	"Technology", "Sports", "Arts", "Music", "Business",
	"Science", "Literature", "Gaming", "Social",
	"Environment", "Health", "Education", "Other",
}

var interestCategorySet = func() map[string]struct{} {
	s := make(map[string]struct{}, len(InterestCategories))
	for _, c := range InterestCategories {
		s[c] = struct{}{}
	}
	return s
}()

// IsValidInterest reports whether a value belongs to InterestCategories.
func IsValidInterest(interest string) bool {
	_, ok := interestCategorySet[interest]
	return ok
}

// HistoryRecord is one interaction of a student with an event. The history
// array is append-only; past entries are never rewritten.
type HistoryRecord struct {
	EventID   primitive.ObjectID `bson:"event_id" json:"event_id"`
	Action    HistoryAction      `bson:"action" json:"action"`
	Rating    int                `bson:"rating,omitempty" json:"rating,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

type StudentPreferences struct {
	NotificationsEnabled   bool `bson:"notifications_enabled" json:"notifications_enabled"`
	RecommendationsEnabled bool `bson:"recommendations_enabled" json:"recommendations_enabled"`
}

type Student struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Username     string             `bson:"username" json:"username"`
	FirstName    string             `bson:"first_name" json:"first_name"`
	LastName     string             `bson:"last_name" json:"last_name"`
	Email        string             `bson:"email" json:"email"`
	Interests    []string           `bson:"interests" json:"interests"`
	EventHistory []HistoryRecord    `bson:"event_history" json:"-"`
	Preferences  StudentPreferences `bson:"preferences" json:"preferences"`
	CreatedAt    time.Time          `bson:"created_at" json:"-"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"-"`
}

// RegisteredEventIDs collects the ids of events the student has registered
// for, from the history array.
func (s *Student) RegisteredEventIDs() map[primitive.ObjectID]struct{} {
	registered := make(map[primitive.ObjectID]struct{})
	for _, h := range s.EventHistory {
		if h.Action == ActionRegistered {
			registered[h.EventID] = struct{}{}
		}
	}
	return registered
}
