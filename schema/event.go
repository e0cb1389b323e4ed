package schema

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	EventCollection = "events"
)

type EventDifficulty string

const (
	DifficultyBeginner     EventDifficulty = "Beginner"
	DifficultyIntermediate EventDifficulty = "Intermediate"
	DifficultyAdvanced     EventDifficulty = "Advanced"
	DifficultyAllLevels    EventDifficulty = "All Levels"
)

// EventRating is one student's rating entry inside an event document.
// A student has at most one entry per event; re-rating overwrites in place.
type EventRating struct {
	StudentID primitive.ObjectID `bson:"student_id" json:"student_id"`
	Rating    int                `bson:"rating" json:"rating"`
	Review    string             `bson:"review" json:"review"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

type Event struct {
	ID               primitive.ObjectID   `bson:"_id" json:"id"`
	EventID          string               `bson:"event_id" json:"event_id"`
	Name             string               `bson:"name" json:"name"`
	Description      string               `bson:"description" json:"description"`
	Date             time.Time            `bson:"date" json:"date"`
	Time             string               `bson:"time" json:"time"`
	Location         string               `bson:"location" json:"location"`
	Category         string               `bson:"category" json:"category"`
	College          primitive.ObjectID   `bson:"college" json:"college"`
	Image            string               `bson:"image,omitempty" json:"image,omitempty"`
	RegistrationLink string               `bson:"registration_link,omitempty" json:"registration_link,omitempty"`
	IsPublic         bool                 `bson:"is_public" json:"is_public"`
	InvitedStudents  []primitive.ObjectID `bson:"invited_students" json:"-"`
	Participants     []primitive.ObjectID `bson:"participants" json:"participants"`
	Tags             []string             `bson:"tags" json:"tags"`
	Difficulty       EventDifficulty      `bson:"difficulty" json:"difficulty"`
	Ratings          []EventRating        `bson:"ratings" json:"ratings"`
	AverageRating    float64              `bson:"average_rating" json:"average_rating"`
	ViewCount        int64                `bson:"view_count" json:"view_count"`
	Popularity       float64              `bson:"popularity" json:"popularity"`
	CreatedAt        time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time            `bson:"updated_at" json:"updated_at"`
}
