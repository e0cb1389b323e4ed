package store

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campuslink/events-api/schema"
)

var (
	ErrStudentNotFound = fmt.Errorf("student not found")
)

type Student interface {
	GetStudent(studentID primitive.ObjectID) (*schema.Student, error)
	UpdateStudentInterests(studentID primitive.ObjectID, interests []string) ([]string, error)
	AppendEventHistory(studentID primitive.ObjectID, record schema.HistoryRecord) error
	GetHistoryDifficulties(student *schema.Student) (map[schema.EventDifficulty]struct{}, error)
	ListStudentEmails() ([]string, error)
}

func (m *mongoDB) GetStudent(studentID primitive.ObjectID) (*schema.Student, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database).Collection(schema.StudentCollection)

	var student schema.Student
	if err := c.FindOne(ctx, bson.M{"_id": studentID}).Decode(&student); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrStudentNotFound
		}
		log.WithFields(log.Fields{
			"prefix":     mongoLogPrefix,
			"student ID": studentID.Hex(),
			"error":      err,
		}).Error("get student fail")
		return nil, err
	}
	return &student, nil
}

// UpdateStudentInterests replaces the interest set wholesale; interests are
// never merged. Values are validated by the caller against
// schema.InterestCategories.
func (m *mongoDB) UpdateStudentInterests(studentID primitive.ObjectID, interests []string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database).Collection(schema.StudentCollection)

	if interests == nil {
		interests = []string{}
	}

	result, err := c.UpdateOne(ctx,
		bson.M{"_id": studentID},
		bson.M{"$set": bson.M{"interests": interests}},
	)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix":     mongoLogPrefix,
			"student ID": studentID.Hex(),
			"error":      err,
		}).Error("update student interests fail")
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, ErrStudentNotFound
	}
	return interests, nil
}

// AppendEventHistory pushes a record onto the student's history array. The
// array is append-only; existing entries are never touched.
func (m *mongoDB) AppendEventHistory(studentID primitive.ObjectID, record schema.HistoryRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database).Collection(schema.StudentCollection)

	result, err := c.UpdateOne(ctx,
		bson.M{"_id": studentID},
		bson.M{"$push": bson.M{"event_history": record}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// GetHistoryDifficulties resolves the difficulty levels of the events in a
// student's history. The content scorer uses the set for its difficulty
// bonus.
func (m *mongoDB) GetHistoryDifficulties(student *schema.Student) (map[schema.EventDifficulty]struct{}, error) {
	difficulties := make(map[schema.EventDifficulty]struct{})
	if len(student.EventHistory) == 0 {
		return difficulties, nil
	}

	seen := make(map[primitive.ObjectID]struct{}, len(student.EventHistory))
	ids := make([]primitive.ObjectID, 0, len(student.EventHistory))
	for _, h := range student.EventHistory {
		if _, ok := seen[h.EventID]; ok {
			continue
		}
		seen[h.EventID] = struct{}{}
		ids = append(ids, h.EventID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database).Collection(schema.EventCollection)

	opts := options.Find().SetProjection(bson.M{"difficulty": 1})
	cursor, err := c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix":     mongoLogPrefix,
			"student ID": student.ID.Hex(),
			"error":      err,
		}).Error("resolve history difficulties fail")
		return nil, err
	}

	var events []schema.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	for _, e := range events {
		if e.Difficulty != "" {
			difficulties[e.Difficulty] = struct{}{}
		}
	}
	return difficulties, nil
}

// ListStudentEmails returns the email of every student who has not opted out
// of notifications; used for new-event announcements. Notifications default
// to on, so students without a stored preference are included.
func (m *mongoDB) ListStudentEmails() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database).Collection(schema.StudentCollection)

	opts := options.Find().SetProjection(bson.M{"email": 1})
	cursor, err := c.Find(ctx, bson.M{"preferences.notifications_enabled": bson.M{"$ne": false}}, opts)
	if err != nil {
		return nil, err
	}

	var students []schema.Student
	if err := cursor.All(ctx, &students); err != nil {
		return nil, err
	}

	emails := make([]string, 0, len(students))
	for _, s := range students {
		if s.Email != "" {
			emails = append(emails, s.Email)
		}
	}
	return emails, nil
}
