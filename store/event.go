package store

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campuslink/events-api/schema"
	"github.com/campuslink/events-api/score"
)

var (
	ErrEventNotFound = fmt.Errorf("event not found")
	ErrInvalidRating = fmt.Errorf("rating must be between 1 and 5")
)

type Event interface {
	CreateEvent(event schema.Event) (*schema.Event, error)
	GetEvent(eventID primitive.ObjectID) (*schema.Event, error)
	ListEvents() ([]schema.Event, error)
	ListVisibleEvents(studentID primitive.ObjectID) ([]schema.Event, error)
	UpdateEvent(eventID primitive.ObjectID, update EventUpdate) (*schema.Event, error)
	DeleteEvent(eventID primitive.ObjectID) error

	ListCandidateEvents(studentID primitive.ObjectID) ([]schema.Event, error)
	ListTrendingEvents(limit int64) ([]schema.Event, error)

	RegisterStudent(eventID, studentID primitive.ObjectID) error
	TrackEventView(eventID, studentID primitive.ObjectID) error
	UpsertEventRating(eventID, studentID primitive.ObjectID, rating int, review string) (float64, int, error)
	GetEventRatings(eventID primitive.ObjectID) (*schema.Event, error)
}

func (m *mongoDB) CreateEvent(event schema.Event) (*schema.Event, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database).Collection(schema.EventCollection)

	now := time.Now()
	event.ID = primitive.NewObjectID()
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.Participants == nil {
		event.Participants = []primitive.ObjectID{}
	}
	if event.Ratings == nil {
		event.Ratings = []schema.EventRating{}
	}
	if event.Tags == nil {
		event.Tags = []string{}
	}
	if event.Difficulty == "" {
		event.Difficulty = schema.DifficultyAllLevels
	}

	if _, err := c.InsertOne(ctx, &event); err != nil {
		log.WithFields(log.Fields{
			"prefix": mongoLogPrefix,
			"event":  event.Name,
			"error":  err,
		}).Error("create event fail")
		return nil, err
	}
	return &event, nil
}

func (m *mongoDB) GetEvent(eventID primitive.ObjectID) (*schema.Event, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database).Collection(schema.EventCollection)

	var event schema.Event
	if err := c.FindOne(ctx, bson.M{"_id": eventID}).Decode(&event); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrEventNotFound
		}
		log.WithFields(log.Fields{
			"prefix":   mongoLogPrefix,
			"event ID": eventID.Hex(),
			"error":    err,
		}).Error("get event fail")
		return nil, err
	}
	return &event, nil
}

// ListEvents returns every event. This is the college view.
func (m *mongoDB) ListEvents() ([]schema.Event, error) {
	return m.findEvents(bson.M{}, nil)
}

// ListVisibleEvents returns public events plus the private ones the student
// is invited to.
func (m *mongoDB) ListVisibleEvents(studentID primitive.ObjectID) ([]schema.Event, error) {
	return m.findEvents(bson.M{
		"$or": bson.A{
			bson.M{"is_public": true},
			bson.M{"invited_students": studentID},
		},
	}, nil)
}

// ListCandidateEvents returns the pool of events eligible for ranking:
// future events that are public or invite the student.
func (m *mongoDB) ListCandidateEvents(studentID primitive.ObjectID) ([]schema.Event, error) {
	return m.findEvents(bson.M{
		"date": bson.M{"$gte": time.Now()},
		"$or": bson.A{
			bson.M{"is_public": true},
			bson.M{"invited_students": studentID},
		},
	}, nil)
}

// ListTrendingEvents returns public future events sorted by popularity with
// view count and average rating as descending tie breaks.
func (m *mongoDB) ListTrendingEvents(limit int64) ([]schema.Event, error) {
	opts := options.Find().
		SetSort(bson.D{
			{Key: "popularity", Value: -1},
			{Key: "view_count", Value: -1},
			{Key: "average_rating", Value: -1},
		}).
		SetLimit(limit)

	return m.findEvents(bson.M{
		"date":      bson.M{"$gte": time.Now()},
		"is_public": true,
	}, opts)
}

func (m *mongoDB) findEvents(filter bson.M, opts *options.FindOptions) ([]schema.Event, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database).Collection(schema.EventCollection)

	cursor, err := c.Find(ctx, filter, opts)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": mongoLogPrefix,
			"error":  err,
		}).Error("list events fail")
		return nil, err
	}

	events := []schema.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// EventUpdate carries the college-editable fields of an event. Counters,
// ratings and the participant set are managed by their own operations and
// never pass through here.
type EventUpdate struct {
	Name        string
	Description string
	Date        time.Time
	Time        string
	Location    string
	Category    string
}

// UpdateEvent replaces the descriptive fields of an event and returns the
// updated document.
func (m *mongoDB) UpdateEvent(eventID primitive.ObjectID, update EventUpdate) (*schema.Event, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database).Collection(schema.EventCollection)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var event schema.Event
	err := c.FindOneAndUpdate(ctx,
		bson.M{"_id": eventID},
		bson.M{"$set": bson.M{
			"name":        update.Name,
			"description": update.Description,
			"date":        update.Date,
			"time":        update.Time,
			"location":    update.Location,
			"category":    update.Category,
			"updated_at":  time.Now(),
		}},
		opts,
	).Decode(&event)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrEventNotFound
		}
		log.WithFields(log.Fields{
			"prefix":   mongoLogPrefix,
			"event ID": eventID.Hex(),
			"error":    err,
		}).Error("update event fail")
		return nil, err
	}
	return &event, nil
}

func (m *mongoDB) DeleteEvent(eventID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database).Collection(schema.EventCollection)

	result, err := c.DeleteOne(ctx, bson.M{"_id": eventID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrEventNotFound
	}
	return nil
}

// RegisterStudent adds a student to the participant set, recomputes
// popularity and appends a registered record to the student's history.
// Registering twice is a no-op for the participant set.
func (m *mongoDB) RegisterStudent(eventID, studentID primitive.ObjectID) error {
	unlock := m.locks.lock(eventID)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database).Collection(schema.EventCollection)

	result, err := c.UpdateOne(ctx,
		bson.M{"_id": eventID},
		bson.M{"$addToSet": bson.M{"participants": studentID}},
	)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix":   mongoLogPrefix,
			"event ID": eventID.Hex(),
			"error":    err,
		}).Error("register student fail")
		return err
	}
	if result.MatchedCount == 0 {
		return ErrEventNotFound
	}

	if result.ModifiedCount == 0 {
		// already registered
		return nil
	}

	if err := m.refreshPopularity(ctx, c, eventID); err != nil {
		return err
	}

	return m.AppendEventHistory(studentID, schema.HistoryRecord{
		EventID:   eventID,
		Action:    schema.ActionRegistered,
		Timestamp: time.Now(),
	})
}

// TrackEventView bumps the view counter, refreshes popularity and appends a
// viewed record to the student's history. The counter update is the primary
// effect; the history append is best effort.
func (m *mongoDB) TrackEventView(eventID, studentID primitive.ObjectID) error {
	unlock := m.locks.lock(eventID)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database).Collection(schema.EventCollection)

	result, err := c.UpdateOne(ctx,
		bson.M{"_id": eventID},
		bson.M{"$inc": bson.M{"view_count": 1}},
	)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix":   mongoLogPrefix,
			"event ID": eventID.Hex(),
			"error":    err,
		}).Error("track event view fail")
		return err
	}
	if result.MatchedCount == 0 {
		return ErrEventNotFound
	}

	if err := m.refreshPopularity(ctx, c, eventID); err != nil {
		return err
	}

	if err := m.AppendEventHistory(studentID, schema.HistoryRecord{
		EventID:   eventID,
		Action:    schema.ActionViewed,
		Timestamp: time.Now(),
	}); err != nil {
		log.WithFields(log.Fields{
			"prefix":     mongoLogPrefix,
			"event ID":   eventID.Hex(),
			"student ID": studentID.Hex(),
			"error":      err,
		}).Warn("append view history fail")
	}

	return nil
}

// UpsertEventRating records a student's rating with overwrite-by-student
// semantics and recomputes the average rating and popularity. The rating is
// validated before any mutation.
func (m *mongoDB) UpsertEventRating(eventID, studentID primitive.ObjectID, rating int, review string) (float64, int, error) {
	if rating < 1 || rating > 5 {
		return 0, 0, ErrInvalidRating
	}

	unlock := m.locks.lock(eventID)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database).Collection(schema.EventCollection)

	var event schema.Event
	if err := c.FindOne(ctx, bson.M{"_id": eventID}).Decode(&event); err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, 0, ErrEventNotFound
		}
		return 0, 0, err
	}

	entry := schema.EventRating{
		StudentID: studentID,
		Rating:    rating,
		Review:    review,
		Timestamp: time.Now(),
	}

	updated := false
	for i, r := range event.Ratings {
		if r.StudentID == studentID {
			event.Ratings[i] = entry
			updated = true
			break
		}
	}
	if !updated {
		event.Ratings = append(event.Ratings, entry)
	}

	sum := 0
	for _, r := range event.Ratings {
		sum += r.Rating
	}
	event.AverageRating = float64(sum) / float64(len(event.Ratings))
	event.Popularity = score.PopularityMetric(&event)

	result, err := c.UpdateOne(ctx,
		bson.M{"_id": eventID},
		bson.M{"$set": bson.M{
			"ratings":        event.Ratings,
			"average_rating": event.AverageRating,
			"popularity":     event.Popularity,
			"updated_at":     time.Now(),
		}},
	)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix":   mongoLogPrefix,
			"event ID": eventID.Hex(),
			"error":    err,
		}).Error("upsert event rating fail")
		return 0, 0, err
	}
	if result.MatchedCount == 0 {
		return 0, 0, ErrEventNotFound
	}

	return event.AverageRating, len(event.Ratings), nil
}

func (m *mongoDB) GetEventRatings(eventID primitive.ObjectID) (*schema.Event, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database).Collection(schema.EventCollection)

	var event schema.Event
	opts := options.FindOne().SetProjection(bson.M{
		"ratings":        1,
		"average_rating": 1,
	})
	if err := c.FindOne(ctx, bson.M{"_id": eventID}, opts).Decode(&event); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

// refreshPopularity reloads the event counters and persists the recomputed
// popularity metric. Callers hold the per-event lock.
func (m *mongoDB) refreshPopularity(ctx context.Context, c *mongo.Collection, eventID primitive.ObjectID) error {
	var event schema.Event
	if err := c.FindOne(ctx, bson.M{"_id": eventID}).Decode(&event); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrEventNotFound
		}
		return err
	}

	_, err := c.UpdateOne(ctx,
		bson.M{"_id": eventID},
		bson.M{"$set": bson.M{"popularity": score.PopularityMetric(&event)}},
	)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix":   mongoLogPrefix,
			"event ID": eventID.Hex(),
			"error":    err,
		}).Error("update event popularity fail")
	}
	return err
}
