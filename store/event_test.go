package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campuslink/events-api/schema"
)

type EventTestSuite struct {
	suite.Suite
	connURI      string
	testDBName   string
	mongoClient  *mongo.Client
	testDatabase *mongo.Database

	studentID       primitive.ObjectID
	ratedEventID    primitive.ObjectID
	viewedEventID   primitive.ObjectID
	joinedEventID   primitive.ObjectID
	trendingHighID  primitive.ObjectID
	trendingMidID   primitive.ObjectID
	trendingLowID   primitive.ObjectID
	privateEventID  primitive.ObjectID
	pastEventID     primitive.ObjectID
	invitedEventID  primitive.ObjectID
	excludedEventID primitive.ObjectID
}

func NewEventTestSuite(connURI, dbName string) *EventTestSuite {
	return &EventTestSuite{
		connURI:    connURI,
		testDBName: dbName,
	}
}

func (s *EventTestSuite) SetupSuite() {
	if s.connURI == "" || s.testDBName == "" {
		s.T().Fatal("invalid test suite configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(s.connURI))
	if nil != err {
		s.T().Fatalf("connect mongo database with error: %s", err.Error())
	}

	s.mongoClient = mongoClient
	s.testDatabase = mongoClient.Database(s.testDBName)

	// make sure the test suite is run with a clean environment
	if err := s.CleanMongoDB(); err != nil {
		s.T().Fatal(err)
	}
	schema.NewMongoDBIndexer(s.connURI, s.testDBName).IndexAll()
	if err := s.LoadMongoDBFixtures(); err != nil {
		s.T().Fatal(err)
	}
}

// LoadMongoDBFixtures will preload fixtures into test mongodb
func (s *EventTestSuite) LoadMongoDBFixtures() error {
	ctx := context.Background()

	s.studentID = primitive.NewObjectID()
	if _, err := s.testDatabase.Collection(schema.StudentCollection).InsertOne(ctx, schema.Student{
		ID:        s.studentID,
		Username:  "event-test-student",
		Email:     "event-test@example.com",
		Interests: []string{"Technology"},
	}); err != nil {
		return err
	}

	s.ratedEventID = primitive.NewObjectID()
	s.viewedEventID = primitive.NewObjectID()
	s.joinedEventID = primitive.NewObjectID()
	s.trendingHighID = primitive.NewObjectID()
	s.trendingMidID = primitive.NewObjectID()
	s.trendingLowID = primitive.NewObjectID()
	s.privateEventID = primitive.NewObjectID()
	s.pastEventID = primitive.NewObjectID()
	s.invitedEventID = primitive.NewObjectID()
	s.excludedEventID = primitive.NewObjectID()

	future := time.Now().Add(30 * 24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)

	fixtures := []interface{}{
		schema.Event{ID: s.ratedEventID, EventID: "rated", Name: "Rated event", Date: future, IsPublic: true},
		schema.Event{ID: s.viewedEventID, EventID: "viewed", Name: "Viewed event", Date: future, IsPublic: true},
		schema.Event{ID: s.joinedEventID, EventID: "joined", Name: "Joined event", Date: future, IsPublic: true},
		schema.Event{
			ID: s.trendingHighID, EventID: "trend-high", Name: "High", Date: future, IsPublic: true,
			Popularity: 50, ViewCount: 10, AverageRating: 3,
		},
		schema.Event{
			ID: s.trendingMidID, EventID: "trend-mid", Name: "Mid", Date: future, IsPublic: true,
			Popularity: 20, ViewCount: 30, AverageRating: 2,
		},
		schema.Event{
			ID: s.trendingLowID, EventID: "trend-low", Name: "Low", Date: future, IsPublic: true,
			Popularity: 20, ViewCount: 10, AverageRating: 5,
		},
		schema.Event{ID: s.privateEventID, EventID: "private", Name: "Private", Date: future, IsPublic: false},
		schema.Event{ID: s.pastEventID, EventID: "past", Name: "Past", Date: past, IsPublic: true, Popularity: 1000},
		schema.Event{
			ID: s.invitedEventID, EventID: "invited", Name: "Invited", Date: future, IsPublic: false,
			InvitedStudents: []primitive.ObjectID{s.studentID},
		},
		schema.Event{
			ID: s.excludedEventID, EventID: "excluded", Name: "Excluded", Date: future, IsPublic: false,
			InvitedStudents: []primitive.ObjectID{primitive.NewObjectID()},
		},
	}

	_, err := s.testDatabase.Collection(schema.EventCollection).InsertMany(ctx, fixtures)
	return err
}

// CleanMongoDB drop the whole test mongodb
func (s *EventTestSuite) CleanMongoDB() error {
	return s.testDatabase.Drop(context.Background())
}

func (s *EventTestSuite) TestUpsertEventRating() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	average, total, err := store.UpsertEventRating(s.ratedEventID, s.studentID, 4, "solid event")
	s.NoError(err)
	s.Equal(4.0, average)
	s.Equal(1, total)

	// overwrite-by-student: same student rates again, entry count stays 1
	average, total, err = store.UpsertEventRating(s.ratedEventID, s.studentID, 2, "changed my mind")
	s.NoError(err)
	s.Equal(2.0, average)
	s.Equal(1, total)

	// identical resubmission leaves the summary unchanged
	average, total, err = store.UpsertEventRating(s.ratedEventID, s.studentID, 2, "changed my mind")
	s.NoError(err)
	s.Equal(2.0, average)
	s.Equal(1, total)

	otherStudent := primitive.NewObjectID()
	average, total, err = store.UpsertEventRating(s.ratedEventID, otherStudent, 5, "")
	s.NoError(err)
	s.Equal(3.5, average)
	s.Equal(2, total)

	var event schema.Event
	err = s.testDatabase.Collection(schema.EventCollection).FindOne(context.Background(), bson.M{
		"_id": s.ratedEventID,
	}).Decode(&event)
	s.NoError(err)
	s.Len(event.Ratings, 2)
	s.Equal(3.5, event.AverageRating)
	// popularity picks up the new average: 0 views + 0 participants + 3.5*10
	s.Equal(35.0, event.Popularity)
}

func (s *EventTestSuite) TestUpsertEventRatingRejectsOutOfRange() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	_, _, err := store.UpsertEventRating(s.viewedEventID, s.studentID, 0, "")
	s.Equal(ErrInvalidRating, err)
	_, _, err = store.UpsertEventRating(s.viewedEventID, s.studentID, 6, "")
	s.Equal(ErrInvalidRating, err)

	// no mutation happened
	var event schema.Event
	err = s.testDatabase.Collection(schema.EventCollection).FindOne(context.Background(), bson.M{
		"_id": s.viewedEventID,
	}).Decode(&event)
	s.NoError(err)
	s.Empty(event.Ratings)
	s.Equal(0.0, event.AverageRating)
}

func (s *EventTestSuite) TestUpsertEventRatingUnknownEvent() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	_, _, err := store.UpsertEventRating(primitive.NewObjectID(), s.studentID, 3, "")
	s.Equal(ErrEventNotFound, err)
}

func (s *EventTestSuite) TestTrackEventView() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	for i := 0; i < 3; i++ {
		s.NoError(store.TrackEventView(s.viewedEventID, s.studentID))
	}

	var event schema.Event
	err := s.testDatabase.Collection(schema.EventCollection).FindOne(context.Background(), bson.M{
		"_id": s.viewedEventID,
	}).Decode(&event)
	s.NoError(err)
	s.Equal(int64(3), event.ViewCount)
	s.Equal(3.0, event.Popularity)

	count, err := s.testDatabase.Collection(schema.StudentCollection).CountDocuments(context.Background(), bson.M{
		"_id":                    s.studentID,
		"event_history.event_id": s.viewedEventID,
		"event_history.action":   schema.ActionViewed,
	})
	s.NoError(err)
	s.Equal(int64(1), count)
}

func (s *EventTestSuite) TestTrackEventViewUnknownEvent() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	s.Equal(ErrEventNotFound, store.TrackEventView(primitive.NewObjectID(), s.studentID))
}

func (s *EventTestSuite) TestRegisterStudent() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	s.NoError(store.RegisterStudent(s.joinedEventID, s.studentID))
	// registering twice is a no-op
	s.NoError(store.RegisterStudent(s.joinedEventID, s.studentID))

	var event schema.Event
	err := s.testDatabase.Collection(schema.EventCollection).FindOne(context.Background(), bson.M{
		"_id": s.joinedEventID,
	}).Decode(&event)
	s.NoError(err)
	s.Equal([]primitive.ObjectID{s.studentID}, event.Participants)
	s.Equal(5.0, event.Popularity)

	count, err := s.testDatabase.Collection(schema.StudentCollection).CountDocuments(context.Background(), bson.M{
		"_id":                    s.studentID,
		"event_history.event_id": s.joinedEventID,
		"event_history.action":   schema.ActionRegistered,
	})
	s.NoError(err)
	s.Equal(int64(1), count)
}

func (s *EventTestSuite) TestListTrendingEvents() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	events, err := store.ListTrendingEvents(3)
	s.NoError(err)
	s.Len(events, 3)

	// popularity first, then view count, then average rating
	s.Equal(s.trendingHighID, events[0].ID)
	s.Equal(s.trendingMidID, events[1].ID)
	s.Equal(s.trendingLowID, events[2].ID)
}

func (s *EventTestSuite) TestListTrendingEventsExcludesPastAndPrivate() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	events, err := store.ListTrendingEvents(100)
	s.NoError(err)
	for _, e := range events {
		s.NotEqual(s.pastEventID, e.ID)
		s.NotEqual(s.privateEventID, e.ID)
	}
}

func (s *EventTestSuite) TestListCandidateEvents() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	events, err := store.ListCandidateEvents(s.studentID)
	s.NoError(err)

	ids := make(map[primitive.ObjectID]struct{}, len(events))
	for _, e := range events {
		ids[e.ID] = struct{}{}
	}

	s.Contains(ids, s.invitedEventID)
	s.Contains(ids, s.trendingHighID)
	s.NotContains(ids, s.pastEventID)
	s.NotContains(ids, s.privateEventID)
	s.NotContains(ids, s.excludedEventID)
}

func (s *EventTestSuite) TestUpdateEvent() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	event, err := store.CreateEvent(schema.Event{
		EventID:  "to-update",
		Name:     "Draft talk",
		Date:     time.Now().Add(time.Hour),
		Category: "Technology",
		IsPublic: true,
	})
	s.NoError(err)

	newDate := time.Now().Add(48 * time.Hour)
	updated, err := store.UpdateEvent(event.ID, EventUpdate{
		Name:        "Final talk",
		Description: "Rescheduled and renamed",
		Date:        newDate,
		Time:        "18:00",
		Location:    "Main hall",
		Category:    "Science",
	})
	s.NoError(err)
	s.Equal("Final talk", updated.Name)
	s.Equal("Rescheduled and renamed", updated.Description)
	s.Equal("18:00", updated.Time)
	s.Equal("Main hall", updated.Location)
	s.Equal("Science", updated.Category)
	s.WithinDuration(newDate, updated.Date, time.Second)

	// counters and identity survive a descriptive edit
	s.Equal(event.EventID, updated.EventID)
	s.Equal(event.ViewCount, updated.ViewCount)
	s.Equal(event.Popularity, updated.Popularity)
}

func (s *EventTestSuite) TestUpdateEventUnknownEvent() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	_, err := store.UpdateEvent(primitive.NewObjectID(), EventUpdate{Name: "Nobody"})
	s.Equal(ErrEventNotFound, err)
}

func (s *EventTestSuite) TestDeleteEvent() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	event, err := store.CreateEvent(schema.Event{
		EventID: "to-delete", Name: "Doomed", Date: time.Now().Add(time.Hour), IsPublic: true,
	})
	s.NoError(err)

	s.NoError(store.DeleteEvent(event.ID))
	s.Equal(ErrEventNotFound, store.DeleteEvent(event.ID))
}

func TestEventTestSuite(t *testing.T) {
	suite.Run(t, NewEventTestSuite("mongodb://127.0.0.1:27017/?compressors=disabled", "test-db"))
}
