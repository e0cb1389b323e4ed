package schema

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDBIndexer struct {
	connURI  string
	database string
}

func NewMongoDBIndexer(connURI, database string) *MongoDBIndexer {
	return &MongoDBIndexer{
		connURI:  connURI,
		database: database,
	}
}

func (m *MongoDBIndexer) IndexAll() error {
	if err := m.IndexEventCollection(); err != nil {
		return err
	}
	return m.IndexStudentCollection()
}

func (m *MongoDBIndexer) client() (*mongo.Client, context.Context, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.connURI))
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	return client, ctx, cancel, nil
}

// IndexEventCollection builds the indexes used by candidate filtering and
// the trending sort.
func (m *MongoDBIndexer) IndexEventCollection() error {
	client, ctx, cancel, err := m.client()
	if err != nil {
		return err
	}
	defer cancel()

	c := client.Database(m.database).Collection(EventCollection)
	_, err = c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "date", Value: 1}, {Key: "is_public", Value: 1}},
		},
		{
			Keys: bson.D{
				{Key: "popularity", Value: -1},
				{Key: "view_count", Value: -1},
				{Key: "average_rating", Value: -1},
			},
		},
	})
	if err != nil {
		log.WithError(err).Error("fail to index event collection")
	}
	return err
}

func (m *MongoDBIndexer) IndexStudentCollection() error {
	client, ctx, cancel, err := m.client()
	if err != nil {
		return err
	}
	defer cancel()

	c := client.Database(m.database).Collection(StudentCollection)
	_, err = c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		log.WithError(err).Error("fail to index student collection")
	}
	return err
}
