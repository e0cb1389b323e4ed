package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campuslink/events-api/schema"
)

var (
	ErrCollegeNotFound = fmt.Errorf("college not found")
)

type College interface {
	GetCollege(collegeID primitive.ObjectID) (*schema.College, error)
}

func (m *mongoDB) GetCollege(collegeID primitive.ObjectID) (*schema.College, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database).Collection(schema.CollegeCollection)

	var college schema.College
	if err := c.FindOne(ctx, bson.M{"_id": collegeID}).Decode(&college); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCollegeNotFound
		}
		return nil, err
	}
	return &college, nil
}
