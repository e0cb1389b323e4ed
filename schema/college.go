package schema

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CollegeCollection = "colleges"
)

type College struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Location string             `bson:"location" json:"location"`
	Email    string             `bson:"email" json:"email"`
}
