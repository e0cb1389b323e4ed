package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campuslink/events-api/schema"
	"github.com/campuslink/events-api/store"
)

// rateEvent records or overwrites the requesting student's rating for an
// event.
func (s *Server) rateEvent(c *gin.Context) {
	student, ok := c.MustGet("student").(*schema.Student)
	if !ok {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer)
		return
	}

	eventID, err := primitive.ObjectIDFromHex(c.Param("eventID"))
	if err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	var params struct {
		Rating int    `json:"rating"`
		Review string `json:"review"`
	}
	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	average, total, err := s.mongoStore.UpsertEventRating(eventID, student.ID, params.Rating, params.Review)
	if err != nil {
		switch err {
		case store.ErrInvalidRating:
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidRating)
		case store.ErrEventNotFound:
			abortWithEncoding(c, http.StatusNotFound, errorUnknownEvent)
		default:
			abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"average_rating": average,
		"total_ratings":  total,
	})
}

// getEventRatings returns the rating summary and entries of an event. No
// auth required.
func (s *Server) getEventRatings(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("eventID"))
	if err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	event, err := s.mongoStore.GetEventRatings(eventID)
	if err != nil {
		if err == store.ErrEventNotFound {
			abortWithEncoding(c, http.StatusNotFound, errorUnknownEvent)
			return
		}
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	ratings := event.Ratings
	if ratings == nil {
		ratings = []schema.EventRating{}
	}

	c.JSON(http.StatusOK, gin.H{
		"average_rating": event.AverageRating,
		"total_ratings":  len(ratings),
		"ratings":        ratings,
	})
}
