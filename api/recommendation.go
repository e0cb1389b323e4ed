package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campuslink/events-api/schema"
	"github.com/campuslink/events-api/score"
	"github.com/campuslink/events-api/store"
)

const defaultRecommendationLimit = 10

type limitQueryParams struct {
	Limit int `form:"limit"`
}

func (p limitQueryParams) limitOrDefault() int {
	if p.Limit <= 0 {
		return defaultRecommendationLimit
	}
	return p.Limit
}

// getRecommendations returns the ranked candidate events for the requesting
// student.
func (s *Server) getRecommendations(c *gin.Context) {
	student, ok := c.MustGet("student").(*schema.Student)
	if !ok {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer)
		return
	}

	var params limitQueryParams
	if err := c.BindQuery(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	candidates, err := s.mongoStore.ListCandidateEvents(student.ID)
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	difficulties, err := s.mongoStore.GetHistoryDifficulties(student)
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	recommendations := score.Recommend(student, candidates, difficulties, params.limitOrDefault())
	c.JSON(http.StatusOK, gin.H{"events": recommendations})
}

// getTrendingEvents returns the public trending feed. No auth required.
func (s *Server) getTrendingEvents(c *gin.Context) {
	var params limitQueryParams
	if err := c.BindQuery(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	events, err := s.mongoStore.ListTrendingEvents(int64(params.limitOrDefault()))
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// trackEventView records a view against the event counters and the student's
// history. Fire and forget from the client's point of view.
func (s *Server) trackEventView(c *gin.Context) {
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

	if err := s.mongoStore.TrackEventView(eventID, student.ID); err != nil {
		if err == store.ErrEventNotFound {
			abortWithEncoding(c, http.StatusNotFound, errorUnknownEvent)
			return
		}
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "OK"})
}
