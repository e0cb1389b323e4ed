package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campuslink/events-api/schema"
	"github.com/campuslink/events-api/store"
)

const userTypeCollege = "college"

// createEvent is the API for a college to publish a new event. Public events
// trigger a best-effort mail announcement to students.
func (s *Server) createEvent(c *gin.Context) {
	collegeID, err := primitive.ObjectIDFromHex(c.GetString("requester"))
	if err != nil {
		abortWithEncoding(c, http.StatusUnauthorized, errorInvalidToken, err)
		return
	}

	var params struct {
		Name             string                 `json:"name" binding:"required"`
		Description      string                 `json:"description" binding:"required"`
		Date             time.Time              `json:"date" binding:"required"`
		Time             string                 `json:"time"`
		Location         string                 `json:"location"`
		Category         string                 `json:"category" binding:"required"`
		RegistrationLink string                 `json:"registration_link"`
		IsPublic         bool                   `json:"is_public"`
		InvitedStudents  []string               `json:"invited_students"`
		Tags             []string               `json:"tags"`
		Difficulty       schema.EventDifficulty `json:"difficulty"`
	}

	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	invited := make([]primitive.ObjectID, 0, len(params.InvitedStudents))
	for _, id := range params.InvitedStudents {
		studentID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
			return
		}
		invited = append(invited, studentID)
	}

	event, err := s.mongoStore.CreateEvent(schema.Event{
		EventID:          uuid.New().String(),
		Name:             params.Name,
		Description:      params.Description,
		Date:             params.Date,
		Time:             params.Time,
		Location:         params.Location,
		Category:         params.Category,
		College:          collegeID,
		RegistrationLink: params.RegistrationLink,
		IsPublic:         params.IsPublic,
		InvitedStudents:  invited,
		Tags:             params.Tags,
		Difficulty:       params.Difficulty,
	})
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	if event.IsPublic && s.notifier != nil {
		recipients, err := s.mongoStore.ListStudentEmails()
		if err != nil {
			log.WithFields(log.Fields{
				"prefix": "api",
				"event":  event.Name,
				"error":  err,
			}).Warn("collect announcement recipients fail")
		} else if err := s.notifier.AnnounceEvent(event, recipients); err != nil {
			log.WithFields(log.Fields{
				"prefix": "api",
				"event":  event.Name,
				"error":  err,
			}).Warn("announce event fail")
		}
	}

	c.JSON(http.StatusCreated, gin.H{"event": event})
}

// listEvents returns all events for colleges, and public plus invited events
// for students.
func (s *Server) listEvents(c *gin.Context) {
	var events []schema.Event
	var err error

	if c.GetString("userType") == userTypeCollege {
		events, err = s.mongoStore.ListEvents()
	} else {
		var studentID primitive.ObjectID
		studentID, err = primitive.ObjectIDFromHex(c.GetString("requester"))
		if err != nil {
			abortWithEncoding(c, http.StatusUnauthorized, errorInvalidToken, err)
			return
		}
		events, err = s.mongoStore.ListVisibleEvents(studentID)
	}
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (s *Server) getEvent(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("eventID"))
	if err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	event, err := s.mongoStore.GetEvent(eventID)
	if err != nil {
		if err == store.ErrEventNotFound {
			abortWithEncoding(c, http.StatusNotFound, errorUnknownEvent)
			return
		}
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	// college details are optional; the event still renders without them
	college, err := s.mongoStore.GetCollege(event.College)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix":   "api",
			"event ID": eventID.Hex(),
			"error":    err,
		}).Warn("resolve event college fail")
		college = nil
	}

	c.JSON(http.StatusOK, gin.H{"event": event, "college": college})
}

// updateEvent is the API for a college to edit the descriptive fields of an
// event it published.
func (s *Server) updateEvent(c *gin.Context) {
	if c.GetString("userType") != userTypeCollege {
		abortWithEncoding(c, http.StatusForbidden, errorEventNotPermitted)
		return
	}

	eventID, err := primitive.ObjectIDFromHex(c.Param("eventID"))
	if err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	var params struct {
		Name        string    `json:"name" binding:"required"`
		Description string    `json:"description" binding:"required"`
		Date        time.Time `json:"date" binding:"required"`
		Time        string    `json:"time"`
		Location    string    `json:"location"`
		Category    string    `json:"category" binding:"required"`
	}
	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	event, err := s.mongoStore.UpdateEvent(eventID, store.EventUpdate{
		Name:        params.Name,
		Description: params.Description,
		Date:        params.Date,
		Time:        params.Time,
		Location:    params.Location,
		Category:    params.Category,
	})
	if err != nil {
		if err == store.ErrEventNotFound {
			abortWithEncoding(c, http.StatusNotFound, errorUnknownEvent)
			return
		}
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

func (s *Server) deleteEvent(c *gin.Context) {
	if c.GetString("userType") != userTypeCollege {
		abortWithEncoding(c, http.StatusForbidden, errorEventNotPermitted)
		return
	}

	eventID, err := primitive.ObjectIDFromHex(c.Param("eventID"))
	if err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	if err := s.mongoStore.DeleteEvent(eventID); err != nil {
		if err == store.ErrEventNotFound {
			abortWithEncoding(c, http.StatusNotFound, errorUnknownEvent)
			return
		}
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "OK"})
}

// registerEvent adds the requesting student to an event's participant set.
func (s *Server) registerEvent(c *gin.Context) {
	student, ok := c.MustGet("student").(*schema.Student)
	if !ok {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer)
		return
	}

	var params struct {
		EventID string `json:"event_id" binding:"required"`
	}
	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	eventID, err := primitive.ObjectIDFromHex(params.EventID)
	if err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	if err := s.mongoStore.RegisterStudent(eventID, student.ID); err != nil {
		if err == store.ErrEventNotFound {
			abortWithEncoding(c, http.StatusNotFound, errorUnknownEvent)
			return
		}
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "OK"})
}
