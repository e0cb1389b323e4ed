package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/events-api/schema"
)

// listInterestCategories returns the fixed category list students can pick
// interests from.
func (s *Server) listInterestCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": schema.InterestCategories})
}

func (s *Server) getStudentInterests(c *gin.Context) {
	student, ok := c.MustGet("student").(*schema.Student)
	if !ok {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer)
		return
	}

	interests := student.Interests
	if interests == nil {
		interests = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"interests": interests})
}

// updateStudentInterests replaces the student's interest set. Every value
// must come from the enumerated category list.
func (s *Server) updateStudentInterests(c *gin.Context) {
	student, ok := c.MustGet("student").(*schema.Student)
	if !ok {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer)
		return
	}

	var params struct {
		Interests []string `json:"interests"`
	}
	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	for _, interest := range params.Interests {
		if !schema.IsValidInterest(interest) {
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidInterest, fmt.Errorf("unknown interest: %s", interest))
			return
		}
	}

	interests, err := s.mongoStore.UpdateStudentInterests(student.ID, params.Interests)
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"interests": interests})
}
