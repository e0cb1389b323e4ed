package api

import (
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	errorInternalServer    = errorResponse{1000, "internal server error"}
	errorInvalidParameters = errorResponse{1001, "invalid parameters"}
	errorInvalidToken      = errorResponse{1002, "invalid authorization token"}
	errorUnknownEvent      = errorResponse{2001, "event not found"}
	errorUnknownStudent    = errorResponse{2002, "student not found"}
	errorInvalidRating     = errorResponse{2003, "rating must be between 1 and 5"}
	errorInvalidInterest   = errorResponse{2004, "unknown interest category"}
	errorEventNotPermitted = errorResponse{2005, "operation not permitted on this event"}
)

func abortWithEncoding(c *gin.Context, code int, resp errorResponse, errors ...error) {
	for _, err := range errors {
		c.Error(err)
	}
	c.AbortWithStatusJSON(code, gin.H{"error": resp})
}
