package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campuslink/events-api/store"
)

// authenticate verifies the bearer token and sets the requester identity on
// the context. Token issuance happens in the identity service; this API only
// verifies.
func (s *Server) authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		abortWithEncoding(c, http.StatusUnauthorized, errorInvalidToken)
		return
	}

	token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		abortWithEncoding(c, http.StatusUnauthorized, errorInvalidToken, err)
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		abortWithEncoding(c, http.StatusUnauthorized, errorInvalidToken)
		return
	}
	requester, ok := claims["id"].(string)
	if !ok || requester == "" {
		abortWithEncoding(c, http.StatusUnauthorized, errorInvalidToken)
		return
	}

	c.Set("requester", requester)
	if userType, ok := claims["userType"].(string); ok {
		c.Set("userType", userType)
	}
	c.Next()
}

// recognizeStudent resolves the requester into a student document and
// attaches it to the context.
func (s *Server) recognizeStudent(c *gin.Context) {
	studentID, err := primitive.ObjectIDFromHex(c.GetString("requester"))
	if err != nil {
		abortWithEncoding(c, http.StatusUnauthorized, errorInvalidToken, err)
		return
	}

	student, err := s.mongoStore.GetStudent(studentID)
	if err != nil {
		if err == store.ErrStudentNotFound {
			abortWithEncoding(c, http.StatusNotFound, errorUnknownStudent)
			return
		}
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.Set("student", student)
	c.Next()
}
