package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/campuslink/events-api/notification"
	"github.com/campuslink/events-api/store"
)

// Server serves the HTTP API of the events service.
type Server struct {
	mongoStore store.MongoStore
	notifier   *notification.Notifier
	jwtSecret  []byte
	corsOrigin string
	traceMode  bool
}

func NewServer(mongoStore store.MongoStore, notifier *notification.Notifier, jwtSecret []byte, corsOrigin string, traceMode bool) *Server {
	return &Server{
		mongoStore: mongoStore,
		notifier:   notifier,
		jwtSecret:  jwtSecret,
		corsOrigin: corsOrigin,
		traceMode:  traceMode,
	}
}

// Run starts the API server on the given address.
func (s *Server) Run(addr string) error {
	router := s.setupRouter()

	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.DumpRequest)
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{s.corsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	apiRoute := r.Group("/api")

	// endpoints open to anyone
	apiRoute.GET("/events/trending", s.getTrendingEvents)
	apiRoute.GET("/events/:eventID", s.getEvent)
	apiRoute.GET("/events/:eventID/ratings", s.getEventRatings)
	apiRoute.GET("/interests/categories", s.listInterestCategories)

	// endpoints for any authenticated caller
	authRoute := apiRoute.Group("")
	authRoute.Use(s.authenticate)
	authRoute.POST("/events", s.createEvent)
	authRoute.GET("/events", s.listEvents)
	authRoute.PUT("/events/:eventID", s.updateEvent)
	authRoute.DELETE("/events/:eventID", s.deleteEvent)

	// endpoints acting on the requesting student's profile
	studentRoute := authRoute.Group("")
	studentRoute.Use(s.recognizeStudent)
	studentRoute.GET("/student/recommendations", s.getRecommendations)
	studentRoute.POST("/student/register-event", s.registerEvent)
	studentRoute.GET("/student/interests", s.getStudentInterests)
	studentRoute.PUT("/student/interests", s.updateStudentInterests)
	studentRoute.POST("/events/:eventID/rate", s.rateEvent)
	studentRoute.POST("/events/:eventID/view", s.trackEventView)

	return r
}
