package main

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campuslink/events-api/api"
	"github.com/campuslink/events-api/config"
	"github.com/campuslink/events-api/external/sendgrid"
	"github.com/campuslink/events-api/notification"
	"github.com/campuslink/events-api/schema"
	"github.com/campuslink/events-api/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load configuration")
	}

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoConnURI))
	if err != nil {
		log.WithError(err).Fatal("connect mongo database")
	}

	if err := schema.NewMongoDBIndexer(cfg.MongoConnURI, cfg.MongoDatabase).IndexAll(); err != nil {
		log.WithError(err).Fatal("build mongo indexes")
	}

	mongoStore := store.NewMongoStore(client, cfg.MongoDatabase)
	defer mongoStore.Close()

	if err := mongoStore.Ping(); err != nil {
		log.WithError(err).Fatal("ping mongo database")
	}

	var notifier *notification.Notifier
	if cfg.SendGridAPIKey != "" {
		notifier = notification.NewNotifier(sendgrid.New(cfg.SendGridAPIKey, cfg.SendGridSender))
	}

	server := api.NewServer(mongoStore, notifier, []byte(cfg.JWTSecret), cfg.CORSOrigin, cfg.TraceMode)

	log.WithField("addr", cfg.Addr).Info("starting events api server")
	if err := server.Run(cfg.Addr); err != nil {
		log.WithError(err).Fatal("api server stopped")
	}
}
