package main

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"quoteme/api"
	"quoteme/common"
	"quoteme/config"
	"quoteme/dedup"
	"quoteme/export"
	"quoteme/nuggets"
	"quoteme/oauth"
	"quoteme/pages"
	"quoteme/storage"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	if lvl, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}

	cfg := config.Load()
	ctx := context.Background()

	store, err := storage.New(ctx, storage.Config{
		Region:             cfg.AWSRegion,
		Profile:            cfg.AWSProfile,
		QuotesTable:        cfg.QuotesTable,
		TagsTable:          cfg.TagsTable,
		SubscriptionsTable: cfg.SubscriptionsTable,
	})
	if err != nil {
		log.Fatal("failed to initialize storage", "err", err)
	}

	detector := dedup.NewDetector(dedup.SourceFunc(func(context.Context) dedup.Scanner {
		return store.ScanQuotes()
	}))

	// Optional integrations below degrade to disabled endpoints when their
	// backing service is unreachable.
	var exporter *export.Exporter
	if s3c, err := common.NewS3(ctx, common.S3Config{Region: cfg.AWSRegion, Profile: cfg.AWSProfile}); err != nil {
		log.Warn("S3 unavailable, exports disabled", "err", err)
	} else {
		exporter = export.New(store, s3c, cfg.ExportBucket)
	}

	flags, err := storage.NewFlagStore(storage.FlagConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      config.OAuthFlagTTL,
	})
	if err != nil {
		log.Warn("Redis unavailable, OAuth success flags disabled", "err", err)
		flags = nil
	}

	var mailer api.Mailer
	m, err := nuggets.NewMailer(ctx, nuggets.MailerConfig{
		Region:    cfg.AWSRegion,
		Profile:   cfg.AWSProfile,
		Sender:    cfg.SenderEmail,
		WebAppURL: cfg.WebAppURL,
		AppScheme: cfg.AppScheme,
	})
	if err != nil {
		log.Warn("SES unavailable, email delivery disabled", "err", err)
	} else {
		mailer = m
	}

	var pusher api.Pusher
	if cfg.FCMServiceAccountJSON != "" {
		p, err := nuggets.NewPusher(ctx, cfg.FCMServiceAccountJSON)
		if err != nil {
			log.Warn("FCM unavailable, push notifications disabled", "err", err)
		} else {
			pusher = p
		}
	}

	// Hourly nugget delivery; each tick delivers to subscribers whose local
	// preferred hour matches.
	if m != nil {
		deliverer := nuggets.NewDeliverer(store, m)
		c := cron.New()
		if _, err := c.AddFunc("0 * * * *", func() {
			hour := time.Now().UTC().Hour()
			sent, failed, err := deliverer.DeliverHour(context.Background(), hour)
			if err != nil {
				log.Error("nugget delivery failed", "hour_utc", hour, "err", err)
				return
			}
			log.Info("nugget delivery complete", "hour_utc", hour, "sent", sent, "failed", failed)
		}); err != nil {
			log.Error("failed to schedule nugget delivery", "err", err)
		} else {
			c.Start()
			defer c.Stop()
		}
	}

	srv := api.NewServer(api.Deps{
		Store:    store,
		Detector: detector,
		Exporter: exporter,
		Flags:    flags,
		Mailer:   mailer,
		Pusher:   pusher,
		OAuth: oauth.Config{
			Domain:      cfg.CognitoDomain,
			ClientID:    cfg.ClientID,
			RedirectURI: cfg.RedirectURI,
		},
		Pages: pages.NewRenderer(cfg.WebAppURL, cfg.AppScheme),
		Cfg:   cfg,
	})

	log.Info("starting API server", "port", cfg.Port)
	if err := srv.Router().Run(":" + cfg.Port); err != nil {
		log.Fatal("server error", "err", err)
	}
}
