package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/pitchside/academy-api/internal/api/v1"
	"github.com/pitchside/academy-api/internal/cache"
	"github.com/pitchside/academy-api/internal/config"
	"github.com/pitchside/academy-api/internal/firebase"
	"github.com/pitchside/academy-api/internal/server"
	"github.com/pitchside/academy-api/internal/store"
	"github.com/pitchside/academy-api/internal/utils"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	st, err := store.NewGormStore(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer st.Close()

	var queryCache cache.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		queryCache = cache.NewRedis(rdb, "")
		log.Printf("query cache: redis at %s", cfg.RedisAddr)
	} else {
		queryCache = cache.NewMemory()
		log.Printf("query cache: in-process")
	}

	var blob utils.BlobStorage
	if cfg.R2Endpoint != "" {
		blob = utils.NewR2Storage(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, cfg.R2Endpoint, cfg.R2BucketName)
		log.Printf("uploads: R2 bucket %s", cfg.R2BucketName)
	} else {
		blob = utils.NewFileStorage(cfg.UploadDir)
		log.Printf("uploads: local dir %s", cfg.UploadDir)
	}

	fb := firebase.NewClient(cfg.FirebaseAPIKey, cfg.FirebaseBaseURL)
	if !fb.Enabled() {
		log.Printf("firebase: no API key, firebase sign-in disabled")
	}

	h := v1.NewHandler(st, cfg, fb, queryCache, blob)
	srv := server.New(cfg, h)

	go func() {
		log.Printf("listening on %s", cfg.BindAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Printf("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
