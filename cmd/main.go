package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/voice_bridge/internal/assets"
	"github.com/Vovarama1992/voice_bridge/internal/delivery"
	"github.com/Vovarama1992/voice_bridge/internal/jobs"
	"github.com/Vovarama1992/voice_bridge/internal/notify"
	"github.com/Vovarama1992/voice_bridge/internal/pipeline"
	"github.com/Vovarama1992/voice_bridge/internal/ports"
	"github.com/Vovarama1992/voice_bridge/internal/speech"
	"github.com/Vovarama1992/voice_bridge/internal/translate"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {

	// =========================================================================
	// ENV INIT
	// =========================================================================

	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Fatal("OPENAI_API_KEY is not set")
	}

	sourceLanguage := os.Getenv("SOURCE_LANGUAGE")
	if sourceLanguage == "" {
		sourceLanguage = "ar"
	}

	stageTimeout := envDuration("STAGE_TIMEOUT_SECONDS", 120) * time.Second
	sweepInterval := envDuration("SWEEP_INTERVAL_MINUTES", 60) * time.Minute
	fileMaxAge := envDuration("FILE_MAX_AGE_HOURS", 24) * time.Hour

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	// =========================================================================
	// STORAGE
	// =========================================================================

	normalizer := assets.NewFFmpegNormalizer()

	var assetStore ports.AssetStore
	switch os.Getenv("STORAGE_BACKEND") {
	case "s3":
		s3Store, err := assets.NewS3Store(normalizer)
		if err != nil {
			log.Fatalf("failed to init s3 storage: %v", err)
		}
		assetStore = s3Store
	default:
		dataDir := os.Getenv("DATA_DIR")
		if dataDir == "" {
			dataDir = "data"
		}
		localStore, err := assets.NewLocalStore(dataDir, normalizer)
		if err != nil {
			log.Fatalf("failed to init local storage: %v", err)
		}
		assetStore = localStore
	}

	// =========================================================================
	// CLIENTS (STT / TRANSLATE / TTS)
	// =========================================================================

	sttClient := speech.NewWhisperClient()
	translator := translate.NewOpenAIClient()

	var ttsClient ports.TTSClient
	switch os.Getenv("TTS_PROVIDER") {
	case "elevenlabs":
		ttsClient = speech.NewElevenLabsClient()
	default:
		ttsClient = speech.NewOpenAITTSClient()
	}

	// =========================================================================
	// NOTIFICATION
	// =========================================================================

	var notifier ports.Notifier
	if tg := notify.NewTelegramNotifier(); tg != nil {
		notifier = tg
	}

	// =========================================================================
	// CORE SERVICES
	// =========================================================================

	jobStore := jobs.NewStore()

	pipelineService := pipeline.NewService(
		jobStore,
		assetStore,
		sttClient,
		translator,
		ttsClient,
		notifier,
		stageTimeout,
		sourceLanguage,
	)

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	audioHandler := delivery.NewAudioHandler(jobStore, assetStore, pipelineService, zl)
	delivery.RegisterRoutes(r, audioHandler)

	// =========================================================================
	// BACKGROUND JOBS
	// =========================================================================

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			removed, err := assetStore.Sweep(ctx, fileMaxAge)
			cancel()
			if err != nil {
				log.Printf("[sweep] error: %v", err)
			} else {
				log.Printf("[sweep] removed %d stale assets", removed)
			}
		}
	}()

	// =========================================================================
	// START SERVER
	// =========================================================================

	addr := ":" + port
	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + addr,
		Service: "voice_bridge",
	})

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func envDuration(name string, def int) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return time.Duration(def)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("invalid %s=%q, using %d", name, raw, def)
		return time.Duration(def)
	}
	return time.Duration(n)
}
