package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tuttoai/agenda-ai-platform/internal/agent"
	"github.com/tuttoai/agenda-ai-platform/internal/api"
	"github.com/tuttoai/agenda-ai-platform/internal/calendar"
	"github.com/tuttoai/agenda-ai-platform/internal/config"
	"github.com/tuttoai/agenda-ai-platform/internal/docstore"
	"github.com/tuttoai/agenda-ai-platform/internal/llm"
	"github.com/tuttoai/agenda-ai-platform/internal/observability/metrics"
	"github.com/tuttoai/agenda-ai-platform/internal/redislock"
	"github.com/tuttoai/agenda-ai-platform/internal/schedule"
	"github.com/tuttoai/agenda-ai-platform/internal/scheduler"
	"github.com/tuttoai/agenda-ai-platform/pkg/logging"
)

const version = "0.1.0"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting agenda-ai-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()
	loc := cfg.Location()

	// Document store: MongoDB when configured, in-memory otherwise.
	var store docstore.Store
	if cfg.MongoURI != "" {
		mongo, err := docstore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			logger.Error("mongodb connection failed", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := mongo.Close(context.Background()); err != nil {
				logger.Warn("mongodb close failed", "error", err)
			}
		}()
		store = mongo
		logger.Info("document store ready", "backend", "mongodb", "database", cfg.MongoDatabase)
	} else {
		store = docstore.NewMemoryStore()
		logger.Warn("MONGODB_URI not set, using in-memory document store")
	}

	// Redis backs the booking lock and the conversation history.
	var (
		locker  redislock.Locker = redislock.NoopLocker{}
		history agent.History    = agent.NewMemoryHistory()
	)
	if cfg.RedisAddr != "" {
		rdb, err := redislock.NewClient(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		locker = redislock.NewLocker(rdb, cfg.BookingLockTTL)
		history = agent.NewRedisHistory(rdb, cfg.HistoryTTL)
		logger.Info("redis ready", "addr", cfg.RedisAddr)
	} else {
		logger.Warn("REDIS_ADDR not set, booking lock and history are in-process only")
	}

	// Calendar backend: Google when credentials are present, in-memory
	// otherwise.
	var cal calendar.Client
	if cfg.GoogleCalendarCredsFile != "" {
		gcal, err := calendar.NewGoogleClient(ctx, cfg.GoogleCalendarCredsFile, loc)
		if err != nil {
			logger.Error("google calendar setup failed", "error", err)
			os.Exit(1)
		}
		cal = gcal
		logger.Info("calendar ready", "backend", "google", "calendar_id", cfg.CalendarID)
	} else {
		cal = calendar.NewMemoryClient()
		logger.Warn("GOOGLE_CALENDAR_CREDENTIALS not set, using in-memory calendar")
	}

	registerCalendar(ctx, store, cal, cfg.CalendarID, loc, logger)

	llmClient := llm.New(ctx, cfg, logger)

	sched := scheduler.NewService(scheduler.Params{
		Calendar:        cal,
		Checker:         schedule.NewChecker(cal, schedule.DefaultWeek(), logger.Named("schedule")),
		Catalog:         schedule.DefaultCatalog(),
		Locker:          locker,
		Store:           store,
		Logger:          logger.Named("scheduler"),
		CalendarID:      cfg.CalendarID,
		Location:        loc,
		DefaultDuration: cfg.DefaultDuration,
	})

	agentMetrics := metrics.NewAgentMetrics(nil)
	assistant := agent.New(agent.Params{
		LLM:       llmClient,
		Scheduler: sched,
		History:   history,
		Store:     store,
		Metrics:   agentMetrics,
		Logger:    logger.Named("agent"),
		Location:  loc,
	})

	router := api.New(api.Config{
		Logger:         logger,
		Agent:          assistant,
		Scheduler:      sched,
		Calendar:       cal,
		Location:       loc,
		MetricsHandler: promhttp.Handler(),
		Version:        version,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// registerCalendar upserts the active calendar into the calendars
// collection so operators can see which agenda the instance books on.
func registerCalendar(ctx context.Context, store docstore.Store, cal calendar.Client, calendarID string, loc *time.Location, logger *logging.Logger) {
	summary := ""
	if infos, err := cal.Calendars(ctx); err == nil {
		for _, info := range infos {
			if info.ID == calendarID || (info.Primary && calendarID == "primary") {
				summary = info.Summary
				break
			}
		}
	} else {
		logger.Warn("calendar list failed", "error", err)
	}

	filter := docstore.Filter{"calendar_id": calendarID}
	update := docstore.Update{
		"calendar_id": calendarID,
		"summary":     summary,
		"timezone":    loc.String(),
		"updated_at":  time.Now(),
	}
	n, err := store.UpdateOne(ctx, docstore.CollectionCalendars, filter, update)
	if err == nil && n == 0 {
		_, err = store.InsertOne(ctx, docstore.CollectionCalendars, docstore.Document(update))
	}
	if err != nil {
		logger.Warn("calendar registration failed", "calendar_id", calendarID, "error", err)
	}
}
