package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Dysaca22/round-table/internal/engine"
	debatehandler "github.com/Dysaca22/round-table/internal/handler/debate"
	"github.com/Dysaca22/round-table/internal/handler/live"
	"github.com/Dysaca22/round-table/internal/handler/participant"
	settingshandler "github.com/Dysaca22/round-table/internal/handler/settings"
	"github.com/Dysaca22/round-table/internal/handler/stream"
	appmw "github.com/Dysaca22/round-table/internal/middleware"
	"github.com/Dysaca22/round-table/internal/service/ai"
	"github.com/Dysaca22/round-table/internal/store"
	"github.com/Dysaca22/round-table/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(eng *engine.Engine, settings store.SettingsStore, gateway ai.Gateway, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(appmw.Metrics)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmw.Logger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	participantHandler := participant.New(settings, eng)
	settingsHandler := settingshandler.New(settings, gateway, eng)
	debateHandler := debatehandler.New(eng, settings)
	streamHandler := stream.New(eng, logger)
	wsHandler := live.NewWebSocketHandler(eng, logger)

	r.Route("/api", func(api chi.Router) {
		participantHandler.RegisterRoutes(api)
		settingsHandler.RegisterRoutes(api)
		debateHandler.RegisterRoutes(api)
		streamHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)
	})

	return r
}
