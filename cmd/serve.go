package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/amanah-labs/halal-screener/internal/model"
	"github.com/amanah-labs/halal-screener/internal/screening"
	"github.com/amanah-labs/halal-screener/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the screening HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(e),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func newRouter(e *env) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-User-ID"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/screenings/recent", handleRecent(e))
		r.Get("/screenings/{coinID}", handleScreen(e))
		r.Post("/screenings/{id}/review", handleReview(e))
		r.Get("/stats", handleStats(e))
	})

	return r
}

// screeningResponse decorates a record with display fields.
type screeningResponse struct {
	*model.ScreeningRecord
	RatingEmoji string `json:"rating_emoji"`
	RatingColor string `json:"rating_color"`
}

func handleScreen(e *env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coinID := chi.URLParam(r, "coinID")
		subject := r.Header.Get("X-User-ID")

		f, err := screening.LookupFacts(r.Context(), e.Provider, coinID)
		if err != nil {
			writeError(w, err)
			return
		}

		rec, err := e.Engine.Screen(r.Context(), screening.ScreenRequest{
			Facts:   f,
			Subject: subject,
			Sources: e.Provider.Sources(),
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, screeningResponse{
			ScreeningRecord: rec,
			RatingEmoji:     ratingEmoji(rec.Outcome.OverallRating),
			RatingColor:     ratingColor(rec.Outcome.OverallRating),
		})
	}
}

func handleRecent(e *env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 10
		if q := r.URL.Query().Get("limit"); q != "" {
			if _, err := fmt.Sscanf(q, "%d", &limit); err != nil || limit < 1 {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
				return
			}
		}
		userOnly := r.URL.Query().Get("user_only") == "true"

		recs, err := e.Store.ListRecent(r.Context(), limit, userOnly)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"screenings": recs})
	}
}

func handleStats(e *env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userOnly := r.URL.Query().Get("user_only") == "true"

		stats, err := e.Store.CountByRating(r.Context(), userOnly)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func handleReview(e *env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req struct {
			Notes string `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Notes == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "notes is required"})
			return
		}

		if err := e.Store.AppendReviewNotes(r.Context(), id, req.Notes); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps engine error kinds to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case eris.Is(err, screening.ErrNotFound), eris.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case eris.Is(err, screening.ErrInvalidFacts):
		status = http.StatusBadRequest
	case eris.Is(err, screening.ErrEntitlementDenied):
		status = http.StatusTooManyRequests
	case eris.Is(err, screening.ErrDataUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		zap.L().Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": eris.Cause(err).Error()})
}
