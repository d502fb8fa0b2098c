package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/elicit/internal/catalog"
	"github.com/sells-group/elicit/internal/config"
	"github.com/sells-group/elicit/internal/engine"
	"github.com/sells-group/elicit/internal/extract"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for elicitation turns",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEngine(ctx, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           buildRouter(env.Engine, env.Store, cfg.Server),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

type detectRequest struct {
	Query string `json:"query"`
}

type categorySummary struct {
	Name       string   `json:"name"`
	Aliases    []string `json:"aliases,omitempty"`
	Attributes int      `json:"attributes"`
}

// buildRouter wires the API routes and middleware. Split out of serveCmd so
// tests can drive it with httptest.
func buildRouter(eng *engine.Engine, store catalog.Store, srvCfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: srvCfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(rateLimit(srvCfg.RateLimitRPS, srvCfg.RateLimitBurst))

		r.Post("/turn", func(w http.ResponseWriter, r *http.Request) {
			var req engine.Request
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			if req.Category == "" {
				writeError(w, http.StatusBadRequest, "category is required")
				return
			}

			resp, err := eng.Turn(r.Context(), req)
			if err != nil {
				writeEngineError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, resp)
		})

		r.Get("/opening", func(w http.ResponseWriter, r *http.Request) {
			op, err := eng.Opening(r.Context(), r.URL.Query().Get("locale"))
			if err != nil {
				writeEngineError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, op)
		})

		r.Get("/categories", func(w http.ResponseWriter, r *http.Request) {
			cats, err := store.List(r.Context())
			if err != nil {
				writeEngineError(w, r, err)
				return
			}
			out := make([]categorySummary, 0, len(cats))
			for _, c := range cats {
				out = append(out, categorySummary{
					Name:       c.Name,
					Aliases:    c.Aliases,
					Attributes: len(c.Attributes),
				})
			}
			writeJSON(w, http.StatusOK, out)
		})

		r.Get("/categories/{name}", func(w http.ResponseWriter, r *http.Request) {
			cat, err := store.Get(r.Context(), chi.URLParam(r, "name"))
			if err != nil {
				writeEngineError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, cat)
		})

		r.Post("/detect", func(w http.ResponseWriter, r *http.Request) {
			var req detectRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
				writeError(w, http.StatusBadRequest, "query is required")
				return
			}
			cat, err := catalog.DetectIn(r.Context(), store, req.Query)
			if err != nil {
				writeEngineError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"category": cat.Name})
		})
	})

	return r
}

// writeEngineError maps engine and catalog errors onto HTTP status codes.
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrCategoryNotFound):
		writeError(w, http.StatusNotFound, "category not found")
	case errors.Is(err, engine.ErrUnsupportedLocale):
		writeError(w, http.StatusBadRequest, "unsupported locale")
	case errors.Is(err, extract.ErrAttributeIDsRequired):
		writeError(w, http.StatusBadRequest, "asked_attribute_ids must match answers")
	default:
		zap.L().Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", w.Header().Get(requestIDHeader)),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode response", zap.Error(err))
	}
}
