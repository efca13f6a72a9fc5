package in

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	interruptionin "focusfarm/internal/modules/interruption/port/in"
	timerdto "focusfarm/internal/modules/timer/dto"
	timerin "focusfarm/internal/modules/timer/port/in"
)

// HTTPHandler is the local control API for a running timer.
type HTTPHandler struct {
	usecase timerin.Usecase
	input   interruptionin.InputSink
	metrics http.Handler
	logger  zerolog.Logger
}

// NewHTTPHandler accepts a nil input sink or metrics handler; the matching
// routes are then not registered.
func NewHTTPHandler(usecase timerin.Usecase, input interruptionin.InputSink, metrics http.Handler, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{usecase: usecase, input: input, metrics: metrics, logger: logger.With().Str("component", "http").Logger()}
}

func (h *HTTPHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(h.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if h.metrics != nil {
		r.Handle("/metrics", h.metrics)
	}
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.getState)
		r.Post("/timer/{action}", h.postTimer)
		r.Post("/focus", h.postFocus)
		if h.input != nil {
			r.Post("/touch", h.postTouch)
		}
	})
	return r
}

func (h *HTTPHandler) getState(w http.ResponseWriter, r *http.Request) {
	st, err := h.usecase.Current(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *HTTPHandler) postTimer(w http.ResponseWriter, r *http.Request) {
	var action func(context.Context) (timerdto.StateOutput, error)
	switch chi.URLParam(r, "action") {
	case "start":
		action = h.usecase.Start
	case "stop":
		action = h.usecase.Stop
	case "pause":
		action = h.usecase.Pause
	case "resume":
		action = h.usecase.Resume
	case "reset":
		action = h.usecase.Reset
	default:
		writeError(w, http.StatusNotFound, "unknown timer action")
		return
	}
	st, err := action(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type focusRequest struct {
	Visible *bool `json:"visible"`
}

func (h *HTTPHandler) postFocus(w http.ResponseWriter, r *http.Request) {
	var req focusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Visible == nil {
		writeError(w, http.StatusBadRequest, `body must be {"visible": true|false}`)
		return
	}
	h.usecase.SetFocusVisible(*req.Visible)
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) postTouch(w http.ResponseWriter, _ *http.Request) {
	h.input.Touch(time.Time{})
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("request_id", chiMiddleware.GetReqID(r.Context())).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
