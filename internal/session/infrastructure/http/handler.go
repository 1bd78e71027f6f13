package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/shopdesk/shopdesk/internal/database"
)

// Handler exposes session control: reading and switching the isolation level,
// and the non-repeatable-read demonstration. The demonstration needs a second
// session so its write commits independently of the primary's transaction.
type Handler struct {
	log    *slog.Logger
	conn   *database.Conn
	writer *database.Conn
	tracer trace.Tracer
}

func NewHandler(log *slog.Logger, conn, writer *database.Conn) *Handler {
	return &Handler{
		log:    log,
		conn:   conn,
		writer: writer,
		tracer: otel.Tracer("session-http"),
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/isolation", h.currentLevel)
	r.Put("/isolation", h.setLevel)
	r.Post("/demo/non-repeatable-read", h.readDemo)
}

func (h *Handler) currentLevel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]database.Level{
		"level": h.conn.Isolation().CurrentLevel(),
	})
}

func (h *Handler) setLevel(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SetIsolationLevel")
	defer span.End()

	var req struct {
		Level string `json:"level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.conn.Isolation().SetLevel(ctx, database.Level(req.Level)); err != nil {
		if errors.Is(err, database.ErrInvalidIsolationLevel) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.log.Error("set isolation level failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.log.Info("isolation level changed", "level", req.Level)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) readDemo(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "NonRepeatableReadDemo")
	defer span.End()

	var req struct {
		ProductID int64  `json:"product_id"`
		Level     string `json:"level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	report, err := database.RunReadDemo(ctx, h.conn, h.writer, req.ProductID, database.Level(req.Level))
	if err != nil {
		if errors.Is(err, database.ErrInvalidIsolationLevel) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.log.Error("read demo failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
