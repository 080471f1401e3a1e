package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"heirfinder/internal/enrichment/attempts"
	"heirfinder/internal/enrichment/models"
	dErrors "heirfinder/pkg/domain-errors"
	"heirfinder/pkg/platform/httputil"
	"heirfinder/pkg/platform/sentinel"
	"heirfinder/pkg/requestcontext"
)

// Enricher runs the contact waterfall.
type Enricher interface {
	Enrich(ctx context.Context, requesterID string, req models.EnrichmentRequest) (models.EnrichmentResult, error)
}

// AttemptReader reads back a requester's attempt history.
type AttemptReader interface {
	ListByRequester(ctx context.Context, requesterID string, limit int) ([]models.AttemptRecord, error)
}

type Handler struct {
	enricher Enricher
	attempts AttemptReader
	logger   *slog.Logger
}

func New(enricher Enricher, attempts AttemptReader, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{enricher: enricher, attempts: attempts, logger: logger}
}

// Register mounts the enrichment routes. Authentication is applied by the caller.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/enrichment/contact", h.handleEnrichContact)
	r.Get("/v1/enrichment/attempts", h.handleListAttempts)
}

func (h *Handler) handleEnrichContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	requesterID, ok := h.requester(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[EnrichContactRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.enricher.Enrich(ctx, requesterID, req.ToModel())
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidRequest) {
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "enrichment failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "enrichment failed"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleListAttempts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	requesterID, ok := h.requester(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
			return
		}
		limit = n
	}

	records, err := h.attempts.ListByRequester(ctx, requesterID, attempts.ClampLimit(limit))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list attempt records",
			"request_id", requestID,
			"error", err,
		)
		if errors.Is(err, sentinel.ErrUnavailable) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "attempt history unavailable"))
			return
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to list attempts"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toListResponse(records))
}

func (h *Handler) requester(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctx := r.Context()
	requesterID := requestcontext.RequesterID(ctx)
	if requesterID == "" {
		h.logger.ErrorContext(ctx, "requester missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return "", false
	}
	return requesterID, true
}
