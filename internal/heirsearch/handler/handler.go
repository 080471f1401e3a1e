package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"heirfinder/internal/enrichment/models"
	"heirfinder/pkg/platform/httputil"
	"heirfinder/pkg/requestcontext"
)

// Searcher runs a bulk heir search. Failures come back inside the envelope.
type Searcher interface {
	Search(ctx context.Context, req models.BulkSearchRequest) models.BulkSearchResult
}

type Handler struct {
	searcher Searcher
	logger   *slog.Logger
}

func New(searcher Searcher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{searcher: searcher, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/heirs/search", h.handleSearch)
}

// SearchRequest uses the camelCase field names existing clients send.
type SearchRequest struct {
	DecedentName     string `json:"decedentName"`
	County           string `json:"county,omitempty"`
	LastKnownAddress string `json:"lastKnownAddress,omitempty"`
	MaxResults       int    `json:"maxResults,omitempty"`
}

// handleSearch always answers 200 once the body decodes; an invalid or
// failed search is reported through success=false and error.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SearchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result := h.searcher.Search(ctx, models.BulkSearchRequest{
		DecedentName:     req.DecedentName,
		County:           req.County,
		LastKnownAddress: req.LastKnownAddress,
		MaxResults:       req.MaxResults,
	})
	httputil.WriteJSON(w, http.StatusOK, result)
}
