package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"heirfinder/internal/enrichment/models"
	"heirfinder/internal/enrichment/providers"
	"heirfinder/internal/heirsearch"
	"heirfinder/pkg/testutil"
)

type pagedSource struct {
	page models.Page
}

func (p pagedSource) ID() models.ProviderID { return "endato" }

func (p pagedSource) SearchRelatives(context.Context, models.PageQuery) (models.Page, error) {
	return p.page, nil
}

func newRouter(sources ...providers.BulkSource) http.Handler {
	svc := heirsearch.New(heirsearch.StaticSources(sources))
	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r
}

func TestHandleSearch(t *testing.T) {
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	router := newRouter(pagedSource{page: models.Page{Hits: []models.RelativeHit{
		{Name: "Alice Smith", Relation: "Daughter", Confidence: 0.9, Address: "12 Main St", County: "Travis County"},
	}}})

	testutil.Given(t, "a decedent with one known relative", func(t *testing.T) {
		testutil.When(t, "the search names the decedent and county", func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/heirs/search", map[string]any{
				"decedentName": "Robert Smith",
				"county":       "Travis",
				"maxResults":   3,
			})
			rr := testutil.DoRequest(router, testutil.WithTime(req, now))

			testutil.Then(t, "the envelope lists the candidate", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				assert.JSONEq(t, `{
					"success": true,
					"decedent_name": "Robert Smith",
					"search_county": "Travis",
					"total_found": 1,
					"potential_heirs": [{
						"name": "Alice Smith",
						"relation": "Daughter",
						"confidence": 0.9,
						"address": "12 Main St",
						"county": "Travis County",
						"provenance": ["endato:broad", "endato:targeted"]
					}],
					"search_timestamp": "2026-06-01T08:00:00Z"
				}`, rr.Body.String())
			})
		})

		testutil.When(t, "the decedent name is missing", func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/heirs/search", map[string]any{"county": "Travis"})
			rr := testutil.DoRequest(router, testutil.WithTime(req, now))

			testutil.Then(t, "the same envelope shape reports the failure", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				assert.JSONEq(t, `{
					"success": false,
					"decedent_name": "",
					"search_county": "Travis",
					"total_found": 0,
					"potential_heirs": [],
					"search_timestamp": "2026-06-01T08:00:00Z",
					"error": "decedentName is required"
				}`, rr.Body.String())
			})
		})
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/v1/heirs/search", "not json"))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})
}

func TestHandleSearchWithoutProviders(t *testing.T) {
	req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/heirs/search", map[string]any{"decedentName": "Robert Smith"})
	rr := testutil.DoRequest(newRouter(), req)

	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "success", false)
}
