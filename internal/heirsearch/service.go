// Package heirsearch aggregates bulk relative searches into a ranked,
// deduplicated list of heir candidates for one decedent.
package heirsearch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"heirfinder/internal/enrichment/models"
	"heirfinder/internal/enrichment/normalize"
	"heirfinder/internal/enrichment/providers"
	"heirfinder/pkg/platform/sentinel"
	"heirfinder/pkg/requestcontext"
)

const (
	defaultConcurrency = 4
	defaultPageLimit   = 5
	defaultPageSize    = 25
	defaultCacheTTL    = 15 * time.Minute

	variantTargeted = "targeted"
	variantBroad    = "broad"
)

// SourceProvider yields the bulk sources usable by an account.
type SourceProvider interface {
	BulkSources(ctx context.Context, accountID string) []providers.BulkSource
}

// StaticSources serves the same sources to every account.
type StaticSources []providers.BulkSource

func (s StaticSources) BulkSources(context.Context, string) []providers.BulkSource {
	return s
}

// Cache stores finished search envelopes. Get returns sentinel.ErrNotFound
// on a miss.
type Cache interface {
	Get(ctx context.Context, key string) (models.BulkSearchResult, error)
	Set(ctx context.Context, key string, result models.BulkSearchResult, ttl time.Duration) error
}

type Service struct {
	sources     SourceProvider
	cache       Cache
	cacheTTL    time.Duration
	logger      *slog.Logger
	metrics     *Metrics
	concurrency int
	pageLimit   int
	pageSize    int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithCache serves repeated searches from c for ttl (15 minutes when ttl <= 0).
func WithCache(c Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithConcurrency bounds the number of page fetches in flight.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithPageLimit caps how many pages are read per query.
func WithPageLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageLimit = n
		}
	}
}

func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

func New(sources SourceProvider, opts ...Option) *Service {
	s := &Service{
		sources:     sources,
		cacheTTL:    defaultCacheTTL,
		logger:      slog.Default(),
		concurrency: defaultConcurrency,
		pageLimit:   defaultPageLimit,
		pageSize:    defaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// unit is one (source, query variant) pair. Pages of a unit are fetched
// independently and merged in page order.
type unit struct {
	source  providers.BulkSource
	variant string
	query   models.PageQuery
	pages   []models.Page
	errs    []error
}

func (u *unit) provenance() string {
	return u.source.ID().String() + ":" + u.variant
}

// Search never returns an error: failures are reported through the
// envelope's Success and Error fields.
func (s *Service) Search(ctx context.Context, req models.BulkSearchRequest) models.BulkSearchResult {
	start := time.Now()
	norm, err := req.Normalize()
	if err != nil {
		s.metrics.ObserveSearch(outcomeInvalid, 0, start)
		return s.failure(ctx, norm, err.Error())
	}

	// Sources are resolved before the cache so an account that lost its bulk
	// credentials is not served earlier results.
	accountID := requestcontext.AccountID(ctx)
	sources := s.sources.BulkSources(ctx, accountID)
	if len(sources) == 0 {
		s.metrics.ObserveSearch(outcomeFailed, 0, start)
		return s.failure(ctx, norm, providers.ErrNoProvidersAvailable.Error())
	}

	key := cacheKey(accountID, norm, sources)
	if cached, ok := s.cached(ctx, key); ok {
		s.metrics.ObserveSearch(outcomeCached, cached.TotalFound, start)
		return cached
	}

	units := s.plan(sources, norm)
	s.fetch(ctx, units)

	var (
		hits      []scoredHit
		succeeded int
		failures  []string
		// incomplete marks a result missing a query or page that failed.
		incomplete bool
	)
	for _, u := range units {
		if u.errs[0] != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", u.provenance(), u.errs[0]))
			incomplete = true
			s.logger.WarnContext(ctx, "bulk heir query failed",
				"provider", u.source.ID().String(),
				"variant", u.variant,
				"kind", string(providers.KindOf(u.errs[0])),
				"error", u.errs[0],
				"request_id", requestcontext.RequestID(ctx),
			)
			continue
		}
		succeeded++
		for i, page := range u.pages {
			if i > 0 && u.errs[i] != nil {
				incomplete = true
				s.logger.WarnContext(ctx, "bulk heir page failed, keeping earlier pages",
					"provider", u.source.ID().String(),
					"variant", u.variant,
					"page", i+1,
					"error", u.errs[i],
				)
				break
			}
			for _, h := range page.Hits {
				hits = append(hits, scoredHit{hit: h, provenance: u.provenance()})
			}
			if !page.HasMore {
				break
			}
		}
	}

	if succeeded == 0 {
		s.metrics.ObserveSearch(outcomeFailed, 0, start)
		return s.failure(ctx, norm, providers.ErrAllProvidersFailed.Error()+": "+strings.Join(failures, "; "))
	}

	candidates := rank(dedupe(hits), norm.County)
	result := envelope(ctx, norm)
	result.Success = true
	result.TotalFound = len(candidates)
	if len(candidates) > norm.MaxResults {
		candidates = candidates[:norm.MaxResults]
	}
	result.PotentialHeirs = candidates

	if !incomplete {
		s.store(ctx, key, result)
	}
	s.metrics.ObserveSearch(outcomeSuccess, result.TotalFound, start)
	s.logger.InfoContext(ctx, "bulk heir search completed",
		"total_found", result.TotalFound,
		"returned", len(result.PotentialHeirs),
		"queries", len(units),
		"failed_queries", len(failures),
		"request_id", requestcontext.RequestID(ctx),
	)
	return result
}

// plan builds the queries for each source: a targeted query when county or
// address hints were given, and always a broad name-only query.
func (s *Service) plan(sources []providers.BulkSource, req models.BulkSearchRequest) []*unit {
	broad := models.PageQuery{DecedentName: req.DecedentName, PageSize: s.pageSize}
	hinted := req.County != "" || req.LastKnownAddress != ""

	units := make([]*unit, 0, 2*len(sources))
	for _, src := range sources {
		if hinted {
			targeted := broad
			targeted.County = req.County
			targeted.LastKnownAddress = req.LastKnownAddress
			units = append(units, s.newUnit(src, variantTargeted, targeted))
		}
		units = append(units, s.newUnit(src, variantBroad, broad))
	}
	return units
}

func (s *Service) newUnit(src providers.BulkSource, variant string, q models.PageQuery) *unit {
	return &unit{
		source:  src,
		variant: variant,
		query:   q,
		pages:   make([]models.Page, s.pageLimit),
		errs:    make([]error, s.pageLimit),
	}
}

// fetch reads the first page of every unit, then the remaining pages of
// units that reported more, all through one bounded pool per phase.
func (s *Service) fetch(ctx context.Context, units []*unit) {
	first := new(errgroup.Group)
	first.SetLimit(s.concurrency)
	for _, u := range units {
		first.Go(func() error {
			s.fetchPage(ctx, u, 1)
			return nil
		})
	}
	_ = first.Wait()

	rest := new(errgroup.Group)
	rest.SetLimit(s.concurrency)
	for _, u := range units {
		if u.errs[0] != nil || !u.pages[0].HasMore {
			continue
		}
		last := s.pageLimit
		if total := u.pages[0].Total; total > 0 && s.pageSize > 0 {
			if n := (total + s.pageSize - 1) / s.pageSize; n < last {
				last = n
			}
		}
		for page := 2; page <= last; page++ {
			rest.Go(func() error {
				s.fetchPage(ctx, u, page)
				return nil
			})
		}
	}
	_ = rest.Wait()
}

func (s *Service) fetchPage(ctx context.Context, u *unit, page int) {
	q := u.query
	q.Page = page
	start := time.Now()
	got, err := u.source.SearchRelatives(ctx, q)
	outcome := "success"
	if err != nil {
		err = providers.AsProviderError(u.source.ID(), err)
		outcome = string(providers.KindOf(err))
	}
	s.metrics.ObservePage(u.source.ID().String(), outcome, start)
	u.pages[page-1] = got
	u.errs[page-1] = err
}

func (s *Service) cached(ctx context.Context, key string) (models.BulkSearchResult, bool) {
	if s.cache == nil {
		return models.BulkSearchResult{}, false
	}
	res, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "heir search cache read failed", "error", err)
		}
		return models.BulkSearchResult{}, false
	}
	return res, true
}

func (s *Service) store(ctx context.Context, key string, res models.BulkSearchResult) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, res, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "heir search cache write failed", "error", err)
	}
}

func (s *Service) failure(ctx context.Context, req models.BulkSearchRequest, msg string) models.BulkSearchResult {
	res := envelope(ctx, req)
	res.Error = msg
	s.logger.InfoContext(ctx, "bulk heir search failed",
		"error", msg,
		"request_id", requestcontext.RequestID(ctx),
	)
	return res
}

func envelope(ctx context.Context, req models.BulkSearchRequest) models.BulkSearchResult {
	res := models.BulkSearchResult{
		DecedentName:    req.DecedentName,
		PotentialHeirs:  []models.HeirCandidate{},
		SearchTimestamp: requestcontext.Now(ctx).UTC().Format(time.RFC3339),
	}
	if req.County != "" {
		county := req.County
		res.SearchCounty = &county
	}
	return res
}

// cacheKey covers the account, the normalized query and the sources that
// answered it, so a change in the account's bulk providers misses the cache.
func cacheKey(accountID string, req models.BulkSearchRequest, sources []providers.BulkSource) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\x00%d",
		accountID,
		normalize.Name(req.DecedentName),
		normalize.County(req.County),
		normalize.Address(req.LastKnownAddress),
		req.MaxResults,
	)
	for _, src := range sources {
		fmt.Fprintf(h, "\x00%s", src.ID())
	}
	return "heirsearch:" + hex.EncodeToString(h.Sum(nil))
}
