// Package prospect runs the full prospecting pipeline: compile the query
// text, search companies, enrich with people, filter by role, flatten
// contacts.
package prospect

import (
	"context"
	"time"

	"prospector/internal/aviato"
	"prospector/internal/common/logger"
	"prospector/internal/common/metrics"
	"prospector/internal/pipeline/contacts"
	"prospector/internal/pipeline/enrich"
	"prospector/internal/pipeline/filters"
	"prospector/internal/pipeline/roles"
	"prospector/internal/pipeline/searchreq"
)

// Searcher is the slice of the Aviato client the service needs directly.
type Searcher interface {
	SearchCompanies(ctx context.Context, dsl aviato.SearchDSL) (*aviato.SearchResult, error)
}

// Options tune one prospecting run.
type Options struct {
	EnrichPeople bool
	EnrichLimit  int
	Roles        []string
}

// DefaultOptions enriches up to the default limit without role filtering.
func DefaultOptions() Options {
	return Options{EnrichPeople: true, EnrichLimit: enrich.DefaultLimit}
}

// Result is the outcome of one prospecting run. Contacts and ContactMetrics
// are only populated when role filtering was requested.
type Result struct {
	Items          []aviato.Company   `json:"items"`
	Count          int                `json:"count"`
	Contacts       []contacts.Contact `json:"contacts,omitempty"`
	ContactsCount  int                `json:"contacts_count"`
	ContactMetrics *contacts.Metrics  `json:"contact_metrics,omitempty"`
}

type Service struct {
	compiler  *filters.Compiler
	builder   *searchreq.Builder
	searcher  Searcher
	enricher  *enrich.Orchestrator
	matcher   *roles.Matcher
	flattener *contacts.Flattener
	log       logger.Logger
}

func NewService(
	compiler *filters.Compiler,
	builder *searchreq.Builder,
	searcher Searcher,
	enricher *enrich.Orchestrator,
	matcher *roles.Matcher,
	flattener *contacts.Flattener,
	log logger.Logger,
) *Service {
	return &Service{
		compiler:  compiler,
		builder:   builder,
		searcher:  searcher,
		enricher:  enricher,
		matcher:   matcher,
		flattener: flattener,
		log:       log.WithFields(map[string]interface{}{"component": "prospect"}),
	}
}

// Prospect accepts a lightweight text query, builds filters, searches, and
// runs the downstream stages per opts. All stages run sequentially within the
// calling goroutine; any in-pipeline failure degrades to an empty or partial
// result rather than an error.
func (s *Service) Prospect(ctx context.Context, queryText string, opts Options) *Result {
	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("prospect").Observe(time.Since(start).Seconds())
	}()

	filterSet := s.compiler.Compile(queryText)
	s.log.Info("built filters from query text", map[string]interface{}{
		"query": queryText,
	})

	dsl := s.builder.BuildDSL(filterSet)
	searchResult, err := s.searcher.SearchCompanies(ctx, dsl)
	if err != nil || searchResult == nil || len(searchResult.Items) == 0 {
		return &Result{Items: []aviato.Company{}}
	}

	items := searchResult.Items
	if opts.EnrichPeople {
		items = s.enricher.Enrich(ctx, items, opts.EnrichLimit)
	}

	result := &Result{Items: items, Count: len(items)}

	if len(opts.Roles) > 0 {
		result.Items = s.matcher.Match(result.Items, opts.Roles)
		result.Count = len(result.Items)

		contactList, contactMetrics := s.flattener.Flatten(ctx, result.Items)
		result.Contacts = contactList
		result.ContactsCount = len(contactList)
		result.ContactMetrics = &contactMetrics
	}

	return result
}

// Search runs only the compile and search stages, used by the inline search
// command where no people enrichment is wanted.
func (s *Service) Search(ctx context.Context, filterSet filters.FilterSet) []aviato.Company {
	dsl := s.builder.BuildDSL(filterSet)
	searchResult, err := s.searcher.SearchCompanies(ctx, dsl)
	if err != nil || searchResult == nil {
		return nil
	}
	return searchResult.Items
}

// Compile exposes the filter compiler for callers that parse ahead of time.
func (s *Service) Compile(queryText string) filters.FilterSet {
	return s.compiler.Compile(queryText)
}
