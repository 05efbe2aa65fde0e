package prospect

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prospector/internal/aviato"
	"prospector/internal/common/logger"
	"prospector/internal/pipeline/contacts"
	"prospector/internal/pipeline/enrich"
	"prospector/internal/pipeline/filters"
	"prospector/internal/pipeline/roles"
	"prospector/internal/pipeline/searchreq"
)

const serviceTaxonomy = `
seniority:
  - senior
functions:
  Sales:
    titles:
      - sales manager
    keywords:
      - sales
`

type fakeSearcher struct {
	result  *aviato.SearchResult
	err     error
	lastDSL aviato.SearchDSL
}

func (f *fakeSearcher) SearchCompanies(_ context.Context, dsl aviato.SearchDSL) (*aviato.SearchResult, error) {
	f.lastDSL = dsl
	return f.result, f.err
}

// fakeUpstream serves both the people and contact-info fetches.
type fakeUpstream struct {
	founders  map[string][]aviato.Person
	employees map[string][]aviato.Person
	info      map[string]*aviato.ContactInfo
}

func (f *fakeUpstream) Founders(_ context.Context, companyID string) []aviato.Person {
	return f.founders[companyID]
}

func (f *fakeUpstream) Employees(_ context.Context, companyID string) []aviato.Person {
	return f.employees[companyID]
}

func (f *fakeUpstream) ContactInfo(_ context.Context, personID string) *aviato.ContactInfo {
	return f.info[personID]
}

func newTestService(t *testing.T, searcher *fakeSearcher, upstream *fakeUpstream) *Service {
	log := logger.NewTestLogger(t)
	taxonomy, err := roles.Parse([]byte(serviceTaxonomy))
	require.NoError(t, err)

	return NewService(
		filters.NewCompiler(log),
		searchreq.NewBuilder(10000, log),
		searcher,
		enrich.NewOrchestrator(upstream, log),
		roles.NewMatcher(taxonomy, log),
		contacts.NewFlattener(upstream, log),
		log,
	)
}

func salesEmployee(id, name string) aviato.Person {
	return aviato.Person{
		PersonID: id,
		FullName: name,
		PositionList: []aviato.Position{
			{Title: "Sales Manager"},
		},
	}
}

func TestProspect_FullPipeline(t *testing.T) {
	searcher := &fakeSearcher{
		result: &aviato.SearchResult{
			Items: []aviato.Company{
				{ID: "c1", Name: "Acme"},
				{ID: "c2", Name: "NoPeople"},
			},
			Count: 2,
		},
	}
	upstream := &fakeUpstream{
		founders:  map[string][]aviato.Person{"c1": {{FullName: "Founder"}}},
		employees: map[string][]aviato.Person{"c1": {salesEmployee("p1", "Alice")}},
		info: map[string]*aviato.ContactInfo{
			"p1": {Emails: []aviato.Email{{Email: "alice@acme.com", Type: "work"}}},
		},
	}
	svc := newTestService(t, searcher, upstream)

	result := svc.Prospect(context.Background(), "country:Germany", Options{
		EnrichPeople: true,
		EnrichLimit:  50,
		Roles:        []string{"Sales"},
	})

	// NoPeople is dropped by enrichment; Acme survives role matching.
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Acme", result.Items[0].Name)
	assert.Equal(t, 1, result.Count)

	require.Len(t, result.Contacts, 1)
	assert.Equal(t, "Alice", result.Contacts[0].Name)
	assert.Equal(t, "alice@acme.com", result.Contacts[0].Email)
	assert.Equal(t, 1, result.ContactsCount)

	require.NotNil(t, result.ContactMetrics)
	assert.Equal(t, 100.0, result.ContactMetrics.CoverageAnyPct)

	// The query text reached the search DSL.
	require.Len(t, searcher.lastDSL.Filters, 1)
}

func TestProspect_NoRolesSkipsContactStage(t *testing.T) {
	searcher := &fakeSearcher{
		result: &aviato.SearchResult{
			Items: []aviato.Company{{ID: "c1", Name: "Acme"}},
			Count: 1,
		},
	}
	upstream := &fakeUpstream{
		employees: map[string][]aviato.Person{"c1": {salesEmployee("p1", "Alice")}},
	}
	svc := newTestService(t, searcher, upstream)

	result := svc.Prospect(context.Background(), "country:Germany", Options{
		EnrichPeople: true,
		EnrichLimit:  50,
	})

	require.Len(t, result.Items, 1)
	assert.Nil(t, result.Contacts)
	assert.Nil(t, result.ContactMetrics)
}

func TestProspect_SearchFailureYieldsEmptyResult(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("boom")}
	svc := newTestService(t, searcher, &fakeUpstream{})

	result := svc.Prospect(context.Background(), "country:Germany", DefaultOptions())

	assert.Empty(t, result.Items)
	assert.Zero(t, result.Count)
}

func TestProspect_EmptySearchYieldsEmptyResult(t *testing.T) {
	searcher := &fakeSearcher{result: &aviato.SearchResult{}}
	svc := newTestService(t, searcher, &fakeUpstream{})

	result := svc.Prospect(context.Background(), "country:Germany", DefaultOptions())

	assert.Empty(t, result.Items)
}

func TestProspect_EnrichDisabledPassesSearchItemsThrough(t *testing.T) {
	searcher := &fakeSearcher{
		result: &aviato.SearchResult{
			Items: []aviato.Company{{ID: "c1", Name: "Acme"}},
			Count: 1,
		},
	}
	svc := newTestService(t, searcher, &fakeUpstream{})

	result := svc.Prospect(context.Background(), "country:Germany", Options{})

	require.Len(t, result.Items, 1)
	assert.Zero(t, result.Items[0].TotalPeople)
}

func TestSearch_CompileAndSearchOnly(t *testing.T) {
	searcher := &fakeSearcher{
		result: &aviato.SearchResult{
			Items: []aviato.Company{{ID: "c1", Name: "Acme"}},
		},
	}
	svc := newTestService(t, searcher, &fakeUpstream{})

	companies := svc.Search(context.Background(), filters.FilterSet{Country: "Germany"})

	require.Len(t, companies, 1)
	require.Len(t, searcher.lastDSL.Filters, 1)
}

func TestSearch_ErrorReturnsNil(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("boom")}
	svc := newTestService(t, searcher, &fakeUpstream{})

	assert.Nil(t, svc.Search(context.Background(), filters.FilterSet{Country: "Germany"}))
}

func TestCompile_Passthrough(t *testing.T) {
	svc := newTestService(t, &fakeSearcher{}, &fakeUpstream{})

	fs := svc.Compile("country:Germany")
	assert.Equal(t, "Germany", fs.Country)
}
