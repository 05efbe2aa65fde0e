package aviato

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prospector/internal/common/config"
	stderrors "prospector/internal/common/errors"
	"prospector/internal/common/logger"
	"prospector/internal/pacing"
)

// newTestClient points a client at the test server with pacing and backoff
// collapsed so tests stay off the wall clock.
func newTestClient(t *testing.T, server *httptest.Server) *Client {
	c := NewClient(config.AviatoConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	}, logger.NewTestLogger(t))
	c.companyPacer = pacing.NewPacer(0)
	c.contactPacer = pacing.NewPacer(0)
	c.retryPolicy = pacing.Policy{MaxAttempts: 3, Backoff: []time.Duration{time.Millisecond}}
	return c
}

func TestSearchCompanies_PayloadAndAuth(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/company/search", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		json.NewEncoder(w).Encode(SearchResult{
			Items: []Company{{ID: "c1", Name: "Acme"}},
			Count: 1,
		})
	}))
	defer server.Close()

	c := newTestClient(t, server)
	result, err := c.SearchCompanies(context.Background(), SearchDSL{
		Limit: 10000,
		Sort:  []map[string]string{{"totalFunding": "desc"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "Bearer test-key", gotAuth)
	require.Contains(t, gotPayload, "dsl")
	dsl := gotPayload["dsl"].(map[string]interface{})
	assert.Equal(t, float64(10000), dsl["limit"])
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Acme", result.Items[0].Name)
	assert.Equal(t, 1, result.Count)
}

func TestSearchCompanies_NonOKIsTerminal(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad dsl"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server)
	result, err := c.SearchCompanies(context.Background(), SearchDSL{})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 1, calls)

	se, ok := err.(*stderrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, stderrors.ErrCodeUpstreamRejected, se.Code)
	assert.False(t, se.Retryable)
	assert.Contains(t, se.Details, "bad dsl")
}

func TestSearchCompanies_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	c := newTestClient(t, server)
	_, err := c.SearchCompanies(context.Background(), SearchDSL{})

	require.Error(t, err)
	se, ok := err.(*stderrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, stderrors.ErrCodeMalformedResponse, se.Code)
}

func TestFounders_RetriesThrottling(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Equal(t, "/company/c1/founders", r.URL.Path)
		require.Equal(t, "perPage=100&page=1", r.URL.RawQuery)
		if calls < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"founders":[{"fullName":"Alice"}]}`))
	}))
	defer server.Close()

	c := newTestClient(t, server)
	founders := c.Founders(context.Background(), "c1")

	assert.Equal(t, 3, calls)
	require.Len(t, founders, 1)
	assert.Equal(t, "Alice", founders[0].FullName)
}

func TestEmployees_DegradesToEmptyOnExhaustion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := newTestClient(t, server)
	employees := c.Employees(context.Background(), "c1")

	assert.Empty(t, employees)
}

func TestEnrichCompany_WebsiteWinsAndLocationFlattened(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/company/enrich", r.URL.Path)
		require.Equal(t, "https://acme.com", r.URL.Query().Get("website"))
		require.Empty(t, r.URL.Query().Get("linkedinID"))

		w.Write([]byte(`{
			"id": "c1",
			"name": "Acme",
			"totalFunding": 5000000,
			"locationDetails": {
				"country": {"name": "Germany"},
				"region": {"name": "Bavaria"},
				"locality": {"name": "Munich"}
			}
		}`))
	}))
	defer server.Close()

	c := newTestClient(t, server)
	profile, err := c.EnrichCompany(context.Background(), "https://acme.com", "https://linkedin.com/company/acme")

	require.NoError(t, err)
	assert.Equal(t, "c1", profile.ID)
	assert.Equal(t, "Germany", profile.Country)
	assert.Equal(t, "Bavaria", profile.Region)
	assert.Equal(t, "Munich", profile.Locality)
	assert.Equal(t, float64(5000000), profile.TotalFunding)
}

func TestEnrichCompany_LinkedinIDExtraction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "acme-inc", r.URL.Query().Get("linkedinID"))
		w.Write([]byte(`{"id":"c1","name":"Acme"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server)
	_, err := c.EnrichCompany(context.Background(), "", "https://www.linkedin.com/company/acme-inc/")
	require.NoError(t, err)
}

func TestEnrichCompany_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := newTestClient(t, server)
	_, err := c.EnrichCompany(context.Background(), "https://acme.com", "")

	require.Error(t, err)
	se, ok := err.(*stderrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, stderrors.ErrCodeMalformedResponse, se.Code)
}

func TestEnrichCompany_NoArguments(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	c := newTestClient(t, server)
	_, err := c.EnrichCompany(context.Background(), "", "")
	assert.Error(t, err)
}

func TestCompleteEnrichment_SubFailuresAreNonFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/company/enrich":
			w.Write([]byte(`{"id":"c1","name":"Acme"}`))
		case "/company/c1/founders":
			w.Write([]byte(`{"founders":[{"fullName":"Alice"}]}`))
		case "/company/c1/acquisitions":
			w.WriteHeader(http.StatusInternalServerError)
		case "/company/c1/investments":
			w.Write([]byte(`{"investments":[{"name":"Fund I"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := newTestClient(t, server)
	profile, err := c.CompleteEnrichment(context.Background(), "https://acme.com", "")

	require.NoError(t, err)
	assert.Empty(t, profile.Acquisitions)
	require.Len(t, profile.Founders, 1)
	require.Len(t, profile.Investors, 1)
	assert.Equal(t, "Fund I", profile.Investors[0].Name)
}

func TestContactInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/person/p1/contact-info", r.URL.Path)
		w.Write([]byte(`{"emails":[{"email":"a@x.com","type":"work"}]}`))
	}))
	defer server.Close()

	c := newTestClient(t, server)

	info := c.ContactInfo(context.Background(), "p1")
	require.NotNil(t, info)
	require.Len(t, info.Emails, 1)
	assert.Equal(t, "a@x.com", info.Emails[0].Email)

	// Empty person id short-circuits without a request.
	assert.Nil(t, c.ContactInfo(context.Background(), ""))
}

func TestContactInfo_TerminalFailureReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := newTestClient(t, server)
	assert.Nil(t, c.ContactInfo(context.Background(), "p1"))
}

func TestLinkedinIDFromURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.linkedin.com/company/acme", "acme"},
		{"https://www.linkedin.com/company/acme/", "acme"},
		{"https://linkedin.com/company/acme-inc-2", "acme-inc-2"},
		{"acme", "acme"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LinkedinIDFromURL(tt.in))
	}
}
