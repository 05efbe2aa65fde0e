package bot

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prospector/internal/bot/session"
)

func newTestGateway(t *testing.T, secret string) (*Gateway, *botFixture) {
	f := newBotFixture(t, &fakeSearcher{}, &fakeUpstream{})
	g, err := NewGateway(f.bot, secret, f.bot.log)
	require.NoError(t, err)
	return g, f
}

func postEvent(t *testing.T, handler http.Handler, body, secret string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("X-Gateway-Token", secret)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestGateway_Healthz(t *testing.T) {
	g, _ := newTestGateway(t, "")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	g.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestGateway_Metrics(t *testing.T) {
	g, _ := newTestGateway(t, "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	g.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGateway_EventAccepted(t *testing.T) {
	g, f := newTestGateway(t, "")

	rec := postEvent(t, g.Router(),
		`{"type":"message","channel":"C1","thread":"T1","user":"U1","text":"prospecting"}`, "")

	assert.Equal(t, http.StatusOK, rec.Code)

	// Dispatch is asynchronous; wait for the session to appear.
	require.Eventually(t, func() bool {
		sess, err := f.sessions.Get(t.Context(), "C1", "T1")
		return err == nil && sess != nil && sess.Stage == session.StageAwaitingFilters
	}, time.Second, 5*time.Millisecond)
}

func TestGateway_SharedSecret(t *testing.T) {
	g, _ := newTestGateway(t, "s3cret")
	router := g.Router()

	rec := postEvent(t, router, `{"type":"message","channel":"C1","text":"hi"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postEvent(t, router, `{"type":"message","channel":"C1","text":"hi"}`, "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postEvent(t, router, `{"type":"message","channel":"C1","text":"hi"}`, "s3cret")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGateway_RejectsMalformedPayloads(t *testing.T) {
	g, _ := newTestGateway(t, "")
	router := g.Router()

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{broken`},
		{"missing channel", `{"type":"message","text":"hi"}`},
		{"missing text", `{"type":"message","channel":"C1"}`},
		{"empty type", `{"type":"","channel":"C1","text":"hi"}`},
		{"wrong field type", `{"type":"message","channel":7,"text":"hi"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postEvent(t, router, tt.body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
